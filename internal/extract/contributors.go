// Package extract recovers contributor usernames from nomination wikitext.
//
// The parser is a string-search heuristic over signature markup. It only looks at
// the first <small>...</small> span and only understands standard signatures of the
// form [[User talk:Name|talk]]. Callers depend on Contributors alone so the heuristic
// can be swapped for a structured parser later.
package extract

import (
	"strings"

	"github.com/Adda-Baaj/dyk-notifier/internal/domain"
)

const (
	smallOpen  = "<small>"
	smallClose = "</small>"
	talkPrefix = "User talk:"
	talkSuffix = "|talk"
)

// Contributors extracts the contributors credited in the signature block of a nomination.
// found is false when the text has no <small> span at all. A missing </small> extends the
// span to the end of the text. Usernames seen more than once in the span are dropped.
func Contributors(wikitext, nomination string) (bool, domain.Targets) {
	block, ok := SignatureBlock(wikitext)
	if !ok {
		return false, domain.Targets{}
	}

	names := PurgeAmbiguous(talkPageUsernames(block))

	targets := make(domain.Targets, len(names))
	for _, name := range names {
		targets[name] = nomination
	}
	return true, targets
}

// SignatureBlock returns the text between the first <small> and the first </small> after it.
func SignatureBlock(wikitext string) (string, bool) {
	start := strings.Index(wikitext, smallOpen)
	if start < 0 {
		return "", false
	}
	rest := wikitext[start:]
	if end := strings.Index(rest, smallClose); end >= 0 {
		return rest[:end], true
	}
	return rest, true
}

// talkPageUsernames captures the text between each "User talk:" and the next "|talk".
// Occurrences without a following "|talk" and empty captures are skipped.
func talkPageUsernames(block string) []string {
	var names []string
	for {
		i := strings.Index(block, talkPrefix)
		if i < 0 {
			return names
		}
		block = block[i+len(talkPrefix):]

		end := strings.Index(block, talkSuffix)
		if end < 0 {
			return names
		}
		if name := block[:end]; name != "" {
			names = append(names, name)
		}
	}
}
