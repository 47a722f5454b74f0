package notifier

import "strings"

const (
	talkNamespace   = "User talk:"
	nominationToken = "{nomination}"
	noticeSeparator = "\n\n"
)

// Notice composes the talk-page message and edit summary for a nomination.
type Notice struct {
	// Template is substituted on the talk page, e.g. "User:APersonBot/DYKNotice".
	Template string
	// Extra is appended as a trailing template parameter when set.
	Extra string
	// StripPrefix is removed from the nomination title before it becomes the template argument.
	StripPrefix string
	// Summary may contain {nomination}, replaced by the full nomination title.
	Summary string
}

// Text returns the wikitext appended to the contributor's talk page.
func (n Notice) Text(nomination string) string {
	arg := nomination
	if n.StripPrefix != "" {
		arg = strings.TrimPrefix(arg, n.StripPrefix)
	}

	var b strings.Builder
	b.WriteString(noticeSeparator)
	b.WriteString("{{subst:")
	b.WriteString(n.Template)
	b.WriteString("|")
	b.WriteString(arg)
	if n.Extra != "" {
		b.WriteString("|")
		b.WriteString(n.Extra)
	}
	b.WriteString("}}")
	return b.String()
}

// EditSummary returns the summary for the edit notifying about nomination.
func (n Notice) EditSummary(nomination string) string {
	return strings.ReplaceAll(n.Summary, nominationToken, nomination)
}

// TalkPage returns the talk page title for contributor.
func TalkPage(contributor string) string {
	return talkNamespace + contributor
}
