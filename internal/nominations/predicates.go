package nominations

import (
	"strings"

	"github.com/Adda-Baaj/dyk-notifier/internal/domain"
)

// Predicate decides whether a nomination should be pruned from the working set.
type Predicate func(domain.PageSnapshot) bool

var resolvedCategories = []string{
	"Passed DYK nominations",
	"Failed DYK nominations",
}

const selfNominationMarker = "Self nominated"

// IsResolved reports whether the nomination has been passed or failed. A page with no
// categories has not been closed yet.
func IsResolved(page domain.PageSnapshot) bool {
	for _, cat := range page.Categories {
		for _, marker := range resolvedCategories {
			if strings.Contains(cat, marker) {
				return true
			}
		}
	}
	return false
}

// IsSelfNominated reports whether the nomination text carries the self-nomination marker.
func IsSelfNominated(page domain.PageSnapshot) bool {
	return page.HasContent && strings.Contains(page.Content, selfNominationMarker)
}
