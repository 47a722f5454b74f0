package domain

// Domain contains core models shared by the nomination pipeline and the wiki client.

// PageField names a property a page query can request.
type PageField string

const (
	FieldCategories PageField = "categories"
	FieldContent    PageField = "content"
)

// PageSnapshot is the fetched view of one nomination page for a single filter pass.
// Absent fields are valid: Categories is nil when none were returned and HasContent is
// false when the page had no revision content.
type PageSnapshot struct {
	Title      string
	Categories []string
	Content    string
	HasContent bool
	Missing    bool
}

// Targets maps a contributor username to the nomination they are notified about.
type Targets map[string]string

// Merge copies other into t. A contributor already present is overwritten.
func (t Targets) Merge(other Targets) {
	for contributor, nomination := range other {
		t[contributor] = nomination
	}
}

// EditResult is the outcome of a talk-page write as reported by the wiki.
type EditResult struct {
	Title    string
	Result   string
	NewRevID int64
	NoChange bool
}
