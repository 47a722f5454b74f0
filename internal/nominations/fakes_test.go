package nominations

import (
	"context"
	"fmt"
	"strings"

	"github.com/Adda-Baaj/dyk-notifier/internal/domain"
)

// fakeReader serves snapshots from a map and records every batch it was asked for.
type fakeReader struct {
	pages   map[string]domain.PageSnapshot
	batches []string
	fields  [][]domain.PageField
	failOn  int // 1-based call number that fails; 0 never fails
}

func (f *fakeReader) QueryPages(_ context.Context, titles string, fields ...domain.PageField) ([]domain.PageSnapshot, error) {
	f.batches = append(f.batches, titles)
	f.fields = append(f.fields, fields)
	if f.failOn == len(f.batches) {
		return nil, fmt.Errorf("read timeout")
	}

	var out []domain.PageSnapshot
	for _, title := range strings.Split(titles, "|") {
		page, ok := f.pages[title]
		if !ok {
			out = append(out, domain.PageSnapshot{Title: title, Missing: true})
			continue
		}
		page.Title = title
		out = append(out, page)
	}
	return out, nil
}

func content(text string) domain.PageSnapshot {
	return domain.PageSnapshot{Content: text, HasContent: true}
}

func titles(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("Template:Did you know nominations/N%02d", i)
	}
	return out
}
