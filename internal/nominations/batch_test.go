package nominations

import (
	"slices"
	"strings"
	"testing"
)

func TestSplitIntoBatchesEmpty(t *testing.T) {
	if got := SplitIntoBatches(nil, 50); len(got) != 0 {
		t.Fatalf("expected no batches, got %v", got)
	}
	if got := SplitIntoBatches([]string{}, 50); len(got) != 0 {
		t.Fatalf("expected no batches, got %v", got)
	}
}

func TestSplitIntoBatchesFiftyOne(t *testing.T) {
	ids := titles(51)
	batches := SplitIntoBatches(ids, 50)
	if len(batches) != 2 {
		t.Fatalf("expected 2 batches, got %d", len(batches))
	}

	first := strings.Split(batches[0], "|")
	second := strings.Split(batches[1], "|")
	if !slices.Equal(first, ids[:50]) {
		t.Fatalf("first batch has %d titles, want the first 50", len(first))
	}
	if !slices.Equal(second, []string{ids[50]}) {
		t.Fatalf("second batch = %v, want the last title", second)
	}
}

func TestSplitIntoBatchesSingle(t *testing.T) {
	if got := SplitIntoBatches([]string{"A"}, 50); !slices.Equal(got, []string{"A"}) {
		t.Fatalf("unexpected batches %v", got)
	}
}

func TestSplitIntoBatchesExactMultiple(t *testing.T) {
	if got := SplitIntoBatches([]string{"A", "B", "C", "D"}, 2); !slices.Equal(got, []string{"A|B", "C|D"}) {
		t.Fatalf("unexpected batches %v", got)
	}
}

func TestSplitIntoBatchesDefaultsSize(t *testing.T) {
	if got := SplitIntoBatches(titles(101), 0); len(got) != 3 {
		t.Fatalf("expected default size 50 to give 3 batches, got %d", len(got))
	}
}
