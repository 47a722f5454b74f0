package nominations

import (
	"context"
	"maps"
	"strings"
	"testing"

	"github.com/Adda-Baaj/dyk-notifier/internal/domain"
)

func TestAggregatorCollectsContributors(t *testing.T) {
	reader := &fakeReader{pages: map[string]domain.PageSnapshot{
		"A": content("<small>Created by [[User:Alice|Alice]] ([[User talk:Alice|talk]])</small>"),
		"C": content("<small>[[User talk:Bob|talk]] and [[User talk:Carol|talk]]</small>"),
		"D": content("no signature"),
		"E": {},
	}}
	set := NewWorkingSet([]string{"A", "C", "D", "E"})

	targets, err := NewAggregator(reader, 50, nil).Collect(context.Background(), set)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	want := domain.Targets{"Alice": "A", "Bob": "C", "Carol": "C"}
	if !maps.Equal(targets, want) {
		t.Fatalf("Collect() = %v, want %v", targets, want)
	}
}

func TestAggregatorLastNominationWins(t *testing.T) {
	reader := &fakeReader{pages: map[string]domain.PageSnapshot{
		"First":  content("<small>[[User talk:Alice|talk]]</small>"),
		"Second": content("<small>[[User talk:Alice|talk]] [[User talk:Bob|talk]]</small>"),
	}}
	set := NewWorkingSet([]string{"First", "Second"})

	targets, err := NewAggregator(reader, 1, nil).Collect(context.Background(), set)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if targets["Alice"] != "Second" || targets["Bob"] != "Second" {
		t.Fatalf("expected the later nomination to win, got %v", targets)
	}
	if len(reader.batches) != 2 {
		t.Fatalf("expected 2 batches, got %d", len(reader.batches))
	}
}

func TestAggregatorPropagatesReadFailure(t *testing.T) {
	reader := &fakeReader{failOn: 1}
	_, err := NewAggregator(reader, 50, nil).Collect(context.Background(), NewWorkingSet([]string{"A"}))
	if err == nil || !strings.Contains(err.Error(), "aggregate: batch 1/1") {
		t.Fatalf("expected batch in error, got %v", err)
	}
}
