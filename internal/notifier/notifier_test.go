package notifier

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Adda-Baaj/dyk-notifier/internal/domain"
	"github.com/Adda-Baaj/dyk-notifier/pkg/publishers"
)

type edit struct {
	title   string
	text    string
	summary string
	bot     bool
}

type fakeWriter struct {
	edits  []edit
	failOn map[string]bool
}

func (f *fakeWriter) AppendText(_ context.Context, title, text, summary string, bot bool) (domain.EditResult, error) {
	f.edits = append(f.edits, edit{title: title, text: text, summary: summary, bot: bot})
	if f.failOn[title] {
		return domain.EditResult{}, errors.New("protected page")
	}
	return domain.EditResult{Title: title, Result: "Success", NewRevID: int64(len(f.edits))}, nil
}

type fakeEvents struct {
	events []publishers.Event
	err    error
}

func (f *fakeEvents) Publish(_ context.Context, evt publishers.Event) (int, error) {
	f.events = append(f.events, evt)
	if f.err != nil {
		return 0, f.err
	}
	return 1, nil
}

var testNotice = Notice{Template: "DYKNotice", Summary: "notice for {nomination}"}

func TestNotifyWritesOnePerContributorInOrder(t *testing.T) {
	w := &fakeWriter{}
	events := &fakeEvents{}
	n := New(w, Options{Notice: testNotice, Bot: true, Events: events, RunID: "run-1"}, nil)

	report, err := n.Notify(context.Background(), domain.Targets{"carol": "C", "alice": "A", "bob": "C"})
	if err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if report != (Report{Attempted: 3, Notified: 3}) {
		t.Fatalf("unexpected report %+v", report)
	}

	if len(w.edits) != 3 {
		t.Fatalf("expected 3 edits, got %d", len(w.edits))
	}
	first := edit{title: "User talk:alice", text: "\n\n{{subst:DYKNotice|A}}", summary: "notice for A", bot: true}
	if w.edits[0] != first {
		t.Fatalf("unexpected first edit %+v", w.edits[0])
	}
	if w.edits[1].title != "User talk:bob" || w.edits[2].title != "User talk:carol" {
		t.Fatalf("contributors not in order: %+v", w.edits)
	}

	if len(events.events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events.events))
	}
	for _, evt := range events.events {
		if evt.Status != publishers.StatusNotified || evt.RunID != "run-1" {
			t.Fatalf("unexpected event %+v", evt)
		}
	}
	if events.events[0].RevisionID != 1 {
		t.Fatalf("expected revision id on event, got %d", events.events[0].RevisionID)
	}
}

func TestNotifyIsolatesWriteFailures(t *testing.T) {
	w := &fakeWriter{failOn: map[string]bool{"User talk:bob": true}}
	events := &fakeEvents{}
	n := New(w, Options{Notice: testNotice, Events: events}, nil)

	report, err := n.Notify(context.Background(), domain.Targets{"alice": "A", "bob": "B", "carol": "C"})
	if err == nil || !strings.Contains(err.Error(), "notify bob") {
		t.Fatalf("expected bob's failure in error, got %v", err)
	}
	if len(w.edits) != 3 {
		t.Fatalf("expected every contributor attempted, got %d", len(w.edits))
	}
	if report != (Report{Attempted: 3, Notified: 2, Failed: 1}) {
		t.Fatalf("unexpected report %+v", report)
	}

	if len(events.events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events.events))
	}
	if evt := events.events[1]; evt.Status != publishers.StatusFailed || evt.Error != "protected page" {
		t.Fatalf("unexpected failure event %+v", evt)
	}
}

func TestNotifyDryRunWritesNothing(t *testing.T) {
	w := &fakeWriter{}
	events := &fakeEvents{}
	n := New(w, Options{Notice: testNotice, DryRun: true, Events: events}, nil)

	report, err := n.Notify(context.Background(), domain.Targets{"alice": "A", "bob": "B"})
	if err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if len(w.edits) != 0 {
		t.Fatalf("dry run wrote %d edits", len(w.edits))
	}
	if report != (Report{Skipped: 2}) {
		t.Fatalf("unexpected report %+v", report)
	}
	if len(events.events) != 2 || events.events[0].Status != publishers.StatusDryRun {
		t.Fatalf("expected dry-run events, got %+v", events.events)
	}
}

func TestNotifyConfirmStops(t *testing.T) {
	w := &fakeWriter{}
	asked := 0
	confirm := func(contributor, _ string) (bool, error) {
		asked++
		return contributor != "bob", nil
	}
	n := New(w, Options{Notice: testNotice, Confirm: confirm}, nil)

	report, err := n.Notify(context.Background(), domain.Targets{"alice": "A", "bob": "B", "carol": "C"})
	if err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if !report.Stopped || asked != 2 {
		t.Fatalf("expected stop at bob, report=%+v asked=%d", report, asked)
	}
	if len(w.edits) != 1 || w.edits[0].title != "User talk:alice" {
		t.Fatalf("unexpected edits %+v", w.edits)
	}
}

func TestNotifyConfirmError(t *testing.T) {
	w := &fakeWriter{}
	confirm := func(string, string) (bool, error) { return false, errors.New("stdin closed") }
	n := New(w, Options{Notice: testNotice, Confirm: confirm}, nil)

	if _, err := n.Notify(context.Background(), domain.Targets{"alice": "A"}); err == nil {
		t.Fatalf("expected confirm error")
	}
	if len(w.edits) != 0 {
		t.Fatalf("expected no edits")
	}
}

func TestNotifyEventFailureDoesNotFailNotification(t *testing.T) {
	w := &fakeWriter{}
	n := New(w, Options{Notice: testNotice, Events: &fakeEvents{err: errors.New("queue down")}}, nil)

	report, err := n.Notify(context.Background(), domain.Targets{"alice": "A"})
	if err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if report.Notified != 1 {
		t.Fatalf("expected 1 notified, got %+v", report)
	}
}

func TestNotifyStopsOnCancelledContext(t *testing.T) {
	w := &fakeWriter{}
	n := New(w, Options{Notice: testNotice}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := n.Notify(ctx, domain.Targets{"alice": "A"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(w.edits) != 0 {
		t.Fatalf("expected no edits")
	}
}

func TestNotifyEmptyTargets(t *testing.T) {
	report, err := New(&fakeWriter{}, Options{Notice: testNotice}, nil).Notify(context.Background(), domain.Targets{})
	if err != nil || report != (Report{}) {
		t.Fatalf("expected empty report, got %+v %v", report, err)
	}
}

func TestNilNotifier(t *testing.T) {
	var n *Notifier
	_, err := n.Notify(context.Background(), domain.Targets{"a": "b"})
	if err == nil || !strings.Contains(err.Error(), "not initialized") {
		t.Fatalf("expected not initialized error, got %v", err)
	}
}
