package publishers

import (
	"time"
)

const (
	StatusNotified = "notified"
	StatusFailed   = "failed"
	StatusDryRun   = "dry_run"
)

// Event records one notification attempt for downstream auditing.
type Event struct {
	RunID       string    `json:"run_id"`
	Contributor string    `json:"contributor"`
	Nomination  string    `json:"nomination"`
	TalkPage    string    `json:"talk_page"`
	Status      string    `json:"status"`
	Error       string    `json:"error,omitempty"`
	RevisionID  int64     `json:"revision_id,omitempty"`
	NotifiedAt  time.Time `json:"notified_at"`
}

// NewEvent constructs an Event for a contributor + nomination pair.
func NewEvent(runID, contributor, nomination, talkPage, status string) Event {
	return Event{
		RunID:       runID,
		Contributor: contributor,
		Nomination:  nomination,
		TalkPage:    talkPage,
		Status:      status,
		NotifiedAt:  time.Now().UTC(),
	}
}

// attributes are the routing attributes attached by queue-based publishers.
func (e Event) attributes() map[string]string {
	return map[string]string{
		"run_id": e.RunID,
		"status": e.Status,
	}
}
