package publishers

import (
	"context"
	"errors"
	"fmt"

	"github.com/Adda-Baaj/dyk-notifier/internal/logger"
)

// Fanout delivers each notification event to every configured sink and keeps per-sink
// delivery counts for the end-of-run summary.
type Fanout struct {
	sinks []sink
	log   logger.Logger
}

type sink struct {
	pub       Publisher
	delivered int
	failed    int
}

// NewFanout wraps pubs, skipping nil entries.
func NewFanout(pubs []Publisher, log logger.Logger) *Fanout {
	f := &Fanout{log: logger.Ensure(log)}
	for _, p := range pubs {
		if p != nil {
			f.sinks = append(f.sinks, sink{pub: p})
		}
	}
	return f
}

// Publish sends evt to every sink and returns how many accepted it. A failing sink never
// stops delivery to the others; each failure is logged with the event it lost.
func (f *Fanout) Publish(ctx context.Context, evt Event) (int, error) {
	if f == nil || len(f.sinks) == 0 {
		return 0, nil
	}

	var errs []error
	delivered := 0
	for i := range f.sinks {
		s := &f.sinks[i]
		if err := s.pub.Publish(ctx, evt); err != nil {
			s.failed++
			errs = append(errs, fmt.Errorf("%s publisher[%s]: %w", s.pub.Type(), s.pub.ID(), err))
			f.log.WarnObj("notification event lost", "event_delivery", map[string]any{
				"publisher_id": s.pub.ID(),
				"contributor":  evt.Contributor,
				"nomination":   evt.Nomination,
				"status":       evt.Status,
				"error":        err.Error(),
			})
			continue
		}
		s.delivered++
		delivered++
	}
	return delivered, errors.Join(errs...)
}

// Size returns the number of sinks.
func (f *Fanout) Size() int {
	if f == nil {
		return 0
	}
	return len(f.sinks)
}

// Delivered reports successful and failed deliveries for the sink with the given id.
func (f *Fanout) Delivered(id string) (delivered, failed int) {
	if f == nil {
		return 0, 0
	}
	for _, s := range f.sinks {
		if s.pub.ID() == id {
			return s.delivered, s.failed
		}
	}
	return 0, 0
}

// Close logs the delivery summary and releases sinks holding connections.
func (f *Fanout) Close() error {
	if f == nil || len(f.sinks) == 0 {
		return nil
	}

	summary := make([]map[string]any, 0, len(f.sinks))
	var errs []error
	for _, s := range f.sinks {
		summary = append(summary, map[string]any{
			"publisher_id": s.pub.ID(),
			"type":         s.pub.Type(),
			"delivered":    s.delivered,
			"failed":       s.failed,
		})
		if c, ok := s.pub.(closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close %s publisher[%s]: %w", s.pub.Type(), s.pub.ID(), err))
			}
		}
	}
	f.log.InfoObj("notification events summary", "event_summary", summary)
	return errors.Join(errs...)
}
