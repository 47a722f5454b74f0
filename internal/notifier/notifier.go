// Package notifier posts DYK nomination notices to contributors' talk pages.
package notifier

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/Adda-Baaj/dyk-notifier/internal/domain"
	"github.com/Adda-Baaj/dyk-notifier/internal/logger"
	"github.com/Adda-Baaj/dyk-notifier/pkg/publishers"
)

// TalkPageWriter appends text to a wiki page.
type TalkPageWriter interface {
	AppendText(ctx context.Context, title, text, summary string, bot bool) (domain.EditResult, error)
}

// EventPublisher receives one event per notification attempt.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}

// ConfirmFunc is asked before each edit. Returning false stops the run without error.
type ConfirmFunc func(contributor, nomination string) (bool, error)

// Options controls how notices are delivered.
type Options struct {
	Notice     Notice
	Bot        bool
	DryRun     bool
	Confirm    ConfirmFunc
	Events     EventPublisher
	RunID      string
	StartCount int
}

// Report summarizes one Notify call.
type Report struct {
	Attempted int
	Notified  int
	Failed    int
	Skipped   int
	Stopped   bool
}

// Notifier delivers notices for an aggregated target mapping.
type Notifier struct {
	writer TalkPageWriter
	opts   Options
	log    logger.Logger
}

// New builds a notifier writing through writer.
func New(writer TalkPageWriter, opts Options, log logger.Logger) *Notifier {
	return &Notifier{writer: writer, opts: opts, log: logger.Ensure(log)}
}

// Notify sends one notice per contributor, in contributor order. A failed write is logged and
// the remaining contributors are still attempted; all write failures are joined into the
// returned error. Cancellation stops the loop before the next contributor.
func (n *Notifier) Notify(ctx context.Context, targets domain.Targets) (Report, error) {
	var report Report
	if n == nil || n.writer == nil {
		return report, fmt.Errorf("notifier is not initialized")
	}

	contributors := make([]string, 0, len(targets))
	for contributor := range targets {
		contributors = append(contributors, contributor)
	}
	sort.Strings(contributors)

	var errs []error
	for _, contributor := range contributors {
		if err := ctx.Err(); err != nil {
			errs = append(errs, fmt.Errorf("notify: %w", err))
			break
		}

		nomination := targets[contributor]
		if n.opts.Confirm != nil {
			ok, err := n.opts.Confirm(contributor, nomination)
			if err != nil {
				errs = append(errs, fmt.Errorf("confirm %s: %w", contributor, err))
				break
			}
			if !ok {
				report.Stopped = true
				n.log.InfoObj("notifications stopped by operator", "notify_stop", map[string]any{
					"contributor": contributor,
					"notified":    n.opts.StartCount + report.Notified,
				})
				break
			}
		}

		if err := n.notifyOne(ctx, contributor, nomination, &report); err != nil {
			errs = append(errs, err)
		}
	}

	n.log.InfoObj("notifications finished", "notify_report", map[string]any{
		"targets":   len(targets),
		"attempted": report.Attempted,
		"notified":  report.Notified,
		"failed":    report.Failed,
		"skipped":   report.Skipped,
		"stopped":   report.Stopped,
	})
	return report, errors.Join(errs...)
}

func (n *Notifier) notifyOne(ctx context.Context, contributor, nomination string, report *Report) error {
	page := TalkPage(contributor)
	text := n.opts.Notice.Text(nomination)
	summary := n.opts.Notice.EditSummary(nomination)

	if n.opts.DryRun {
		report.Skipped++
		n.log.InfoObj("dry run: notice not written", "notify_dry_run", map[string]any{
			"talk_page":  page,
			"nomination": nomination,
			"text":       text,
			"summary":    summary,
		})
		n.publish(ctx, publishers.NewEvent(n.opts.RunID, contributor, nomination, page, publishers.StatusDryRun))
		return nil
	}

	report.Attempted++
	res, err := n.writer.AppendText(ctx, page, text, summary, n.opts.Bot)
	if err != nil {
		report.Failed++
		n.log.ErrorObj("talk page write failed", "notify_error", map[string]any{
			"talk_page":  page,
			"nomination": nomination,
			"error":      err.Error(),
		})
		evt := publishers.NewEvent(n.opts.RunID, contributor, nomination, page, publishers.StatusFailed)
		evt.Error = err.Error()
		n.publish(ctx, evt)
		return fmt.Errorf("notify %s: %w", contributor, err)
	}

	report.Notified++
	n.log.InfoObj("contributor notified", "notify_result", map[string]any{
		"talk_page":  page,
		"nomination": nomination,
		"result":     res.Result,
		"revision":   res.NewRevID,
		"no_change":  res.NoChange,
		"count":      n.opts.StartCount + report.Notified,
	})
	evt := publishers.NewEvent(n.opts.RunID, contributor, nomination, page, publishers.StatusNotified)
	evt.RevisionID = res.NewRevID
	n.publish(ctx, evt)
	return nil
}

// publish forwards evt to the event sinks. Failures never affect the notification itself.
func (n *Notifier) publish(ctx context.Context, evt publishers.Event) {
	if n.opts.Events == nil {
		return
	}
	if _, err := n.opts.Events.Publish(ctx, evt); err != nil {
		n.log.WarnObj("notification event publish failed", "event_error", map[string]any{
			"contributor": evt.Contributor,
			"status":      evt.Status,
			"error":       err.Error(),
		})
	}
}
