// Package app wires the wiki client, nomination pipeline, notifier and event publishers into
// the two runnable variants: the full bot and the notify-only companion.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Adda-Baaj/dyk-notifier/internal/config"
	"github.com/Adda-Baaj/dyk-notifier/internal/logger"
	"github.com/Adda-Baaj/dyk-notifier/internal/nominations"
	"github.com/Adda-Baaj/dyk-notifier/internal/notifier"
	"github.com/Adda-Baaj/dyk-notifier/pkg/publishers"
)

// Wiki is everything the bot reads from and writes to the wiki.
type Wiki interface {
	nominations.TrackingSource
	nominations.PageReader
	notifier.TalkPageWriter
}

// Bot runs one full pass: scrape, filter, aggregate, notify.
type Bot struct {
	cfg    *config.Config
	wiki   Wiki
	fanout *publishers.Fanout
	runID  string
	log    logger.Logger
}

// NewBot builds a bot runtime from config, logging in when credentials are set.
func NewBot(ctx context.Context, cfg *config.Config, log logger.Logger) (*Bot, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	log = logger.Ensure(log)
	if ctx == nil {
		ctx = context.Background()
	}

	wiki, err := newWikiClient(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	fanout, err := newEventFanout(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	return newBot(cfg, wiki, fanout, log), nil
}

func newBot(cfg *config.Config, wiki Wiki, fanout *publishers.Fanout, log logger.Logger) *Bot {
	return &Bot{
		cfg:    cfg,
		wiki:   wiki,
		fanout: fanout,
		runID:  uuid.NewString(),
		log:    logger.Ensure(log),
	}
}

// Run executes the pipeline once. Stages run strictly in order; a read failure aborts the run,
// write failures are returned after every contributor was attempted.
func (b *Bot) Run(ctx context.Context) error {
	if b == nil || b.wiki == nil {
		return fmt.Errorf("bot is not initialized")
	}
	defer closeFanout(b.fanout, b.log)

	start := time.Now()
	b.log.InfoObj("run started", "run_meta", map[string]any{
		"run_id":     b.runID,
		"dry_run":    b.cfg.DryRun,
		"batch_size": b.cfg.BatchSize,
		"publishers": b.fanout.Size(),
	})

	tracker := nominations.NewTracker(b.wiki, b.cfg.TrackingPage, b.cfg.NominationPrefix, b.cfg.TrackingMode, b.log,
		nominations.WithSiteURL(b.cfg.APIURL))
	titles, err := tracker.Scrape(ctx)
	if err != nil {
		return fmt.Errorf("scrape: %w", err)
	}
	set := nominations.NewWorkingSet(titles)
	b.logStage("scrape", 0, set.Len())

	filter := nominations.NewFilter(b.wiki, b.cfg.BatchSize, b.log)
	for _, stage := range []nominations.Stage{nominations.ResolvedStage, nominations.SelfNominationStage} {
		removed, err := filter.Run(ctx, set, stage)
		if err != nil {
			return fmt.Errorf("filter: %w", err)
		}
		b.logStage(stage.Name, removed, set.Len())
	}

	targets, err := nominations.NewAggregator(b.wiki, b.cfg.BatchSize, b.log).Collect(ctx, set)
	if err != nil {
		return err
	}
	b.log.InfoObj("targets aggregated", "run_stage", map[string]any{
		"stage":       "aggregate",
		"nominations": set.Len(),
		"targets":     len(targets),
	})

	n := notifier.New(b.wiki, notifier.Options{
		Notice: noticeFromConfig(b.cfg),
		Bot:    b.cfg.BotEdit,
		DryRun: b.cfg.DryRun,
		Events: b.fanout,
		RunID:  b.runID,
	}, b.log)
	report, err := n.Notify(ctx, targets)

	b.log.InfoObj("run completed", "run_meta", map[string]any{
		"run_id":     b.runID,
		"notified":   report.Notified,
		"failed":     report.Failed,
		"elapsed_ms": time.Since(start).Milliseconds(),
	})
	return err
}

func (b *Bot) logStage(stage string, removed, remaining int) {
	b.log.InfoObj("stage completed", "run_stage", map[string]any{
		"stage":     stage,
		"removed":   removed,
		"remaining": remaining,
	})
}
