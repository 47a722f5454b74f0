package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/Adda-Baaj/dyk-notifier/internal/config"
	"github.com/Adda-Baaj/dyk-notifier/internal/logger"
	"github.com/Adda-Baaj/dyk-notifier/internal/notifier"
	"github.com/Adda-Baaj/dyk-notifier/pkg/mediawiki"
	"github.com/Adda-Baaj/dyk-notifier/pkg/publishers"
)

// newWikiClient builds the API client and logs in when credentials are configured.
func newWikiClient(ctx context.Context, cfg *config.Config, log logger.Logger) (*mediawiki.Client, error) {
	client, err := mediawiki.New(cfg.APIURL,
		mediawiki.WithUserAgent(cfg.UserAgent),
		mediawiki.WithHTTPClient(mediawiki.DefaultHTTPClient(cfg.HTTPTimeout)),
	)
	if err != nil {
		return nil, fmt.Errorf("init wiki client: %w", err)
	}

	if !cfg.HasCredentials() {
		if !cfg.DryRun {
			return nil, errors.New("wiki_username and wiki_password are required unless dry_run is set")
		}
		log.WarnObj("no wiki credentials configured; dry run reads anonymously", "wiki_meta", map[string]any{
			"api_url": cfg.APIURL,
		})
		return client, nil
	}
	if err := client.Login(ctx, cfg.Username, cfg.Password); err != nil {
		return nil, fmt.Errorf("wiki login: %w", err)
	}
	log.InfoObj("logged in to wiki", "wiki_meta", map[string]any{
		"api_url":  cfg.APIURL,
		"username": client.Username(),
	})
	return client, nil
}

// newEventFanout builds the notification event publishers declared in publishers_file.
// No file means no publishers.
func newEventFanout(ctx context.Context, cfg *config.Config, log logger.Logger) (*publishers.Fanout, error) {
	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}

	enabledPublishers := publisherReg.Enabled()
	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabledPublishers, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	publisherSummaries := make([]map[string]string, 0, len(enabledPublishers))
	for _, pubCfg := range enabledPublishers {
		publisherSummaries = append(publisherSummaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(publisherSummaries),
		"publishers": publisherSummaries,
	})
	return publishers.NewFanout(pubClients, log), nil
}

// noticeFromConfig maps the notice settings onto a notifier.Notice.
func noticeFromConfig(cfg *config.Config) notifier.Notice {
	n := notifier.Notice{
		Template: cfg.NoticeTemplate,
		Extra:    cfg.NoticeExtra,
		Summary:  cfg.EditSummary,
	}
	if cfg.NoticeStripPrefix {
		n.StripPrefix = cfg.NominationPrefix
	}
	return n
}

func closeFanout(fanout *publishers.Fanout, log logger.Logger) {
	if err := fanout.Close(); err != nil {
		log.ErrorObj("publishers close failed", "error", err)
	}
}
