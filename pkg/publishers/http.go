package publishers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/Adda-Baaj/dyk-notifier/internal/logger"
	"github.com/Adda-Baaj/dyk-notifier/pkg/httpclient"
)

const (
	runIDHeader    = "X-DYK-Run-ID"
	httpRetryWait  = 500 * time.Millisecond
	maxBodySnippet = 512
)

// httpPublisher delivers each notification event as a JSON webhook call.
type httpPublisher struct {
	id     string
	target HTTPPublisherConfig
	client *resty.Client
	log    logger.Logger
}

func newHTTPPublisher(_ context.Context, cfg PublisherConfig, log logger.Logger) (Publisher, error) {
	if cfg.HTTP == nil {
		return nil, fmt.Errorf("publisher %q missing http configuration", cfg.ID)
	}
	target := *cfg.HTTP
	if target.Method == "" {
		target.Method = httpDefaultMethod
	}
	if target.TimeoutSeconds <= 0 {
		target.TimeoutSeconds = httpDefaultTimeoutSeconds
	}

	client := httpclient.NewRestyHTTPClient(
		time.Duration(target.TimeoutSeconds)*time.Second,
		httpclient.WithRetries(target.Retries, httpRetryWait),
	)
	return &httpPublisher{id: cfg.ID, target: target, client: client, log: logger.Ensure(log)}, nil
}

func (h *httpPublisher) ID() string   { return h.id }
func (h *httpPublisher) Type() string { return TypeHTTP }

// Publish sends evt and fails on any non-2xx answer.
func (h *httpPublisher) Publish(ctx context.Context, evt Event) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeaders(h.target.Headers).
		SetHeader("Content-Type", "application/json").
		SetHeader(runIDHeader, evt.RunID).
		SetBody(evt).
		Execute(h.target.Method, h.target.URL)
	if err != nil {
		return fmt.Errorf("webhook %s %s: %w", h.target.Method, h.target.URL, err)
	}
	if resp.IsError() {
		return fmt.Errorf("webhook status %d: %s", resp.StatusCode(), bodySnippet(resp.Body()))
	}

	h.log.DebugObj("webhook delivered event", "publisher_http_delivery", map[string]any{
		"publisher_id": h.id,
		"contributor":  evt.Contributor,
		"status":       resp.StatusCode(),
	})
	return nil
}

func bodySnippet(body []byte) string {
	if len(body) > maxBodySnippet {
		body = body[:maxBodySnippet]
	}
	return strings.TrimSpace(string(body))
}
