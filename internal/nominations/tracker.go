package nominations

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/Adda-Baaj/dyk-notifier/internal/logger"

	"github.com/PuerkitoBio/goquery"
)

const (
	ModeTemplates = "templates"
	ModeHTML      = "html"
)

// TrackingSource reads the tracking page.
type TrackingSource interface {
	PageText(ctx context.Context, title string) (string, error)
	ParseTemplates(ctx context.Context, page string) ([]string, error)
	ParseHTML(ctx context.Context, page string) (string, error)
}

// Tracker lists the active nominations transcluded on the tracking page.
type Tracker struct {
	src      TrackingSource
	page     string
	prefix   string
	mode     string
	linkHost string
	log      logger.Logger
}

// TrackerOption customizes a Tracker.
type TrackerOption func(*Tracker)

// WithSiteURL accepts absolute links in html mode when they point at the host of siteURL,
// typically the configured API endpoint. Without it only relative links are read.
func WithSiteURL(siteURL string) TrackerOption {
	return func(t *Tracker) {
		if u, err := url.Parse(strings.TrimSpace(siteURL)); err == nil {
			t.linkHost = strings.ToLower(u.Host)
		}
	}
}

// NewTracker builds a tracker for page. Only titles starting with prefix are nominations.
func NewTracker(src TrackingSource, page, prefix, mode string, log logger.Logger, opts ...TrackerOption) *Tracker {
	if mode == "" {
		mode = ModeTemplates
	}
	t := &Tracker{src: src, page: page, prefix: prefix, mode: mode, log: logger.Ensure(log)}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Scrape returns the nomination titles in the order the page lists them, without repeats.
func (t *Tracker) Scrape(ctx context.Context) ([]string, error) {
	if t == nil || t.src == nil {
		return nil, fmt.Errorf("tracker is not initialized")
	}

	var (
		titles []string
		err    error
	)
	switch t.mode {
	case ModeTemplates:
		titles, err = t.fromTemplates(ctx)
	case ModeHTML:
		titles, err = t.fromHTML(ctx)
	default:
		return nil, fmt.Errorf("unsupported tracking mode %q", t.mode)
	}
	if err != nil {
		return nil, err
	}

	noms := t.nominations(titles)
	t.log.InfoObj("tracking page scraped", "tracking_meta", map[string]any{
		"page":        t.page,
		"mode":        t.mode,
		"links":       len(titles),
		"nominations": len(noms),
	})
	return noms, nil
}

func (t *Tracker) fromTemplates(ctx context.Context) ([]string, error) {
	// The wikitext size is informational only.
	if wikitext, err := t.src.PageText(ctx, t.page); err != nil {
		t.log.WarnObj("tracking page wikitext unavailable", "tracking_page", map[string]any{
			"page":  t.page,
			"error": err.Error(),
		})
	} else {
		t.log.DebugObj("tracking page wikitext loaded", "tracking_page", map[string]any{
			"page":  t.page,
			"bytes": len(wikitext),
		})
	}

	templates, err := t.src.ParseTemplates(ctx, t.page)
	if err != nil {
		return nil, fmt.Errorf("parse templates of %q: %w", t.page, err)
	}
	return templates, nil
}

func (t *Tracker) fromHTML(ctx context.Context) ([]string, error) {
	html, err := t.src.ParseHTML(ctx, t.page)
	if err != nil {
		return nil, fmt.Errorf("render tracking page %q: %w", t.page, err)
	}
	return linkedTitles(html, t.linkHost)
}

func (t *Tracker) nominations(titles []string) []string {
	seen := make(map[string]struct{}, len(titles))
	out := make([]string, 0, len(titles))
	for _, title := range titles {
		if !strings.HasPrefix(title, t.prefix) || title == t.prefix {
			continue
		}
		if _, ok := seen[title]; ok {
			continue
		}
		seen[title] = struct{}{}
		out = append(out, title)
	}
	return out
}

// linkedTitles returns the page titles targeted by internal links in rendered HTML.
func linkedTitles(html, host string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var titles []string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if title := titleFromHref(href, host); title != "" {
			titles = append(titles, title)
		}
	})
	return titles, nil
}

// titleFromHref understands /wiki/<Title> and index.php?title=<Title> links. Absolute links
// must point at host.
func titleFromHref(href, host string) string {
	u, err := url.Parse(strings.TrimSpace(href))
	if err != nil || (u.Host != "" && !strings.EqualFold(u.Host, host)) {
		return ""
	}

	var raw string
	switch {
	case strings.HasPrefix(u.Path, "/wiki/"):
		raw = strings.TrimPrefix(u.Path, "/wiki/")
	case strings.HasSuffix(u.Path, "/index.php"):
		raw = u.Query().Get("title")
	default:
		return ""
	}
	return strings.TrimSpace(strings.ReplaceAll(raw, "_", " "))
}
