package mediawiki

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/Adda-Baaj/dyk-notifier/internal/domain"
)

// maxContinuations bounds how many continue rounds a single query may take.
const maxContinuations = 100

type parseResponse struct {
	Parse struct {
		Title     string `json:"title"`
		Text      string `json:"text"`
		Templates []struct {
			NS    int    `json:"ns"`
			Title string `json:"title"`
		} `json:"templates"`
	} `json:"parse"`
}

// ParseTemplates returns the titles of every template transcluded on page.
func (c *Client) ParseTemplates(ctx context.Context, page string) ([]string, error) {
	var resp parseResponse
	if err := c.get(ctx, url.Values{
		"action": {"parse"},
		"page":   {page},
		"prop":   {"templates"},
	}, &resp); err != nil {
		return nil, err
	}

	out := make([]string, 0, len(resp.Parse.Templates))
	for _, tpl := range resp.Parse.Templates {
		out = append(out, tpl.Title)
	}
	return out, nil
}

// ParseHTML returns the rendered HTML of page.
func (c *Client) ParseHTML(ctx context.Context, page string) (string, error) {
	var resp parseResponse
	if err := c.get(ctx, url.Values{
		"action": {"parse"},
		"page":   {page},
		"prop":   {"text"},
	}, &resp); err != nil {
		return "", err
	}
	return resp.Parse.Text, nil
}

// PageText returns the current wikitext of a single page.
func (c *Client) PageText(ctx context.Context, title string) (string, error) {
	pages, err := c.QueryPages(ctx, title, domain.FieldContent)
	if err != nil {
		return "", err
	}
	for _, p := range pages {
		if p.Missing {
			return "", fmt.Errorf("page %q does not exist", title)
		}
		if p.HasContent {
			return p.Content, nil
		}
	}
	return "", fmt.Errorf("page %q returned no content", title)
}

type queryResponse struct {
	Continue map[string]any `json:"continue"`
	Query    struct {
		Pages []queryPage `json:"pages"`
	} `json:"query"`
}

type queryPage struct {
	Title      string `json:"title"`
	Missing    bool   `json:"missing"`
	Invalid    bool   `json:"invalid"`
	Categories []struct {
		Title string `json:"title"`
	} `json:"categories"`
	Revisions []struct {
		Slots struct {
			Main struct {
				Content *string `json:"content"`
			} `json:"main"`
		} `json:"slots"`
	} `json:"revisions"`
}

// QueryPages fetches the requested fields for a pipe-joined list of titles.
// Continuations are followed and merged so each title appears once in the result,
// in the order the API first returned it.
func (c *Client) QueryPages(ctx context.Context, titles string, fields ...domain.PageField) ([]domain.PageSnapshot, error) {
	if strings.TrimSpace(titles) == "" {
		return nil, nil
	}
	params, err := queryParams(titles, fields)
	if err != nil {
		return nil, err
	}

	var (
		order []string
		byKey = map[string]*domain.PageSnapshot{}
	)

	for round := 0; ; round++ {
		if round >= maxContinuations {
			return nil, fmt.Errorf("query for %d titles exceeded %d continuations", strings.Count(titles, "|")+1, maxContinuations)
		}

		var resp queryResponse
		if err := c.get(ctx, params, &resp); err != nil {
			return nil, err
		}

		for _, p := range resp.Query.Pages {
			snap, ok := byKey[p.Title]
			if !ok {
				snap = &domain.PageSnapshot{Title: p.Title}
				byKey[p.Title] = snap
				order = append(order, p.Title)
			}
			mergePage(snap, p)
		}

		if len(resp.Continue) == 0 {
			break
		}
		for k, v := range resp.Continue {
			params.Set(k, fmt.Sprint(v))
		}
	}

	out := make([]domain.PageSnapshot, 0, len(order))
	for _, title := range order {
		out = append(out, *byKey[title])
	}
	return out, nil
}

func queryParams(titles string, fields []domain.PageField) (url.Values, error) {
	if len(fields) == 0 {
		return nil, errors.New("query requires at least one field")
	}
	params := url.Values{
		"action": {"query"},
		"titles": {titles},
	}
	var props []string
	for _, f := range fields {
		switch f {
		case domain.FieldCategories:
			props = append(props, "categories")
			params.Set("cllimit", "max")
		case domain.FieldContent:
			props = append(props, "revisions")
			params.Set("rvprop", "content")
			params.Set("rvslots", "main")
		default:
			return nil, fmt.Errorf("unsupported page field %q", f)
		}
	}
	params.Set("prop", strings.Join(props, "|"))
	return params, nil
}

func mergePage(snap *domain.PageSnapshot, p queryPage) {
	if p.Missing || p.Invalid {
		snap.Missing = true
	}
	for _, cat := range p.Categories {
		snap.Categories = append(snap.Categories, cat.Title)
	}
	if len(p.Revisions) > 0 && p.Revisions[0].Slots.Main.Content != nil && !snap.HasContent {
		snap.Content = *p.Revisions[0].Slots.Main.Content
		snap.HasContent = true
	}
}
