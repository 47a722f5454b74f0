package app

import (
	"context"
	"errors"
	"strings"

	"github.com/Adda-Baaj/dyk-notifier/internal/config"
	"github.com/Adda-Baaj/dyk-notifier/internal/domain"
)

const nomPrefix = "Template:Did you know nominations/"

type appendCall struct {
	title   string
	text    string
	summary string
	bot     bool
}

// fakeWiki serves the tracking page and nomination pages from memory and records edits.
type fakeWiki struct {
	templates  []string
	categories map[string][]string
	contents   map[string]string
	queryErr   error
	failWrite  map[string]bool
	queries    int
	appends    []appendCall
}

func (f *fakeWiki) PageText(context.Context, string) (string, error) {
	return "{{" + strings.Join(f.templates, "}}\n{{") + "}}", nil
}

func (f *fakeWiki) ParseTemplates(context.Context, string) ([]string, error) {
	return f.templates, nil
}

func (f *fakeWiki) ParseHTML(context.Context, string) (string, error) {
	return "", errors.New("html mode not served")
}

func (f *fakeWiki) QueryPages(_ context.Context, titles string, fields ...domain.PageField) ([]domain.PageSnapshot, error) {
	f.queries++
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	var out []domain.PageSnapshot
	for _, title := range strings.Split(titles, "|") {
		snap := domain.PageSnapshot{Title: title}
		for _, field := range fields {
			switch field {
			case domain.FieldCategories:
				snap.Categories = f.categories[title]
			case domain.FieldContent:
				snap.Content, snap.HasContent = f.contents[title]
			}
		}
		out = append(out, snap)
	}
	return out, nil
}

func (f *fakeWiki) AppendText(_ context.Context, title, text, summary string, bot bool) (domain.EditResult, error) {
	f.appends = append(f.appends, appendCall{title: title, text: text, summary: summary, bot: bot})
	if f.failWrite[title] {
		return domain.EditResult{}, errors.New("editconflict")
	}
	return domain.EditResult{Title: title, Result: "Success", NewRevID: 100}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		BatchSize:        50,
		TrackingPage:     "Template talk:Did you know",
		TrackingMode:     config.TrackingModeTemplates,
		NominationPrefix: nomPrefix,
		NoticeTemplate:   "User:APersonBot/DYKNotice",
		EditSummary:      "Notification about the DYK nomination of {nomination}.",
		BotEdit:          true,
		InputFile:        "-",
	}
}
