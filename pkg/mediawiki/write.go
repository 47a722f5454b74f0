package mediawiki

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/Adda-Baaj/dyk-notifier/internal/domain"
)

type editResponse struct {
	Edit struct {
		Result   string `json:"result"`
		Title    string `json:"title"`
		NewRevID int64  `json:"newrevid"`
		NoChange bool   `json:"nochange"`
	} `json:"edit"`
}

// AppendText appends text to the end of title. The result is returned as reported by the API;
// any result other than Success is an error.
func (c *Client) AppendText(ctx context.Context, title, text, summary string, bot bool) (domain.EditResult, error) {
	token, err := c.editToken(ctx)
	if err != nil {
		return domain.EditResult{}, err
	}

	form := url.Values{
		"action":     {"edit"},
		"title":      {title},
		"appendtext": {text},
		"summary":    {summary},
		"token":      {token},
	}
	if bot {
		form.Set("bot", "1")
	}

	var resp editResponse
	if err := c.post(ctx, form, &resp); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Code == "badtoken" {
			c.csrfToken = ""
		}
		return domain.EditResult{Title: title}, fmt.Errorf("edit %q: %w", title, err)
	}

	res := domain.EditResult{
		Title:    resp.Edit.Title,
		Result:   resp.Edit.Result,
		NewRevID: resp.Edit.NewRevID,
		NoChange: resp.Edit.NoChange,
	}
	if res.Title == "" {
		res.Title = title
	}
	if res.Result != "Success" {
		return res, fmt.Errorf("edit %q: result %q", title, res.Result)
	}
	return res, nil
}
