package mediawiki

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

type tokensResponse struct {
	Query struct {
		Tokens struct {
			LoginToken string `json:"logintoken"`
			CSRFToken  string `json:"csrftoken"`
		} `json:"tokens"`
	} `json:"query"`
}

type loginResponse struct {
	Login struct {
		Result     string `json:"result"`
		Reason     string `json:"reason"`
		LgUsername string `json:"lgusername"`
	} `json:"login"`
}

// Login authenticates the session with a bot password. It makes a single attempt.
func (c *Client) Login(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return errors.New("mediawiki login requires username and password")
	}

	token, err := c.token(ctx, "login")
	if err != nil {
		return err
	}

	var resp loginResponse
	err = c.post(ctx, url.Values{
		"action":     {"login"},
		"lgname":     {username},
		"lgpassword": {password},
		"lgtoken":    {token},
	}, &resp)
	if err != nil {
		return err
	}
	if resp.Login.Result != "Success" {
		return fmt.Errorf("mediawiki login failed: %s %s", resp.Login.Result, resp.Login.Reason)
	}

	c.username = resp.Login.LgUsername
	if c.username == "" {
		c.username = username
	}
	c.csrfToken = ""
	return nil
}

// token fetches a token of the given type ("login" or "csrf").
func (c *Client) token(ctx context.Context, typ string) (string, error) {
	var resp tokensResponse
	if err := c.get(ctx, url.Values{
		"action": {"query"},
		"meta":   {"tokens"},
		"type":   {typ},
	}, &resp); err != nil {
		return "", fmt.Errorf("fetch %s token: %w", typ, err)
	}

	var token string
	switch typ {
	case "login":
		token = resp.Query.Tokens.LoginToken
	default:
		token = resp.Query.Tokens.CSRFToken
	}
	if token == "" {
		return "", fmt.Errorf("mediawiki returned empty %s token", typ)
	}
	return token, nil
}

func (c *Client) editToken(ctx context.Context) (string, error) {
	if c.csrfToken != "" {
		return c.csrfToken, nil
	}
	token, err := c.token(ctx, "csrf")
	if err != nil {
		return "", err
	}
	c.csrfToken = token
	return token, nil
}
