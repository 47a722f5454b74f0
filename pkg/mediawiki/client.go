package mediawiki

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Adda-Baaj/dyk-notifier/pkg/httpclient"
)

// Client talks to a MediaWiki Action API endpoint. One Client holds one session:
// login cookies live in the HTTP client and the edit token is cached after first use.
type Client struct {
	http      httpclient.Client
	endpoint  string
	userAgent string

	username  string
	csrfToken string
}

// Option customizes a Client.
type Option func(*Client)

// WithUserAgent sets the User-Agent sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = strings.TrimSpace(ua) }
}

// WithHTTPClient replaces the default resty-backed transport.
func WithHTTPClient(hc httpclient.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// DefaultHTTPClient returns the transport used when none is supplied.
func DefaultHTTPClient(timeout time.Duration) httpclient.Client {
	return httpclient.NewRestyClient(timeout)
}

// New builds a client for the API endpoint, e.g. https://en.wikipedia.org/w/api.php.
func New(endpoint string, opts ...Option) (*Client, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, errors.New("mediawiki endpoint is empty")
	}
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return nil, fmt.Errorf("parse mediawiki endpoint: %w", err)
	}

	c := &Client{endpoint: endpoint}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = DefaultHTTPClient(30 * time.Second)
	}
	return c, nil
}

// Username returns the account name confirmed by the last successful Login.
func (c *Client) Username() string { return c.username }

// APIError is an error envelope returned by the API with HTTP 200.
type APIError struct {
	Code string `json:"code"`
	Info string `json:"info"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mediawiki api error %s: %s", e.Code, e.Info)
}

type envelope struct {
	Error *APIError `json:"error"`
}

func (c *Client) headers() map[string]string {
	if c.userAgent == "" {
		return nil
	}
	return map[string]string{"User-Agent": c.userAgent}
}

func withDefaults(params url.Values) url.Values {
	out := url.Values{}
	for k, v := range params {
		out[k] = append([]string(nil), v...)
	}
	out.Set("format", "json")
	out.Set("formatversion", "2")
	return out
}

// get issues a read request and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, params url.Values, out any) error {
	resp, err := c.http.Get(ctx, c.endpoint, withDefaults(params), c.headers())
	if err != nil {
		return fmt.Errorf("mediawiki %s request: %w", params.Get("action"), err)
	}
	return decode(params.Get("action"), resp, out)
}

// post issues a write request and decodes the JSON body into out.
func (c *Client) post(ctx context.Context, form url.Values, out any) error {
	resp, err := c.http.PostForm(ctx, c.endpoint, withDefaults(form), c.headers())
	if err != nil {
		return fmt.Errorf("mediawiki %s request: %w", form.Get("action"), err)
	}
	return decode(form.Get("action"), resp, out)
}

func decode(action string, resp httpclient.Response, out any) error {
	body := resp.Body()
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("mediawiki %s returned status %d body: %s", action, resp.StatusCode(), responseSnippet(body))
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("decode mediawiki %s response: %w", action, err)
	}
	if env.Error != nil {
		return env.Error
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode mediawiki %s response: %w", action, err)
	}
	return nil
}

func responseSnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}
