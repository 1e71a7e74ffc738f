// Package httpclient fetches value documents over HTTP so suites
// can be evaluated against live endpoints.
package httpclient

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

// ClientOption configures a Client via functional options.
type ClientOption func(*Client)

// Client wraps net/http.Client with bearer token support. Defaults
// match common conventions so callers can use NewClient() with zero
// options.
type Client struct {
	token      string
	headers    map[string]string
	maxBytes   int64
	httpClient *http.Client
}

// DefaultMaxBytes caps the size of a fetched document.
const DefaultMaxBytes = 10 << 20

// NewClient creates a client. Pass ClientOption values to override
// defaults.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		headers:  make(map[string]string),
		maxBytes: DefaultMaxBytes,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// WithTimeout overrides the default HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithToken sends the token as a bearer Authorization header.
func WithToken(token string) ClientOption {
	return func(c *Client) { c.token = token }
}

// WithHeader adds a request header.
func WithHeader(key, value string) ClientOption {
	return func(c *Client) { c.headers[key] = value }
}

// WithMaxBytes overrides DefaultMaxBytes.
func WithMaxBytes(n int64) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.maxBytes = n
		}
	}
}

// Document is a fetched value document.
type Document struct {
	URL         string
	StatusCode  int
	ContentType string
	Data        []byte
}

// Format returns the document format as a file extension without
// the dot. The URL path extension wins over the Content-Type;
// anything unrecognised is treated as JSON.
func (d *Document) Format() string {
	if u, err := url.Parse(d.URL); err == nil {
		switch ext := strings.ToLower(path.Ext(u.Path)); ext {
		case ".json", ".yaml", ".yml", ".toml":
			return ext[1:]
		}
	}

	mediaType, _, err := mime.ParseMediaType(d.ContentType)
	if err != nil {
		return "json"
	}
	switch {
	case strings.Contains(mediaType, "yaml"):
		return "yaml"
	case strings.Contains(mediaType, "toml"):
		return "toml"
	}
	return "json"
}

// IsRemote reports whether location is an http or https URL.
func IsRemote(location string) bool {
	u, err := url.Parse(location)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Fetch performs a GET request and returns the body. Responses
// outside the 2xx range are errors.
func (c *Client) Fetch(ctx context.Context, rawURL string) (*Document, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, rawURL, nil,
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept",
		"application/json, application/yaml, application/toml;q=0.9, */*;q=0.5")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if int64(len(data)) > c.maxBytes {
		return nil, fmt.Errorf(
			"response from %s exceeds %d bytes", rawURL, c.maxBytes,
		)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf(
			"GET %s returned HTTP %d: %s",
			rawURL, resp.StatusCode, strings.TrimSpace(string(data)),
		)
	}

	return &Document{
		URL:         rawURL,
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// Token returns the bearer token.
func (c *Client) Token() string {
	return c.token
}

// SetToken sets the bearer token directly (e.g. when obtained externally).
func (c *Client) SetToken(token string) {
	c.token = token
}
