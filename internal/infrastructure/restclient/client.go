// Package restclient is the single gateway to the Ecolatam backend API. It
// joins paths onto the configured base URL, serializes query parameters,
// encodes JSON bodies and surfaces non-2xx answers as *HTTPError. Bearer
// injection and the session-expiry policy run inside its transport.
package restclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ecolatam/gateway/internal/core/domain"
)

const (
	defaultTimeout = 30 * time.Second
	snippetLen     = 200
)

// Config captures the settings of a backend client.
type Config struct {
	// BaseURL is the API base. Absolute http(s) bases are used verbatim;
	// relative ones are resolved against PublicOrigin.
	BaseURL      string
	PublicOrigin string
	Timeout      time.Duration
	// Transport is the outbound round tripper, usually built by NewTransport.
	// Defaults to http.DefaultTransport.
	Transport http.RoundTripper
}

// ResolveBaseURL computes the effective base URL once at startup. Trailing
// slashes are trimmed from both inputs; an empty base yields "".
func ResolveBaseURL(base, origin string) string {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		return ""
	}
	lower := strings.ToLower(base)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return base
	}
	return strings.TrimRight(strings.TrimSpace(origin), "/") + base
}

// Response is a raw backend answer.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode unmarshals the JSON body into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Text returns the body as a string.
func (r *Response) Text() string { return string(r.Body) }

// HTTPError is returned for every non-2xx backend answer.
type HTTPError struct {
	Method     string
	URL        string
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s %s: backend answered %d", e.Method, e.URL, e.StatusCode)
}

// Is matches domain.ErrUnauthenticated for 401 answers.
func (e *HTTPError) Is(target error) bool {
	return target == domain.ErrUnauthenticated && e.StatusCode == http.StatusUnauthorized
}

// Options are the optional parts of a request.
type Options struct {
	Params  Params
	Headers map[string]string
	Body    any
}

// Client performs backend calls.
type Client struct {
	http *http.Client
	base string
	log  zerolog.Logger
}

// New returns a Client for cfg.
func New(cfg Config, log zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	tr := cfg.Transport
	if tr == nil {
		tr = http.DefaultTransport
	}
	return &Client{
		http: &http.Client{Transport: tr, Timeout: timeout},
		base: ResolveBaseURL(cfg.BaseURL, cfg.PublicOrigin),
		log:  log,
	}
}

// BaseURL returns the resolved base URL.
func (c *Client) BaseURL() string { return c.base }

func (c *Client) Get(ctx context.Context, path string, params Params) (*Response, error) {
	return c.Request(ctx, http.MethodGet, path, Options{Params: params})
}

func (c *Client) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.Request(ctx, http.MethodPost, path, Options{Body: body})
}

func (c *Client) Put(ctx context.Context, path string, body any) (*Response, error) {
	return c.Request(ctx, http.MethodPut, path, Options{Body: body})
}

func (c *Client) Patch(ctx context.Context, path string, body any) (*Response, error) {
	return c.Request(ctx, http.MethodPatch, path, Options{Body: body})
}

// Delete issues a DELETE; a non-nil body is sent as JSON.
func (c *Client) Delete(ctx context.Context, path string, body any) (*Response, error) {
	return c.Request(ctx, http.MethodDelete, path, Options{Body: body})
}

// RawPost posts a JSON body and accepts a text or HTML answer.
func (c *Client) RawPost(ctx context.Context, path string, body any) (*Response, error) {
	return c.Request(ctx, http.MethodPost, path, Options{
		Body:    body,
		Headers: map[string]string{"Accept": "text/plain, text/html, */*"},
	})
}

// Request performs method on base+path. Transport failures and non-2xx
// answers are returned as errors; nothing is retried.
func (c *Client) Request(ctx context.Context, method, path string, opts Options) (*Response, error) {
	url := c.base + path
	if q := opts.Params.Encode(); q != "" {
		url += "?" + q
	}

	var body io.Reader
	if opts.Body != nil {
		raw, err := json.Marshal(opts.Body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range opts.Headers {
		if v != "" {
			req.Header.Set(k, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("method", method).Str("url", url).Msg("backend call failed")
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s %s: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warn().
			Str("method", method).
			Str("url", url).
			Int("status", resp.StatusCode).
			Str("snippet", snippet(raw)).
			Msg("backend call failed")
		return nil, &HTTPError{Method: method, URL: url, StatusCode: resp.StatusCode, Body: raw}
	}

	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: raw}, nil
}

// Ping reports whether the backend answers at all; any HTTP status counts.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Request(WithSkipAuth(ctx), http.MethodGet, "", Options{})
	var he *HTTPError
	if errors.As(err, &he) {
		return nil
	}
	return err
}

func snippet(b []byte) string {
	s := string(b)
	if len(s) > snippetLen {
		s = s[:snippetLen]
	}
	return s
}
