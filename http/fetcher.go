// Package http provides the HTTP side of horizon: a Fetcher for publisher
// pages that render without JavaScript, and the JSON API server.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/horizon"
)

const (
	// DefaultReferer is sent with every page request. Some publishers only
	// serve the full story to readers arriving from a search engine.
	DefaultReferer = "https://www.google.com"

	// DefaultUserAgent is a desktop Chrome; unknown clients often get a
	// stripped page or a 403.
	DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

	DefaultFetchTimeout = 10 * time.Second
	DefaultMaxBodySize  = 5 << 20
)

var _ horizon.Fetcher = (*Fetcher)(nil)

// Fetcher downloads publisher pages over plain HTTP. It does not run
// scripts; see the rod package for pages that need a browser.
type Fetcher struct {
	client  *http.Client
	header  http.Header
	maxBody int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout bounds each request, including reading the body.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) { f.client.Timeout = d }
}

// WithUserAgent replaces DefaultUserAgent.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) { f.header.Set("User-Agent", ua) }
}

// WithMaxBodySize limits how many bytes of a page are read.
func WithMaxBodySize(n int64) Option {
	return func(f *Fetcher) { f.maxBody = n }
}

// NewFetcher returns a Fetcher with browser-like request headers.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		client: &http.Client{Timeout: DefaultFetchTimeout},
		header: http.Header{
			"User-Agent":      {DefaultUserAgent},
			"Accept":          {"text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"},
			"Accept-Language": {"en-US,en;q=0.9"},
			"Referer":         {DefaultReferer},
		},
		maxBody: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch returns the body of url, truncated to the body limit. Missing pages
// fail with ENOTFOUND and access denials with EUNAUTHORIZED.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", horizon.Errorf(horizon.EINVALID, "invalid URL %q: %v", url, err)
	}
	req.Header = f.header.Clone()

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if err := statusError(resp.StatusCode, url); err != nil {
		return "", err
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", url, err)
	}
	return string(b), nil
}

// Close is a no-op.
func (f *Fetcher) Close() error { return nil }

func statusError(status int, url string) error {
	switch status {
	case http.StatusNotFound, http.StatusGone:
		return horizon.Errorf(horizon.ENOTFOUND, "HTTP %d for %s", status, url)
	case http.StatusUnauthorized, http.StatusForbidden:
		return horizon.Errorf(horizon.EUNAUTHORIZED, "HTTP %d for %s", status, url)
	}
	if status < 200 || status > 299 {
		return fmt.Errorf("HTTP %d for %s", status, url)
	}
	return nil
}
