// Package http fetches pages and sitemaps over plain HTTP for sites that
// render without JavaScript.
package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/navigator"
	"golang.org/x/net/html/charset"
)

// DefaultFetchTimeout matches rod.DefaultFetchTimeout.
const DefaultFetchTimeout = 10 * time.Second

// DefaultMaxBodySize caps how much of a response body is read.
const DefaultMaxBodySize = 10 << 20

// DefaultUserAgent identifies navigator to documentation hosts.
const DefaultUserAgent = "navigator/1.0 (+https://github.com/fwojciec/navigator)"

// Ensure Fetcher implements navigator.Fetcher at compile time.
var _ navigator.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves pages with GET requests and decodes them to UTF-8.
type Fetcher struct {
	client      *http.Client
	userAgent   string
	maxBodySize int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout bounds each request. Defaults to DefaultFetchTimeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.client.Timeout = d
	}
}

// WithUserAgent overrides DefaultUserAgent.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodySize truncates bodies longer than n bytes.
func WithMaxBodySize(n int64) Option {
	return func(f *Fetcher) {
		f.maxBodySize = n
	}
}

// NewFetcher creates a Fetcher with its own http.Client.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:      &http.Client{Timeout: DefaultFetchTimeout},
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch returns the body of url. Any status other than 200 is an EFETCH
// error. Bodies in a legacy charset, declared in the Content-Type header or
// a <meta> tag, are converted to UTF-8.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", navigator.Errorf(navigator.EINVALID, "invalid URL %q", url)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", navigator.Errorf(navigator.EFETCH, "HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := charset.NewReader(io.LimitReader(resp.Body, f.maxBodySize), resp.Header.Get("Content-Type"))
	if err != nil {
		return "", navigator.WrapError(navigator.EFETCH, err, "decoding %s", url)
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Close is a no-op; the client holds no resources beyond idle connections.
func (f *Fetcher) Close() error {
	return nil
}
