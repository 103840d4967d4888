// Package rod fetches JavaScript-rendered pages with a headless Chrome
// driven by go-rod.
package rod

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/fwojciec/navigator"
)

// DefaultFetchTimeout bounds a single page load.
const DefaultFetchTimeout = 10 * time.Second

// Ensure Fetcher implements navigator.Fetcher at compile time.
var _ navigator.Fetcher = (*Fetcher)(nil)

// serializeJS returns the document HTML with open shadow roots inlined as
// declarative <template shadowrootmode="open"> children, so links rendered
// by web components survive serialization.
const serializeJS = `() => {
	const inline = (root) => {
		for (const el of root.querySelectorAll('*')) {
			if (!el.shadowRoot) continue;
			inline(el.shadowRoot);
			const tpl = document.createElement('template');
			tpl.setAttribute('shadowrootmode', 'open');
			tpl.innerHTML = el.shadowRoot.innerHTML;
			el.prepend(tpl);
		}
	};
	inline(document);
	return document.documentElement.outerHTML;
}`

// Fetcher retrieves rendered HTML using Chrome browser automation.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	browser      *browser
	timeout      time.Duration
	recycleAfter int64
	closed       atomic.Bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout bounds each page load. Defaults to DefaultFetchTimeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithRecycleAfter replaces the Chrome process after n pages. Zero never
// recycles. Defaults to DefaultRecycleAfter.
func WithRecycleAfter(n int64) Option {
	return func(f *Fetcher) {
		f.recycleAfter = n
	}
}

// NewFetcher launches a headless Chrome browser. Close must be called when
// the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		timeout:      DefaultFetchTimeout,
		recycleAfter: DefaultRecycleAfter,
	}
	for _, opt := range opts {
		opt(f)
	}

	b, err := launchBrowser(f.recycleAfter)
	if err != nil {
		return nil, err
	}
	f.browser = b
	return f, nil
}

// Fetch navigates to the URL and returns the rendered HTML, shadow DOM
// included.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if f.closed.Load() {
		return "", navigator.Errorf(navigator.EINVALID, "fetcher closed")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	page, err := f.browser.newPage()
	if err != nil {
		return "", err
	}
	defer page.Close()

	page = page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return "", contextErr(ctx, err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", contextErr(ctx, err)
	}

	res, err := page.Eval(serializeJS)
	if err != nil {
		return "", contextErr(ctx, err)
	}
	return res.Value.Str(), nil
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	return f.browser.close()
}

// LauncherPID returns the process ID of the running Chrome launcher, or
// zero once closed.
func (f *Fetcher) LauncherPID() int {
	return f.browser.pid()
}

// Launches returns how many Chrome processes the Fetcher has started.
func (f *Fetcher) Launches() int {
	return f.browser.launchCount()
}

// contextErr prefers the context's error so callers can match
// context.DeadlineExceeded after a timeout.
func contextErr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}
