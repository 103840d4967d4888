// Package crawl provides the concurrent scan and fetch stages of the pipeline.
// It coordinates link discovery over seed pages and the fetching, cleaning
// and hashing of registry URLs.
package crawl

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/fwojciec/navigator"
	"golang.org/x/sync/errgroup"
)

// DefaultFetchConcurrency bounds concurrent document fetches.
const DefaultFetchConcurrency = 10

// Ensure Loader implements navigator.DocumentLoader at compile time.
var _ navigator.DocumentLoader = (*Loader)(nil)

// Loader fetches registry URLs and turns each page into a Document.
type Loader struct {
	Fetcher navigator.Fetcher

	// Extractor and Converter clean fetched HTML into markdown. When either
	// is nil, or Raw is set, the raw HTML is kept.
	Extractor navigator.Extractor
	Converter navigator.Converter
	Raw       bool

	Concurrency int

	// Backoff spaces out fetch retries. Nil means a single attempt.
	Backoff Backoff

	// OnRetry, when set, is told about each failed attempt that will be retried.
	OnRetry func(url string, attempt int, err error)

	// Now returns the fetch time. Defaults to time.Now.
	Now func() time.Time
}

// loadResult holds the outcome of processing a single URL.
type loadResult struct {
	position int
	result   navigator.FetchResult
}

// Load fetches every URL concurrently. Failed URLs are recorded in the batch
// and never abort it. The batch keeps input order.
func (l *Loader) Load(ctx context.Context, urls []string, progress navigator.FetchProgressFunc) (*navigator.FetchBatch, error) {
	concurrency := l.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultFetchConcurrency
	}

	resultCh := make(chan loadResult, len(urls))

	var completed atomic.Int64
	total := len(urls)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, u := range urls {
			g.Go(func() error {
				resultCh <- loadResult{position: i, result: l.processURL(gctx, u)}
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	batch := &navigator.FetchBatch{Results: make([]navigator.FetchResult, len(urls))}
	for r := range resultCh {
		completed.Add(1)
		batch.Results[r.position] = r.result

		if progress != nil {
			progress(navigator.FetchProgress{
				URL:       r.result.URL,
				Completed: int(completed.Load()),
				Total:     total,
				Error:     r.result.Err,
			})
		}
	}

	if err := ctx.Err(); err != nil {
		return batch, err
	}
	return batch, nil
}

// processURL fetches and cleans a single URL.
func (l *Loader) processURL(ctx context.Context, u string) navigator.FetchResult {
	result := navigator.FetchResult{URL: u}

	var html string
	err := l.Backoff.Retry(ctx, func(ctx context.Context) error {
		var err error
		html, err = l.Fetcher.Fetch(ctx, u)
		return err
	}, func(attempt int, err error) {
		if l.OnRetry != nil {
			l.OnRetry(u, attempt, err)
		}
	})
	if err != nil {
		result.Err = navigator.WrapError(navigator.EFETCH, err, "fetching %s", u)
		return result
	}

	title, content := l.clean(html, u)

	now := time.Now
	if l.Now != nil {
		now = l.Now
	}
	doc := navigator.NewDocument(u, title, content, now())
	doc.Metadata[navigator.MetaContentHash] = ContentHash(content)

	result.Document = doc
	return result
}

// clean extracts the main content and converts it to markdown. Any failure
// falls back to the raw HTML so a fetched page always yields a document.
func (l *Loader) clean(html, pageURL string) (title, content string) {
	if l.Raw || l.Extractor == nil || l.Converter == nil {
		return "", html
	}

	extracted, err := l.Extractor.Extract(html, pageURL)
	if err != nil {
		return "", html
	}

	markdown, err := l.Converter.Convert(extracted.ContentHTML, pageURL)
	if err != nil {
		return extracted.Title, html
	}

	return extracted.Title, markdown
}
