package main

import (
	"fmt"

	"github.com/fwojciec/navigator"
	"github.com/fwojciec/navigator/crawl"
	"github.com/fwojciec/navigator/htmltomarkdown"
	"github.com/fwojciec/navigator/readability"
	"github.com/fwojciec/navigator/trafilatura"
)

// Run executes the fetch command.
func (c *FetchCmd) Run(deps *Dependencies) error {
	session, err := findSession(deps, c.Session)
	if err != nil {
		return err
	}

	urls := session.Registry.Fetchable()
	if len(urls) == 0 {
		fmt.Fprintf(deps.Stderr, "error: no fetchable URLs in %s. Use 'navigator scan %s <url>' first.\n", c.Session, c.Session)
		return navigator.Errorf(navigator.EEMPTY, "no fetchable URLs in %s", c.Session)
	}

	fetcher, err := deps.NewFetcher(c.Render)
	if err != nil {
		printError(deps.Stderr, err)
		return err
	}
	defer fetcher.Close()

	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = deps.config().Fetch.Concurrency
	}

	loader := &crawl.Loader{
		Fetcher:     fetcher,
		Raw:         c.Raw,
		Concurrency: concurrency,
		Backoff:     deps.Backoff,
		OnRetry: func(url string, attempt int, err error) {
			deps.logger().Warn("retrying fetch", "url", url, "attempt", attempt, "err", err)
		},
	}
	if !c.Raw {
		loader.Converter = htmltomarkdown.NewConverter()
		switch c.Extractor {
		case "readability":
			loader.Extractor = readability.NewExtractor()
		default:
			loader.Extractor = &trafilatura.Extractor{FavorPrecision: c.Precision}
		}
	}

	fmt.Fprintf(deps.Stdout, "Fetching %d URLs\n", len(urls))

	progress := func(p navigator.FetchProgress) {
		if p.Error != nil {
			fmt.Fprintf(deps.Stderr, "  skip %s: %s\n", p.URL, errorText(p.Error))
		}
	}

	batch, err := loader.Load(deps.Ctx, urls, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error fetching: %v\n", err)
		return err
	}

	docs := batch.Documents()
	if _, err := updateSession(deps, session.ID, navigator.SessionUpdate{Documents: &docs}); err != nil {
		return err
	}

	var size crawl.Size
	for _, doc := range docs {
		size.Bytes += len(doc.Content)
	}
	if deps.TokenCounter != nil {
		size.Tokens, size.Counted = navigator.CountDocumentTokens(deps.Ctx, deps.TokenCounter, docs)
	}

	fmt.Fprintf(deps.Stdout, "Saved %d of %d pages (%s)\n", batch.Succeeded(), len(urls), size)
	if n := batch.Failed(); n > 0 {
		fmt.Fprintf(deps.Stdout, "%d pages failed\n", n)
	}
	return nil
}
