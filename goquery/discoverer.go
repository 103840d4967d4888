package goquery

import (
	"context"

	"github.com/fwojciec/navigator"
)

// Ensure Discoverer implements navigator.LinkDiscoverer at compile time.
var _ navigator.LinkDiscoverer = (*Discoverer)(nil)

// Discoverer fetches pages and extracts their links.
type Discoverer struct {
	Fetcher navigator.Fetcher
}

// NewDiscoverer creates a Discoverer that fetches pages with fetcher.
func NewDiscoverer(fetcher navigator.Fetcher) *Discoverer {
	return &Discoverer{Fetcher: fetcher}
}

// DiscoverLinks fetches pageURL once and returns its links. Failures are
// recorded in the result together with the NoTitle title.
func (d *Discoverer) DiscoverLinks(ctx context.Context, pageURL string) *navigator.PageLinks {
	html, err := d.Fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return failed(pageURL, navigator.WrapError(navigator.EFETCH, err, "fetching %s", pageURL))
	}

	links, err := ExtractLinks(html, pageURL)
	if err != nil {
		return failed(pageURL, err)
	}
	return links
}

func failed(pageURL string, err error) *navigator.PageLinks {
	return &navigator.PageLinks{
		URL:   pageURL,
		Title: navigator.NoTitle,
		Err:   err,
	}
}
