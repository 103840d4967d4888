package crawl

import (
	"context"
	"net/url"
	"time"

	"github.com/fwojciec/navigator"
	"golang.org/x/sync/errgroup"
)

// DefaultScanConcurrency bounds concurrent seed scans.
const DefaultScanConcurrency = 5

// Scanner discovers links on seed pages and merges them into a registry.
type Scanner struct {
	Discoverer navigator.LinkDiscoverer
	Sitemaps   navigator.SitemapService

	Concurrency int

	// Now returns the scan time. Defaults to time.Now.
	Now func() time.Time
}

// SeedReport is the outcome of scanning one seed.
type SeedReport struct {
	URL      string
	Title    string
	Internal int
	External int
	Err      error
}

// ScanReport summarizes a scan.
type ScanReport struct {
	Seeds []SeedReport

	// Added counts the rows merged into the registry.
	Added int
}

// Failed returns the number of seeds that could not be scanned.
func (r *ScanReport) Failed() int {
	var n int
	for _, s := range r.Seeds {
		if s.Err != nil {
			n++
		}
	}
	return n
}

// Scan runs the discoverer once per seed and merges the discovered links into
// reg in seed order. A failed seed contributes no rows and does not affect
// the others.
func (s *Scanner) Scan(ctx context.Context, reg *navigator.Registry, seeds []string) (*ScanReport, error) {
	return s.scan(ctx, reg, seeds, func(ctx context.Context, seed string) *navigator.PageLinks {
		return s.Discoverer.DiscoverLinks(ctx, seed)
	})
}

// ScanSitemaps treats every seed as a sitemap URL. Each listed URL becomes a
// record titled with the sitemap URL and classified against its host.
func (s *Scanner) ScanSitemaps(ctx context.Context, reg *navigator.Registry, sitemaps []string, filter *navigator.URLFilter) (*ScanReport, error) {
	return s.scan(ctx, reg, sitemaps, func(ctx context.Context, sitemapURL string) *navigator.PageLinks {
		links := &navigator.PageLinks{URL: sitemapURL, Title: sitemapURL}

		base, err := url.Parse(sitemapURL)
		if err != nil {
			links.Title = navigator.NoTitle
			links.Err = navigator.Errorf(navigator.EINVALID, "invalid sitemap URL: %v", err)
			return links
		}

		urls, err := s.Sitemaps.DiscoverURLs(ctx, sitemapURL, filter)
		if err != nil {
			links.Title = navigator.NoTitle
			links.Err = err
			return links
		}

		for _, u := range urls {
			if navigator.ClassifyLink(base, u) == navigator.LinkInternal {
				links.Internal = append(links.Internal, u)
			} else {
				links.External = append(links.External, u)
			}
		}
		return links
	})
}

func (s *Scanner) scan(ctx context.Context, reg *navigator.Registry, seeds []string, discover func(context.Context, string) *navigator.PageLinks) (*ScanReport, error) {
	concurrency := s.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultScanConcurrency
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}

	pages := make([]*navigator.PageLinks, len(seeds))
	scannedAt := make([]time.Time, len(seeds))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, seed := range seeds {
		g.Go(func() error {
			scannedAt[i] = now()
			pages[i] = discover(gctx, seed)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := &ScanReport{Seeds: make([]SeedReport, 0, len(seeds))}
	for i, links := range pages {
		report.Seeds = append(report.Seeds, SeedReport{
			URL:      seeds[i],
			Title:    links.Title,
			Internal: len(links.Internal),
			External: len(links.External),
			Err:      links.Err,
		})
		report.Added += reg.Merge(navigator.NewRecords(links, scannedAt[i]))
	}
	return report, nil
}
