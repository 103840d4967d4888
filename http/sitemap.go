package http

import (
	"context"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/navigator"
)

// MaxSitemapDepth bounds how deeply sitemap indexes may nest.
const MaxSitemapDepth = 5

// Ensure SitemapService implements navigator.SitemapService.
var _ navigator.SitemapService = (*SitemapService)(nil)

// SitemapService reads sitemap XML through a navigator.Fetcher, so sitemap
// requests share the page fetcher's user agent and timeouts.
type SitemapService struct {
	fetcher navigator.Fetcher
}

// NewSitemapService creates a SitemapService. A nil fetcher uses a default
// HTTP Fetcher.
func NewSitemapService(fetcher navigator.Fetcher) *SitemapService {
	if fetcher == nil {
		fetcher = NewFetcher()
	}
	return &SitemapService{fetcher: fetcher}
}

// DiscoverURLs returns the distinct <loc> URLs listed at sitemapURL that pass
// filter, in document order. Sitemap indexes are expanded depth first; a
// sitemap reachable twice is read once. The result is never nil.
func (s *SitemapService) DiscoverURLs(ctx context.Context, sitemapURL string, filter *navigator.URLFilter) ([]string, error) {
	w := &sitemapWalk{fetcher: s.fetcher, visited: make(map[string]bool), seen: make(map[string]bool), filter: filter, urls: []string{}}
	if err := w.read(ctx, sitemapURL, 0); err != nil {
		return nil, err
	}
	return w.urls, nil
}

// sitemapWalk accumulates URLs across one sitemap tree.
type sitemapWalk struct {
	fetcher navigator.Fetcher
	filter  *navigator.URLFilter
	visited map[string]bool
	seen    map[string]bool
	urls    []string
}

func (w *sitemapWalk) read(ctx context.Context, sitemapURL string, depth int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if w.visited[sitemapURL] {
		return nil
	}
	w.visited[sitemapURL] = true
	if depth > MaxSitemapDepth {
		return navigator.Errorf(navigator.EINVALID, "sitemap index nested deeper than %d at %s", MaxSitemapDepth, sitemapURL)
	}

	body, err := w.fetcher.Fetch(ctx, sitemapURL)
	if err != nil {
		return navigator.WrapError(navigator.EFETCH, err, "fetching sitemap %s", sitemapURL)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromString(body); err != nil {
		return navigator.WrapError(navigator.EINVALID, err, "parsing sitemap %s", sitemapURL)
	}
	root := doc.Root()
	if root == nil {
		return navigator.Errorf(navigator.EINVALID, "empty sitemap XML at %s", sitemapURL)
	}

	switch root.Tag {
	case "sitemapindex":
		for _, child := range locs(root, "sitemap") {
			if err := w.read(ctx, child, depth+1); err != nil {
				return err
			}
		}
	case "urlset":
		for _, u := range locs(root, "url") {
			if w.seen[u] || !w.filter.Match(u) {
				continue
			}
			w.seen[u] = true
			w.urls = append(w.urls, u)
		}
	default:
		return navigator.Errorf(navigator.EINVALID, "%s is not a sitemap (root <%s>)", sitemapURL, root.Tag)
	}
	return nil
}

// locs returns the trimmed, non-empty <loc> texts of root's tag children.
func locs(root *etree.Element, tag string) []string {
	var out []string
	for _, el := range root.SelectElements(tag) {
		loc := el.SelectElement("loc")
		if loc == nil {
			continue
		}
		if u := strings.TrimSpace(loc.Text()); u != "" {
			out = append(out, u)
		}
	}
	return out
}
