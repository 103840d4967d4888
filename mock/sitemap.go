package mock

import (
	"context"

	"github.com/fwojciec/navigator"
)

var _ navigator.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of navigator.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, sitemapURL string, filter *navigator.URLFilter) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, sitemapURL string, filter *navigator.URLFilter) ([]string, error) {
	return s.DiscoverURLsFn(ctx, sitemapURL, filter)
}
