package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/navigator"
)

// Ensure LoggingSitemapService implements navigator.SitemapService.
var _ navigator.SitemapService = (*LoggingSitemapService)(nil)

// LoggingSitemapService wraps a SitemapService, logging each sitemap tree
// read with its filter and result size.
type LoggingSitemapService struct {
	next   navigator.SitemapService
	logger *slog.Logger
}

// NewLoggingSitemapService creates a new LoggingSitemapService.
func NewLoggingSitemapService(next navigator.SitemapService, logger *slog.Logger) *LoggingSitemapService {
	return &LoggingSitemapService{next: next, logger: logger}
}

// DiscoverURLs delegates to the wrapped service. Failures are warnings.
func (s *LoggingSitemapService) DiscoverURLs(ctx context.Context, sitemapURL string, filter *navigator.URLFilter) (urls []string, err error) {
	defer func(begin time.Time) {
		attrs := []any{"sitemap", sitemapURL, "duration", time.Since(begin)}
		if filter != nil {
			attrs = append(attrs, "include", len(filter.Include), "exclude", len(filter.Exclude))
		}
		if err != nil {
			s.logger.Warn("read sitemap", append(attrs, "err", err)...)
			return
		}
		s.logger.Info("read sitemap", append(attrs, "urls", len(urls))...)
	}(time.Now())
	return s.next.DiscoverURLs(ctx, sitemapURL, filter)
}
