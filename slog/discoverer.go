package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/navigator"
)

// Ensure LoggingDiscoverer implements navigator.LinkDiscoverer.
var _ navigator.LinkDiscoverer = (*LoggingDiscoverer)(nil)

// LoggingDiscoverer wraps a LinkDiscoverer with logging.
type LoggingDiscoverer struct {
	next   navigator.LinkDiscoverer
	logger *slog.Logger
}

// NewLoggingDiscoverer creates a new LoggingDiscoverer.
func NewLoggingDiscoverer(next navigator.LinkDiscoverer, logger *slog.Logger) *LoggingDiscoverer {
	return &LoggingDiscoverer{next: next, logger: logger}
}

// DiscoverLinks delegates to the wrapped discoverer and logs link counts.
// Fetch failures are logged as warnings.
func (d *LoggingDiscoverer) DiscoverLinks(ctx context.Context, pageURL string) *navigator.PageLinks {
	begin := time.Now()
	links := d.next.DiscoverLinks(ctx, pageURL)
	if links.Err != nil {
		d.logger.Warn("discover links",
			"url", pageURL,
			"duration", time.Since(begin),
			"err", links.Err,
		)
		return links
	}
	d.logger.Info("discover links",
		"url", pageURL,
		"title", links.Title,
		"internal", len(links.Internal),
		"external", len(links.External),
		"duration", time.Since(begin),
	)
	return links
}
