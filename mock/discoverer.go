package mock

import (
	"context"

	"github.com/fwojciec/navigator"
)

var _ navigator.LinkDiscoverer = (*LinkDiscoverer)(nil)

// LinkDiscoverer is a mock implementation of navigator.LinkDiscoverer.
type LinkDiscoverer struct {
	DiscoverLinksFn func(ctx context.Context, pageURL string) *navigator.PageLinks
}

func (d *LinkDiscoverer) DiscoverLinks(ctx context.Context, pageURL string) *navigator.PageLinks {
	return d.DiscoverLinksFn(ctx, pageURL)
}
