package navigator

import (
	"context"
	"net/url"
)

// NoTitle is the page title reported when a page has no <title> element
// or could not be fetched.
const NoTitle = "No Title Found"

// LinkType classifies a discovered URL relative to the page it was found on.
type LinkType string

// Link types.
const (
	LinkInternal LinkType = "Internal"
	LinkExternal LinkType = "External"
)

// ParseLinkType parses a link type as written in a URL table.
func ParseLinkType(s string) (LinkType, error) {
	switch LinkType(s) {
	case LinkInternal, LinkExternal:
		return LinkType(s), nil
	}
	return "", Errorf(EINVALID, "unknown link type %q", s)
}

// PageLinks holds the outbound links and title of a single page.
type PageLinks struct {
	// URL is the page the links were discovered on.
	URL string

	// Title is the page's <title> text, or NoTitle.
	Title string

	// Internal and External hold distinct absolute URLs in first-occurrence order.
	Internal []string
	External []string

	// Err records why the page could not be fetched. The page then has no
	// links and the NoTitle title.
	Err error
}

// Len returns the total number of discovered links.
func (p *PageLinks) Len() int {
	return len(p.Internal) + len(p.External)
}

// LinkDiscoverer fetches a page and extracts its outbound links.
type LinkDiscoverer interface {
	// DiscoverLinks never fails the caller: fetch errors are recorded in
	// PageLinks.Err and yield an empty link set.
	DiscoverLinks(ctx context.Context, pageURL string) *PageLinks
}

// ResolveLink converts an href found on pageURL into an absolute URL.
// References that already start with "http" are returned unchanged;
// everything else is resolved against the page. The second return value
// is false when the href cannot be parsed.
func ResolveLink(base *url.URL, href string) (string, bool) {
	if len(href) >= 4 && href[:4] == "http" {
		return href, true
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	return base.ResolveReference(ref).String(), true
}

// ClassifyLink reports whether link shares its network location (host and
// port) with base. Unparseable links are External.
func ClassifyLink(base *url.URL, link string) LinkType {
	u, err := url.Parse(link)
	if err != nil {
		return LinkExternal
	}
	if u.Host == base.Host {
		return LinkInternal
	}
	return LinkExternal
}

// IsFetchableURL reports whether rawURL has both a scheme and a network location.
func IsFetchableURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}
