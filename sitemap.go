package navigator

import (
	"context"
	"regexp"
	"slices"
)

// SitemapService reads URLs from sitemap documents.
type SitemapService interface {
	// DiscoverURLs returns the <loc> entries of the sitemap at sitemapURL
	// in document order, without duplicates. Sitemap indexes are resolved
	// recursively. A nil filter keeps every URL.
	DiscoverURLs(ctx context.Context, sitemapURL string, filter *URLFilter) ([]string, error)
}

// URLFilter keeps URLs that match any Include pattern, or all URLs when
// Include is empty, and then drops those matching any Exclude pattern.
type URLFilter struct {
	Include []*regexp.Regexp
	Exclude []*regexp.Regexp
}

// NewURLFilter compiles include and exclude patterns. It returns nil when
// both are empty and EINVALID naming the first pattern that fails to compile.
func NewURLFilter(include, exclude []string) (*URLFilter, error) {
	if len(include) == 0 && len(exclude) == 0 {
		return nil, nil
	}
	f := &URLFilter{}
	var err error
	if f.Include, err = compilePatterns(include); err != nil {
		return nil, err
	}
	if f.Exclude, err = compilePatterns(exclude); err != nil {
		return nil, err
	}
	return f, nil
}

func compilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	res := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, Errorf(EINVALID, "invalid filter pattern %q: %v", p, err)
		}
		res = append(res, re)
	}
	return res, nil
}

// Match reports whether url passes the filter. A nil filter passes everything.
func (f *URLFilter) Match(url string) bool {
	if f == nil {
		return true
	}
	matches := func(re *regexp.Regexp) bool { return re.MatchString(url) }
	if len(f.Include) > 0 && !slices.ContainsFunc(f.Include, matches) {
		return false
	}
	return !slices.ContainsFunc(f.Exclude, matches)
}
