// Package readability extracts the main content of a page with
// go-readability, the alternative to trafilatura.
package readability

import (
	"net/url"
	"strings"

	"github.com/fwojciec/navigator"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements navigator.Extractor at compile time.
var _ navigator.Extractor = (*Extractor)(nil)

// Extractor reduces a page to its main article.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the main article of rawHTML. Relative links in the
// article are resolved against pageURL when it parses as absolute.
func (e *Extractor) Extract(rawHTML, pageURL string) (*navigator.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, navigator.Errorf(navigator.EINVALID, "empty HTML input")
	}

	var base *url.URL
	if u, err := url.Parse(pageURL); err == nil && u.IsAbs() {
		base = u
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), base)
	if err != nil {
		return nil, navigator.WrapError(navigator.EINVALID, err, "extracting %s", pageURL)
	}

	return &navigator.ExtractResult{
		Title:       article.Title,
		ContentHTML: article.Content,
	}, nil
}
