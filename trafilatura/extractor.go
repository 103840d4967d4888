// Package trafilatura extracts the main content of a page with
// go-trafilatura.
package trafilatura

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/fwojciec/navigator"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements navigator.Extractor at compile time.
var _ navigator.Extractor = (*Extractor)(nil)

// Extractor reduces a page to its main content.
type Extractor struct {
	// FavorPrecision drops borderline blocks instead of keeping them.
	FavorPrecision bool
}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the main content of rawHTML. Links and tables are kept so
// the markdown conversion can carry them.
func (e *Extractor) Extract(rawHTML, pageURL string) (*navigator.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, navigator.Errorf(navigator.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
		IncludeLinks:   true,
	}
	if e.FavorPrecision {
		opts.Focus = trafilatura.FavorPrecision
	}
	if u, err := url.Parse(pageURL); err == nil && u.Host != "" {
		opts.OriginalURL = u
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, navigator.WrapError(navigator.EINVALID, err, "extracting %s", pageURL)
	}

	contentHTML := html.EscapeString(result.ContentText)
	if result.ContentNode != nil {
		if contentHTML, err = renderNode(result.ContentNode); err != nil {
			return nil, err
		}
	}

	return &navigator.ExtractResult{
		Title:       result.Metadata.Title,
		ContentHTML: contentHTML,
	}, nil
}

func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
