// Package htmltomarkdown converts extracted HTML into markdown with
// html-to-markdown.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/navigator"
)

// Ensure Converter implements navigator.Converter at compile time.
var _ navigator.Converter = (*Converter)(nil)

// Converter renders HTML as CommonMark with table support.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Converter{conv: conv}
}

// Convert renders html as markdown. Relative links and images are made
// absolute against pageURL so passages keep working references.
func (c *Converter) Convert(html, pageURL string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", navigator.Errorf(navigator.EINVALID, "empty HTML input")
	}

	var opts []converter.ConvertOptionFunc
	if pageURL != "" {
		opts = append(opts, converter.WithDomain(pageURL))
	}

	md, err := c.conv.ConvertString(html, opts...)
	if err != nil {
		return "", navigator.WrapError(navigator.EINVALID, err, "converting %s", pageURL)
	}
	return md, nil
}
