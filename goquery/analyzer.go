package goquery

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/navigator"
)

// Ensure TagAnalyzer implements navigator.TagAnalyzer at compile time.
var _ navigator.TagAnalyzer = (*TagAnalyzer)(nil)

// TagAnalyzer reports the media elements of a page.
type TagAnalyzer struct{}

// NewTagAnalyzer creates a new TagAnalyzer.
func NewTagAnalyzer() *TagAnalyzer {
	return &TagAnalyzer{}
}

// Analyze returns one TagDetail per <img>, <video> and <audio> element in
// document order. Media elements without a src fall back to their first
// <source> child. Alt is set only when an <img> carries the attribute.
func (a *TagAnalyzer) Analyze(ctx context.Context, html string) ([]navigator.TagDetail, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, navigator.Errorf(navigator.EINVALID, "failed to parse HTML: %v", err)
	}

	details := []navigator.TagDetail{}
	doc.Find("img, video, audio").Each(func(_ int, sel *goquery.Selection) {
		tag := goquery.NodeName(sel)
		src, ok := sel.Attr("src")
		if !ok {
			src, _ = sel.Find("source[src]").First().Attr("src")
		}

		detail := navigator.TagDetail{Tag: tag, Src: src}
		if tag == "img" {
			if alt, ok := sel.Attr("alt"); ok {
				detail.Alt = &alt
			}
		}
		details = append(details, detail)
	})

	return details, nil
}
