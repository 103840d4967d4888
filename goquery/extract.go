// Package goquery implements HTML parsing with github.com/PuerkitoBio/goquery.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/navigator"
)

// ExtractLinks parses html served at pageURL and returns its title and
// outbound links. Every <a> carrying an href is collected, duplicates
// collapse to their first occurrence, and each link is classified against
// the page host.
func ExtractLinks(html string, pageURL string) (*navigator.PageLinks, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, navigator.Errorf(navigator.EINVALID, "invalid page URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, navigator.Errorf(navigator.EINVALID, "failed to parse HTML: %v", err)
	}

	links := &navigator.PageLinks{
		URL:   pageURL,
		Title: extractTitle(doc),
	}

	seen := make(map[string]bool)
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")

		resolved, ok := navigator.ResolveLink(base, href)
		if !ok {
			// Keep the raw value; it cannot be placed on any host.
			resolved = href
		}
		if seen[resolved] {
			return
		}
		seen[resolved] = true

		if navigator.ClassifyLink(base, resolved) == navigator.LinkInternal {
			links.Internal = append(links.Internal, resolved)
		} else {
			links.External = append(links.External, resolved)
		}
	})

	return links, nil
}

// extractTitle returns the text of the first <title> element.
func extractTitle(doc *goquery.Document) string {
	title := doc.Find("title").First()
	if title.Length() == 0 {
		return navigator.NoTitle
	}
	return title.Text()
}
