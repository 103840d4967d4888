package http_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/fwojciec/navigator"
	navhttp "github.com/fwojciec/navigator/http"
	"github.com/fwojciec/navigator/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sitemapFetcher serves sitemap bodies by URL and counts requests.
func sitemapFetcher(files map[string]string, calls map[string]int) *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (string, error) {
			if calls != nil {
				calls[url]++
			}
			body, ok := files[url]
			if !ok {
				return "", navigator.Errorf(navigator.EFETCH, "HTTP 404 for %s", url)
			}
			return body, nil
		},
	}
}

func TestSitemapService_DiscoverURLs(t *testing.T) {
	t.Parallel()

	t.Run("fetches over HTTP by default", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/xml")
			_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>https://example.com/b</loc></url>
  <url><loc> https://example.com/a </loc></url>
  <url><loc>https://example.com/b</loc></url>
  <url><lastmod>2024-01-01</lastmod></url>
</urlset>`))
		}))
		t.Cleanup(srv.Close)

		urls, err := navhttp.NewSitemapService(nil).DiscoverURLs(context.Background(), srv.URL+"/sitemap.xml", nil)

		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/b", "https://example.com/a"}, urls)
	})

	t.Run("expands sitemap indexes once each", func(t *testing.T) {
		t.Parallel()

		calls := map[string]int{}
		svc := navhttp.NewSitemapService(sitemapFetcher(map[string]string{
			"https://example.com/index.xml": `<sitemapindex>
  <sitemap><loc>https://example.com/pages.xml</loc></sitemap>
  <sitemap><loc>https://example.com/posts.xml</loc></sitemap>
  <sitemap><loc>https://example.com/pages.xml</loc></sitemap>
</sitemapindex>`,
			"https://example.com/pages.xml": `<urlset><url><loc>https://example.com/page</loc></url></urlset>`,
			"https://example.com/posts.xml": `<urlset><url><loc>https://example.com/post</loc></url><url><loc>https://example.com/page</loc></url></urlset>`,
		}, calls))

		urls, err := svc.DiscoverURLs(context.Background(), "https://example.com/index.xml", nil)

		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/page", "https://example.com/post"}, urls)
		assert.Equal(t, 1, calls["https://example.com/pages.xml"])
	})

	t.Run("applies filter", func(t *testing.T) {
		t.Parallel()

		svc := navhttp.NewSitemapService(sitemapFetcher(map[string]string{
			"https://example.com/sitemap.xml": `<urlset>
  <url><loc>https://example.com/docs/intro</loc></url>
  <url><loc>https://example.com/blog/news</loc></url>
  <url><loc>https://example.com/docs/draft</loc></url>
</urlset>`,
		}, nil))
		filter := &navigator.URLFilter{
			Include: []*regexp.Regexp{regexp.MustCompile(`/docs/`)},
			Exclude: []*regexp.Regexp{regexp.MustCompile(`draft`)},
		}

		urls, err := svc.DiscoverURLs(context.Background(), "https://example.com/sitemap.xml", filter)

		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/docs/intro"}, urls)
	})

	t.Run("empty urlset is an empty slice", func(t *testing.T) {
		t.Parallel()

		svc := navhttp.NewSitemapService(sitemapFetcher(map[string]string{
			"https://example.com/sitemap.xml": `<urlset></urlset>`,
		}, nil))

		urls, err := svc.DiscoverURLs(context.Background(), "https://example.com/sitemap.xml", nil)

		require.NoError(t, err)
		assert.NotNil(t, urls)
		assert.Empty(t, urls)
	})

	t.Run("rejects deep index chains", func(t *testing.T) {
		t.Parallel()

		files := map[string]string{}
		for i := 0; i <= navhttp.MaxSitemapDepth+1; i++ {
			files[fmt.Sprintf("https://example.com/%d.xml", i)] = fmt.Sprintf(
				`<sitemapindex><sitemap><loc>https://example.com/%d.xml</loc></sitemap></sitemapindex>`, i+1)
		}

		_, err := navhttp.NewSitemapService(sitemapFetcher(files, nil)).DiscoverURLs(context.Background(), "https://example.com/0.xml", nil)

		assert.Equal(t, navigator.EINVALID, navigator.ErrorCode(err))
		assert.Contains(t, navigator.ErrorMessage(err), "nested deeper")
	})

	t.Run("errors", func(t *testing.T) {
		t.Parallel()

		svc := navhttp.NewSitemapService(sitemapFetcher(map[string]string{
			"https://example.com/broken.xml": `<urlset><</urlset>`,
			"https://example.com/page.html":  `<html><body>not a sitemap</body></html>`,
		}, nil))

		tests := []struct {
			url  string
			code string
		}{
			{"https://example.com/missing.xml", navigator.EFETCH},
			{"https://example.com/broken.xml", navigator.EINVALID},
			{"https://example.com/page.html", navigator.EINVALID},
		}
		for _, tt := range tests {
			_, err := svc.DiscoverURLs(context.Background(), tt.url, nil)
			assert.Equal(t, tt.code, navigator.ErrorCode(err), tt.url)
		}
	})

	t.Run("respects canceled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := navhttp.NewSitemapService(sitemapFetcher(nil, nil)).DiscoverURLs(ctx, "https://example.com/sitemap.xml", nil)

		require.ErrorIs(t, err, context.Canceled)
	})
}
