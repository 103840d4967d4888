package navigator_test

import (
	"net/url"
	"testing"

	"github.com/fwojciec/navigator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveLink(t *testing.T) {
	t.Parallel()

	base, err := url.Parse("https://example.com/docs/guide.html")
	require.NoError(t, err)

	tests := []struct {
		name string
		href string
		want string
	}{
		{"absolute http kept verbatim", "https://other.com/x?y=1#z", "https://other.com/x?y=1#z"},
		{"http prefix kept even when odd", "httpfoo", "httpfoo"},
		{"relative path", "intro.html", "https://example.com/docs/intro.html"},
		{"root relative path", "/about", "https://example.com/about"},
		{"parent path", "../index.html", "https://example.com/index.html"},
		{"fragment only", "#top", "https://example.com/docs/guide.html#top"},
		{"empty href resolves to page", "", "https://example.com/docs/guide.html"},
		{"mailto kept as absolute", "mailto:a@example.com", "mailto:a@example.com"},
		{"protocol relative", "//cdn.example.net/lib.js", "https://cdn.example.net/lib.js"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := navigator.ResolveLink(base, tt.href)

			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("reports unparseable href", func(t *testing.T) {
		t.Parallel()

		_, ok := navigator.ResolveLink(base, "%zz")

		assert.False(t, ok)
	})
}

func TestClassifyLink(t *testing.T) {
	t.Parallel()

	base, err := url.Parse("https://example.com:8443/docs/")
	require.NoError(t, err)

	assert.Equal(t, navigator.LinkInternal, navigator.ClassifyLink(base, "https://example.com:8443/a"))
	assert.Equal(t, navigator.LinkExternal, navigator.ClassifyLink(base, "https://example.com/a"))
	assert.Equal(t, navigator.LinkExternal, navigator.ClassifyLink(base, "https://sub.example.com:8443/a"))
	assert.Equal(t, navigator.LinkExternal, navigator.ClassifyLink(base, "mailto:a@example.com"))
	assert.Equal(t, navigator.LinkExternal, navigator.ClassifyLink(base, "http://[::1"))
}

func TestParseLinkType(t *testing.T) {
	t.Parallel()

	typ, err := navigator.ParseLinkType("Internal")
	require.NoError(t, err)
	assert.Equal(t, navigator.LinkInternal, typ)

	typ, err = navigator.ParseLinkType("External")
	require.NoError(t, err)
	assert.Equal(t, navigator.LinkExternal, typ)

	_, err = navigator.ParseLinkType("internal")
	assert.Equal(t, navigator.EINVALID, navigator.ErrorCode(err))
}

func TestIsFetchableURL(t *testing.T) {
	t.Parallel()

	assert.True(t, navigator.IsFetchableURL("https://example.com/a"))
	assert.True(t, navigator.IsFetchableURL("http://localhost:8080"))
	assert.False(t, navigator.IsFetchableURL("/relative"))
	assert.False(t, navigator.IsFetchableURL("mailto:a@example.com"))
	assert.False(t, navigator.IsFetchableURL("example.com/a"))
	assert.False(t, navigator.IsFetchableURL(""))
}
