package htmltomarkdown_test

import (
	"testing"

	"github.com/fwojciec/navigator"
	"github.com/fwojciec/navigator/htmltomarkdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		want []string
	}{
		{
			name: "headings",
			html: `<h1>Widgets</h1><h2>Setup</h2>`,
			want: []string{"# Widgets", "## Setup"},
		},
		{
			name: "absolute link",
			html: `<p>Read <a href="https://widgets.dev/faq">the FAQ</a>.</p>`,
			want: []string{"[the FAQ](https://widgets.dev/faq)"},
		},
		{
			name: "lists",
			html: `<ul><li>alpha</li><li>beta</li></ul><ol><li>one</li><li>two</li></ol>`,
			want: []string{"- alpha", "- beta", "1. one", "2. two"},
		},
		{
			name: "code with language",
			html: `<pre><code class="language-go">fmt.Println("hi")</code></pre>`,
			want: []string{"```go", `fmt.Println("hi")`},
		},
		{
			name: "inline code and emphasis",
			html: `<p>Call <code>Open()</code> <strong>once</strong>, <em>never</em> twice.</p>`,
			want: []string{"`Open()`", "**once**", "*never*"},
		},
		{
			name: "table",
			html: `<table><thead><tr><th>Key</th><th>Default</th></tr></thead><tbody><tr><td>timeout</td><td>10s</td></tr></tbody></table>`,
			want: []string{"Key", "Default", "timeout", "10s", "|"},
		},
		{
			name: "blockquote",
			html: `<blockquote><p>Deprecated since 2.0.</p></blockquote>`,
			want: []string{"> Deprecated since 2.0."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			md, err := htmltomarkdown.NewConverter().Convert(tt.html, "https://widgets.dev/docs")

			require.NoError(t, err)
			for _, w := range tt.want {
				assert.Contains(t, md, w)
			}
		})
	}
}

func TestConverter_Convert_ResolvesRelativeLinks(t *testing.T) {
	t.Parallel()

	md, err := htmltomarkdown.NewConverter().Convert(`<p>See <a href="/docs/keys">keys</a>.</p>`, "https://widgets.dev/docs/setup")

	require.NoError(t, err)
	assert.Contains(t, md, "https://widgets.dev/docs/keys")
}

func TestConverter_Convert_RejectsEmptyInput(t *testing.T) {
	t.Parallel()

	_, err := htmltomarkdown.NewConverter().Convert("  ", "")

	assert.Equal(t, navigator.EINVALID, navigator.ErrorCode(err))
}
