package jsonl_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fwojciec/navigator"
	"github.com/fwojciec/navigator/jsonl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	t.Parallel()

	docs := []*navigator.Document{
		{SourceURL: "https://example.com/", Content: "<p>Hi & bye</p>", Metadata: map[string]string{"source": "https://example.com/", "title": "Home"}},
		{SourceURL: "https://example.com/b", Content: "second"},
	}

	var buf bytes.Buffer
	require.NoError(t, jsonl.Encode(&buf, docs))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.JSONEq(t, `{"page_content":"<p>Hi & bye</p>","metadata":{"source":"https://example.com/","title":"Home"},"type":"Document"}`, lines[0])
	assert.JSONEq(t, `{"page_content":"second","metadata":{"source":"https://example.com/b"},"type":"Document"}`, lines[1])
	assert.Nil(t, docs[1].Metadata)
}

func TestDecode(t *testing.T) {
	t.Parallel()

	t.Run("round trips encoded documents", func(t *testing.T) {
		t.Parallel()

		docs := []*navigator.Document{
			{SourceURL: "https://example.com/", Content: "line one\nline two", Metadata: map[string]string{"source": "https://example.com/", "title": "Home"}},
		}

		var buf bytes.Buffer
		require.NoError(t, jsonl.Encode(&buf, docs))
		got, err := jsonl.Decode(&buf)

		require.NoError(t, err)
		assert.Equal(t, docs, got)
	})

	t.Run("ignores unknown keys and blank lines", func(t *testing.T) {
		t.Parallel()

		in := `{"id":null,"page_content":"a","metadata":{"source":"https://a.com/","language":"en"},"type":"Document"}

{"page_content":"b","metadata":{"source":"https://b.com/"}}
`

		got, err := jsonl.Decode(strings.NewReader(in))

		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "https://a.com/", got[0].SourceURL)
		assert.Equal(t, "en", got[0].Metadata["language"])
		assert.Equal(t, "b", got[1].Content)
	})

	t.Run("flattens non-string metadata", func(t *testing.T) {
		t.Parallel()

		in := `{"page_content":"x","metadata":{"source":"https://a.com/","start_index":1000,"ok":true,"tags":["a","b"],"none":null}}`

		got, err := jsonl.Decode(strings.NewReader(in))

		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, map[string]string{
			"source":      "https://a.com/",
			"start_index": "1000",
			"ok":          "true",
			"tags":        `["a","b"]`,
		}, got[0].Metadata)
	})

	t.Run("tolerates missing metadata", func(t *testing.T) {
		t.Parallel()

		got, err := jsonl.Decode(strings.NewReader(`{"page_content":"x"}`))

		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Empty(t, got[0].SourceURL)
		assert.NotNil(t, got[0].Metadata)
	})

	t.Run("rejects malformed lines", func(t *testing.T) {
		t.Parallel()

		_, err := jsonl.Decode(strings.NewReader("{\"page_content\":\"ok\"}\n{not json}\n"))

		assert.Equal(t, navigator.EINVALID, navigator.ErrorCode(err))
		assert.Contains(t, navigator.ErrorMessage(err), "line 2")
	})
}
