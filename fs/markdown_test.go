package fs_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/navigator"
	"github.com/fwojciec/navigator/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURLToPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		want string
	}{
		{name: "nested path", url: "https://example.com/docs/api/users", want: "example.com/docs/api/users.md"},
		{name: "trailing slash becomes index", url: "https://example.com/docs/", want: "example.com/docs/index.md"},
		{name: "root becomes index", url: "https://example.com", want: "example.com/index.md"},
		{name: "query and fragment ignored", url: "https://example.com/docs/api?v=2#top", want: "example.com/docs/api.md"},
		{name: "port kept in host directory", url: "http://localhost:8080/guide", want: "localhost_8080/guide.md"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := fs.URLToPath(tt.url)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestURLToPath_Rejects(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{
		"https://example.com/../../../etc/passwd",
		"/relative/only",
		"://bad",
	} {
		_, err := fs.URLToPath(raw)
		assert.Equal(t, navigator.EINVALID, navigator.ErrorCode(err), raw)
	}
}

func TestFormatDocument(t *testing.T) {
	t.Parallel()

	doc := navigator.NewDocument("https://example.com/docs", "Docs", "# Hello", time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))

	got := fs.FormatDocument(doc)

	assert.Equal(t, "---\nsource: https://example.com/docs\ntitle: Docs\nfetched: 2024-03-01T12:00:00Z\n---\n\n# Hello", got)
}

func TestExport(t *testing.T) {
	t.Parallel()

	t.Run("writes every document and replaces earlier export", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "out")
		require.NoError(t, os.MkdirAll(dir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "stale.md"), []byte("old"), 0o644))

		docs := []*navigator.Document{
			{SourceURL: "https://example.com/", Content: "home"},
			{SourceURL: "https://example.com/guide/start", Content: "start"},
		}

		n, err := fs.Export(dir, docs)

		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.FileExists(t, filepath.Join(dir, "example.com", "index.md"))
		data, err := os.ReadFile(filepath.Join(dir, "example.com", "guide", "start.md"))
		require.NoError(t, err)
		assert.Contains(t, string(data), "start")
		assert.NoFileExists(t, filepath.Join(dir, "stale.md"))
		assert.NoDirExists(t, dir+".tmp")
	})

	t.Run("leaves earlier export on failure", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "out")
		require.NoError(t, os.MkdirAll(dir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "keep.md"), []byte("old"), 0o644))

		docs := []*navigator.Document{
			{SourceURL: "https://example.com/ok", Content: "ok"},
			{SourceURL: "https://example.com/../escape", Content: "bad"},
		}

		_, err := fs.Export(dir, docs)

		assert.Equal(t, navigator.EINVALID, navigator.ErrorCode(err))
		assert.FileExists(t, filepath.Join(dir, "keep.md"))
		assert.NoDirExists(t, dir+".tmp")
	})
}
