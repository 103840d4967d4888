package main_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/navigator"
	main "github.com/fwojciec/navigator/cmd/navigator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func documentSession() *navigator.Session {
	s := testSession("docs")
	s.Documents = []*navigator.Document{
		navigator.NewDocument("https://example.com/guide", "Guide", "# Guide\n\nintro\n\n## Install\n\nsteps", scanTime),
		navigator.NewDocument("https://example.com/faq", "", "questions", scanTime),
	}
	return s
}

func TestDocsCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("lists documents with titles", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := testDeps(stubSessions(documentSession(), nil))

		err := (&main.DocsCmd{Session: "docs"}).Run(deps)

		require.NoError(t, err)
		out := stdout.String()
		assert.Contains(t, out, "Documents for docs (2 total)")
		assert.Contains(t, out, "1. Guide")
		assert.Contains(t, out, "2. https://example.com/faq")
	})

	t.Run("shows heading outline", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := testDeps(stubSessions(documentSession(), nil))

		err := (&main.DocsCmd{Session: "docs", Outline: true}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "- Guide (#guide)")
		assert.Contains(t, stdout.String(), "  - Install (#install)")
	})

	t.Run("prints full content", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := testDeps(stubSessions(documentSession(), nil))

		err := (&main.DocsCmd{Session: "docs", Full: true}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "# Guide\nSource: ")
	})

	t.Run("exports JSONL that import reads back", func(t *testing.T) {
		t.Parallel()

		session := documentSession()
		want := session.Documents
		var upd navigator.SessionUpdate
		deps, _, _ := testDeps(stubSessions(session, &upd))
		path := filepath.Join(t.TempDir(), "docs.jsonl")

		require.NoError(t, (&main.DocsCmd{Session: "docs", Export: path}).Run(deps))

		session.Documents = nil
		require.NoError(t, (&main.DocsCmd{Session: "docs", Import: path}).Run(deps))

		require.NotNil(t, upd.Documents)
		got := *upd.Documents
		require.Len(t, got, 2)
		for i := range want {
			assert.Equal(t, want[i].SourceURL, got[i].SourceURL)
			assert.Equal(t, want[i].Content, got[i].Content)
			assert.Equal(t, want[i].Metadata, got[i].Metadata)
		}
	})

	t.Run("writes markdown files", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := testDeps(stubSessions(documentSession(), nil))
		dir := filepath.Join(t.TempDir(), "out")

		err := (&main.DocsCmd{Session: "docs", Markdown: dir}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Wrote 2 markdown files")
		data, err := os.ReadFile(filepath.Join(dir, "example.com", "guide.md"))
		require.NoError(t, err)
		assert.Contains(t, string(data), "## Install")
	})

	t.Run("returns empty error without documents", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := testDeps(stubSessions(testSession("docs"), nil))

		err := (&main.DocsCmd{Session: "docs"}).Run(deps)

		assert.Equal(t, navigator.EEMPTY, navigator.ErrorCode(err))
		assert.Contains(t, stderr.String(), "navigator fetch docs")
	})
}
