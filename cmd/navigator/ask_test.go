package main_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/navigator"
	main "github.com/fwojciec/navigator/cmd/navigator"
	"github.com/fwojciec/navigator/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func askSession(t *testing.T) *navigator.Session {
	t.Helper()
	s := testSession("docs")
	s.Documents = []*navigator.Document{
		navigator.NewDocument("https://example.com/a", "A", "alpha alpha notes", scanTime),
		navigator.NewDocument("https://example.com/b", "B", "beta notes", scanTime),
	}
	s.PromptTemplate = "C: {context} Q: {question}"
	s.IndexPath = persistIndex(t, s, navigator.DefaultEmbeddingModel)
	return s
}

func TestAskCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("answers from the best matching passage", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := testDeps(stubSessions(askSession(t), nil))
		withEmbedder(deps, stubEmbedder(navigator.DefaultEmbeddingModel))

		var gotPrompt string
		var gotParams navigator.GenerationConfig
		deps.NewGenerator = func(id string) (navigator.Generator, error) {
			assert.Equal(t, navigator.DefaultLLMModel, id)
			return &mock.Generator{
				GenerateFn: func(_ context.Context, prompt string, params navigator.GenerationConfig) (string, error) {
					gotPrompt = prompt
					gotParams = params
					return "It is alpha.", nil
				},
			}, nil
		}

		err := (&main.AskCmd{Session: "docs", Question: "what about alpha?", K: 1}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "It is alpha.\n", stdout.String())
		assert.Equal(t, "C: alpha alpha notes Q: what about alpha?", gotPrompt)
		assert.Equal(t, navigator.DefaultGenerationConfig(), gotParams)
	})

	t.Run("requires an index", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := testDeps(stubSessions(testSession("docs"), nil))

		err := (&main.AskCmd{Session: "docs", Question: "q", K: 4}).Run(deps)

		assert.Equal(t, navigator.ENOTQUERYABLE, navigator.ErrorCode(err))
		assert.Contains(t, stderr.String(), "navigator index docs")
	})

	t.Run("rejects index built with another embedding model", func(t *testing.T) {
		t.Parallel()

		session := askSession(t)
		session.Models.Embedding.Model = "ollama:nomic-embed-text"
		deps, _, stderr := testDeps(stubSessions(session, nil))

		err := (&main.AskCmd{Session: "docs", Question: "q", K: 4}).Run(deps)

		assert.Equal(t, navigator.EMODELMISMATCH, navigator.ErrorCode(err))
		assert.Contains(t, stderr.String(), "error:")
	})

	t.Run("wraps generation failure", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := testDeps(stubSessions(askSession(t), nil))
		withEmbedder(deps, stubEmbedder(navigator.DefaultEmbeddingModel))
		deps.NewGenerator = func(string) (navigator.Generator, error) {
			return &mock.Generator{
				GenerateFn: func(context.Context, string, navigator.GenerationConfig) (string, error) {
					return "", errors.New("connection reset")
				},
			}, nil
		}

		err := (&main.AskCmd{Session: "docs", Question: "q", K: 4}).Run(deps)

		assert.Equal(t, navigator.EGENERATION, navigator.ErrorCode(err))
		assert.Contains(t, stderr.String(), "connection reset")
	})

	t.Run("rejects empty question", func(t *testing.T) {
		t.Parallel()

		deps, _, _ := testDeps(stubSessions(askSession(t), nil))
		withEmbedder(deps, stubEmbedder(navigator.DefaultEmbeddingModel))
		deps.NewGenerator = func(string) (navigator.Generator, error) {
			return &mock.Generator{}, nil
		}

		err := (&main.AskCmd{Session: "docs", Question: "", K: 4}).Run(deps)

		assert.Equal(t, navigator.EINVALID, navigator.ErrorCode(err))
	})
}
