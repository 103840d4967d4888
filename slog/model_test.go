package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/navigator"
	"github.com/fwojciec/navigator/mock"
	navslog "github.com/fwojciec/navigator/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingEmbedder_Embed(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	inner := &mock.Embedder{
		EmbedFn: func(ctx context.Context, texts []string) ([][]float32, error) {
			return [][]float32{{1}, {2}}, nil
		},
		ModelFn: func() string { return "ollama:all-minilm" },
	}

	emb := navslog.NewLoggingEmbedder(inner, logger)
	vecs, err := emb.Embed(context.Background(), []string{"a", "b"})

	require.NoError(t, err)
	assert.Len(t, vecs, 2)
	assert.Equal(t, "ollama:all-minilm", emb.Model())
	output := buf.String()
	assert.Contains(t, output, "model=ollama:all-minilm")
	assert.Contains(t, output, "texts=2")
	assert.Contains(t, output, "vectors=2")
}

func TestLoggingGenerator_Generate(t *testing.T) {
	t.Parallel()

	t.Run("logs sizes without prompt at info level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Generator{
			GenerateFn: func(ctx context.Context, prompt string, params navigator.GenerationConfig) (string, error) {
				return "four", nil
			},
		}

		text, err := navslog.NewLoggingGenerator(inner, logger).Generate(context.Background(), "secret prompt", navigator.DefaultGenerationConfig())

		require.NoError(t, err)
		assert.Equal(t, "four", text)
		output := buf.String()
		assert.Contains(t, output, "prompt_chars=13")
		assert.Contains(t, output, "answer_chars=4")
		assert.NotContains(t, output, "secret prompt")
	})

	t.Run("logs prompt at debug level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		inner := &mock.Generator{
			GenerateFn: func(ctx context.Context, prompt string, params navigator.GenerationConfig) (string, error) {
				return "", errors.New("model crashed")
			},
		}

		_, err := navslog.NewLoggingGenerator(inner, logger).Generate(context.Background(), "secret prompt", navigator.DefaultGenerationConfig())

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "prompt=\"secret prompt\"")
		assert.Contains(t, output, "err=\"model crashed\"")
	})
}
