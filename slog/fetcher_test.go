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

func debugLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestLoggingFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("logs size at debug level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		fetcher := navslog.NewLoggingFetcher(&mock.Fetcher{
			FetchFn: func(context.Context, string) (string, error) {
				return "<html>content</html>", nil
			},
		}, debugLogger(&buf))

		html, err := fetcher.Fetch(context.Background(), "https://example.com/docs")

		require.NoError(t, err)
		assert.Equal(t, "<html>content</html>", html)
		out := buf.String()
		assert.Contains(t, out, "level=DEBUG")
		assert.Contains(t, out, "url=https://example.com/docs")
		assert.Contains(t, out, "bytes=20")
		assert.Contains(t, out, "duration=")
	})

	t.Run("success is quiet at info level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		fetcher := navslog.NewLoggingFetcher(&mock.Fetcher{
			FetchFn: func(context.Context, string) (string, error) { return "ok", nil },
		}, slog.New(slog.NewTextHandler(&buf, nil)))

		_, err := fetcher.Fetch(context.Background(), "https://example.com/docs")

		require.NoError(t, err)
		assert.Empty(t, buf.String())
	})

	t.Run("warns with error code on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		fetcher := navslog.NewLoggingFetcher(&mock.Fetcher{
			FetchFn: func(context.Context, string) (string, error) {
				return "", navigator.Errorf(navigator.EFETCH, "HTTP 503")
			},
		}, slog.New(slog.NewTextHandler(&buf, nil)))

		_, err := fetcher.Fetch(context.Background(), "https://example.com/docs")

		require.Error(t, err)
		out := buf.String()
		assert.Contains(t, out, "level=WARN")
		assert.Contains(t, out, "code=fetch_failure")
	})

	t.Run("plain errors are internal", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		fetcher := navslog.NewLoggingFetcher(&mock.Fetcher{
			FetchFn: func(context.Context, string) (string, error) {
				return "", errors.New("network error")
			},
		}, slog.New(slog.NewTextHandler(&buf, nil)))

		_, _ = fetcher.Fetch(context.Background(), "https://example.com/docs")

		assert.Contains(t, buf.String(), "code=internal")
		assert.Contains(t, buf.String(), `err="network error"`)
	})
}

func TestLoggingFetcher_Close(t *testing.T) {
	t.Parallel()

	closed := false
	fetcher := navslog.NewLoggingFetcher(&mock.Fetcher{
		CloseFn: func() error {
			closed = true
			return nil
		},
	}, navslog.Discard())

	require.NoError(t, fetcher.Close())
	assert.True(t, closed)
}
