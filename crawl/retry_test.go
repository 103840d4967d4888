package crawl_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/navigator/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExponentialBackoff(t *testing.T) {
	t.Parallel()

	assert.Equal(t, crawl.Backoff{time.Second, 2 * time.Second, 4 * time.Second}, crawl.DefaultBackoff())
	assert.Empty(t, crawl.ExponentialBackoff(time.Second, 0))
}

func TestBackoff_Retry(t *testing.T) {
	t.Parallel()

	t.Run("stops at first success", func(t *testing.T) {
		t.Parallel()

		calls := 0
		var retried []int
		err := crawl.Backoff{0, 0, 0}.Retry(context.Background(), func(context.Context) error {
			calls++
			if calls < 2 {
				return errors.New("temporary")
			}
			return nil
		}, func(attempt int, _ error) { retried = append(retried, attempt) })

		require.NoError(t, err)
		assert.Equal(t, 2, calls)
		assert.Equal(t, []int{1}, retried)
	})

	t.Run("returns last error when waits run out", func(t *testing.T) {
		t.Parallel()

		calls := 0
		err := crawl.Backoff{0, 0}.Retry(context.Background(), func(context.Context) error {
			calls++
			return errors.New("down")
		}, nil)

		require.EqualError(t, err, "down")
		assert.Equal(t, 3, calls)
	})

	t.Run("nil backoff makes one attempt", func(t *testing.T) {
		t.Parallel()

		calls := 0
		err := crawl.Backoff(nil).Retry(context.Background(), func(context.Context) error {
			calls++
			return errors.New("down")
		}, nil)

		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("cancellation ends the wait", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		err := crawl.Backoff{time.Hour}.Retry(ctx, func(context.Context) error {
			return errors.New("down")
		}, func(int, error) { cancel() })

		assert.ErrorIs(t, err, context.Canceled)
	})
}
