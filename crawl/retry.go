package crawl

import (
	"context"
	"time"
)

// Backoff lists the waits between attempts of a retried call. Its length is
// the number of retries, so a nil Backoff makes a single attempt.
type Backoff []time.Duration

// DefaultBackoff retries three times after 1s, 2s and 4s.
func DefaultBackoff() Backoff {
	return ExponentialBackoff(time.Second, 3)
}

// ExponentialBackoff returns n waits starting at base, each twice the last.
func ExponentialBackoff(base time.Duration, n int) Backoff {
	b := make(Backoff, n)
	for i := range b {
		b[i] = base << i
	}
	return b
}

// Retry calls fn until it succeeds or the waits run out, and returns the
// last error. onRetry is called with the failed attempt number before each
// wait. Cancelling ctx ends the waiting early with ctx.Err().
func (b Backoff) Retry(ctx context.Context, fn func(ctx context.Context) error, onRetry func(attempt int, err error)) error {
	var err error
	for attempt := 0; ; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if attempt >= len(b) {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if onRetry != nil {
			onRetry(attempt+1, err)
		}

		timer := time.NewTimer(b[attempt])
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
