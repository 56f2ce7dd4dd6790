package httputil

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/drupalprojects/composer/pkg/errors"
)

// maxRetryAfter caps how long a server-provided Retry-After may stall a run.
const maxRetryAfter = 30 * time.Second

// RetryableError wraps an error to indicate it should trigger a retry.
// Wrap transient failures (network timeouts, 5xx responses) with this type
// so that [Retry] knows to attempt the operation again.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retry executes fn up to attempts times with exponential backoff.
// It retries errors wrapped with [RetryableError] and rate-limit responses;
// other errors are returned immediately. The delay doubles after each failed
// attempt unless the server asked for a specific Retry-After.
// Returns the last error if all attempts fail, or ctx.Err() if cancelled.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !isRetryable(err) {
			return err
		}

		if i < attempts-1 {
			wait := delay
			if after := retryAfter(err); after > 0 {
				wait = after
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
				delay *= 2
			}
		}
	}
	return lastErr
}

// RetryWithBackoff is a convenience wrapper around [Retry] with sensible
// defaults: 3 attempts with 1 second initial delay (doubling each retry).
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return Retry(ctx, 3, time.Second, fn)
}

func isRetryable(err error) bool {
	return errors.As(err, new(*RetryableError)) || errors.As(err, new(*apperrors.RateLimitedError))
}

func retryAfter(err error) time.Duration {
	var rl *apperrors.RateLimitedError
	if !errors.As(err, &rl) || rl.RetryAfter <= 0 {
		return 0
	}
	return min(time.Duration(rl.RetryAfter)*time.Second, maxRetryAfter)
}
