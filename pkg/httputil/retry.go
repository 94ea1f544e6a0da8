// Package httputil provides retry helpers shared by the platform API clients.
package httputil

import (
	"context"
	"errors"
	"time"
)

// RetryableError wraps an error to indicate it should trigger a retry.
// Wrap transient failures (network timeouts, 5xx responses) with this type
// so that [Backoff.Do] knows to attempt the operation again. Permanent
// failures (404s, rate limits) must not be wrapped; they are returned to
// the caller on the first attempt.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable wraps err as a RetryableError. Returns nil if err is nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryable reports whether err is wrapped with RetryableError.
func IsRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}

// Backoff retries an operation with exponentially growing delays.
// The zero value is not useful; use [DefaultBackoff] or set both fields.
type Backoff struct {
	Attempts int           // Total attempts, including the first (min 1)
	Delay    time.Duration // Delay before the second attempt; doubles each retry
}

// DefaultBackoff is the retry policy used by the platform clients:
// 3 attempts with a 1 second initial delay.
var DefaultBackoff = Backoff{Attempts: 3, Delay: time.Second}

// Do executes fn until it succeeds, returns a non-retryable error, or the
// attempt budget is exhausted. Waits between attempts are cancellable
// through ctx, in which case ctx.Err() is returned.
func (b Backoff) Do(ctx context.Context, fn func() error) error {
	attempts := max(b.Attempts, 1)
	delay := b.Delay

	var lastErr error
	for i := range attempts {
		err := fn()
		if err == nil {
			return nil
		}
		if lastErr = err; !IsRetryable(err) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}
