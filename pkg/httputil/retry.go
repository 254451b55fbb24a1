package httputil

import (
	"context"
	"errors"
	"time"
)

// RetryableError marks a failure as transient. [Retry] re-attempts an
// operation only when its error wraps this type; everything else is
// treated as permanent and returned as-is.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retry runs fn until it succeeds, fails permanently, or attempts are
// exhausted. The wait between attempts starts at delay and doubles each
// time. A cancelled context aborts the wait and returns ctx.Err();
// otherwise the error of the final attempt is returned.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	var retryable *RetryableError
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		if !errors.As(err, &retryable) || attempt >= attempts {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
}

// RetryWithBackoff runs fn through [Retry] with the defaults used for
// lockfile downloads: 3 attempts starting at a 1 second delay.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return Retry(ctx, 3, time.Second, fn)
}
