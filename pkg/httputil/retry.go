package httputil

import (
	"context"
	"errors"
	"time"
)

// Retry defaults.
const (
	DefaultAttempts = 10
	DefaultDelay    = 500 * time.Millisecond
	DefaultMaxDelay = 2 * time.Minute
)

// RetryableError wraps an error to indicate it should trigger a retry.
// Wrap transient failures (connection refused, resets, DNS errors) with this
// type so that [Retry] knows to attempt the operation again.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Policy configures [Retry].
//
// Attempts is the total number of calls, including the first one. Delay is
// the wait after the first failure; it doubles after every further failure
// and never exceeds MaxDelay (zero means uncapped).
type Policy struct {
	Attempts int
	Delay    time.Duration
	MaxDelay time.Duration
}

// DefaultPolicy returns 10 attempts starting at 500ms, capped at 2 minutes.
func DefaultPolicy() Policy {
	return Policy{Attempts: DefaultAttempts, Delay: DefaultDelay, MaxDelay: DefaultMaxDelay}
}

// Retry executes fn up to p.Attempts times with exponential backoff.
// It only retries errors wrapped with [RetryableError]; other errors are
// returned immediately. Returns the last error if all attempts fail, or
// ctx.Err() if cancelled while waiting.
func Retry(ctx context.Context, p Policy, fn func() error) error {
	attempts := max(p.Attempts, 1)
	delay := p.Delay
	var lastErr error

	for i := range attempts {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !isRetryable(err) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
				if p.MaxDelay > 0 && delay > p.MaxDelay {
					delay = p.MaxDelay
				}
			}
		}
	}
	return lastErr
}

func isRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}
