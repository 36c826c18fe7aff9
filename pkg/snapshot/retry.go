package snapshot

import (
	"context"
	"errors"
	"time"
)

// Connection retry defaults for networked backends.
const (
	connectAttempts = 3
	connectDelay    = 200 * time.Millisecond
)

// transientError marks a failure worth another attempt, such as a refused
// connection while a server is still starting.
type transientError struct{ err error }

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

func transient(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err: err}
}

// retry runs fn up to attempts times, doubling delay after each failure.
// Only errors wrapped by transient are retried. The returned error is
// unwrapped.
func retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var last error
	for i := range attempts {
		err := fn()
		if err == nil {
			return nil
		}
		var t *transientError
		if !errors.As(err, &t) {
			return err
		}
		last = t.err
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
	return last
}
