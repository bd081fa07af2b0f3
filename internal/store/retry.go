package store

import (
	"context"
	"errors"
	"time"
)

// RetryInterval and RetryDeadline implement §4.2's bounded retry policy:
// retry on WriteCollision or transient LockError with a 500ms interval, up
// to 5 seconds, then give up.
const (
	RetryInterval = 500 * time.Millisecond
	RetryDeadline = 5 * time.Second
)

// Retryable reports whether err is a failure that the bounded retry policy
// should retry (WriteCollision or LockError), as opposed to one that should
// be surfaced immediately.
func Retryable(err error) bool {
	var collision *WriteCollision
	var lockErr *LockError
	return errors.As(err, &collision) || errors.As(err, &lockErr)
}

// WithRetry runs fn repeatedly until it succeeds, a non-retryable error is
// returned, or RetryDeadline elapses, sleeping RetryInterval between
// attempts. The last error observed is returned on timeout.
func WithRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	deadline := time.Now().Add(RetryDeadline)
	var lastErr error

	for {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if !Retryable(lastErr) {
			return lastErr
		}
		if time.Now().After(deadline) {
			return lastErr
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(RetryInterval):
		}
	}
}
