package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRetryable(t *testing.T) {
	assert.True(t, Retryable(&WriteCollision{LockKey: "x"}))
	assert.True(t, Retryable(&LockError{LockKey: "x", Cause: errors.New("boom")}))
	assert.False(t, Retryable(&NotFoundError{Kind: "footprint request", ID: "1"}))
	assert.False(t, Retryable(errors.New("plain error")))
}

func TestWithRetry_SucceedsAfterCollisions(t *testing.T) {
	attempts := 0
	err := WithRetry(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return &WriteCollision{LockKey: "active_services:lock"}
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestWithRetry_NonRetryableFailsImmediately(t *testing.T) {
	attempts := 0
	sentinel := errors.New("bad request")
	err := WithRetry(context.Background(), func(ctx context.Context) error {
		attempts++
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, 1, attempts)
}
