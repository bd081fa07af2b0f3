package store

import "fmt"

// WriteCollision is returned when the non-blocking write lock could not be
// acquired because another writer currently holds it (§4.2). It is always
// retried per the bounded policy in WithRetry; if persistence ultimately fails
// it is surfaced to the control plane as a 503.
type WriteCollision struct {
	LockKey string
}

func (e *WriteCollision) Error() string {
	return fmt.Sprintf("write collision: could not acquire lock %s", e.LockKey)
}

// LockError indicates a fault in the lock subsystem itself (for example, the
// lock expiring before release was observed). It is treated as transient and
// retried with the same policy as WriteCollision.
type LockError struct {
	LockKey string
	Cause   error
}

func (e *LockError) Error() string {
	return fmt.Sprintf("lock error on %s: %v", e.LockKey, e.Cause)
}

func (e *LockError) Unwrap() error { return e.Cause }

// NotFoundError is returned by UpdateFootprintRequestByID when no footprint request matches
// the given request_id (§4.3). It is returned to the caller, never retried.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}
