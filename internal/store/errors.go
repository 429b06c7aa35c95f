package store

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes engine failures.
type ErrorCode string

const (
	// ErrCodeInitFailed indicates a persisted image exists but could not be
	// decoded or loaded. This is fatal: falling back to a fresh database
	// would silently discard all history.
	ErrCodeInitFailed ErrorCode = "INIT_FAILED"

	// ErrCodeNotReady indicates an operation was attempted before the
	// engine finished initializing (or after a failed initialization).
	ErrCodeNotReady ErrorCode = "NOT_READY"

	// ErrCodePersistFailed indicates a mutation succeeded in memory but the
	// re-serialized image could not be durably stored. A restart would roll
	// the mutation back, so callers must surface this.
	ErrCodePersistFailed ErrorCode = "PERSIST_FAILED"

	// ErrCodeConstraint indicates the database rejected a mutation, e.g. a
	// transaction referencing a catalog item that does not exist.
	ErrCodeConstraint ErrorCode = "CONSTRAINT"
)

// Error is an engine failure with a stable code for callers that need to
// branch on the category rather than the message.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error // underlying cause, optional
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsInitFailure reports whether err is a fatal initialization failure.
// Uses errors.As to handle wrapped errors.
func IsInitFailure(err error) bool {
	var se *Error
	return errors.As(err, &se) && se.Code == ErrCodeInitFailed
}

// IsNotReady reports whether err means the engine was not ready.
func IsNotReady(err error) bool {
	var se *Error
	return errors.As(err, &se) && se.Code == ErrCodeNotReady
}

// IsPersistFailure reports whether err means a write was applied in memory
// but not durably stored.
func IsPersistFailure(err error) bool {
	var se *Error
	return errors.As(err, &se) && se.Code == ErrCodePersistFailed
}

// IsConstraintViolation reports whether err is a database constraint
// rejection (referential integrity, uniqueness).
func IsConstraintViolation(err error) bool {
	var se *Error
	return errors.As(err, &se) && se.Code == ErrCodeConstraint
}

func newError(code ErrorCode, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}
