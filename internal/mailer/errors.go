package mailer

import (
	"errors"
	"fmt"
)

// Category buckets delivery failures for user-facing display. Transport
// problems (no connection at all) are kept distinct from errors the server
// reported itself.
type Category string

const (
	// CategoryValidation means the inputs were rejected before any network
	// activity happened.
	CategoryValidation Category = "VALIDATION"

	// CategoryConnectivity means the server could not be reached at all.
	CategoryConnectivity Category = "CONNECTIVITY"

	// CategoryBadRequest means the server rejected the request (HTTP 400).
	CategoryBadRequest Category = "BAD_REQUEST"

	// CategoryPayloadTooLarge means the export exceeded the server's size
	// limit (HTTP 413).
	CategoryPayloadTooLarge Category = "PAYLOAD_TOO_LARGE"

	// CategoryServer means a server-side failure (HTTP 500/503); retrying
	// later may succeed. Retry is the caller's policy, never automatic.
	CategoryServer Category = "SERVER"
)

// Error is a delivery failure with a display category and a single
// human-readable message.
type Error struct {
	Category Category
	Message  string
	Err      error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Category, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Category, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// CategoryOf returns the category of a delivery error, or "" for other
// errors.
func CategoryOf(err error) Category {
	var me *Error
	if errors.As(err, &me) {
		return me.Category
	}
	return ""
}

// IsValidation reports whether err was rejected before any network call.
func IsValidation(err error) bool {
	return CategoryOf(err) == CategoryValidation
}
