// Package errors defines the coded errors floorplan returns to callers.
//
// An [Error] pairs a machine-readable [Code] with a message meant for the
// person who wrote the request. The CLI prints the message; the HTTP server
// maps the code to a status with [Code.Invalid] and [Code.NotFound] and
// returns both in the response body.
//
// Codes by family:
//
//	INVALID_*          request or option rejected by a validator (400)
//	*_NOT_FOUND        unknown session or room (404)
//	OVERLAP            manual edit would overlap another room (409)
//	OUT_OF_BOUNDS      manual edit has no usable interior (422)
//	NETWORK_ERROR      catalogue fetch failed
//	INTERNAL_ERROR     anything else
//
// Placement never returns an error: rooms that do not fit become warnings
// on the result.
//
// [Is] matches any code along the cause chain; [GetCode] reports the
// outermost one:
//
//	inner := errors.New(errors.ErrCodeInvalidInput, "id is empty")
//	err := errors.Wrap(errors.ErrCodeInvalidRoom, inner, "room %d", i)
//	errors.Is(err, errors.ErrCodeInvalidInput) // true
//	errors.GetCode(err)                        // INVALID_ROOM
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFloor  Code = "INVALID_FLOOR"
	ErrCodeInvalidRoom   Code = "INVALID_ROOM"
	ErrCodeInvalidDoor   Code = "INVALID_DOOR"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"

	// Resource not found errors
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeSessionNotFound Code = "SESSION_NOT_FOUND"
	ErrCodeRoomNotFound    Code = "ROOM_NOT_FOUND"

	// Rejected manual edits
	ErrCodeOverlap     Code = "OVERLAP"
	ErrCodeOutOfBounds Code = "OUT_OF_BOUNDS"

	// Network errors
	ErrCodeNetwork Code = "NETWORK_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Invalid reports whether c is one of the INVALID_* input codes.
func (c Code) Invalid() bool {
	return strings.HasPrefix(string(c), "INVALID_")
}

// NotFound reports whether c names a missing resource.
func (c Code) NotFound() bool {
	return c == ErrCodeNotFound || strings.HasSuffix(string(c), "_NOT_FOUND")
}

// Error carries a code, a message for users, and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New creates an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error around cause. Wrapping a validation error under a
// context code (e.g. a room index) keeps both codes reachable through [Is].
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether any *Error in err's chain carries code.
func Is(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode returns the code of the outermost *Error in err's chain, or "".
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
