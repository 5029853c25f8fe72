package domain

import (
	"errors"
	"fmt"
)

// Error kinds shared by every layer. Callers branch on these with errors.Is;
// the concrete *Error carries the display-safe message.
var (
	// ErrUnauthorized is returned when an operation needs an acting account and none was given.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is returned when the acting account lacks the role required for an action.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidArgument is returned for malformed input: empty required fields,
	// non-positive quantities, negative prices or counts, bad credential shapes.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound is returned when a referenced item, order, account or pickup point does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when an operation would break an invariant:
	// duplicate article or login, insufficient stock, item still referenced by an order.
	ErrConflict = errors.New("conflict")

	// ErrStorage wraps failures of the underlying store. The cause is kept for
	// logging and must not be used for business branching.
	ErrStorage = errors.New("storage failure")
)

// Error is a classified domain error. Message is safe to show to an end user.
type Error struct {
	Kind    error
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil && e.Kind == ErrStorage {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes both the kind and the cause to errors.Is/errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewError builds a classified error.
func NewError(kind error, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

// Unauthorized builds an ErrUnauthorized error with a formatted message.
func Unauthorized(format string, args ...any) *Error {
	return NewError(ErrUnauthorized, fmt.Sprintf(format, args...), nil)
}

// Forbidden builds an ErrForbidden error with a formatted message.
func Forbidden(format string, args ...any) *Error {
	return NewError(ErrForbidden, fmt.Sprintf(format, args...), nil)
}

// InvalidArgument builds an ErrInvalidArgument error with a formatted message.
func InvalidArgument(format string, args ...any) *Error {
	return NewError(ErrInvalidArgument, fmt.Sprintf(format, args...), nil)
}

// NotFound builds an ErrNotFound error with a formatted message.
func NotFound(format string, args ...any) *Error {
	return NewError(ErrNotFound, fmt.Sprintf(format, args...), nil)
}

// Conflict builds an ErrConflict error with a formatted message.
func Conflict(format string, args ...any) *Error {
	return NewError(ErrConflict, fmt.Sprintf(format, args...), nil)
}

// Storage wraps a store failure.
func Storage(message string, cause error) *Error {
	return NewError(ErrStorage, message, cause)
}

// Message returns the display-safe message of err. Errors that are not
// classified, and storage errors, get a generic message so internals never leak.
func Message(err error) string {
	var de *Error
	if errors.As(err, &de) && de.Kind != ErrStorage {
		return de.Message
	}
	return "an unexpected error occurred"
}

// ValidationError describes an invalid field of an entity.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap returns ErrInvalidArgument so validation failures classify as bad input.
func (e *ValidationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvalidArgument}
	}
	return []error{ErrInvalidArgument, e.Err}
}

// NewValidationError creates a ValidationError for field.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{Field: field, Message: message, Err: err}
}
