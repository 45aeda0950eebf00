package store

import "fmt"

// Code is a machine-readable error code for store failures.
type Code string

// Error codes surfaced by the catalog store.
const (
	CodeNotFound       Code = "NOT_FOUND"
	CodeDuplicateTitle Code = "DUPLICATE_TITLE"
	CodeDuplicateTag   Code = "DUPLICATE_TAG"
)

// Error is a domain error raised by the catalog store.
// Raw storage errors (unique violations, missing rows) are translated into
// these at the store boundary and never leaked upward.
type Error struct {
	Code    Code
	Message string
	Err     error // underlying error (optional)
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is makes sentinel comparison work through errors.Is by matching codes.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// WithMessage returns a copy of the error with a custom message.
func (e *Error) WithMessage(msg string) *Error {
	return &Error{Code: e.Code, Message: msg, Err: e.Err}
}

// WithCause returns a copy of the error wrapping an underlying cause.
func (e *Error) WithCause(err error) *Error {
	return &Error{Code: e.Code, Message: e.Message, Err: err}
}

// Sentinel errors.
var (
	// ErrNotFound is returned when an id-based lookup misses.
	ErrNotFound = &Error{Code: CodeNotFound, Message: "not found"}

	// ErrDuplicateTitle is returned when an insert collides on the
	// normalized title key.
	ErrDuplicateTitle = &Error{Code: CodeDuplicateTitle, Message: "title already exists"}

	// ErrDuplicateTag is returned on a case-insensitive tag name collision.
	ErrDuplicateTag = &Error{Code: CodeDuplicateTag, Message: "tag already exists"}
)
