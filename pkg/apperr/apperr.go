package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error and fixes its HTTP status.
type Kind int

const (
	Validation     Kind = iota // bad input shape or values
	Authentication             // missing, invalid, expired or stale credentials
	Authorization              // authenticated but role not allowed
	NotFound                   // resource does not exist
	Conflict                   // uniqueness violation
	Upstream                   // storage/email/payment collaborator failure
)

// Error is an operational application error. Operational errors carry a
// message safe to show to the caller; anything else is reduced to a generic
// message outside development mode.
type Error struct {
	Kind    Kind
	Message string
	Details any   // optional field-level messages for validation errors
	Err     error // wrapped cause, never sent to clients
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Status maps the error kind to an HTTP status code.
func (e *Error) Status() int {
	switch e.Kind {
	case Validation, Conflict:
		return http.StatusBadRequest
	case Authentication:
		return http.StatusUnauthorized
	case Authorization:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a cause to a new error of the given kind.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// WithDetails returns a validation error carrying field-level messages.
func WithDetails(message string, details any) *Error {
	return &Error{Kind: Validation, Message: message, Details: details}
}

// As extracts an *Error from err, or nil when err is not operational.
func As(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	e := As(err)
	return e != nil && e.Kind == kind
}
