// Package apperrors defines the service-wide error taxonomy. Services
// return these errors and the HTTP boundary translates them into a status
// code plus a structured body without inspecting service internals.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error into one of the API's failure categories.
type Kind int

const (
	// KindInternal covers store failures and unexpected conditions.
	KindInternal Kind = iota
	// KindAuthentication covers a missing or unusable identity token.
	KindAuthentication
	// KindInvalidArgument covers malformed ids and failed validation.
	KindInvalidArgument
	// KindNotFound covers absent resources, including resources owned by
	// another user. The two cases are indistinguishable to the caller.
	KindNotFound
	// KindDuplicateOperation covers repeats of a once-per-day operation.
	KindDuplicateOperation
)

// HTTPStatus maps the kind to its response status code.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindInvalidArgument, KindDuplicateOperation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error carries a kind, a caller-facing message and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Authentication builds a KindAuthentication error.
func Authentication(message string) error {
	return &Error{Kind: KindAuthentication, Message: message}
}

// InvalidArgument builds a KindInvalidArgument error.
func InvalidArgument(message string) error {
	return &Error{Kind: KindInvalidArgument, Message: message}
}

// NotFound builds a KindNotFound error.
func NotFound(message string) error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Duplicate builds a KindDuplicateOperation error.
func Duplicate(message string) error {
	return &Error{Kind: KindDuplicateOperation, Message: message}
}

// Internal builds a KindInternal error wrapping the underlying cause.
func Internal(message string, cause error) error {
	return &Error{Kind: KindInternal, Message: message, Err: cause}
}

// KindOf extracts the kind from err, defaulting to KindInternal for
// errors that did not originate from this package.
func KindOf(err error) Kind {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Kind
	}
	return KindInternal
}

// MessageOf extracts the caller-facing message from err. Errors outside
// the taxonomy report a generic message so internals never leak.
func MessageOf(err error) string {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Message
	}
	return "internal server error"
}
