// Package result defines the uniform response envelope returned by every API
// operation.  A Result either succeeds with a payload or fails with a tagged
// error; the two states are mutually exclusive and a Result is never mutated
// after construction.  Internal error detail (the wrapped Go error chain) is
// kept for server-side logging only and is never serialized to clients.
package result

import (
	"errors"
	"net/http"
)

// Kind classifies a failure so callers and tests can branch on the category
// without parsing messages.
type Kind string

const (
	KindValidation     Kind = "ValidationError"
	KindAuthentication Kind = "AuthenticationError"
	KindPersistence    Kind = "PersistenceError"
	KindConfiguration  Kind = "ConfigurationError"
	KindInternal       Kind = "InternalError"
)

// Error is the externally visible error portion of a Result.  Type carries the
// Kind, Message a client-safe description, and InnerMessage the message of the
// wrapped cause when one is safe to show.  The cause itself stays off the wire.
type Error struct {
	Type         Kind   `json:"type"`
	Message      string `json:"message"`
	InnerMessage string `json:"innerMessage,omitempty"`

	cause error // server-side only, excluded from JSON
}

// Unwrap exposes the cause for errors.Is/errors.As on the server side.
func (e *Error) Unwrap() error { return e.cause }

// Error implements the error interface with the client-safe message.
func (e *Error) Error() string { return string(e.Type) + ": " + e.Message }

// Cause returns the wrapped internal error, or nil.  Intended for logging.
func (e *Error) Cause() error { return e.cause }

// Result is the generic envelope: status code, success flag, optional payload
// and optional error.  IsSuccess is true exactly when Error is nil.
type Result[T any] struct {
	StatusCode int    `json:"statusCode"`
	IsSuccess  bool   `json:"isSuccess"`
	Data       T      `json:"data"`
	Error      *Error `json:"error"`
}

// OK wraps a payload in a successful envelope with status 200.
func OK[T any](data T) Result[T] {
	return OKWithStatus(data, http.StatusOK)
}

// OKWithStatus is OK with an explicit status code (e.g. 201 for creates).
func OKWithStatus[T any](data T, code int) Result[T] {
	return Result[T]{StatusCode: code, IsSuccess: true, Data: data}
}

// Fail builds a failed envelope of the given kind.  Data may still carry a
// partial payload such as an error-flagged response object.
func Fail[T any](data T, kind Kind, message string, code int) Result[T] {
	return Result[T]{
		StatusCode: code,
		IsSuccess:  false,
		Data:       data,
		Error:      &Error{Type: kind, Message: message},
	}
}

// Invalid is the fixed-message validation failure used by the credential
// validator: status 400 and no field-level diagnostics.
func Invalid[T any](data T) Result[T] {
	return Fail(data, KindValidation, "invalid input values.", http.StatusBadRequest)
}

// Unauthorized builds an authentication failure with a deliberately generic
// message so that callers cannot distinguish why credentials were rejected.
func Unauthorized[T any](data T, message string) Result[T] {
	return Fail(data, KindAuthentication, message, http.StatusUnauthorized)
}

// FromError converts an unexpected error into a failed envelope with status
// 500.  The error chain is retained on the envelope for logging but only the
// outermost message is exposed as InnerMessage; stack traces are never
// serialized.
func FromError[T any](err error) Result[T] {
	return FromErrorWithStatus[T](err, http.StatusInternalServerError)
}

// FromErrorWithStatus is FromError with an explicit status code.
func FromErrorWithStatus[T any](err error, code int) Result[T] {
	var zero T
	e := &Error{Type: KindInternal, Message: "an unexpected error occurred", cause: err}
	var inner *Error
	if errors.As(err, &inner) {
		e.Type = inner.Type
		e.InnerMessage = inner.Message
	} else if err != nil {
		e.InnerMessage = err.Error()
	}
	return Result[T]{StatusCode: code, IsSuccess: false, Data: zero, Error: e}
}

// Persistence wraps a store error as a PersistenceError envelope.  The raw
// error is kept internally; clients only see the generic message.
func Persistence[T any](err error) Result[T] {
	var zero T
	return Result[T]{
		StatusCode: http.StatusInternalServerError,
		IsSuccess:  false,
		Data:       zero,
		Error:      &Error{Type: KindPersistence, Message: "a storage error occurred", cause: err},
	}
}
