package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorClass represents the classification of a request failure.
type ErrorClass string

const (
	// ErrorClassValidation indicates input that failed a domain precondition.
	ErrorClassValidation ErrorClass = "validation"

	// ErrorClassMalformed indicates a request that does not match the expected schema.
	ErrorClassMalformed ErrorClass = "malformed"

	// ErrorClassNotFound indicates the targeted record or route does not exist.
	ErrorClassNotFound ErrorClass = "not_found"

	// ErrorClassMethodNotAllowed indicates a known route called with the wrong method.
	ErrorClassMethodNotAllowed ErrorClass = "method_not_allowed"

	// ErrorClassUnavailable indicates the store could not be reached.
	ErrorClassUnavailable ErrorClass = "unavailable"

	// ErrorClassInternal indicates an unexpected failure, usually in the store.
	ErrorClassInternal ErrorClass = "internal"
)

// Common error codes.
const (
	ErrCodeValidation  = "VALIDATION_ERROR"
	ErrCodeMalformed   = "MALFORMED_REQUEST"
	ErrCodeNotFound    = "NOT_FOUND"
	ErrCodeMethod      = "METHOD_NOT_ALLOWED"
	ErrCodeUnavailable = "STORE_UNAVAILABLE"
	ErrCodeInternal    = "INTERNAL_ERROR"
)

const (
	detailTitleRequired = "Title is required."
	detailInvalidID     = "Invalid id"
	detailInternal      = "Internal Server Error"
	detailUnavailable   = "Store unavailable"
)

// Error is a classified request failure that maps onto an HTTP response.
type Error struct {
	// Class is the error classification.
	Class ErrorClass

	// Status is the HTTP status code sent to the client.
	Status int

	// Code is the error code for logs and metrics.
	Code string

	// Detail is the message sent to the client.
	Detail string

	// Err is the underlying error. It is never sent to the client.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s", e.Class, e.Detail, e.Err.Error())
	}
	return fmt.Sprintf("[%s] %s", e.Class, e.Detail)
}

// Unwrap returns the underlying error for error chain inspection.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewValidationError creates a 400 error with a fixed message.
func NewValidationError(detail string) *Error {
	return &Error{
		Class:  ErrorClassValidation,
		Status: http.StatusBadRequest,
		Code:   ErrCodeValidation,
		Detail: detail,
	}
}

// NewMalformedError creates a 422 error for requests that fail schema checks.
func NewMalformedError(detail string, err error) *Error {
	return &Error{
		Class:  ErrorClassMalformed,
		Status: http.StatusUnprocessableEntity,
		Code:   ErrCodeMalformed,
		Detail: detail,
		Err:    err,
	}
}

// NewNotFoundError creates a 404 error naming the resource, e.g. "Item not found".
func NewNotFoundError(resource string) *Error {
	return &Error{
		Class:  ErrorClassNotFound,
		Status: http.StatusNotFound,
		Code:   ErrCodeNotFound,
		Detail: resource + " not found",
	}
}

// NewRouteNotFoundError creates the 404 for a path no route serves.
func NewRouteNotFoundError() *Error {
	return &Error{
		Class:  ErrorClassNotFound,
		Status: http.StatusNotFound,
		Code:   ErrCodeNotFound,
		Detail: http.StatusText(http.StatusNotFound),
	}
}

// NewMethodNotAllowedError creates the 405 for a known path and an unsupported method.
func NewMethodNotAllowedError() *Error {
	return &Error{
		Class:  ErrorClassMethodNotAllowed,
		Status: http.StatusMethodNotAllowed,
		Code:   ErrCodeMethod,
		Detail: http.StatusText(http.StatusMethodNotAllowed),
	}
}

// NewUnavailableError creates a 503 error for a failed store health check.
func NewUnavailableError(err error) *Error {
	return &Error{
		Class:  ErrorClassUnavailable,
		Status: http.StatusServiceUnavailable,
		Code:   ErrCodeUnavailable,
		Detail: detailUnavailable,
		Err:    err,
	}
}

// NewInternalError creates a 500 error. The cause is kept for logging only.
func NewInternalError(err error) *Error {
	return &Error{
		Class:  ErrorClassInternal,
		Status: http.StatusInternalServerError,
		Code:   ErrCodeInternal,
		Detail: detailInternal,
		Err:    err,
	}
}

// asError classifies err, treating anything unclassified as internal.
func asError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return NewInternalError(err)
}
