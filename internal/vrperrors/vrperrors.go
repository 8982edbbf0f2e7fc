// Package vrperrors defines the discriminated error taxonomy that crosses
// handler boundaries: every fallible operation in the VRP core maps its
// internal cause onto one of the external kinds named here.
package vrperrors

import (
	"net/http"

	"github.com/pkg/errors"
)

// AppError is the unified application error interface. Every error that
// reaches a request handler's caller implements it.
type AppError interface {
	error
	HTTPCode() int     // HTTP status code a transport layer should use
	ErrorCode() string // stable machine-readable kind, e.g. "NotFound"
	Message() string   // user-facing, actionable message
	Details() string   // richer internal cause, never shown verbatim on 5xx
}

// BaseError is the default AppError implementation.
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error.
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface.
func (e *BaseError) Error() string {
	return e.message
}

// HTTPCode returns the HTTP status code.
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code.
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message.
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information.
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails returns a copy of e carrying richer detail, leaving e untouched
// so package-level sentinels stay safe to share across callers.
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// WrapMessage wraps e with an additional context message and stack trace.
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// The six external error kinds. Handlers translate every
// internal fallible step into one of these before it leaves the package.
var (
	ErrInvalidInput = NewBaseError(http.StatusBadRequest, "InvalidInput", "the request was invalid", "")
	ErrNotFound     = NewBaseError(http.StatusNotFound, "NotFound", "the requested resource was not found", "")
	ErrMalformed    = NewBaseError(http.StatusInternalServerError, "Malformed", "the uploaded data could not be parsed", "")
	ErrInfeasible   = NewBaseError(http.StatusUnprocessableEntity, "Infeasible", "no feasible route set exists for this instance", "")
	ErrTimeout      = NewBaseError(http.StatusInternalServerError, "Timeout", "the operation exceeded its deadline", "")
	ErrInternal     = NewBaseError(http.StatusInternalServerError, "internal_error", "internal server error", "")
)

// NotFound builds a NotFound AppError naming the missing entity kind and id.
func NotFound(kind, id string) *BaseError {
	return ErrNotFound.WithDetails(kind + " " + id + " not found")
}

// Invalid builds an InvalidInput AppError with a specific reason.
func Invalid(reason string) *BaseError {
	return ErrInvalidInput.WithDetails(reason)
}

// Infeasible builds an Infeasible AppError naming the unassigned customers.
func Infeasible(details string) *BaseError {
	return ErrInfeasible.WithDetails(details)
}

// Malformed builds a Malformed AppError wrapping the underlying parse cause.
func Malformed(details string) *BaseError {
	return ErrMalformed.WithDetails(details)
}
