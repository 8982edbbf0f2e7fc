// Package response renders the API's wire envelopes: successful bodies
// pass through as-is, failures use the {error, message, details} shape.
package response

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorBody is the unified failure envelope. Details is omitted when the
// failure carries nothing beyond its message.
type ErrorBody struct {
	Error   string `json:"error"`   // stable machine-readable code, e.g. "NotFound"
	Message string `json:"message"` // user-facing, actionable message
	Details string `json:"details,omitempty"`
}

// JSON writes a successful response body verbatim.
func JSON(c echo.Context, statusCode int, body any) error {
	return c.JSON(statusCode, body)
}

// Error writes the failure envelope.
func Error(c echo.Context, statusCode int, errorCode, message, details string) error {
	if message == "" {
		message = http.StatusText(statusCode)
	}

	return c.JSON(statusCode, ErrorBody{
		Error:   errorCode,
		Message: message,
		Details: details,
	})
}

// BadRequest writes a 400 failure.
func BadRequest(c echo.Context, errorCode, message string) error {
	return Error(c, http.StatusBadRequest, errorCode, message, "")
}

// BindingError writes a 400 for a request body that failed to bind.
func BindingError(c echo.Context, message string) error {
	return Error(c, http.StatusBadRequest, "InvalidInput", message, "")
}

// NotFound writes a 404 failure.
func NotFound(c echo.Context, errorCode, message string) error {
	return Error(c, http.StatusNotFound, errorCode, message, "")
}

// InternalServerError writes a 500 failure with no implementation detail
// in the message.
func InternalServerError(c echo.Context) error {
	return Error(c, http.StatusInternalServerError, "internal_error", "internal server error", "")
}
