package middleware

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/nomnom-routing/vrpcore/internal/delivery/http/response"
	"github.com/nomnom-routing/vrpcore/internal/vrperrors"
)

// ErrorMiddleware translates errors escaping a handler into the wire
// envelope: AppErrors keep their own status and code, everything else
// becomes an opaque 500.
type ErrorMiddleware struct {
	logger *slog.Logger
}

// NewErrorMiddleware creates a new error handling middleware.
func NewErrorMiddleware(logger *slog.Logger) *ErrorMiddleware {
	return &ErrorMiddleware{
		logger: logger,
	}
}

// HandleErrors runs the next handler and renders whatever error it returns.
func (m *ErrorMiddleware) HandleErrors(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := next(c)
		if err == nil {
			return nil
		}

		return m.handleError(c, err)
	}
}

func (m *ErrorMiddleware) handleError(c echo.Context, err error) error {
	var appErr vrperrors.AppError
	if errors.As(err, &appErr) {
		details := appErr.Details()
		if appErr.HTTPCode() >= http.StatusInternalServerError {
			// 5xx responses never leak internal causes to the client.
			m.logger.Error("request failed",
				"code", appErr.ErrorCode(),
				"details", details,
				"path", c.Request().URL.Path,
				"method", c.Request().Method,
			)
			details = ""
		}

		return response.Error(c, appErr.HTTPCode(), appErr.ErrorCode(), appErr.Message(), details)
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message, ok := httpErr.Message.(string)
		if !ok {
			message = http.StatusText(httpErr.Code)
		}

		return response.Error(c, httpErr.Code, "HTTP_ERROR", message, "")
	}

	m.logger.Error("unhandled error",
		"error", err.Error(),
		"path", c.Request().URL.Path,
		"method", c.Request().Method,
	)

	return response.InternalServerError(c)
}
