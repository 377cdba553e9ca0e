package server

import (
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/labstack/echo/v4"

	"github.com/nfrund/mqbind/internal/middleware"
)

// setupErrorHandling installs an error handler that answers with JSON and logs
// unhandled errors with a stack trace.
func setupErrorHandling(e *echo.Echo) {
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		logger := middleware.FromContext(c.Request().Context())

		var he *echo.HTTPError
		if errors.As(err, &he) {
			if he.Internal != nil {
				logger.Error("Request failed", "status", he.Code, "error", he.Internal)
			}
			msg, ok := he.Message.(string)
			if !ok {
				msg = http.StatusText(he.Code)
			}
			writeError(c, he.Code, msg)
			return
		}

		logger.Error("Internal Server Error (Unhandled)",
			"error", err,
			"stack_trace", string(debug.Stack()))
		writeError(c, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}
}

func writeError(c echo.Context, code int, msg string) {
	var err error
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, ErrorResponse{Error: msg})
	}
	if err != nil {
		middleware.FromContext(c.Request().Context()).Error("Failed to write error response", "error", err)
	}
}
