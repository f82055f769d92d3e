package middleware

import (
	"net/http"
	"smartMarket/pkg/logger"

	jsonres "smartMarket/pkg/response"

	"github.com/labstack/echo/v4"
)

// ErrorHandler is the echo HTTPErrorHandler. It normalizes every uncaught
// error into the standard error envelope.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "Internal server error"

	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if msg, ok := he.Message.(string); ok {
			message = msg
		}
	}

	if code >= http.StatusInternalServerError {
		logger.Error("Unhandled request error", "path", c.Request().URL.Path, "error", err)
	}

	codeLabel := http.StatusText(code)
	if jsonErr := c.JSON(code, jsonres.Error(codeLabel, message, nil)); jsonErr != nil {
		logger.Error("Failed to write error response", jsonErr)
	}
}
