package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// writeError renders the standard {status, message, data} envelope. It lives
// here because this package cannot import its parent.
func writeError(c echo.Context, status int, code, message string) error {
	return c.JSON(status, map[string]interface{}{
		"status":  status,
		"message": http.StatusText(status),
		"data": []map[string]string{{
			"code":    code,
			"message": message,
		}},
	})
}
