package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	applogger "AgriCast/pkg/logger"

	"github.com/labstack/echo/v4"
)

// Recover turns a handler panic into a 500 response and an error log.
func Recover(l *applogger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				perr, ok := r.(error)
				if !ok {
					perr = fmt.Errorf("%v", r)
				}
				l.Error("panic recovered",
					applogger.String("path", c.Request().URL.Path),
					applogger.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
					applogger.Error(perr),
					applogger.String("stack", string(debug.Stack())),
				)
				err = writeError(c, http.StatusInternalServerError, "ERR_INTERNAL", "Something went wrong")
			}()
			return next(c)
		}
	}
}
