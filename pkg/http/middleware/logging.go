package middleware

import (
	"time"

	applogger "AgriCast/pkg/logger"

	"github.com/labstack/echo/v4"
)

// RequestLogging writes one structured line per request. Server errors log
// at error level, slow requests at warn, the rest at info.
func RequestLogging(l *applogger.Logger, slowThreshold time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req, res := c.Request(), c.Response()
			took := time.Since(start)
			fields := []applogger.Field{
				applogger.String("method", req.Method),
				applogger.String("route", routeLabel(c)),
				applogger.Int("status", res.Status),
				applogger.Duration("duration_ms", took),
				applogger.Int64("bytes", res.Size),
				applogger.String("remote_ip", c.RealIP()),
				applogger.String("request_id", res.Header().Get(echo.HeaderXRequestID)),
			}
			switch {
			case res.Status >= 500:
				l.Error("http request failed", fields...)
			case slowThreshold > 0 && took >= slowThreshold:
				l.Warn("http request slow", fields...)
			default:
				l.Info("http request", fields...)
			}
			return nil
		}
	}
}
