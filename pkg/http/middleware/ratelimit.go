package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Allower decides whether a request for key may proceed.
type Allower interface {
	Allow(key string) bool
}

// RateLimit rejects requests with 429 once the client's bucket is empty.
// Clients are keyed by their real IP. skip exempts paths such as health checks.
func RateLimit(limiter Allower, skip ...string) echo.MiddlewareFunc {
	exempt := make(map[string]struct{}, len(skip))
	for _, p := range skip {
		exempt[p] = struct{}{}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := exempt[c.Request().URL.Path]; ok {
				return next(c)
			}
			if !limiter.Allow(c.RealIP()) {
				c.Response().Header().Set("Retry-After", "1")
				return writeError(c, http.StatusTooManyRequests, "ERR_RATE_LIMITED", "rate limit exceeded, retry later")
			}
			return next(c)
		}
	}
}
