package http

import (
	"errors"
	"fmt"

	"github.com/creasty/defaults"
	"github.com/labstack/echo/v4"
)

// ReadRequest binds the request body into req and fills `default` tags.
// Field-level validation is left to the caller.
func ReadRequest(c echo.Context, req interface{}) *AppError {
	if err := c.Bind(req); err != nil {
		return bindError(err)
	}
	if err := defaults.Set(req); err != nil {
		return InternalError("could not apply request defaults").WithError(err)
	}
	return nil
}

func bindError(err error) *AppError {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := fmt.Sprintf("%v", he.Message)
		if he.Internal != nil {
			msg = fmt.Sprintf("%s: %v", msg, he.Internal)
		}
		return BadRequestError(msg).WithError(err)
	}
	return BadRequestError(err.Error()).WithError(err)
}
