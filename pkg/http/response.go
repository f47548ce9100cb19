package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// DataResponse writes the envelope with statusCode as both the HTTP status
// and the envelope status.
func DataResponse(c echo.Context, statusCode int, data interface{}) error {
	return c.JSON(statusCode, APIResponse{
		Status:  statusCode,
		Message: http.StatusText(statusCode),
		Data:    data,
	})
}

// SuccessResponse writes success response.
func SuccessResponse(c echo.Context, data interface{}) error {
	return DataResponse(c, http.StatusOK, data)
}

// InternalServerErrorResponse writes internal server error.
func InternalServerErrorResponse(c echo.Context) error {
	return DataResponse(c, http.StatusInternalServerError, []*AppError{InternalError("Something went wrong")})
}

// AppErrorResponse writes application error response.
func AppErrorResponse(c echo.Context, err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return DataResponse(c, appErr.Status, []*AppError{appErr})
	}
	return InternalServerErrorResponse(c)
}

// HTTPErrorHandler renders errors that escape handlers, including echo's own
// 404 and 405, in the response envelope.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg, ok := he.Message.(string)
		if !ok {
			msg = http.StatusText(he.Code)
		}
		code := CodeBadRequest
		switch he.Code {
		case http.StatusNotFound:
			code = CodeNotFound
		case http.StatusTooManyRequests:
			code = CodeRateLimited
		default:
			if he.Code >= http.StatusInternalServerError {
				code = CodeInternal
			}
		}
		_ = AppErrorResponse(c, NewAppError(code, "", msg, he.Code))
		return
	}
	_ = AppErrorResponse(c, err)
}
