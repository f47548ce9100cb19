package http

import (
	"fmt"
	"net/http"
)

// AppError represents application-level error with HTTP status.
type AppError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Field   string                 `json:"field,omitempty"`
	Params  map[string]interface{} `json:"params,omitempty"`
	Status  int                    `json:"-"`
	Err     error                  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new application error.
func NewAppError(code, field, message string, status int) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Field:   field,
		Status:  status,
	}
}

// WithParam sets a single error param.
func (e *AppError) WithParam(key string, value interface{}) *AppError {
	if e.Params == nil {
		e.Params = make(map[string]interface{})
	}
	e.Params[key] = value
	return e
}

// WithError wraps an underlying error.
func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

const (
	CodeBadRequest    = "ERR_BAD_REQUEST"
	CodeMissingFields = "ERR_MISSING_FIELDS"
	CodeDateFormat    = "ERR_DATE_FORMAT"
	CodeNotFound      = "ERR_NOT_FOUND"
	CodePrediction    = "ERR_PREDICTION"
	CodeRateLimited   = "ERR_RATE_LIMITED"
	CodeInternal      = "ERR_INTERNAL"
)

// BadRequestError creates a 400 error.
func BadRequestError(message string) *AppError {
	return NewAppError(CodeBadRequest, "", message, http.StatusBadRequest)
}

// NotFoundError creates a 404 error.
func NotFoundError(message string) *AppError {
	return NewAppError(CodeNotFound, "", message, http.StatusNotFound)
}

// UnprocessableError creates a 422 error for a well-formed but unusable field.
func UnprocessableError(code, field, message string) *AppError {
	return NewAppError(code, field, message, http.StatusUnprocessableEntity)
}

// BadGatewayError creates a 502 error for upstream failures.
func BadGatewayError(code, message string) *AppError {
	return NewAppError(code, "", message, http.StatusBadGateway)
}

// InternalError creates a 500 error.
func InternalError(message string) *AppError {
	return NewAppError(CodeInternal, "", message, http.StatusInternalServerError)
}
