package models

import (
	"fmt"
	"strings"
)

// ValidationError reports every required field that was missing or blank.
type ValidationError struct {
	MissingFields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing input fields: %s", strings.Join(e.MissingFields, ", "))
}

// DateFormatError reports a date that does not parse as DD-MM-YYYY.
type DateFormatError struct {
	Field string
	Value string
}

func (e *DateFormatError) Error() string {
	return fmt.Sprintf("invalid date format for %s: %q, use DD-MM-YYYY", e.Field, e.Value)
}

// NoHistoricalDataError is returned when the historical table has no rows
// for the requested commodity and market.
type NoHistoricalDataError struct {
	Commodity string
	Market    string
}

func (e *NoHistoricalDataError) Error() string {
	return fmt.Sprintf("no historical data found for commodity %q in market %q", e.Commodity, e.Market)
}

// PredictionError wraps any failure raised by the predictor.
type PredictionError struct {
	Err error
}

func (e *PredictionError) Error() string {
	return fmt.Sprintf("prediction failed: %v", e.Err)
}

// Unwrap returns the underlying predictor error.
func (e *PredictionError) Unwrap() error {
	return e.Err
}
