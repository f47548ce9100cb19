package util

import (
	"strings"
	"time"
)

const (
	// DateLayout is the canonical day-month-year text form used on the wire.
	DateLayout = "02-01-2006"
	// looseDateLayout also accepts one-digit day and month ("5-3-2024").
	looseDateLayout = "2-1-2006"
)

// ParseDate parses a day-month-year date. Returns (t, true) on success.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(looseDateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatDate renders t as DD-MM-YYYY.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// NormalizeDate parses and re-formats s, returning the canonical form.
func NormalizeDate(s string) (string, bool) {
	t, ok := ParseDate(s)
	if !ok {
		return "", false
	}
	return FormatDate(t), true
}

// AddDays advances t by n calendar days.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}
