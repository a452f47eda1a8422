package apiutil

import (
	"strconv"
	"strings"
	"time"

	"github.com/acebook/dashboard/internal/booking"
)

func ParsePositiveInt64Field(raw string, field string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, FieldError{Field: field, Reason: "is required"}
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		return 0, FieldError{Field: field, Reason: "must be greater than 0"}
	}
	return value, nil
}

// ParseOptionalInt64Field returns 0 for a blank value.
func ParseOptionalInt64Field(raw string, field string) (int64, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, nil
	}
	return ParsePositiveInt64Field(raw, field)
}

// ParseDateField reads a YYYY-MM-DD value as midnight in loc.
func ParseDateField(raw string, field string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, FieldError{Field: field, Reason: "is required"}
	}
	parsed, err := time.ParseInLocation(booking.DateKeyLayout, raw, loc)
	if err != nil {
		return time.Time{}, FieldError{Field: field, Reason: "must be a date (YYYY-MM-DD)"}
	}
	return parsed, nil
}

// ParseClockField validates an HH:MM value and returns it normalized.
func ParseClockField(raw string, field string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", FieldError{Field: field, Reason: "is required"}
	}
	parsed, err := time.Parse(booking.HourLayout, raw)
	if err != nil {
		return "", FieldError{Field: field, Reason: "must be a time (HH:MM)"}
	}
	return parsed.Format(booking.HourLayout), nil
}

// FormBool treats checkbox values on, true and 1 as set.
func FormBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "on", "true", "1":
		return true
	default:
		return false
	}
}
