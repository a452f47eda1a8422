package booking

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	defaultOpenHour  = 0
	defaultCloseHour = 23
)

// FallbackHours covers the whole day and is offered when no court is selected
// or a court reports identical open and close hours.
func FallbackHours() []string {
	hours := make([]string, 0, 24)
	for hour := 0; hour < 24; hour++ {
		hours = append(hours, formatHour(hour))
	}
	return hours
}

// HourOptions returns the bookable slots for court in iteration order. A close
// hour at or before the open hour wraps past midnight.
func HourOptions(court *Court) []string {
	if court == nil {
		return FallbackHours()
	}

	start, ok := parseHour(court.OpensAt)
	if !ok {
		start = defaultOpenHour
	}
	end, ok := parseHour(court.ClosesAt)
	if !ok {
		end = defaultCloseHour
	}
	if start == end {
		return FallbackHours()
	}

	normalizedEnd := end
	if end <= start {
		normalizedEnd = end + 24
	}

	hours := make([]string, 0, normalizedEnd-start)
	for hour := start; hour < normalizedEnd; hour++ {
		hours = append(hours, formatHour(hour%24))
	}
	return hours
}

// ContainsHour reports whether hour is one of options.
func ContainsHour(options []string, hour string) bool {
	for _, option := range options {
		if option == hour {
			return true
		}
	}
	return false
}

// HourNumber extracts the hour component of an "HH:MM" slot.
func HourNumber(hour string) (int, error) {
	if strings.TrimSpace(hour) == "" {
		return 0, fmt.Errorf("hour is required")
	}
	value, ok := parseHour(hour)
	if !ok || value < 0 || value > 23 {
		return 0, fmt.Errorf("invalid hour %q", hour)
	}
	return value, nil
}

// parseHour reads the leading hour component of an "HH:MM" value. A blank hour
// component counts as midnight.
func parseHour(value string) (int, bool) {
	head, _, _ := strings.Cut(strings.TrimSpace(value), ":")
	head = strings.TrimSpace(head)
	if head == "" {
		return 0, true
	}
	hour, err := strconv.Atoi(head)
	if err != nil {
		return 0, false
	}
	return hour, true
}

func formatHour(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}
