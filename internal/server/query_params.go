package server

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

const dateOnlyLayout = "2006-01-02"

func parseOptionalBool(value string) (*bool, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseBool(trimmed)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func parseOptionalTime(value string, endOfDay bool) (*time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	if parsed, err := time.Parse(time.RFC3339, trimmed); err == nil {
		return &parsed, nil
	}
	if parsed, err := time.Parse(dateOnlyLayout, trimmed); err == nil {
		if endOfDay {
			parsed = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)
		} else {
			parsed = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
		}
		return &parsed, nil
	}
	return nil, errors.New("invalid_time")
}

// parseReportRange reads from/to query params; both are required for
// report endpoints.
func parseReportRange(fromRaw, toRaw string) (time.Time, time.Time, error) {
	from, err := parseOptionalTime(fromRaw, false)
	if err != nil || from == nil {
		return time.Time{}, time.Time{}, newValidationError("from", "invalid_from", "invalid from")
	}
	to, err := parseOptionalTime(toRaw, true)
	if err != nil || to == nil {
		return time.Time{}, time.Time{}, newValidationError("to", "invalid_to", "invalid to")
	}
	return *from, *to, nil
}
