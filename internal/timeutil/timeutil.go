// Package timeutil handles the campaign calendar's YYYY-MM-DD dates.
package timeutil

import (
	"fmt"
	"time"
)

// DateLayout defines the canonical date format (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD date string.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

// FormatDate formats a time as YYYY-MM-DD in its current location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ShiftDate moves a YYYY-MM-DD date by the given number of days.
func ShiftDate(value string, days int) (string, error) {
	t, err := ParseDate(value)
	if err != nil {
		return "", fmt.Errorf("shift date %q: %w", value, err)
	}
	return FormatDate(t.AddDate(0, 0, days)), nil
}
