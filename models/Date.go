package models

import (
	"strings"
	"time"
)

// DateLayout is the ISO calendar date format used for meal dates.
const DateLayout = "2006-01-02"

// ParseDate reads a YYYY-MM-DD value as midnight UTC.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(value))
}

// FormatDate renders the calendar day of t, ignoring its time of day.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// OptionalText turns blank form input into an absent value.
func OptionalText(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
