package shared

import (
	"math"
	"time"
)

// DateLayout is the wire format of calendar dates
const DateLayout = "2006-01-02"

// StartOfDay truncates t to midnight in its own location
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DateOf returns the calendar date of t as midnight UTC, so dates compare
// the same way regardless of the location they were parsed in.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// FormatDate formats a calendar date as YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatDatePtr formats an optional date, returning nil when unset
func FormatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := FormatDate(*t)
	return &s
}

// DaysBetween returns the whole number of calendar days from a to b.
// It is negative when b is before a.
func DaysBetween(a, b time.Time) int {
	return int(math.Round(DateOf(b).Sub(DateOf(a)).Hours() / 24))
}

// CeilDays returns ceil((to - from) / 24h), the elapsed days counting a
// partial day as a whole one.
func CeilDays(from, to time.Time) int {
	return int(math.Ceil(to.Sub(from).Hours() / 24))
}

// ParseDateField parses a YYYY-MM-DD request field, naming the field in the
// validation error
func ParseDateField(field, s string) (time.Time, error) {
	t, err := ParseDate(s)
	if err != nil {
		return time.Time{}, NewValidationError("%s must be a date in YYYY-MM-DD format", field)
	}
	return t, nil
}

// ParseOptionalDateField is ParseDateField for optional fields; nil and ""
// yield nil
func ParseOptionalDateField(field string, s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := ParseDateField(field, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
