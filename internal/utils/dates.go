package utils

import "time"

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
}

// ParseDate accepts the two formats clients send: RFC3339 timestamps
// and plain dates. Anything else is a validation failure attributed to
// the named field.
func ParseDate(field, value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, NewFieldError(field, "invalid date "+value)
}

// EndOfDay returns the last representable instant of t's date.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
