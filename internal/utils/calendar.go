package utils

import (
	"time"

	cal "github.com/rickar/cal/v2"
)

// create once at init; Monday through Friday workweek, no holidays --
// escalation timing only cares about the two weekend days.
var businessCal = cal.NewBusinessCalendar()

// BusinessDaysAgo walks backward from t one calendar day at a time,
// counting only workdays, until `days` workdays have been consumed.
// Weekend days are skipped without counting. The result is truncated
// to a date (midnight UTC) because escalation compares date-only.
func BusinessDaysAgo(t time.Time, days int) time.Time {
	return DateOnly(businessCal.WorkdaysFrom(t, -days))
}

// DateOnly strips the time-of-day component, keeping the date in UTC.
func DateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
