package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBusinessDaysAgoSkipsWeekend(t *testing.T) {
	// Monday noon. Walking back three workdays crosses the weekend:
	// Fri, Thu, Wed.
	monday := time.Date(2024, 6, 10, 12, 30, 0, 0, time.UTC)
	got := BusinessDaysAgo(monday, 3)
	require.Equal(t, time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC), got)
}

func TestBusinessDaysAgoMidweek(t *testing.T) {
	// Friday going back three workdays stays inside the same week.
	friday := time.Date(2024, 6, 14, 9, 0, 0, 0, time.UTC)
	got := BusinessDaysAgo(friday, 3)
	require.Equal(t, time.Date(2024, 6, 11, 0, 0, 0, 0, time.UTC), got)
}

func TestBusinessDaysAgoFromWeekend(t *testing.T) {
	// A Sunday start consumes no workday for itself.
	sunday := time.Date(2024, 6, 9, 18, 0, 0, 0, time.UTC)
	got := BusinessDaysAgo(sunday, 1)
	require.Equal(t, time.Date(2024, 6, 7, 0, 0, 0, 0, time.UTC), got)
}

func TestDateOnly(t *testing.T) {
	ts := time.Date(2024, 3, 1, 23, 59, 59, 123, time.FixedZone("x", 3600))
	got := DateOnly(ts)
	require.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), got)
}
