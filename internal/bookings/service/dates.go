package service

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// All date arithmetic uses UTC as the fixed reference timezone:
// incoming values are converted to UTC and truncated to midnight, so
// a booking day means the same thing regardless of where the client
// or the server runs.

// NormalizeToUTCDay strips the time-of-day component in UTC.
func NormalizeToUTCDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseRentalDate accepts YYYY-MM-DD or RFC3339 and returns the value
// normalized to UTC midnight.
func ParseRentalDate(s string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return NormalizeToUTCDay(t), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return NormalizeToUTCDay(t), nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q: must be YYYY-MM-DD or RFC3339", s)
}

// DaysInclusive counts the calendar days spanned by [start, end]
// including both endpoints: start == end is one day. Both arguments
// must already be normalized to UTC midnight.
func DaysInclusive(start, end time.Time) int {
	return int(end.Sub(start)/(24*time.Hour)) + 1
}
