// Package interval provides pure date-range arithmetic shared by the
// conflict, suggestion and validation packages.
package interval

import (
	"errors"
	"math"
	"time"
)

// ErrInvalidDate is returned when a zero or inverted date range is supplied.
var ErrInvalidDate = errors.New("invalid date")

// Overlap reports whether two half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect.
func Overlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// DurationHours returns the elapsed time between start and end in hours.
func DurationHours(start, end time.Time) float64 {
	return end.Sub(start).Hours()
}

// DurationDays returns the elapsed time between start and end in days,
// rounded up. A two-hour charter still occupies one calendar day.
func DurationDays(start, end time.Time) int {
	hours := end.Sub(start).Hours()
	if hours <= 0 {
		return 0
	}
	return int(math.Ceil(hours / 24))
}

// DayStart truncates t to midnight in its own location.
func DayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// BackToBack reports whether startB falls on the calendar day immediately
// after endA, or endA on the day immediately after startB. Adjacent bookings
// are not conflicts but the UI marks them so nobody assumes a free gap.
func BackToBack(endA, startB time.Time) bool {
	a := DayStart(endA)
	b := DayStart(startB)
	return b.Equal(a.AddDate(0, 0, 1)) || a.Equal(b.AddDate(0, 0, 1))
}

// IsWeekend reports whether t falls on a Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// ValidateRange checks that both ends of a range are set and ordered.
func ValidateRange(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return ErrInvalidDate
	}
	if !start.Before(end) {
		return ErrInvalidDate
	}
	return nil
}
