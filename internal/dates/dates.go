// Package dates provides the calendar arithmetic shared by period
// aggregation and recurring due-date selection.
package dates

import (
	"math"
	"time"
)

// EndOfDay normalizes t to 23:59:59.999999999 in loc, making a closing
// window fully inclusive of the last calendar day.
func EndOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999999999, loc)
}

// StartOfDay normalizes t to midnight in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// StartOfNextDay returns midnight of the day after t in loc. A closed
// period's successor starts here.
func StartOfNextDay(t time.Time, loc *time.Location) time.Time {
	return StartOfDay(t, loc).AddDate(0, 0, 1)
}

// InRange reports whether t falls within [start, end], both bounds
// inclusive.
func InRange(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}

// DaysUntil returns the number of days from now until due, rounded up.
// Zero means due today, negative means overdue.
func DaysUntil(now, due time.Time) int {
	return int(math.Ceil(due.Sub(now).Hours() / 24))
}

// SameDay reports whether a and b fall on the same calendar day in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	a, b = a.In(loc), b.In(loc)
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
