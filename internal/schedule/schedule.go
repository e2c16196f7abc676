// Package schedule maps a recurring series' due date forward by one
// frequency interval.
package schedule

import (
	"time"

	apperrors "fiskal/internal/errors"
	"fiskal/internal/models"
)

// NextDue returns the due date one frequency interval after current.
// Monthly preserves the day of month, clamping to the last day of
// shorter months; yearly clamps Feb 29 to Feb 28 outside leap years.
// An unknown frequency is an error, never a silent default.
func NextDue(current time.Time, frequency models.Frequency) (time.Time, error) {
	switch frequency {
	case models.FrequencyWeekly:
		return current.AddDate(0, 0, 7), nil
	case models.FrequencyBiweekly:
		return current.AddDate(0, 0, 14), nil
	case models.FrequencyMonthly:
		return addMonthClamped(current), nil
	case models.FrequencyYearly:
		return addYearClamped(current), nil
	default:
		return time.Time{}, apperrors.WithMessage(apperrors.ErrUnsupportedFrequency,
			"Unsupported frequency: "+string(frequency))
	}
}

// addMonthClamped advances one calendar month without the overflow
// time.AddDate exhibits (Jan 31 + 1 month must be Feb 28/29, not Mar 3).
func addMonthClamped(t time.Time) time.Time {
	year, month, day := t.Date()
	firstOfNext := time.Date(year, month, 1, 0, 0, 0, 0, t.Location()).AddDate(0, 1, 0)
	if last := lastDayOfMonth(firstOfNext.Year(), firstOfNext.Month()); day > last {
		day = last
	}
	return time.Date(firstOfNext.Year(), firstOfNext.Month(), day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func addYearClamped(t time.Time) time.Time {
	year, month, day := t.Date()
	if last := lastDayOfMonth(year+1, month); day > last {
		day = last
	}
	return time.Date(year+1, month, day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// lastDayOfMonth uses the day-zero trick: day 0 of the next month is the
// last day of this one.
func lastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
