// Package agecalc holds the timezone-anchored date arithmetic behind the
// membership business rules. All functions are pure; callers inject the
// reference time.
package agecalc

import (
	"errors"
	"time"
)

var ErrInvalidDate = errors.New("invalid date")

const dateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD value. Anything else fails with
// ErrInvalidDate.
func ParseDate(value string) (time.Time, error) {
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return parsed, nil
}

// Age returns completed years between dob and asOf, both interpreted in loc
// so the day boundary is consistent regardless of server locale.
func Age(dob, asOf time.Time, loc *time.Location) int {
	dob = dob.In(loc)
	asOf = asOf.In(loc)

	years := asOf.Year() - dob.Year()
	anniversary := time.Date(asOf.Year(), dob.Month(), dob.Day(), 0, 0, 0, 0, loc)
	if asOf.Before(anniversary) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

// RecurringWithinDays reports whether the month/day of date, projected onto
// the current year (rolling into next year if it already passed), falls
// within [now, now+days]. Used for birthday and anniversary reminders; the
// projection handles year wrap (e.g. Dec 29 seen from Dec 27 with days=7).
func RecurringWithinDays(date time.Time, days int, now time.Time) bool {
	if days < 0 {
		return false
	}

	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	next := time.Date(today.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	if next.Before(today) {
		next = time.Date(today.Year()+1, date.Month(), date.Day(), 0, 0, 0, 0, loc)
	}

	limit := today.AddDate(0, 0, days)
	return !next.After(limit)
}
