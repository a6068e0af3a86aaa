package agecalc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	parsed, err := ParseDate("1990-06-15")
	require.NoError(t, err)
	assert.Equal(t, 1990, parsed.Year())
	assert.Equal(t, time.June, parsed.Month())
	assert.Equal(t, 15, parsed.Day())

	for _, bad := range []string{"", "15-06-1990", "1990/06/15", "1990-13-01", "not a date"} {
		_, err := ParseDate(bad)
		assert.ErrorIs(t, err, ErrInvalidDate, bad)
	}
}

func TestAge(t *testing.T) {
	loc := time.UTC
	asOf := time.Date(2025, time.June, 15, 10, 0, 0, 0, loc)

	cases := []struct {
		name string
		dob  time.Time
		want int
	}{
		{"birthday today", time.Date(1990, time.June, 15, 0, 0, 0, 0, loc), 35},
		{"birthday tomorrow", time.Date(1990, time.June, 16, 0, 0, 0, 0, loc), 34},
		{"birthday yesterday", time.Date(1990, time.June, 14, 0, 0, 0, 0, loc), 35},
		{"born this year", time.Date(2025, time.January, 1, 0, 0, 0, 0, loc), 0},
		{"dob in the future", time.Date(2026, time.January, 1, 0, 0, 0, 0, loc), 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Age(tc.dob, asOf, loc))
		})
	}

	t.Run("timezone shifts the day boundary", func(t *testing.T) {
		kolkata, err := time.LoadLocation("Asia/Kolkata")
		require.NoError(t, err)

		// 2025-06-14 23:00 UTC is already June 15 in Kolkata, so the
		// birthday has arrived there but not in UTC.
		asOf := time.Date(2025, time.June, 14, 23, 0, 0, 0, time.UTC)
		dob := time.Date(1990, time.June, 15, 0, 0, 0, 0, time.UTC)

		assert.Equal(t, 35, Age(dob, asOf, kolkata))
		assert.Equal(t, 34, Age(dob, asOf, time.UTC))
	})
}

func TestRecurringWithinDays(t *testing.T) {
	loc := time.UTC
	now := time.Date(2025, time.June, 15, 10, 0, 0, 0, loc)

	date := func(month time.Month, day int) time.Time {
		return time.Date(1990, month, day, 0, 0, 0, 0, loc)
	}

	cases := []struct {
		name string
		date time.Time
		days int
		now  time.Time
		want bool
	}{
		{"today", date(time.June, 15), 0, now, true},
		{"within window", date(time.June, 20), 7, now, true},
		{"just outside window", date(time.June, 23), 7, now, false},
		{"already passed this year", date(time.June, 10), 7, now, false},
		{"negative days", date(time.June, 15), -1, now, false},
		{
			"year wrap",
			date(time.January, 3),
			7,
			time.Date(2025, time.December, 29, 10, 0, 0, 0, loc),
			true,
		},
		{
			"year wrap outside window",
			date(time.January, 10),
			7,
			time.Date(2025, time.December, 29, 10, 0, 0, 0, loc),
			false,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, RecurringWithinDays(tc.date, tc.days, tc.now))
		})
	}
}
