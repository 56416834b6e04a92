package calendar_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/gestao/boleto-engine/calendar"
)

// =============================================================================
// EASTER COMPUTATION TESTS
// =============================================================================

func TestEasterSunday_KnownDates(t *testing.T) {
	// Canonical Gregorian Easter dates across the range the engine cares
	// about, including the extremes of the Easter window (March 22 in 1818,
	// April 25 in 1886 and 1943).
	cases := []struct {
		year  int
		month time.Month
		day   int
	}{
		{1818, time.March, 22},
		{1886, time.April, 25},
		{1900, time.April, 15},
		{1943, time.April, 25},
		{1954, time.April, 18},
		{1981, time.April, 19},
		{2000, time.April, 23},
		{2008, time.March, 23},
		{2011, time.April, 24},
		{2016, time.March, 27},
		{2024, time.March, 31},
		{2025, time.April, 20},
		{2026, time.April, 5},
		{2038, time.April, 25},
		{2100, time.March, 28},
	}

	for _, tc := range cases {
		got := calendar.EasterSunday(tc.year)
		assert.Equal(t, calendar.NewDate(tc.year, tc.month, tc.day), got,
			"Easter %d", tc.year)
	}
}

func TestEasterSunday_AlwaysASundayInWindow(t *testing.T) {
	// GIVEN: any year between 1900 and 2100
	// THEN: Easter is a Sunday between March 22 and April 25 inclusive

	for year := 1900; year <= 2100; year++ {
		easter := calendar.EasterSunday(year)

		assert.Equal(t, time.Sunday, easter.Weekday(), "year %d", year)
		assert.True(t, easter.AfterOrEqual(calendar.NewDate(year, time.March, 22)),
			"year %d: %s before window", year, easter)
		assert.True(t, easter.BeforeOrEqual(calendar.NewDate(year, time.April, 25)),
			"year %d: %s after window", year, easter)
	}
}
