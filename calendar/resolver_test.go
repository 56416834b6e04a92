package calendar_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/gestao/boleto-engine/calendar"
)

// =============================================================================
// HOLIDAY SET TESTS
// =============================================================================

func TestHolidaysFor_FixedAndMovingDates(t *testing.T) {
	set := calendar.HolidaysFor(2025)

	// Fixed table
	assert.True(t, set.Contains(calendar.NewDate(2025, time.January, 1)))
	assert.True(t, set.Contains(calendar.NewDate(2025, time.September, 7)))
	assert.True(t, set.Contains(calendar.NewDate(2025, time.December, 25)))

	// Moving table, anchored on Easter 2025 (April 20)
	assert.True(t, set.Contains(calendar.NewDate(2025, time.March, 3)), "Carnival Monday")
	assert.True(t, set.Contains(calendar.NewDate(2025, time.March, 4)), "Carnival Tuesday")
	assert.True(t, set.Contains(calendar.NewDate(2025, time.March, 5)), "Ash Wednesday")
	assert.True(t, set.Contains(calendar.NewDate(2025, time.April, 18)), "Good Friday")
	assert.True(t, set.Contains(calendar.NewDate(2025, time.April, 20)), "Easter Sunday")
	assert.True(t, set.Contains(calendar.NewDate(2025, time.June, 19)), "Corpus Christi")
	assert.True(t, set.Contains(calendar.NewDate(2025, time.April, 28)), "patron feast")

	// An ordinary weekday is not in the set
	assert.False(t, set.Contains(calendar.NewDate(2025, time.March, 12)))
}

// =============================================================================
// BUSINESS-DAY RESOLVER TESTS
// =============================================================================

func TestResolver_BusinessDayUnchanged(t *testing.T) {
	r := calendar.NewResolver()

	// Wednesday March 12, 2025: plain business day
	d := calendar.NewDate(2025, time.March, 12)
	assert.Equal(t, d, r.NextBusinessDay(d))
}

func TestResolver_WeekendRollsToMonday(t *testing.T) {
	r := calendar.NewResolver()

	// Saturday March 8, 2025 -> Monday March 10
	got := r.NextBusinessDay(calendar.NewDate(2025, time.March, 8))
	assert.Equal(t, calendar.NewDate(2025, time.March, 10), got)
}

func TestResolver_HolidayRunRollsPastCluster(t *testing.T) {
	// GIVEN: Carnival Monday 2025 (March 3), followed by Carnival Tuesday
	//        and Ash Wednesday
	// THEN: the resolver lands on Thursday March 6

	r := calendar.NewResolver()
	got := r.NextBusinessDay(calendar.NewDate(2025, time.March, 3))
	assert.Equal(t, calendar.NewDate(2025, time.March, 6), got)
}

func TestResolver_GoodFridayIntoTiradentes(t *testing.T) {
	// GIVEN: Good Friday 2025 (April 18)
	// WHEN: rolling forward over the weekend, Easter Sunday, and the
	//       Tiradentes holiday on Monday April 21
	// THEN: the next business day is Tuesday April 22

	r := calendar.NewResolver()
	got := r.NextBusinessDay(calendar.NewDate(2025, time.April, 18))
	assert.Equal(t, calendar.NewDate(2025, time.April, 22), got)
}

func TestResolver_YearBoundaryRedrivesHolidaySet(t *testing.T) {
	// GIVEN: Saturday December 30, 2023
	// WHEN: rolling forward across the year boundary
	// THEN: January 1, 2024 is recognized as a holiday of the NEW year's
	//       set and the resolver lands on Tuesday January 2, 2024

	r := calendar.NewResolver()
	got := r.NextBusinessDay(calendar.NewDate(2023, time.December, 30))
	assert.Equal(t, calendar.NewDate(2024, time.January, 2), got)
}

func TestResolver_Idempotent(t *testing.T) {
	// resolve(resolve(d)) == resolve(d), and the result is never a weekend
	// or a holiday. Sweep two full years to cover every holiday.

	r := calendar.NewResolver()
	d := calendar.NewDate(2024, time.January, 1)
	end := calendar.NewDate(2025, time.December, 31)

	for ; d.BeforeOrEqual(end); d = d.AddDays(1) {
		resolved := r.NextBusinessDay(d)

		assert.Equal(t, resolved, r.NextBusinessDay(resolved), "idempotence at %s", d)
		assert.False(t, resolved.IsWeekend(), "weekend at %s", d)
		assert.False(t, r.Holidays(resolved.Year()).Contains(resolved), "holiday at %s", d)
		assert.True(t, resolved.AfterOrEqual(d))
	}
}

func TestResolver_CustomTables(t *testing.T) {
	// A resolver over an empty holiday table only skips weekends.
	r := calendar.NewResolverWithTables(nil, nil)

	got := r.NextBusinessDay(calendar.NewDate(2025, time.January, 1))
	assert.Equal(t, calendar.NewDate(2025, time.January, 1), got)
}
