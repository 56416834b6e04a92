package calendar

import "time"

// =============================================================================
// HOLIDAY TABLES - Regional + national set, fixed and Easter-relative
// =============================================================================

// FixedHoliday is a holiday that falls on the same month/day every year.
type FixedHoliday struct {
	Month time.Month
	Day   int
	Name  string
}

// MovingHoliday is a holiday defined as a day offset from Easter Sunday.
type MovingHoliday struct {
	Offset int // days relative to Easter Sunday
	Name   string
}

// DefaultFixedHolidays is the regional+national fixed-date table. It is data,
// not logic: a Resolver can be built over a different table.
var DefaultFixedHolidays = []FixedHoliday{
	{time.January, 1, "Confraternização Universal"},
	{time.January, 26, "Aniversário da Cidade"},
	{time.April, 21, "Tiradentes"},
	{time.April, 24, "São Jorge"},
	{time.May, 1, "Dia do Trabalho"},
	{time.May, 23, "Padroeira do Estado"},
	{time.September, 7, "Independência"},
	{time.October, 12, "Nossa Senhora Aparecida"},
	{time.November, 2, "Finados"},
	{time.November, 15, "Proclamação da República"},
	{time.November, 20, "Consciência Negra"},
	{time.December, 25, "Natal"},
}

// DefaultMovingHolidays are the Easter-relative holidays.
var DefaultMovingHolidays = []MovingHoliday{
	{-48, "Segunda de Carnaval"},
	{-47, "Terça de Carnaval"},
	{-46, "Quarta de Cinzas"},
	{-2, "Sexta-feira Santa"},
	{0, "Páscoa"},
	{60, "Corpus Christi"},
	{8, "Festa do Padroeiro"},
}

// HolidaySet is the resolved holiday dates for one calendar year.
type HolidaySet map[Date]string

// Contains reports whether the date is a holiday in this set.
func (hs HolidaySet) Contains(d Date) bool {
	_, ok := hs[NewDate(d.Year(), d.Month(), d.Day())]
	return ok
}

// HolidaysFor computes the holiday set for a year from the default tables.
// Pure function of the year; memoized by the Resolver.
func HolidaysFor(year int) HolidaySet {
	return BuildHolidaySet(year, DefaultFixedHolidays, DefaultMovingHolidays)
}

// BuildHolidaySet computes the holiday set for a year from explicit tables.
func BuildHolidaySet(year int, fixed []FixedHoliday, moving []MovingHoliday) HolidaySet {
	set := make(HolidaySet, len(fixed)+len(moving))
	for _, h := range fixed {
		set[NewDate(year, h.Month, h.Day)] = h.Name
	}
	easter := EasterSunday(year)
	for _, h := range moving {
		set[easter.AddDays(h.Offset)] = h.Name
	}
	return set
}
