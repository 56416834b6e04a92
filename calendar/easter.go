package calendar

import "time"

// =============================================================================
// GREGORIAN EASTER - Anonymous/Meeus computus
// =============================================================================

// EasterSunday returns the Gregorian Easter Sunday for the given year.
//
// This is the anonymous Gregorian algorithm (as published by Meeus): a
// closed-form computation over modular remainders, exact for every year in
// 1583–4099. No searching, no tables.
func EasterSunday(year int) Date {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451

	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1

	return NewDate(year, time.Month(month), day)
}
