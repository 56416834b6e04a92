/*
Package calendar provides the regional business-day calendar.

PURPOSE:
  Everything date-related that the billing ledger depends on lives here:
  a day-granular Date type, the Gregorian Easter computation, the fixed and
  Easter-relative holiday tables, and the business-day resolver that decides
  whether a due date counts as late.

KEY CONCEPTS IN THIS FILE (date.go):
  - Date: A civil date (no clock, no zone ambiguity, always UTC midnight)
  - Comparison and day arithmetic used by the scheduler and the accrual
    calculator

DESIGN PRINCIPLES:
  1. Purity: holiday sets and Easter dates are functions of the year only
  2. Day granularity: the ledger never reasons below whole days
  3. Determinism: "today" is always passed in, never read inside the core

SEE ALSO:
  - easter.go: Gregorian Easter Sunday computation
  - holidays.go: Fixed and moving holiday tables
  - resolver.go: Business-day roll-forward with per-year memoization
*/
package calendar

import "time"

// Date is a civil date at day granularity, normalized to UTC midnight.
type Date struct {
	Time time.Time
}

// NewDate constructs a Date for the given year/month/day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current civil date.
func Today() Date {
	now := time.Now()
	return NewDate(now.Year(), now.Month(), now.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

// Comparison
func (d Date) Before(other Date) bool        { return d.normalize().Before(other.normalize()) }
func (d Date) Equal(other Date) bool         { return d.normalize().Equal(other.normalize()) }
func (d Date) After(other Date) bool         { return d.normalize().After(other.normalize()) }
func (d Date) BeforeOrEqual(other Date) bool { return d.Before(other) || d.Equal(other) }
func (d Date) AfterOrEqual(other Date) bool  { return d.After(other) || d.Equal(other) }

func (d Date) normalize() time.Time {
	return time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, time.UTC)
}

// Arithmetic
func (d Date) AddDays(n int) Date { return Date{Time: d.normalize().AddDate(0, 0, n)} }

// DaysUntil returns the number of whole days from d to other (negative when
// other is earlier).
func (d Date) DaysUntil(other Date) int {
	return int(other.normalize().Sub(d.normalize()).Hours() / 24)
}

// Properties
func (d Date) Year() int             { return d.Time.Year() }
func (d Date) Month() time.Month     { return d.Time.Month() }
func (d Date) Day() int              { return d.Time.Day() }
func (d Date) Weekday() time.Weekday { return d.normalize().Weekday() }
func (d Date) IsZero() bool          { return d.Time.IsZero() }

// IsWeekend reports whether the date falls on Saturday or Sunday.
func (d Date) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func (d Date) String() string { return d.normalize().Format("2006-01-02") }

// StartOfMonth returns the first day of the month containing d.
func (d Date) StartOfMonth() Date { return NewDate(d.Year(), d.Month(), 1) }

// EndOfMonth returns the last day of the month containing d.
func (d Date) EndOfMonth() Date {
	t := time.Date(d.Year(), d.Month()+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	return Date{Time: t}
}

// StartOfWeek returns the Sunday on or before d (weeks run Sunday–Saturday).
func (d Date) StartOfWeek() Date {
	return d.AddDays(-int(d.Weekday()))
}

// EndOfWeek returns the Saturday on or after d.
func (d Date) EndOfWeek() Date {
	return d.StartOfWeek().AddDays(6)
}
