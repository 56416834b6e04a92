package calendar

// =============================================================================
// BUSINESS-DAY RESOLVER
// =============================================================================

// Resolver rolls calendar dates forward to business days. It memoizes the
// holiday set per year; a set is cheap to recompute, so the memo needs no
// invalidation, only the year-boundary re-derivation when a roll-forward
// crosses into the next year.
//
// The resolver is the single source of truth for "is this installment
// actually overdue": every due-date comparison in the engine goes through
// NextBusinessDay first.
type Resolver struct {
	fixed  []FixedHoliday
	moving []MovingHoliday
	byYear map[int]HolidaySet
}

// NewResolver builds a resolver over the default holiday tables.
func NewResolver() *Resolver {
	return NewResolverWithTables(DefaultFixedHolidays, DefaultMovingHolidays)
}

// NewResolverWithTables builds a resolver over explicit holiday tables.
func NewResolverWithTables(fixed []FixedHoliday, moving []MovingHoliday) *Resolver {
	return &Resolver{
		fixed:  fixed,
		moving: moving,
		byYear: make(map[int]HolidaySet),
	}
}

// Holidays returns the memoized holiday set for a year.
func (r *Resolver) Holidays(year int) HolidaySet {
	if set, ok := r.byYear[year]; ok {
		return set
	}
	set := BuildHolidaySet(year, r.fixed, r.moving)
	r.byYear[year] = set
	return set
}

// IsBusinessDay reports whether d is a Mon–Fri non-holiday.
func (r *Resolver) IsBusinessDay(d Date) bool {
	if d.IsWeekend() {
		return false
	}
	return !r.Holidays(d.Year()).Contains(d)
}

// NextBusinessDay returns d unchanged when it already is a business day,
// otherwise the earliest later business day. Advances one day at a time;
// holiday density is low, so the loop runs at most a handful of iterations
// even across a year boundary (the set for the new year is derived on entry).
func (r *Resolver) NextBusinessDay(d Date) Date {
	for !r.IsBusinessDay(d) {
		d = d.AddDays(1)
	}
	return d
}
