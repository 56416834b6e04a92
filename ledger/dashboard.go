package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/gestao/boleto-engine/calendar"
)

// =============================================================================
// DASHBOARD SUMMARY - Rolling buckets over pending installments
// =============================================================================

// Bucket accumulates a row count and the summed valor_original.
type Bucket struct {
	Count int
	Total decimal.Decimal
}

func (b *Bucket) add(amount decimal.Decimal) {
	b.Count++
	b.Total = b.Total.Add(amount)
}

// Dashboard is the rolling summary shown on the shell's landing screen.
// A row may land in more than one bucket: the tests are independent.
type Dashboard struct {
	Today     Bucket // effective due == today
	Overdue   Bucket // effective due strictly before today, any window
	ThisWeek  Bucket // effective due within the Sunday–Saturday week of today
	ThisMonth Bucket // effective due within the calendar month of today
}

// BuildDashboard buckets the pending installments. Each row's due date is
// resolved to a business day once and then tested against every bucket.
//
// The week runs Sunday–Saturday: when today is a Sunday the week starts
// today, otherwise at the most recent Sunday. The overdue bucket ignores the
// week/month windows entirely.
func BuildDashboard(pending []Installment, today calendar.Date, resolver *calendar.Resolver) Dashboard {
	weekStart := today.StartOfWeek()
	weekEnd := today.EndOfWeek()
	monthStart := today.StartOfMonth()
	monthEnd := today.EndOfMonth()

	var d Dashboard
	d.Today.Total = decimal.Zero
	d.Overdue.Total = decimal.Zero
	d.ThisWeek.Total = decimal.Zero
	d.ThisMonth.Total = decimal.Zero

	for _, inst := range pending {
		if inst.Paid() {
			continue
		}
		due := resolver.NextBusinessDay(inst.Vencimento)

		if due.Equal(today) {
			d.Today.add(inst.ValorOriginal)
		}
		if due.Before(today) {
			d.Overdue.add(inst.ValorOriginal)
		}
		if due.AfterOrEqual(weekStart) && due.BeforeOrEqual(weekEnd) {
			d.ThisWeek.add(inst.ValorOriginal)
		}
		if due.AfterOrEqual(monthStart) && due.BeforeOrEqual(monthEnd) {
			d.ThisMonth.add(inst.ValorOriginal)
		}
	}
	return d
}
