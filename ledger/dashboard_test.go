package ledger_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/gestao/boleto-engine/calendar"
	"github.com/gestao/boleto-engine/ledger"
)

func pendingOn(valor string, due calendar.Date) ledger.Installment {
	return pendingInstallment(valor, "0", ledger.InterestFlat, "0", due)
}

func TestBuildDashboard(t *testing.T) {
	// GIVEN: today is Wednesday 2025-03-12
	//   week  = Sun 2025-03-09 .. Sat 2025-03-15
	//   month = 2025-03-01 .. 2025-03-31
	today := calendar.NewDate(2025, time.March, 12)
	res := newTestResolver()

	rows := []ledger.Installment{
		pendingOn("10.00", calendar.NewDate(2025, time.March, 12)), // today + week + month
		pendingOn("20.00", calendar.NewDate(2025, time.March, 10)), // overdue + week + month
		pendingOn("40.00", calendar.NewDate(2025, time.March, 20)), // month only
		pendingOn("80.00", calendar.NewDate(2025, time.April, 2)),  // no bucket
		pendingOn("5.00", calendar.NewDate(2025, time.February, 3)), // overdue only
	}

	d := ledger.BuildDashboard(rows, today, res)

	assert.Equal(t, 1, d.Today.Count)
	assert.Equal(t, "10.00", d.Today.Total.StringFixed(2))

	assert.Equal(t, 2, d.Overdue.Count)
	assert.Equal(t, "25.00", d.Overdue.Total.StringFixed(2))

	assert.Equal(t, 2, d.ThisWeek.Count)
	assert.Equal(t, "30.00", d.ThisWeek.Total.StringFixed(2))

	assert.Equal(t, 3, d.ThisMonth.Count)
	assert.Equal(t, "70.00", d.ThisMonth.Total.StringFixed(2))
}

func TestBuildDashboard_BucketsUseEffectiveDueDate(t *testing.T) {
	// 2025-03-15 is a Saturday inside this week; its effective due date rolls
	// to Monday the 17th, which is OUTSIDE the Sun-Sat window. The row still
	// counts for the month.
	today := calendar.NewDate(2025, time.March, 12)

	d := ledger.BuildDashboard([]ledger.Installment{
		pendingOn("10.00", calendar.NewDate(2025, time.March, 15)),
	}, today, newTestResolver())

	assert.Equal(t, 0, d.ThisWeek.Count)
	assert.Equal(t, 1, d.ThisMonth.Count)
}

func TestBuildDashboard_SkipsPaidRows(t *testing.T) {
	today := calendar.NewDate(2025, time.March, 12)

	paid := pendingOn("10.00", calendar.NewDate(2025, time.March, 12))
	paid.Status = ledger.StatusPago
	paidOn := calendar.NewDate(2025, time.March, 12)
	paid.DataPagamento = &paidOn

	d := ledger.BuildDashboard([]ledger.Installment{paid}, today, newTestResolver())

	assert.Equal(t, 0, d.Today.Count)
	assert.Equal(t, 0, d.ThisMonth.Count)
}

func TestBuildDashboard_EmptyInput(t *testing.T) {
	d := ledger.BuildDashboard(nil, calendar.NewDate(2025, time.March, 12), newTestResolver())

	assert.Equal(t, 0, d.Today.Count)
	assert.True(t, d.Today.Total.Equal(decimal.Zero))
	assert.True(t, d.Overdue.Total.Equal(decimal.Zero))
}
