package ledger_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestao/boleto-engine/calendar"
	"github.com/gestao/boleto-engine/ledger"
)

func TestMonthRange(t *testing.T) {
	start, end, err := ledger.MonthRange("2025-02")
	require.NoError(t, err)
	assert.Equal(t, calendar.NewDate(2025, time.February, 1), start)
	assert.Equal(t, calendar.NewDate(2025, time.February, 28), end)

	start, end, err = ledger.MonthRange("2024-02")
	require.NoError(t, err)
	assert.Equal(t, calendar.NewDate(2024, time.February, 29), end, "leap year")
	assert.Equal(t, calendar.NewDate(2024, time.February, 1), start)
}

func TestMonthRange_Invalid(t *testing.T) {
	for _, ref := range []string{"", "2025", "02-2025", "2025-13", "março"} {
		_, _, err := ledger.MonthRange(ref)
		assert.Error(t, err, "ref=%q", ref)
	}
}

func TestBuildMonthlyReport(t *testing.T) {
	// GIVEN: a March with one settled row and two pending ones, one of them
	// overdue and accruing flat interest
	today := calendar.NewDate(2025, time.March, 20)
	res := newTestResolver()

	paid := pendingInstallment("300.00", "0", ledger.InterestFlat, "0", calendar.NewDate(2025, time.March, 5))
	paid.Categoria = "Aluguel"
	paid.Status = ledger.StatusPago
	paid.ValorTotal = decimal.RequireFromString("310.00") // settled above face value
	paidOn := calendar.NewDate(2025, time.March, 18)
	paid.DataPagamento = &paidOn

	// due Mar 10, 10 days late: 100 + 10*2 + 5 = 125.00
	overdue := pendingInstallment("100.00", "2", ledger.InterestFlat, "5", calendar.NewDate(2025, time.March, 10))
	overdue.Categoria = "Contas"

	upcoming := pendingInstallment("50.00", "2", ledger.InterestFlat, "5", calendar.NewDate(2025, time.March, 28))
	upcoming.Categoria = "Contas"

	report := ledger.BuildMonthlyReport("2025-03", []ledger.Installment{paid, overdue, upcoming}, today, res)

	assert.Equal(t, "2025-03", report.Referencia)
	assert.Equal(t, "450.00", report.TotalEsperado.StringFixed(2))
	assert.Equal(t, "310.00", report.TotalPago.StringFixed(2))
	assert.Equal(t, "175.00", report.TotalPendente.StringFixed(2))
	assert.Equal(t, 1, report.Pagos)
	assert.Equal(t, 2, report.Pendentes)

	// Per-categoria mixes paid-actual and pending-accrued amounts.
	require.Len(t, report.PorCategoria, 2)
	assert.Equal(t, "310.00", report.PorCategoria["Aluguel"].StringFixed(2))
	assert.Equal(t, "175.00", report.PorCategoria["Contas"].StringFixed(2))
}

func TestBuildMonthlyReport_Empty(t *testing.T) {
	report := ledger.BuildMonthlyReport("2025-03", nil, calendar.NewDate(2025, time.March, 20), newTestResolver())

	assert.True(t, report.TotalEsperado.IsZero())
	assert.True(t, report.TotalPago.IsZero())
	assert.True(t, report.TotalPendente.IsZero())
	assert.Empty(t, report.PorCategoria)
}
