package ledger_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/gestao/boleto-engine/calendar"
	"github.com/gestao/boleto-engine/ledger"
)

func newTestResolver() *calendar.Resolver { return calendar.NewResolver() }

func pendingInstallment(valor, juros string, tipo ledger.InterestMode, multa string, due calendar.Date) ledger.Installment {
	return ledger.Installment{
		ID:            1,
		ProfileID:     1,
		Empresa:       "Energia SA",
		ValorOriginal: decimal.RequireFromString(valor),
		Juros:         decimal.RequireFromString(juros),
		TipoJuros:     tipo,
		Multa:         decimal.RequireFromString(multa),
		ValorTotal:    decimal.RequireFromString(valor),
		Vencimento:    due,
		Status:        ledger.StatusPendente,
	}
}

// =============================================================================
// INTEREST ACCRUAL TESTS
// =============================================================================

func TestComputeOwed_FlatInterest(t *testing.T) {
	// GIVEN: valor 100.00, juros R$ 2/day, multa 5.00, due 2025-03-10 (Monday)
	// WHEN:  today is 2025-03-20, 10 days past the effective due date
	// THEN:  owed = 100 + 10*2 + 5 = 125.00

	inst := pendingInstallment("100.00", "2", ledger.InterestFlat, "5", calendar.NewDate(2025, time.March, 10))
	owed := ledger.ComputeOwed(inst, calendar.NewDate(2025, time.March, 20), newTestResolver())

	assert.Equal(t, "125.00", owed.StringFixed(2))
}

func TestComputeOwed_PercentInterest_Simple(t *testing.T) {
	// 10% of the ORIGINAL amount per day, never of the accrued balance:
	// 100 * 0.10 * 5 + 100 = 150.00 (compounding would give 161.05).

	inst := pendingInstallment("100.00", "10", ledger.InterestPercent, "0", calendar.NewDate(2025, time.March, 10))
	owed := ledger.ComputeOwed(inst, calendar.NewDate(2025, time.March, 15), newTestResolver())

	assert.Equal(t, "150.00", owed.StringFixed(2))
}

func TestComputeOwed_NotYetDue(t *testing.T) {
	inst := pendingInstallment("100.00", "2", ledger.InterestFlat, "5", calendar.NewDate(2025, time.March, 10))

	for _, today := range []calendar.Date{
		calendar.NewDate(2025, time.March, 1),
		calendar.NewDate(2025, time.March, 10), // on the due date itself
	} {
		owed := ledger.ComputeOwed(inst, today, newTestResolver())
		assert.Equal(t, "100.00", owed.StringFixed(2), "today=%s", today)
	}
}

func TestComputeOwed_HolidayShiftsEffectiveDue(t *testing.T) {
	// GIVEN: vencimento on 2025-01-01 (Confraternização Universal)
	// THEN:  effective due is Jan 2; no accrual on Jan 2, one day on Jan 3

	inst := pendingInstallment("100.00", "2", ledger.InterestFlat, "5", calendar.NewDate(2025, time.January, 1))
	res := newTestResolver()

	onEffective := ledger.ComputeOwed(inst, calendar.NewDate(2025, time.January, 2), res)
	assert.Equal(t, "100.00", onEffective.StringFixed(2))

	oneLate := ledger.ComputeOwed(inst, calendar.NewDate(2025, time.January, 3), res)
	assert.Equal(t, "107.00", oneLate.StringFixed(2))
}

func TestComputeOwed_WeekendShiftsEffectiveDue(t *testing.T) {
	// 2025-03-08 is a Saturday; effective due rolls to Monday the 10th.
	inst := pendingInstallment("200.00", "1.5", ledger.InterestFlat, "10", calendar.NewDate(2025, time.March, 8))
	res := newTestResolver()

	assert.Equal(t, "200.00",
		ledger.ComputeOwed(inst, calendar.NewDate(2025, time.March, 10), res).StringFixed(2))
	// 2 days late: 200 + 2*1.5 + 10 = 213.00
	assert.Equal(t, "213.00",
		ledger.ComputeOwed(inst, calendar.NewDate(2025, time.March, 12), res).StringFixed(2))
}

func TestComputeOwed_IsPure(t *testing.T) {
	// Same row queried twice yields the same number, and the row is untouched.
	inst := pendingInstallment("100.00", "2", ledger.InterestFlat, "5", calendar.NewDate(2025, time.March, 10))
	today := calendar.NewDate(2025, time.March, 20)
	res := newTestResolver()

	first := ledger.ComputeOwed(inst, today, res)
	second := ledger.ComputeOwed(inst, today, res)

	assert.True(t, first.Equal(second))
	assert.Equal(t, "100", inst.ValorTotal.String())
}

// =============================================================================
// LATENESS / VIEW TESTS
// =============================================================================

func TestLateness(t *testing.T) {
	inst := pendingInstallment("100.00", "2", ledger.InterestFlat, "5", calendar.NewDate(2025, time.March, 10))
	res := newTestResolver()

	effective, daysLate, overdue := ledger.Lateness(inst, calendar.NewDate(2025, time.March, 20), res)
	assert.Equal(t, calendar.NewDate(2025, time.March, 10), effective)
	assert.Equal(t, 10, daysLate)
	assert.True(t, overdue)
}

func TestLateness_PaidRowNeverOverdue(t *testing.T) {
	inst := pendingInstallment("100.00", "2", ledger.InterestFlat, "5", calendar.NewDate(2025, time.March, 10))
	inst.Status = ledger.StatusPago
	paidOn := calendar.NewDate(2025, time.March, 25)
	inst.DataPagamento = &paidOn

	_, daysLate, overdue := ledger.Lateness(inst, calendar.NewDate(2025, time.March, 30), newTestResolver())
	assert.Equal(t, 20, daysLate)
	assert.False(t, overdue, "settled rows stop accruing")
}

func TestNewView(t *testing.T) {
	res := newTestResolver()
	today := calendar.NewDate(2025, time.March, 20)

	overdue := pendingInstallment("100.00", "2", ledger.InterestFlat, "5", calendar.NewDate(2025, time.March, 10))
	v := ledger.NewView(overdue, today, res)
	assert.True(t, v.Overdue)
	assert.Equal(t, 10, v.DiasAtraso)
	assert.Equal(t, "125.00", v.ValorDevido.StringFixed(2))

	current := pendingInstallment("100.00", "2", ledger.InterestFlat, "5", calendar.NewDate(2025, time.April, 1))
	v = ledger.NewView(current, today, res)
	assert.False(t, v.Overdue)
	assert.Equal(t, 0, v.DiasAtraso)
	assert.Equal(t, "100.00", v.ValorDevido.StringFixed(2))
}
