package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gestao/boleto-engine/calendar"
)

// =============================================================================
// MONTHLY BALANCE REPORT - Grouped by categoria
// =============================================================================

// MonthlyReport is the per-month balance view. The per-categoria totals mix
// paid-actual and pending-projected amounts under one key on purpose: they
// answer "money attributable to this categoria this month" regardless of
// payment state.
type MonthlyReport struct {
	Referencia string // "YYYY-MM"

	TotalEsperado decimal.Decimal // sum of valor_original, any status
	TotalPago     decimal.Decimal // paid rows, at their recorded valor_total
	TotalPendente decimal.Decimal // pending rows, at their accrued owed amount

	PorCategoria map[string]decimal.Decimal

	Pagos     int
	Pendentes int
}

// MonthRange parses a "YYYY-MM" reference into the first and last day of
// that calendar month.
func MonthRange(ref string) (calendar.Date, calendar.Date, error) {
	t, err := time.Parse("2006-01", ref)
	if err != nil {
		return calendar.Date{}, calendar.Date{}, fmt.Errorf("invalid month reference %q: %w", ref, err)
	}
	start := calendar.NewDate(t.Year(), t.Month(), 1)
	return start, start.EndOfMonth(), nil
}

// BuildMonthlyReport aggregates the installments whose STORED due date falls
// in the reference month (selection is by stored vencimento; the business-day
// resolution only affects the accrued amounts of pending rows).
func BuildMonthlyReport(ref string, rows []Installment, today calendar.Date, resolver *calendar.Resolver) MonthlyReport {
	report := MonthlyReport{
		Referencia:    ref,
		TotalEsperado: decimal.Zero,
		TotalPago:     decimal.Zero,
		TotalPendente: decimal.Zero,
		PorCategoria:  make(map[string]decimal.Decimal),
	}

	for _, inst := range rows {
		report.TotalEsperado = report.TotalEsperado.Add(inst.ValorOriginal)

		if inst.Paid() {
			report.TotalPago = report.TotalPago.Add(inst.ValorTotal)
			report.Pagos++
			report.addCategoria(inst.Categoria, inst.ValorTotal)
			continue
		}

		owed := ComputeOwed(inst, today, resolver)
		report.TotalPendente = report.TotalPendente.Add(owed)
		report.Pendentes++
		report.addCategoria(inst.Categoria, owed)
	}
	return report
}

func (r *MonthlyReport) addCategoria(categoria string, amount decimal.Decimal) {
	if existing, ok := r.PorCategoria[categoria]; ok {
		r.PorCategoria[categoria] = existing.Add(amount)
		return
	}
	r.PorCategoria[categoria] = amount
}
