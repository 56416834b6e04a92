package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/gestao/boleto-engine/calendar"
)

// =============================================================================
// ACCRUAL CALCULATOR - Amount currently owed on an installment
// =============================================================================

var hundred = decimal.NewFromInt(100)

// ComputeOwed returns the amount currently owed for an installment.
//
// The stored due date is first rolled to a business day; an installment is
// only late once "today" is strictly past that effective due date. Interest
// then accrues per whole day late:
//
//	R$  mode: days_late * juros                      (flat amount per day)
//	%   mode: valor_original * juros/100 * days_late (simple, non-compounding)
//
// The result is valor_original + interest + multa rounded to 2 decimal
// places. Pure function: it never touches the stored valor_total.
func ComputeOwed(inst Installment, today calendar.Date, resolver *calendar.Resolver) decimal.Decimal {
	effectiveDue := resolver.NextBusinessDay(inst.Vencimento)
	if today.BeforeOrEqual(effectiveDue) {
		return inst.ValorOriginal
	}

	daysLate := decimal.NewFromInt(int64(effectiveDue.DaysUntil(today)))

	var interest decimal.Decimal
	switch inst.TipoJuros {
	case InterestPercent:
		interest = inst.ValorOriginal.Mul(inst.Juros).Div(hundred).Mul(daysLate)
	default:
		// Unset mode defaults to the flat R$ form.
		interest = daysLate.Mul(inst.Juros)
	}

	return inst.ValorOriginal.Add(interest).Add(inst.Multa).Round(2)
}

// Lateness returns the effective (business-day) due date, the whole days
// late, and whether the installment counts as overdue today. A paid
// installment is never overdue.
func Lateness(inst Installment, today calendar.Date, resolver *calendar.Resolver) (effectiveDue calendar.Date, daysLate int, overdue bool) {
	effectiveDue = resolver.NextBusinessDay(inst.Vencimento)
	if effectiveDue.Before(today) {
		daysLate = effectiveDue.DaysUntil(today)
	}
	overdue = daysLate > 0 && !inst.Paid()
	return effectiveDue, daysLate, overdue
}

// NewView derives the query-engine row view: effective due date, lateness,
// and the owed amount. Only currently-overdue pending rows get the accrued
// amount; everything else reports valor_original unchanged.
func NewView(inst Installment, today calendar.Date, resolver *calendar.Resolver) InstallmentView {
	effectiveDue, daysLate, overdue := Lateness(inst, today, resolver)

	owed := inst.ValorOriginal
	if overdue {
		owed = ComputeOwed(inst, today, resolver)
	}

	return InstallmentView{
		Installment:  inst,
		EffectiveDue: effectiveDue,
		DiasAtraso:   daysLate,
		Overdue:      overdue,
		ValorDevido:  owed,
	}
}
