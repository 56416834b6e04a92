/*
Package ledger implements the billing ledger engine.

PURPOSE:
  This package contains the domain types and algorithms for recurring
  installment bills (boletos): expanding a bill definition into a dated
  installment schedule, computing the interest/penalty-adjusted amount owed
  on overdue rows, filtering/sorting/paginating the stored installment set,
  and deriving the dashboard and monthly-report aggregates.

KEY CONCEPTS IN THIS FILE (types.go):
  - Installment: the persisted entity, one dated independently payable charge
  - BillInput / BillDefinition: raw and validated bill data
  - Session: the explicit acting-profile value passed into every operation
  - InstallmentView: an Installment plus the per-row derived fields

DESIGN PRINCIPLES:
  1. Precision: decimal.Decimal for every amount, never float64
  2. Derived, not mutated: the owed amount is always a view; valor_total is
     only changed by payment registration and reversal
  3. Explicit session: no ambient "current profile" state anywhere
  4. Denormalization by design: sibling installments duplicate the bill
     fields and stay independently editable; there is no bill parent row and
     editing one installment never cascades to its siblings

SEE ALSO:
  - schedule.go: Installment schedule expansion
  - accrual.go: Amount-owed computation
  - filter.go: Composable query predicates
  - service.go: The synchronous operation surface
*/
package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/gestao/boleto-engine/calendar"
)

// =============================================================================
// STATUSES AND MODES - stored verbatim, in the shell's vocabulary
// =============================================================================

// Status is the payment state of an installment.
type Status string

const (
	StatusPendente Status = "Pendente"
	StatusPago     Status = "Pago"
)

// InterestMode selects how daily interest accrues on a late installment.
type InterestMode string

const (
	// InterestFlat accrues a fixed currency amount per day late.
	InterestFlat InterestMode = "R$"
	// InterestPercent accrues valor_original * juros/100 per day late
	// (simple interest, non-compounding).
	InterestPercent InterestMode = "%"
)

// ScheduleMode selects how due dates are generated for a bill.
type ScheduleMode string

const (
	// ModeEven spaces installments a fixed 30 days apart.
	ModeEven ScheduleMode = "even"
	// ModeCustom uses an explicit slash-delimited day-offset list.
	ModeCustom ScheduleMode = "custom"
)

// =============================================================================
// SESSION - Explicit acting profile
// =============================================================================

// Session identifies the profile an operation acts on behalf of. A zero
// session is "not logged in" and every ledger operation rejects it.
type Session struct {
	ProfileID int64
}

// Active reports whether the session carries a profile.
func (s Session) Active() bool { return s.ProfileID > 0 }

// Profile is a registered user profile (the selection-screen entity).
type Profile struct {
	ID   int64
	Nome string
	Foto string
}

// =============================================================================
// BILL DEFINITION - Input to schedule generation
// =============================================================================

// BillInput is the bill definition as received from the presentation shell:
// numeric and date fields arrive as strings and are validated by ParseBill.
type BillInput struct {
	Empresa   string
	Categoria string
	Placa     string
	Descricao string

	Valor      string // flat amount of EACH installment (not divided by count)
	Vencimento string // first due date, YYYY-MM-DD
	Parcelas   string // installment count (ignored in custom mode)

	Juros     string // daily interest magnitude, empty = 0
	TipoJuros string // "R$" | "%", empty = "R$"
	Multa     string // flat penalty, empty = 0

	Modo  ScheduleMode
	Regra string // custom mode offsets, e.g. "0/15/30/45"
}

// BillDefinition is a validated bill definition.
type BillDefinition struct {
	Empresa   string
	Categoria string
	Placa     string
	Descricao string

	Valor      decimal.Decimal
	Vencimento calendar.Date
	Parcelas   int

	Juros     decimal.Decimal
	TipoJuros InterestMode
	Multa     decimal.Decimal

	Modo  ScheduleMode
	Regra string
}

// =============================================================================
// INSTALLMENT - The persisted entity
// =============================================================================

// Installment is one dated, independently payable charge of a bill schedule.
// The empresa/categoria/placa/descricao fields are denormalized copies shared
// by every installment generated from the same bill definition.
type Installment struct {
	ID        int64
	ProfileID int64

	Empresa   string
	Categoria string
	Placa     string
	Descricao string

	ValorOriginal decimal.Decimal
	Juros         decimal.Decimal
	TipoJuros     InterestMode
	Multa         decimal.Decimal
	// ValorTotal equals ValorOriginal while the installment is pending; a
	// payment freezes it at the amount actually paid.
	ValorTotal decimal.Decimal

	Vencimento calendar.Date
	Status     Status

	DataPagamento  *calendar.Date
	BancoPagamento string

	NumeroParcela int // 1-based position within its generation batch
	TotalParcelas int
}

// Paid reports whether the installment has been paid.
func (i Installment) Paid() bool { return i.Status == StatusPago }

// InstallmentEdit carries a partial update of the directly editable fields.
// Status and payment metadata are deliberately absent: those only change
// through payment registration and reversal.
type InstallmentEdit struct {
	Empresa   *string
	Categoria *string
	Placa     *string
	Descricao *string

	ValorOriginal *decimal.Decimal
	Juros         *decimal.Decimal
	TipoJuros     *InterestMode
	Multa         *decimal.Decimal
	Vencimento    *calendar.Date
}

// Empty reports whether the edit changes nothing.
func (e InstallmentEdit) Empty() bool {
	return e.Empresa == nil && e.Categoria == nil && e.Placa == nil &&
		e.Descricao == nil && e.ValorOriginal == nil && e.Juros == nil &&
		e.TipoJuros == nil && e.Multa == nil && e.Vencimento == nil
}

// =============================================================================
// DERIVED ROW VIEW - Query-engine output
// =============================================================================

// InstallmentView is an installment plus the fields derived per returned row:
// the business-day-resolved due date, lateness, and the amount currently owed.
type InstallmentView struct {
	Installment

	// EffectiveDue is the due date rolled forward to a business day.
	EffectiveDue calendar.Date
	// DiasAtraso is how many days past EffectiveDue "today" is (0 when not
	// yet due).
	DiasAtraso int
	// Overdue is true for pending rows past their effective due date.
	Overdue bool
	// ValorDevido is the amount currently owed: the accrued amount for
	// overdue pending rows, valor_original otherwise. Paid rows stay frozen
	// at their recorded ValorTotal, surfaced separately on the Installment.
	ValorDevido decimal.Decimal
}

// Pagination describes one page of a query result.
type Pagination struct {
	Page       int
	PageSize   int
	TotalItems int
	TotalPages int
}

// InstallmentPage is one page of query results with its pagination envelope.
type InstallmentPage struct {
	Rows       []InstallmentView
	Pagination Pagination
}
