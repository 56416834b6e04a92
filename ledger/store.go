/*
store.go - Persistence interfaces for the ledger engine

PURPOSE:
  The engine talks to storage through these interfaces only. The concrete
  implementation lives in store/sqlite; tests use the same implementation
  with an in-memory database.

CONTRACTS:
  - Every read/write is scoped by the owning profile id; rows of other
    profiles are invisible.
  - InsertInstallments is atomic: the whole generation batch commits or
    nothing does.
  - The mutation methods report the number of rows affected so the engine
    can distinguish "done" from "not found / not yours".

SEE ALSO:
  - store/sqlite/sqlite.go: The SQLite implementation
  - service.go: The only consumer
*/
package ledger

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/gestao/boleto-engine/calendar"
)

// Store persists installments and executes compiled queries.
type Store interface {
	// InsertInstallments writes a generation batch atomically.
	InsertInstallments(ctx context.Context, batch []Installment) error

	// QueryInstallments returns the rows matched by the query in the
	// documented sort order, plus the total match count before pagination.
	QueryInstallments(ctx context.Context, q InstallmentQuery) ([]Installment, int, error)

	// GetInstallment returns one profile-owned installment, or nil when the
	// row does not exist or belongs to another profile.
	GetInstallment(ctx context.Context, profileID, id int64) (*Installment, error)

	// RegisterPayment marks a pending installment paid, stamping the payment
	// metadata and freezing valor_total at the amount actually paid.
	RegisterPayment(ctx context.Context, profileID, id int64, banco string, dataPagamento calendar.Date, valorPago decimal.Decimal) (int64, error)

	// ReversePayment resets a paid installment to pending, clearing the
	// payment metadata and restoring valor_total = valor_original.
	ReversePayment(ctx context.Context, profileID, id int64) (int64, error)

	// UpdateInstallment applies a partial edit to an owned installment.
	UpdateInstallment(ctx context.Context, profileID, id int64, edit InstallmentEdit) (int64, error)

	// DeleteInstallment removes an owned installment.
	DeleteInstallment(ctx context.Context, profileID, id int64) (int64, error)
}

// ProfileStore persists the selection-screen profiles.
type ProfileStore interface {
	CreateProfile(ctx context.Context, nome, foto string) (int64, error)
	ListProfiles(ctx context.Context) ([]Profile, error)
	GetProfile(ctx context.Context, id int64) (*Profile, error)

	// DeleteProfile removes a profile. Whether its installments cascade is
	// an integrator decision configured on the concrete store.
	DeleteProfile(ctx context.Context, id int64) error
}
