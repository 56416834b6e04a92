/*
service.go - The synchronous operation surface of the ledger engine

PURPOSE:
  One struct wiring the store, the business-day resolver, and the clock into
  the operations the presentation layer calls: schedule generation, the
  paginated query, payment registration/reversal, edit, delete, and the two
  aggregation reporters.

SESSION MODEL:
  Every profile-scoped operation takes an explicit Session value. There is
  no ambient "current profile" anywhere; two sessions can drive the same
  Service concurrently without interacting, because every store access is
  filtered by the session's profile id.

ERROR CONTRACT:
  Operations return typed errors (ErrNotLoggedIn, ErrNotFound,
  ValidationError); nothing is raised past the caller. The API layer folds
  these into the {status, msg} envelope the shell consumes.

SEE ALSO:
  - store.go: The persistence interfaces
  - api/handlers.go: The HTTP surface over this service
*/
package ledger

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/gestao/boleto-engine/calendar"
)

// Service is the billing ledger engine's call surface.
type Service struct {
	store    Store
	profiles ProfileStore
	resolver *calendar.Resolver

	// now is injectable for deterministic tests.
	now func() calendar.Date
}

// FullStore is what the sqlite store implements: installments plus profiles.
type FullStore interface {
	Store
	ProfileStore
}

// NewService wires a service over a store.
func NewService(store FullStore) *Service {
	return &Service{
		store:    store,
		profiles: store,
		resolver: calendar.NewResolver(),
		now:      calendar.Today,
	}
}

// WithClock overrides the service clock. Tests use this to pin "today".
func (s *Service) WithClock(now func() calendar.Date) *Service {
	s.now = now
	return s
}

// Resolver exposes the service's business-day resolver (shared so the
// per-year holiday memo is reused across operations).
func (s *Service) Resolver() *calendar.Resolver { return s.resolver }

// =============================================================================
// SCHEDULE GENERATION
// =============================================================================

// GenerateSchedule validates a bill definition, expands it into installment
// rows, and persists the batch atomically. Returns how many installments
// were generated.
func (s *Service) GenerateSchedule(ctx context.Context, sess Session, in BillInput) (int, error) {
	if !sess.Active() {
		return 0, ErrNotLoggedIn
	}

	def, err := ParseBill(in)
	if err != nil {
		return 0, err
	}

	batch, err := ExpandSchedule(sess.ProfileID, def)
	if err != nil {
		return 0, err
	}

	if err := s.store.InsertInstallments(ctx, batch); err != nil {
		return 0, fmt.Errorf("failed to persist schedule: %w", err)
	}
	return len(batch), nil
}

// =============================================================================
// LEDGER QUERY
// =============================================================================

// ListInstallments runs the filtered, status-ordered, paginated query and
// derives the per-row view fields. Page and pageSize are caller-trusted
// positive integers.
func (s *Service) ListInstallments(ctx context.Context, sess Session, filter Filter, page, pageSize int) (*InstallmentPage, error) {
	if !sess.Active() {
		return nil, ErrNotLoggedIn
	}

	today := s.now()
	rows, total, err := s.store.QueryInstallments(ctx, InstallmentQuery{
		ProfileID: sess.ProfileID,
		Where:     filter.Predicate(today),
		Today:     today,
		Page:      page,
		PageSize:  pageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query installments: %w", err)
	}

	views := make([]InstallmentView, len(rows))
	for i, inst := range rows {
		views[i] = NewView(inst, today, s.resolver)
	}

	return &InstallmentPage{
		Rows: views,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			TotalItems: total,
			TotalPages: TotalPages(total, pageSize),
		},
	}, nil
}

// =============================================================================
// MUTATIONS - payment, reversal, edit, delete
// =============================================================================

// RegisterPayment marks an installment paid: status becomes Pago, the
// payment metadata is stamped, and valor_total is frozen at the amount
// actually paid.
func (s *Service) RegisterPayment(ctx context.Context, sess Session, id int64, banco string, dataPagamento calendar.Date, valorPago decimal.Decimal) error {
	if !sess.Active() {
		return ErrNotLoggedIn
	}

	affected, err := s.store.RegisterPayment(ctx, sess.ProfileID, id, banco, dataPagamento, valorPago)
	if err != nil {
		return fmt.Errorf("failed to register payment: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ReversePayment is the exact inverse of RegisterPayment: status returns to
// Pendente, the payment metadata clears, and valor_total round-trips back to
// valor_original.
func (s *Service) ReversePayment(ctx context.Context, sess Session, id int64) error {
	if !sess.Active() {
		return ErrNotLoggedIn
	}

	affected, err := s.store.ReversePayment(ctx, sess.ProfileID, id)
	if err != nil {
		return fmt.Errorf("failed to reverse payment: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// EditInstallment applies a partial edit to one installment. Editing never
// cascades to the sibling installments of the same bill: each row is
// independently mutable by design.
func (s *Service) EditInstallment(ctx context.Context, sess Session, id int64, edit InstallmentEdit) error {
	if !sess.Active() {
		return ErrNotLoggedIn
	}
	if edit.Empty() {
		return invalidField("edicao", "nenhum campo informado")
	}

	affected, err := s.store.UpdateInstallment(ctx, sess.ProfileID, id, edit)
	if err != nil {
		return fmt.Errorf("failed to edit installment: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteInstallment removes one installment owned by the session's profile.
func (s *Service) DeleteInstallment(ctx context.Context, sess Session, id int64) error {
	if !sess.Active() {
		return ErrNotLoggedIn
	}

	affected, err := s.store.DeleteInstallment(ctx, sess.ProfileID, id)
	if err != nil {
		return fmt.Errorf("failed to delete installment: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// =============================================================================
// AGGREGATION REPORTERS
// =============================================================================

// DashboardSummary buckets the profile's pending installments into the
// today / overdue / this-week / this-month summary.
func (s *Service) DashboardSummary(ctx context.Context, sess Session) (*Dashboard, error) {
	if !sess.Active() {
		return nil, ErrNotLoggedIn
	}

	today := s.now()
	pendente := StatusPendente
	rows, _, err := s.store.QueryInstallments(ctx, InstallmentQuery{
		ProfileID: sess.ProfileID,
		Where:     Filter{Status: &pendente}.Predicate(today),
		Today:     today,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load pending installments: %w", err)
	}

	d := BuildDashboard(rows, today, s.resolver)
	return &d, nil
}

// MonthlyReport aggregates every installment whose stored due date falls in
// the "YYYY-MM" reference month.
func (s *Service) MonthlyReport(ctx context.Context, sess Session, ref string) (*MonthlyReport, error) {
	if !sess.Active() {
		return nil, ErrNotLoggedIn
	}

	start, end, err := MonthRange(ref)
	if err != nil {
		return nil, invalidField("referencia", err.Error())
	}

	today := s.now()
	rows, _, err := s.store.QueryInstallments(ctx, InstallmentQuery{
		ProfileID: sess.ProfileID,
		Where:     Filter{From: &start, To: &end}.Predicate(today),
		Today:     today,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load month installments: %w", err)
	}

	report := BuildMonthlyReport(ref, rows, today, s.resolver)
	return &report, nil
}

// =============================================================================
// PROFILES - selection-screen backend
// =============================================================================

// CreateProfile registers a new profile; nome must be unique.
func (s *Service) CreateProfile(ctx context.Context, nome, foto string) (int64, error) {
	if nome == "" {
		return 0, invalidField("nome", "obrigatório")
	}
	return s.profiles.CreateProfile(ctx, nome, foto)
}

// ListProfiles returns every registered profile.
func (s *Service) ListProfiles(ctx context.Context) ([]Profile, error) {
	return s.profiles.ListProfiles(ctx)
}

// Login resolves a profile id to a Session.
func (s *Service) Login(ctx context.Context, profileID int64) (Session, *Profile, error) {
	p, err := s.profiles.GetProfile(ctx, profileID)
	if err != nil {
		return Session{}, nil, err
	}
	if p == nil {
		return Session{}, nil, ErrNotFound
	}
	return Session{ProfileID: p.ID}, p, nil
}

// DeleteProfile removes a profile. Cascade behavior is configured on the
// store, not here.
func (s *Service) DeleteProfile(ctx context.Context, profileID int64) error {
	return s.profiles.DeleteProfile(ctx, profileID)
}
