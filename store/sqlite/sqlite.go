/*
Package sqlite provides the SQLite-backed implementation of the ledger
storage interfaces.

PURPOSE:
  Implements ledger.Store and ledger.ProfileStore over database/sql with the
  mattn/go-sqlite3 driver. This is a single local desktop store: one process,
  one file (or :memory: under test).

INTERFACES IMPLEMENTED:
  ledger.Store:        Installment persistence and the compiled query
  ledger.ProfileStore: Selection-screen profiles

ATOMICITY:
  A schedule-generation batch is written inside one BEGIN..COMMIT. Payment,
  reversal, edit, and delete are single-row UPDATE/DELETE statements; the
  driver's native transaction atomicity covers each logical operation.

PREDICATE COMPILATION:
  ledger filter trees are compiled into parameterized WHERE fragments
  against a column whitelist. Caller values only ever travel as bind
  arguments, never inside the SQL text.

KEY TABLES:
  usuarios: Profiles (id, nome UNIQUE, foto)
  boletos:  Installments, denormalized per bill, owned by usuario_id

VALUES:
  Amounts are stored as decimal strings (TEXT); ordering casts to REAL so
  "9.00" sorts below "10.00". Dates are YYYY-MM-DD TEXT, which sorts
  chronologically as-is.

USAGE:
  store, err := sqlite.New("./data/boletos.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()
  svc := ledger.NewService(store)

SEE ALSO:
  - ledger/store.go: Interface definitions and contracts
  - ledger/filter.go: The predicate tree compiled here
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/gestao/boleto-engine/calendar"
	"github.com/gestao/boleto-engine/ledger"
)

// Store implements the ledger storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex

	// cascadeDelete controls whether deleting a profile also deletes its
	// installments. Off by default; the integrator opts in.
	cascadeDelete bool
}

// Option configures a Store.
type Option func(*Store)

// WithCascadeDelete makes DeleteProfile also remove the profile's
// installments.
func WithCascadeDelete() Option {
	return func(s *Store) { s.cascadeDelete = true }
}

// New creates a SQLite store at the given path. Use ":memory:" for an
// in-memory database.
func New(dbPath string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection: SQLite allows a single writer anyway, and a pooled
	// second connection to a ":memory:" path would see a different database.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	for _, opt := range opts {
		opt(store)
	}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS usuarios (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		nome TEXT UNIQUE NOT NULL,
		foto TEXT
	);

	CREATE TABLE IF NOT EXISTS boletos (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		usuario_id INTEGER NOT NULL,

		empresa TEXT,
		categoria TEXT,
		placa TEXT,
		descricao TEXT,

		valor_original TEXT NOT NULL,
		juros TEXT,
		tipo_juros TEXT DEFAULT 'R$',
		multa TEXT,
		valor_total TEXT NOT NULL,

		vencimento TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'Pendente',

		data_pagamento TEXT,
		banco_pagamento TEXT,

		numero_parcela INTEGER NOT NULL,
		total_parcelas INTEGER NOT NULL,

		FOREIGN KEY(usuario_id) REFERENCES usuarios(id)
	);

	-- The query engine's hot path: profile scope + due date
	CREATE INDEX IF NOT EXISTS idx_boletos_usuario_vencimento
		ON boletos(usuario_id, vencimento);

	-- Status-first ordering and the overdue OR-extension
	CREATE INDEX IF NOT EXISTS idx_boletos_usuario_status
		ON boletos(usuario_id, status, vencimento);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// INSTALLMENT STORE (ledger.Store interface)
// =============================================================================

const insertBoletoSQL = `
	INSERT INTO boletos (
		usuario_id, empresa, categoria, placa, descricao,
		valor_original, juros, tipo_juros, multa, valor_total,
		vencimento, status, data_pagamento, banco_pagamento,
		numero_parcela, total_parcelas
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// InsertInstallments writes a generation batch inside one transaction: the
// batch fully commits or fully rolls back.
func (s *Store) InsertInstallments(ctx context.Context, batch []ledger.Installment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, inst := range batch {
		var dataPagamento any
		if inst.DataPagamento != nil {
			dataPagamento = inst.DataPagamento.String()
		}
		_, err := tx.ExecContext(ctx, insertBoletoSQL,
			inst.ProfileID,
			inst.Empresa, inst.Categoria, inst.Placa, inst.Descricao,
			inst.ValorOriginal.String(), inst.Juros.String(),
			string(inst.TipoJuros), inst.Multa.String(), inst.ValorTotal.String(),
			inst.Vencimento.String(), string(inst.Status),
			dataPagamento, nullString(inst.BancoPagamento),
			inst.NumeroParcela, inst.TotalParcelas,
		)
		if err != nil {
			return fmt.Errorf("failed to insert installment %d/%d: %w",
				inst.NumeroParcela, inst.TotalParcelas, err)
		}
	}

	return tx.Commit()
}

const selectBoletoColumns = `
	id, usuario_id, empresa, categoria, placa, descricao,
	valor_original, juros, tipo_juros, multa, valor_total,
	vencimento, status, data_pagamento, banco_pagamento,
	numero_parcela, total_parcelas
`

// QueryInstallments compiles the predicate tree into a parameterized query,
// applies the documented sort order and pagination, and returns the page rows
// plus the total match count.
func (s *Store) QueryInstallments(ctx context.Context, q ledger.InstallmentQuery) ([]ledger.Installment, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	where := "usuario_id = ?"
	args := []any{q.ProfileID}

	if q.Where != nil {
		frag, fragArgs, err := compilePredicate(q.Where)
		if err != nil {
			return nil, 0, err
		}
		where += " AND (" + frag + ")"
		args = append(args, fragArgs...)
	}

	var total int
	countSQL := "SELECT COUNT(*) FROM boletos WHERE " + where
	if err := s.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count installments: %w", err)
	}

	// Overdue-and-pending first, then pending, then paid; due date ascending;
	// original amount descending.
	query := "SELECT " + selectBoletoColumns + " FROM boletos WHERE " + where + `
		ORDER BY
			CASE
				WHEN status = 'Pendente' AND vencimento < ? THEN 0
				WHEN status = 'Pendente' THEN 1
				ELSE 2
			END,
			vencimento ASC,
			CAST(valor_original AS REAL) DESC
	`
	args = append(args, q.Today.String())

	if q.Page >= 1 && q.PageSize >= 1 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, q.PageSize, q.Offset())
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query installments: %w", err)
	}
	defer rows.Close()

	var installments []ledger.Installment
	for rows.Next() {
		inst, err := scanInstallment(rows)
		if err != nil {
			return nil, 0, err
		}
		installments = append(installments, inst)
	}
	return installments, total, rows.Err()
}

// GetInstallment returns one owned installment, or nil when the row is
// missing or foreign.
func (s *Store) GetInstallment(ctx context.Context, profileID, id int64) (*ledger.Installment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := "SELECT " + selectBoletoColumns + " FROM boletos WHERE id = ? AND usuario_id = ?"
	rows, err := s.db.QueryContext(ctx, query, id, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	inst, err := scanInstallment(rows)
	if err != nil {
		return nil, err
	}
	return &inst, nil
}

// RegisterPayment stamps the payment onto an owned row.
func (s *Store) RegisterPayment(ctx context.Context, profileID, id int64, banco string, dataPagamento calendar.Date, valorPago decimal.Decimal) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE boletos
		SET status = 'Pago',
		    data_pagamento = ?,
		    banco_pagamento = ?,
		    valor_total = ?
		WHERE id = ? AND usuario_id = ?
	`, dataPagamento.String(), banco, valorPago.String(), id, profileID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ReversePayment resets a row to pending and restores
// valor_total = valor_original in the same statement.
func (s *Store) ReversePayment(ctx context.Context, profileID, id int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE boletos
		SET status = 'Pendente',
		    data_pagamento = NULL,
		    banco_pagamento = NULL,
		    valor_total = valor_original
		WHERE id = ? AND usuario_id = ?
	`, id, profileID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// UpdateInstallment builds the SET clause from the edit's present fields
// only. Changing valor_original on a pending row keeps valor_total equal to
// it; a paid row's frozen valor_total is left alone.
func (s *Store) UpdateInstallment(ctx context.Context, profileID, id int64, edit ledger.InstallmentEdit) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sets []string
	var args []any

	set := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}

	if edit.Empresa != nil {
		set("empresa", *edit.Empresa)
	}
	if edit.Categoria != nil {
		set("categoria", *edit.Categoria)
	}
	if edit.Placa != nil {
		set("placa", *edit.Placa)
	}
	if edit.Descricao != nil {
		set("descricao", *edit.Descricao)
	}
	if edit.ValorOriginal != nil {
		set("valor_original", edit.ValorOriginal.String())
		sets = append(sets, "valor_total = CASE WHEN status = 'Pendente' THEN ? ELSE valor_total END")
		args = append(args, edit.ValorOriginal.String())
	}
	if edit.Juros != nil {
		set("juros", edit.Juros.String())
	}
	if edit.TipoJuros != nil {
		set("tipo_juros", string(*edit.TipoJuros))
	}
	if edit.Multa != nil {
		set("multa", edit.Multa.String())
	}
	if edit.Vencimento != nil {
		set("vencimento", edit.Vencimento.String())
	}

	if len(sets) == 0 {
		return 0, nil
	}

	query := "UPDATE boletos SET " + strings.Join(sets, ", ") + " WHERE id = ? AND usuario_id = ?"
	args = append(args, id, profileID)

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteInstallment removes one owned row.
func (s *Store) DeleteInstallment(ctx context.Context, profileID, id int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"DELETE FROM boletos WHERE id = ? AND usuario_id = ?", id, profileID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// =============================================================================
// PREDICATE COMPILER
// =============================================================================

// columnFor whitelists the filterable columns. Field names never come from
// caller data, but the whitelist keeps the compiler honest anyway.
var columnFor = map[ledger.Field]string{
	ledger.FieldVencimento:    "vencimento",
	ledger.FieldStatus:        "status",
	ledger.FieldEmpresa:       "empresa",
	ledger.FieldPlaca:         "placa",
	ledger.FieldCategoria:     "categoria",
	ledger.FieldDataPagamento: "data_pagamento",
}

func compilePredicate(p ledger.Predicate) (string, []any, error) {
	switch node := p.(type) {
	case ledger.Cond:
		return compileCond(node)
	case ledger.Group:
		return compileGroup(node)
	default:
		return "", nil, fmt.Errorf("unknown predicate node %T", p)
	}
}

func compileCond(c ledger.Cond) (string, []any, error) {
	col, ok := columnFor[c.Field]
	if !ok {
		return "", nil, fmt.Errorf("unknown filter field %q", c.Field)
	}

	switch c.Op {
	case ledger.OpEq, ledger.OpLt, ledger.OpGte, ledger.OpLte:
		return fmt.Sprintf("%s %s ?", col, c.Op), []any{c.Value}, nil
	case ledger.OpContains:
		return fmt.Sprintf("LOWER(%s) LIKE ?", col),
			[]any{"%" + strings.ToLower(fmt.Sprint(c.Value)) + "%"}, nil
	default:
		return "", nil, fmt.Errorf("unknown filter operator %q", c.Op)
	}
}

func compileGroup(g ledger.Group) (string, []any, error) {
	if len(g.Preds) == 0 {
		return "1=1", nil, nil
	}

	joiner := " AND "
	if g.Or {
		joiner = " OR "
	}

	frags := make([]string, 0, len(g.Preds))
	var args []any
	for _, p := range g.Preds {
		frag, fragArgs, err := compilePredicate(p)
		if err != nil {
			return "", nil, err
		}
		frags = append(frags, "("+frag+")")
		args = append(args, fragArgs...)
	}
	return strings.Join(frags, joiner), args, nil
}

// =============================================================================
// ROW SCANNING
// =============================================================================

func scanInstallment(rows *sql.Rows) (ledger.Installment, error) {
	var (
		inst          ledger.Installment
		empresa       sql.NullString
		categoria     sql.NullString
		placa         sql.NullString
		descricao     sql.NullString
		valorOriginal string
		juros         sql.NullString
		tipoJuros     sql.NullString
		multa         sql.NullString
		valorTotal    string
		vencimento    string
		status        string
		dataPagamento sql.NullString
		banco         sql.NullString
	)

	err := rows.Scan(
		&inst.ID, &inst.ProfileID, &empresa, &categoria, &placa, &descricao,
		&valorOriginal, &juros, &tipoJuros, &multa, &valorTotal,
		&vencimento, &status, &dataPagamento, &banco,
		&inst.NumeroParcela, &inst.TotalParcelas,
	)
	if err != nil {
		return inst, fmt.Errorf("failed to scan installment: %w", err)
	}

	inst.Empresa = empresa.String
	inst.Categoria = categoria.String
	inst.Placa = placa.String
	inst.Descricao = descricao.String

	inst.ValorOriginal = mustDecimal(valorOriginal)
	inst.Juros = mustDecimal(juros.String)
	inst.Multa = mustDecimal(multa.String)
	inst.ValorTotal = mustDecimal(valorTotal)

	// Default for rows written before tipo_juros existed.
	inst.TipoJuros = ledger.InterestFlat
	if tipoJuros.Valid && tipoJuros.String != "" {
		inst.TipoJuros = ledger.InterestMode(tipoJuros.String)
	}

	inst.Vencimento, err = calendar.ParseDate(vencimento)
	if err != nil {
		return inst, fmt.Errorf("bad vencimento %q: %w", vencimento, err)
	}
	inst.Status = ledger.Status(status)

	if dataPagamento.Valid && dataPagamento.String != "" {
		d, err := calendar.ParseDate(dataPagamento.String)
		if err != nil {
			return inst, fmt.Errorf("bad data_pagamento %q: %w", dataPagamento.String, err)
		}
		inst.DataPagamento = &d
	}
	inst.BancoPagamento = banco.String

	return inst, nil
}

// =============================================================================
// PROFILE STORE (ledger.ProfileStore interface)
// =============================================================================

// CreateProfile inserts a profile; a duplicate nome maps to
// ledger.ErrDuplicateProfile.
func (s *Store) CreateProfile(ctx context.Context, nome, foto string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO usuarios (nome, foto) VALUES (?, ?)", nome, foto)
	if err != nil {
		if isUniqueConstraintError(err) {
			return 0, ledger.ErrDuplicateProfile
		}
		return 0, err
	}
	return res.LastInsertId()
}

// ListProfiles returns all profiles for the selection screen.
func (s *Store) ListProfiles(ctx context.Context) ([]ledger.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, nome, COALESCE(foto, '') FROM usuarios ORDER BY nome")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []ledger.Profile
	for rows.Next() {
		var p ledger.Profile
		if err := rows.Scan(&p.ID, &p.Nome, &p.Foto); err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// GetProfile returns one profile, or nil when it does not exist.
func (s *Store) GetProfile(ctx context.Context, id int64) (*ledger.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var p ledger.Profile
	err := s.db.QueryRowContext(ctx,
		"SELECT id, nome, COALESCE(foto, '') FROM usuarios WHERE id = ?", id,
	).Scan(&p.ID, &p.Nome, &p.Foto)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// DeleteProfile removes a profile, cascading to its installments only when
// the store was built with WithCascadeDelete.
func (s *Store) DeleteProfile(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if s.cascadeDelete {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM boletos WHERE usuario_id = ?", id); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM usuarios WHERE id = ?", id); err != nil {
		return err
	}
	return tx.Commit()
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"boletos", "usuarios"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func mustDecimal(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
