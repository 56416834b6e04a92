/*
filter.go - Composable query predicates

PURPOSE:
  Filtering is expressed as a small tree of typed clauses instead of string
  concatenation. The engine builds the tree; the store compiles it into a
  parameterized WHERE clause against a column whitelist, so no caller input
  ever reaches the SQL text.

SHAPE:
  Cond  - one field/operator/value comparison
  Group - AND/OR combination of predicates

  Filter is the caller-facing option set; Filter.Predicate assembles the
  tree, including the "include overdue regardless of range" OR-extension.

SEE ALSO:
  - store/sqlite: Compiles predicates to SQL
  - service.go: Builds filters from the operation surface
*/
package ledger

import "github.com/gestao/boleto-engine/calendar"

// =============================================================================
// PREDICATE TREE
// =============================================================================

// Field enumerates the filterable installment columns. Stores translate
// fields through a whitelist; an unknown field is a compile error there.
type Field string

const (
	FieldVencimento    Field = "vencimento"
	FieldStatus        Field = "status"
	FieldEmpresa       Field = "empresa"
	FieldPlaca         Field = "placa"
	FieldCategoria     Field = "categoria"
	FieldDataPagamento Field = "data_pagamento"
)

// Op is a comparison operator.
type Op string

const (
	OpEq       Op = "="
	OpLt       Op = "<"
	OpGte      Op = ">="
	OpLte      Op = "<="
	OpContains Op = "contains" // case-insensitive substring
)

// Predicate is one node of the filter tree.
type Predicate interface {
	predicate()
}

// Cond is a single field comparison.
type Cond struct {
	Field Field
	Op    Op
	Value any
}

func (Cond) predicate() {}

// Group combines predicates with AND (default) or OR.
type Group struct {
	Or    bool
	Preds []Predicate
}

func (Group) predicate() {}

// And combines predicates conjunctively, ignoring nils.
func And(preds ...Predicate) Predicate { return group(false, preds) }

// Or combines predicates disjunctively, ignoring nils.
func Or(preds ...Predicate) Predicate { return group(true, preds) }

func group(or bool, preds []Predicate) Predicate {
	kept := make([]Predicate, 0, len(preds))
	for _, p := range preds {
		if p != nil {
			kept = append(kept, p)
		}
	}
	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	}
	return Group{Or: or, Preds: kept}
}

// =============================================================================
// FILTER - Caller-facing option set
// =============================================================================

// Filter is the combinable filter set of the ledger query engine. Every
// field is optional; zero values mean "no constraint".
type Filter struct {
	// Date range over the stored due date. Both set = inclusive BETWEEN;
	// one set = open-ended.
	From *calendar.Date
	To   *calendar.Date

	// IncludeOverdue OR-extends the date condition so that unpaid rows past
	// due are surfaced even outside the chosen window.
	IncludeOverdue bool

	Status    *Status
	Empresa   string // case-insensitive substring
	Placa     string // case-insensitive substring
	Categoria string

	DataPagamento *calendar.Date
}

// Predicate assembles the filter tree. "today" anchors the overdue
// extension; it is injected so query results are deterministic under test.
func (f Filter) Predicate(today calendar.Date) Predicate {
	var dateRange Predicate
	switch {
	case f.From != nil && f.To != nil:
		dateRange = And(
			Cond{FieldVencimento, OpGte, f.From.String()},
			Cond{FieldVencimento, OpLte, f.To.String()},
		)
	case f.From != nil:
		dateRange = Cond{FieldVencimento, OpGte, f.From.String()}
	case f.To != nil:
		dateRange = Cond{FieldVencimento, OpLte, f.To.String()}
	}

	if dateRange != nil && f.IncludeOverdue {
		dateRange = Or(dateRange, overduePredicate(today))
	}

	var status Predicate
	if f.Status != nil {
		status = Cond{FieldStatus, OpEq, string(*f.Status)}
	}

	var empresa, placa, categoria, pagamento Predicate
	if f.Empresa != "" {
		empresa = Cond{FieldEmpresa, OpContains, f.Empresa}
	}
	if f.Placa != "" {
		placa = Cond{FieldPlaca, OpContains, f.Placa}
	}
	if f.Categoria != "" {
		categoria = Cond{FieldCategoria, OpEq, f.Categoria}
	}
	if f.DataPagamento != nil {
		pagamento = Cond{FieldDataPagamento, OpEq, f.DataPagamento.String()}
	}

	return And(dateRange, status, empresa, placa, categoria, pagamento)
}

// overduePredicate matches rows that are unpaid and past their stored due
// date. The stored date is used on purpose: the query predicate runs in the
// store, and the business-day refinement happens in the per-row derivation.
func overduePredicate(today calendar.Date) Predicate {
	return And(
		Cond{FieldStatus, OpEq, string(StatusPendente)},
		Cond{FieldVencimento, OpLt, today.String()},
	)
}

// =============================================================================
// QUERY - What the store executes
// =============================================================================

// InstallmentQuery is a compiled query against the installment set. Page and
// PageSize of zero disable pagination (the aggregation reporters do bulk
// reads).
type InstallmentQuery struct {
	ProfileID int64
	Where     Predicate

	// Today anchors the status-aware sort ordering (overdue-pending first).
	Today calendar.Date

	Page     int
	PageSize int
}

// Offset returns the row offset for the requested page.
func (q InstallmentQuery) Offset() int {
	if q.Page < 1 || q.PageSize < 1 {
		return 0
	}
	return (q.Page - 1) * q.PageSize
}

// TotalPages computes ceil(totalItems / pageSize).
func TotalPages(totalItems, pageSize int) int {
	if pageSize < 1 {
		return 1
	}
	return (totalItems + pageSize - 1) / pageSize
}
