/*
dto.go - Request/response data structures for the HTTP surface

PURPOSE:
  The shell-facing JSON shapes. Every operation answers with the tagged
  {status, msg} envelope the original presentation layer consumed: callers
  check the status field, they never see a raised failure.

CONVENTIONS:
  - Field names mirror the stored vocabulary (empresa, vencimento, ...)
  - Dates are YYYY-MM-DD strings
  - Amounts are JSON numbers (converted at the edge; the engine itself only
    ever computes on decimals)

SEE ALSO:
  - handlers.go: Where these shapes are filled in
*/
package api

import (
	"github.com/gestao/boleto-engine/ledger"
)

// StatusSucesso / StatusErro are the envelope tags.
const (
	StatusSucesso = "sucesso"
	StatusErro    = "erro"
)

// Envelope is the uniform success/failure wrapper.
type Envelope struct {
	Status string `json:"status"`
	Msg    string `json:"msg,omitempty"`
}

// =============================================================================
// PROFILES
// =============================================================================

type ProfileDTO struct {
	ID   int64  `json:"id"`
	Nome string `json:"nome"`
	Foto string `json:"foto,omitempty"`
}

type CreateProfileRequest struct {
	Nome string `json:"nome"`
	Foto string `json:"foto"`
}

type LoginResponse struct {
	Envelope
	Usuario *ProfileDTO `json:"usuario,omitempty"`
}

// =============================================================================
// SCHEDULE GENERATION
// =============================================================================

// GenerateScheduleRequest mirrors the shell's lançamento payload.
type GenerateScheduleRequest struct {
	Boleto BillDTO `json:"boleto"`
	Modo   string  `json:"modo"`  // "even" | "custom"
	Regra  string  `json:"regra"` // "0/15/30/45" in custom mode
}

// BillDTO carries the bill definition fields as strings; the engine
// validates them and names the offending field on failure.
type BillDTO struct {
	Empresa   string `json:"empresa"`
	Categoria string `json:"categoria"`
	Placa     string `json:"placa"`
	Descricao string `json:"descricao"`

	Valor      string `json:"valor"`
	Vencimento string `json:"vencimento"`
	Parcelas   string `json:"parcelas"`

	Juros     string `json:"juros"`
	TipoJuros string `json:"tipoJuros"`
	Multa     string `json:"multa"`
}

// =============================================================================
// INSTALLMENT LISTING
// =============================================================================

type BoletoDTO struct {
	ID        int64  `json:"id"`
	Empresa   string `json:"empresa"`
	Categoria string `json:"categoria"`
	Placa     string `json:"placa,omitempty"`
	Descricao string `json:"descricao,omitempty"`

	ValorOriginal float64 `json:"valor_original"`
	Juros         float64 `json:"juros"`
	TipoJuros     string  `json:"tipo_juros"`
	Multa         float64 `json:"multa"`
	ValorTotal    float64 `json:"valor_total"`

	Vencimento string `json:"vencimento"`
	Status     string `json:"status"`

	DataPagamento  string `json:"data_pagamento,omitempty"`
	BancoPagamento string `json:"banco_pagamento,omitempty"`

	NumeroParcela int `json:"numero_parcela"`
	TotalParcelas int `json:"total_parcelas"`

	// Derived per row by the query engine
	VencimentoUtil string  `json:"vencimento_util"`
	DiasAtraso     int     `json:"dias_atraso"`
	Atrasado       bool    `json:"atrasado"`
	ValorDevido    float64 `json:"valor_devido"`
}

type PaginationDTO struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

type ListResponse struct {
	Envelope
	Rows       []BoletoDTO   `json:"rows"`
	Pagination PaginationDTO `json:"pagination"`
}

// =============================================================================
// MUTATIONS
// =============================================================================

type PaymentRequest struct {
	Banco         string `json:"banco"`
	DataPagamento string `json:"data_pagamento"` // YYYY-MM-DD
	ValorPago     string `json:"valor_pago"`
}

// EditRequest carries only the fields to change; absent fields stay as-is.
type EditRequest struct {
	Empresa   *string `json:"empresa,omitempty"`
	Categoria *string `json:"categoria,omitempty"`
	Placa     *string `json:"placa,omitempty"`
	Descricao *string `json:"descricao,omitempty"`

	ValorOriginal *string `json:"valor_original,omitempty"`
	Juros         *string `json:"juros,omitempty"`
	TipoJuros     *string `json:"tipo_juros,omitempty"`
	Multa         *string `json:"multa,omitempty"`
	Vencimento    *string `json:"vencimento,omitempty"`
}

// =============================================================================
// REPORTS
// =============================================================================

type BucketDTO struct {
	Count int     `json:"count"`
	Total float64 `json:"total"`
}

type DashboardResponse struct {
	Envelope
	Hoje      BucketDTO `json:"hoje"`
	Atrasados BucketDTO `json:"atrasados"`
	Semana    BucketDTO `json:"semana"`
	Mes       BucketDTO `json:"mes"`
}

type MonthlyReportResponse struct {
	Envelope
	Referencia    string             `json:"referencia"`
	TotalEsperado float64            `json:"total_esperado"`
	TotalPago     float64            `json:"total_pago"`
	TotalPendente float64            `json:"total_pendente"`
	PorCategoria  map[string]float64 `json:"por_categoria"`
	Pagos         int                `json:"pagos"`
	Pendentes     int                `json:"pendentes"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toBoletoDTO(v ledger.InstallmentView) BoletoDTO {
	dto := BoletoDTO{
		ID:        v.ID,
		Empresa:   v.Empresa,
		Categoria: v.Categoria,
		Placa:     v.Placa,
		Descricao: v.Descricao,

		ValorOriginal: v.ValorOriginal.InexactFloat64(),
		Juros:         v.Juros.InexactFloat64(),
		TipoJuros:     string(v.TipoJuros),
		Multa:         v.Multa.InexactFloat64(),
		ValorTotal:    v.ValorTotal.InexactFloat64(),

		Vencimento: v.Vencimento.String(),
		Status:     string(v.Status),

		BancoPagamento: v.BancoPagamento,

		NumeroParcela: v.NumeroParcela,
		TotalParcelas: v.TotalParcelas,

		VencimentoUtil: v.EffectiveDue.String(),
		DiasAtraso:     v.DiasAtraso,
		Atrasado:       v.Overdue,
		ValorDevido:    v.ValorDevido.InexactFloat64(),
	}
	if v.DataPagamento != nil {
		dto.DataPagamento = v.DataPagamento.String()
	}
	return dto
}

func toBoletoDTOs(views []ledger.InstallmentView) []BoletoDTO {
	dtos := make([]BoletoDTO, len(views))
	for i, v := range views {
		dtos[i] = toBoletoDTO(v)
	}
	return dtos
}

func toProfileDTO(p ledger.Profile) ProfileDTO {
	return ProfileDTO{ID: p.ID, Nome: p.Nome, Foto: p.Foto}
}
