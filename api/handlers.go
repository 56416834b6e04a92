/*
handlers.go - HTTP handlers for the billing ledger engine

PURPOSE:
  Exposes the ledger.Service operations over REST. Handles request parsing,
  session extraction, JSON serialization, and the folding of typed engine
  errors into the {status, msg} envelope.

SESSION:
  The acting profile travels in the X-Profile-ID header. Profile selection
  itself (list/create/login) needs no session.

ERROR MAPPING:
  ValidationError     -> 400, envelope names the offending field
  ErrNotLoggedIn      -> 401
  ErrNotFound         -> 404
  ErrDuplicateProfile -> 409
  anything else       -> 500, description surfaced verbatim

SEE ALSO:
  - dto.go: Request/response shapes
  - server.go: Router setup and middleware
  - ledger/service.go: The operations behind these handlers
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/gestao/boleto-engine/calendar"
	"github.com/gestao/boleto-engine/ledger"
)

// Handler holds the handler dependencies.
type Handler struct {
	Service *ledger.Service
}

// NewHandler creates a handler over a ledger service.
func NewHandler(svc *ledger.Service) *Handler {
	return &Handler{Service: svc}
}

// profileHeader carries the acting profile id.
const profileHeader = "X-Profile-ID"

func (h *Handler) session(r *http.Request) ledger.Session {
	id, _ := strconv.ParseInt(r.Header.Get(profileHeader), 10, 64)
	return ledger.Session{ProfileID: id}
}

// =============================================================================
// PROFILE HANDLERS
// =============================================================================

// ListProfiles returns every registered profile for the selection screen.
func (h *Handler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.Service.ListProfiles(r.Context())
	if err != nil {
		writeEngineError(w, err)
		return
	}

	dtos := make([]ProfileDTO, len(profiles))
	for i, p := range profiles {
		dtos[i] = toProfileDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateProfile registers a new profile.
func (h *Handler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	var req CreateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}

	if _, err := h.Service.CreateProfile(r.Context(), req.Nome, req.Foto); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, Envelope{Status: StatusSucesso, Msg: "Perfil criado!"})
}

// Login resolves a profile id and echoes the profile back.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "id inválido")
		return
	}

	_, profile, err := h.Service.Login(r.Context(), id)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	dto := toProfileDTO(*profile)
	writeJSON(w, http.StatusOK, LoginResponse{
		Envelope: Envelope{Status: StatusSucesso},
		Usuario:  &dto,
	})
}

// DeleteProfile removes a profile.
func (h *Handler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "id inválido")
		return
	}

	if err := h.Service.DeleteProfile(r.Context(), id); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Envelope{Status: StatusSucesso})
}

// =============================================================================
// SCHEDULE GENERATION
// =============================================================================

// GenerateSchedule expands a bill definition into installments.
func (h *Handler) GenerateSchedule(w http.ResponseWriter, r *http.Request) {
	var req GenerateScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}

	count, err := h.Service.GenerateSchedule(r.Context(), h.session(r), ledger.BillInput{
		Empresa:   req.Boleto.Empresa,
		Categoria: req.Boleto.Categoria,
		Placa:     req.Boleto.Placa,
		Descricao: req.Boleto.Descricao,

		Valor:      req.Boleto.Valor,
		Vencimento: req.Boleto.Vencimento,
		Parcelas:   req.Boleto.Parcelas,

		Juros:     req.Boleto.Juros,
		TipoJuros: req.Boleto.TipoJuros,
		Multa:     req.Boleto.Multa,

		Modo:  ledger.ScheduleMode(req.Modo),
		Regra: req.Regra,
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, Envelope{
		Status: StatusSucesso,
		Msg:    fmt.Sprintf("%d boletos gerados!", count),
	})
}

// =============================================================================
// LISTING
// =============================================================================

// ListInstallments runs the filtered, paginated ledger query. Filters come
// in as query parameters; page defaults to 1 and page_size to 30.
func (h *Handler) ListInstallments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var filter ledger.Filter
	if v := q.Get("de"); v != "" {
		d, err := calendar.ParseDate(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "data 'de' inválida: "+v)
			return
		}
		filter.From = &d
	}
	if v := q.Get("ate"); v != "" {
		d, err := calendar.ParseDate(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "data 'ate' inválida: "+v)
			return
		}
		filter.To = &d
	}
	if v := q.Get("status"); v != "" {
		status := ledger.Status(v)
		filter.Status = &status
	}
	if v := q.Get("data_pagamento"); v != "" {
		d, err := calendar.ParseDate(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "data_pagamento inválida: "+v)
			return
		}
		filter.DataPagamento = &d
	}
	filter.Empresa = q.Get("empresa")
	filter.Placa = q.Get("placa")
	filter.Categoria = q.Get("categoria")
	filter.IncludeOverdue = q.Get("incluir_atrasados") == "true"

	page := intParam(q.Get("page"), 1)
	pageSize := intParam(q.Get("page_size"), 30)

	result, err := h.Service.ListInstallments(r.Context(), h.session(r), filter, page, pageSize)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ListResponse{
		Envelope: Envelope{Status: StatusSucesso},
		Rows:     toBoletoDTOs(result.Rows),
		Pagination: PaginationDTO{
			Page:       result.Pagination.Page,
			PageSize:   result.Pagination.PageSize,
			TotalItems: result.Pagination.TotalItems,
			TotalPages: result.Pagination.TotalPages,
		},
	})
}

// =============================================================================
// MUTATIONS
// =============================================================================

// RegisterPayment marks an installment paid.
func (h *Handler) RegisterPayment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "id inválido")
		return
	}

	var req PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}

	paidAt, err := calendar.ParseDate(req.DataPagamento)
	if err != nil {
		writeError(w, http.StatusBadRequest, "data_pagamento inválida: "+req.DataPagamento)
		return
	}
	amount, err := decimal.NewFromString(req.ValorPago)
	if err != nil {
		writeError(w, http.StatusBadRequest, "valor_pago inválido: "+req.ValorPago)
		return
	}

	if err := h.Service.RegisterPayment(r.Context(), h.session(r), id, req.Banco, paidAt, amount); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Envelope{Status: StatusSucesso, Msg: "Pagamento registrado!"})
}

// ReversePayment undoes a payment registration.
func (h *Handler) ReversePayment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "id inválido")
		return
	}

	if err := h.Service.ReversePayment(r.Context(), h.session(r), id); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Envelope{Status: StatusSucesso, Msg: "Pagamento estornado!"})
}

// EditInstallment applies a partial edit.
func (h *Handler) EditInstallment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "id inválido")
		return
	}

	var req EditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}

	edit, err := buildEdit(req)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	if err := h.Service.EditInstallment(r.Context(), h.session(r), id, edit); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Envelope{Status: StatusSucesso, Msg: "Boleto atualizado!"})
}

// DeleteInstallment removes one installment.
func (h *Handler) DeleteInstallment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "id inválido")
		return
	}

	if err := h.Service.DeleteInstallment(r.Context(), h.session(r), id); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Envelope{Status: StatusSucesso, Msg: "Boleto removido!"})
}

// =============================================================================
// REPORTS
// =============================================================================

// DashboardSummary returns the rolling bucket summary.
func (h *Handler) DashboardSummary(w http.ResponseWriter, r *http.Request) {
	d, err := h.Service.DashboardSummary(r.Context(), h.session(r))
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, DashboardResponse{
		Envelope:  Envelope{Status: StatusSucesso},
		Hoje:      toBucketDTO(d.Today),
		Atrasados: toBucketDTO(d.Overdue),
		Semana:    toBucketDTO(d.ThisWeek),
		Mes:       toBucketDTO(d.ThisMonth),
	})
}

// MonthlyReport returns the per-categoria month balance.
func (h *Handler) MonthlyReport(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "mes") // "YYYY-MM"

	report, err := h.Service.MonthlyReport(r.Context(), h.session(r), ref)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	porCategoria := make(map[string]float64, len(report.PorCategoria))
	for categoria, total := range report.PorCategoria {
		porCategoria[categoria] = total.InexactFloat64()
	}

	writeJSON(w, http.StatusOK, MonthlyReportResponse{
		Envelope:      Envelope{Status: StatusSucesso},
		Referencia:    report.Referencia,
		TotalEsperado: report.TotalEsperado.InexactFloat64(),
		TotalPago:     report.TotalPago.InexactFloat64(),
		TotalPendente: report.TotalPendente.InexactFloat64(),
		PorCategoria:  porCategoria,
		Pagos:         report.Pagos,
		Pendentes:     report.Pendentes,
	})
}

// =============================================================================
// HELPERS
// =============================================================================

func toBucketDTO(b ledger.Bucket) BucketDTO {
	return BucketDTO{Count: b.Count, Total: b.Total.InexactFloat64()}
}

func buildEdit(req EditRequest) (ledger.InstallmentEdit, error) {
	edit := ledger.InstallmentEdit{
		Empresa:   req.Empresa,
		Categoria: req.Categoria,
		Placa:     req.Placa,
		Descricao: req.Descricao,
	}

	parseAmount := func(field string, raw *string) (*decimal.Decimal, error) {
		if raw == nil {
			return nil, nil
		}
		d, err := decimal.NewFromString(*raw)
		if err != nil {
			return nil, &ledger.ValidationError{Field: field, Message: "valor inválido: " + *raw}
		}
		return &d, nil
	}

	var err error
	if edit.ValorOriginal, err = parseAmount("valor_original", req.ValorOriginal); err != nil {
		return edit, err
	}
	if edit.Juros, err = parseAmount("juros", req.Juros); err != nil {
		return edit, err
	}
	if edit.Multa, err = parseAmount("multa", req.Multa); err != nil {
		return edit, err
	}

	if req.TipoJuros != nil {
		mode := ledger.InterestMode(*req.TipoJuros)
		edit.TipoJuros = &mode
	}
	if req.Vencimento != nil {
		d, err := calendar.ParseDate(*req.Vencimento)
		if err != nil {
			return edit, &ledger.ValidationError{Field: "vencimento", Message: "data inválida: " + *req.Vencimento}
		}
		edit.Vencimento = &d
	}
	return edit, nil
}

func intParam(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, Envelope{Status: StatusErro, Msg: msg})
}

// writeEngineError folds a typed engine error into the envelope with the
// matching HTTP status.
func writeEngineError(w http.ResponseWriter, err error) {
	var vErr *ledger.ValidationError
	switch {
	case errors.As(err, &vErr):
		writeError(w, http.StatusBadRequest, vErr.Error())
	case errors.Is(err, ledger.ErrNotLoggedIn):
		writeError(w, http.StatusUnauthorized, "Você precisa estar logado!")
	case errors.Is(err, ledger.ErrNotFound):
		writeError(w, http.StatusNotFound, "Registro não encontrado")
	case errors.Is(err, ledger.ErrDuplicateProfile):
		writeError(w, http.StatusConflict, "Já existe um perfil com este nome.")
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
