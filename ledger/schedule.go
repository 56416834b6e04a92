package ledger

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/gestao/boleto-engine/calendar"
)

// =============================================================================
// BILL VALIDATION
// =============================================================================

// ParseBill validates a raw bill definition. It fails with a ValidationError
// naming the offending field; a parsed definition never reaches the store
// half-formed.
func ParseBill(in BillInput) (BillDefinition, error) {
	var def BillDefinition

	if strings.TrimSpace(in.Valor) == "" {
		return def, invalidField("valor", "obrigatório")
	}
	valor, err := decimal.NewFromString(strings.TrimSpace(in.Valor))
	if err != nil {
		return def, invalidField("valor", "valor inválido: "+in.Valor)
	}

	if strings.TrimSpace(in.Vencimento) == "" {
		return def, invalidField("vencimento", "obrigatório")
	}
	vencimento, err := calendar.ParseDate(strings.TrimSpace(in.Vencimento))
	if err != nil {
		return def, invalidField("vencimento", "data inválida: "+in.Vencimento)
	}

	parcelas, err := parseCount(in.Parcelas)
	if err != nil {
		return def, invalidField("parcelas", "quantidade inválida: "+in.Parcelas)
	}

	juros, err := parseOptionalDecimal(in.Juros)
	if err != nil {
		return def, invalidField("juros", "valor inválido: "+in.Juros)
	}
	multa, err := parseOptionalDecimal(in.Multa)
	if err != nil {
		return def, invalidField("multa", "valor inválido: "+in.Multa)
	}

	tipoJuros := InterestMode(strings.TrimSpace(in.TipoJuros))
	if tipoJuros == "" {
		tipoJuros = InterestFlat
	}

	modo := in.Modo
	if modo != ModeCustom {
		modo = ModeEven
	}

	return BillDefinition{
		Empresa:   in.Empresa,
		Categoria: in.Categoria,
		Placa:     in.Placa,
		Descricao: in.Descricao,

		Valor:      valor,
		Vencimento: vencimento,
		Parcelas:   parcelas,

		Juros:     juros,
		TipoJuros: tipoJuros,
		Multa:     multa,

		Modo:  modo,
		Regra: in.Regra,
	}, nil
}

func parseCount(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, strconv.ErrRange
	}
	return n, nil
}

func parseOptionalDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

// =============================================================================
// DUE-DATE EXPANSION
// =============================================================================

// DueDates expands a bill definition into its ordered due-date sequence.
//
// Even mode: first_due + 30*i days for i = 0..N-1 (a fixed 30-day step,
// regardless of actual month length).
//
// Custom mode: the slash-delimited offset list. The first element maps to
// first_due unchanged (it is conventionally "0"); each later non-empty
// element d maps to first_due + d days; blank elements produce no date. The
// number of dates produced becomes the installment count, overriding the
// caller-supplied one. Custom mode with an empty rule falls back to even.
func DueDates(def BillDefinition) ([]calendar.Date, error) {
	if def.Modo == ModeCustom && strings.TrimSpace(def.Regra) != "" {
		return customDueDates(def.Vencimento, def.Regra)
	}
	return evenDueDates(def.Vencimento, def.Parcelas), nil
}

func evenDueDates(first calendar.Date, count int) []calendar.Date {
	dates := make([]calendar.Date, 0, count)
	for i := 0; i < count; i++ {
		dates = append(dates, first.AddDays(30*i))
	}
	return dates
}

func customDueDates(first calendar.Date, regra string) ([]calendar.Date, error) {
	parts := strings.Split(regra, "/")

	var dates []calendar.Date
	for i, part := range parts {
		if i == 0 {
			dates = append(dates, first)
			continue
		}
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		offset, err := strconv.Atoi(part)
		if err != nil {
			return nil, invalidField("regra", "offset inválido: "+part)
		}
		dates = append(dates, first.AddDays(offset))
	}
	return dates, nil
}

// =============================================================================
// BATCH MATERIALIZATION
// =============================================================================

// ExpandSchedule materializes the installment rows for a bill definition.
// Every row carries the full stated amount and identical denormalized bill
// fields; the batch is persisted atomically by the store.
func ExpandSchedule(profileID int64, def BillDefinition) ([]Installment, error) {
	dates, err := DueDates(def)
	if err != nil {
		return nil, err
	}

	total := len(dates)
	batch := make([]Installment, 0, total)
	for i, due := range dates {
		batch = append(batch, Installment{
			ProfileID: profileID,

			Empresa:   def.Empresa,
			Categoria: def.Categoria,
			Placa:     def.Placa,
			Descricao: def.Descricao,

			ValorOriginal: def.Valor,
			Juros:         def.Juros,
			TipoJuros:     def.TipoJuros,
			Multa:         def.Multa,
			ValorTotal:    def.Valor,

			Vencimento: due,
			Status:     StatusPendente,

			NumeroParcela: i + 1,
			TotalParcelas: total,
		})
	}
	return batch, nil
}
