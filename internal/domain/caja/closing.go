package caja

import (
	"github.com/BruksfildServices01/barberia/internal/httperr"
	"github.com/BruksfildServices01/barberia/internal/models"
)

// ComputeClosing calcula o cierre a partir dos lançamentos do dia.
// Esperado em efectivo = abertura + entradas em efectivo - saídas em efectivo.
func ComputeClosing(
	movements []models.CashMovement,
	openingCents int64,
	countedCents int64,
) (*models.CashClosing, error) {
	if openingCents < 0 || countedCents < 0 {
		return nil, httperr.ErrBusiness("invalid_amount")
	}

	s := Summarize(movements)
	cash := s.ByMethod[MethodCash]

	expected := openingCents + cash.IncomeCents - cash.ExpenseCents

	return &models.CashClosing{
		OpeningCents:      openingCents,
		IncomeCents:       s.IncomeCents,
		ExpenseCents:      s.ExpenseCents,
		ExpectedCashCents: expected,
		CountedCashCents:  countedCents,
		DifferenceCents:   countedCents - expected,
		MovementsCount:    s.Count,
	}, nil
}
