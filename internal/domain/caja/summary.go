package caja

import "github.com/BruksfildServices01/barberia/internal/models"

type MethodTotals struct {
	IncomeCents  int64 `json:"income_cents"`
	ExpenseCents int64 `json:"expense_cents"`
}

type Summary struct {
	IncomeCents  int64                   `json:"income_cents"`
	ExpenseCents int64                   `json:"expense_cents"`
	BalanceCents int64                   `json:"balance_cents"`
	ByMethod     map[string]MethodTotals `json:"by_method"`
	Count        int                     `json:"count"`
}

// Summarize soma os lançamentos ignorando os anulados.
func Summarize(movements []models.CashMovement) Summary {
	s := Summary{ByMethod: map[string]MethodTotals{}}

	for i := range movements {
		m := &movements[i]
		if m.IsVoided() {
			continue
		}

		t := s.ByMethod[m.Method]
		switch m.Type {
		case TypeIncome:
			s.IncomeCents += m.AmountCents
			t.IncomeCents += m.AmountCents
		case TypeExpense:
			s.ExpenseCents += m.AmountCents
			t.ExpenseCents += m.AmountCents
		default:
			continue
		}
		s.ByMethod[m.Method] = t
		s.Count++
	}

	s.BalanceCents = s.IncomeCents - s.ExpenseCents
	return s
}
