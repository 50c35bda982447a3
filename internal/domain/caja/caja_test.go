package caja

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barberia/internal/httperr"
	"github.com/BruksfildServices01/barberia/internal/models"
)

func mov(typ, method string, cents int64, voided bool) models.CashMovement {
	m := models.CashMovement{Type: typ, Method: method, AmountCents: cents}
	if voided {
		now := time.Now()
		m.VoidedAt = &now
	}
	return m
}

func TestSummarizeSkipsVoided(t *testing.T) {
	s := Summarize([]models.CashMovement{
		mov(TypeIncome, MethodCash, 5000, false),
		mov(TypeIncome, MethodCard, 3000, false),
		mov(TypeExpense, MethodCash, 1200, false),
		mov(TypeIncome, MethodCash, 9999, true),
	})

	assert.Equal(t, int64(8000), s.IncomeCents)
	assert.Equal(t, int64(1200), s.ExpenseCents)
	assert.Equal(t, int64(6800), s.BalanceCents)
	assert.Equal(t, 3, s.Count)
	assert.Equal(t, MethodTotals{IncomeCents: 5000, ExpenseCents: 1200}, s.ByMethod[MethodCash])
	assert.Equal(t, MethodTotals{IncomeCents: 3000}, s.ByMethod[MethodCard])
}

func TestComputeClosingUsesOnlyCash(t *testing.T) {
	c, err := ComputeClosing([]models.CashMovement{
		mov(TypeIncome, MethodCash, 5000, false),
		mov(TypeIncome, MethodTransfer, 7000, false),
		mov(TypeExpense, MethodCash, 1000, false),
	}, 2000, 5500)
	require.NoError(t, err)

	assert.Equal(t, int64(6000), c.ExpectedCashCents)
	assert.Equal(t, int64(-500), c.DifferenceCents)
	assert.Equal(t, int64(12000), c.IncomeCents)
	assert.Equal(t, 3, c.MovementsCount)
}

func TestComputeClosingRejectsNegative(t *testing.T) {
	_, err := ComputeClosing(nil, -1, 0)
	assert.True(t, httperr.IsBusiness(err, "invalid_amount"))
}

func TestVoidTwice(t *testing.T) {
	m := mov(TypeIncome, MethodCash, 100, false)
	now := time.Now()

	require.NoError(t, Void(&m, 7, " error de carga ", now))
	assert.True(t, m.IsVoided())
	assert.Equal(t, uint(7), *m.VoidedByID)
	assert.Equal(t, "error de carga", m.VoidReason)

	assert.True(t, httperr.IsBusiness(Void(&m, 7, "", now), "already_voided"))
}

func TestValidateMovement(t *testing.T) {
	base := models.CashMovement{
		Type: TypeIncome, Method: MethodCash, AmountCents: 100, OccurredAt: time.Now(),
	}

	cases := []struct {
		name string
		mut  func(m *models.CashMovement)
		code string
	}{
		{"ok", func(*models.CashMovement) {}, ""},
		{"bad type", func(m *models.CashMovement) { m.Type = "refund" }, "invalid_movement_type"},
		{"bad method", func(m *models.CashMovement) { m.Method = "crypto" }, "invalid_payment_method"},
		{"zero amount", func(m *models.CashMovement) { m.AmountCents = 0 }, "invalid_amount"},
		{"no date", func(m *models.CashMovement) { m.OccurredAt = time.Time{} }, "invalid_date"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := base
			tc.mut(&m)
			err := ValidateMovement(&m)
			if tc.code == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, httperr.IsBusiness(err, tc.code), "got %v", err)
		})
	}
}

func TestNormalizeMethod(t *testing.T) {
	m, err := NormalizeMethod("")
	require.NoError(t, err)
	assert.Equal(t, MethodCash, m)

	m, err = NormalizeMethod(" Card ")
	require.NoError(t, err)
	assert.Equal(t, MethodCard, m)

	_, err = NormalizeMethod("bitcoin")
	assert.True(t, httperr.IsBusiness(err, "invalid_payment_method"))
}
