package caja

import (
	"strings"
	"time"

	"github.com/BruksfildServices01/barberia/internal/httperr"
	"github.com/BruksfildServices01/barberia/internal/models"
)

const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

const (
	MethodCash        = "cash"
	MethodCard        = "card"
	MethodTransfer    = "transfer"
	MethodMercadoPago = "mercadopago"
)

const CategoryService = "service"

func IsValidType(t string) bool {
	return t == TypeIncome || t == TypeExpense
}

func IsValidMethod(m string) bool {
	switch m {
	case MethodCash, MethodCard, MethodTransfer, MethodMercadoPago:
		return true
	}
	return false
}

// NormalizeMethod aplica o padrão (efectivo) quando o método vem vazio.
func NormalizeMethod(m string) (string, error) {
	m = strings.ToLower(strings.TrimSpace(m))
	if m == "" {
		return MethodCash, nil
	}
	if !IsValidMethod(m) {
		return "", httperr.ErrBusiness("invalid_payment_method")
	}
	return m, nil
}

func ValidateMovement(m *models.CashMovement) error {
	if !IsValidType(m.Type) {
		return httperr.ErrBusiness("invalid_movement_type")
	}
	if !IsValidMethod(m.Method) {
		return httperr.ErrBusiness("invalid_payment_method")
	}
	if m.AmountCents <= 0 {
		return httperr.ErrBusiness("invalid_amount")
	}
	if m.OccurredAt.IsZero() {
		return httperr.ErrBusiness("invalid_date")
	}
	return nil
}

// Void anula o lançamento. O registro continua na base.
func Void(m *models.CashMovement, userID uint, reason string, now time.Time) error {
	if m.IsVoided() {
		return httperr.ErrBusiness("already_voided")
	}

	m.VoidedAt = &now
	m.VoidedByID = &userID
	m.VoidReason = strings.TrimSpace(reason)
	return nil
}

// BranchKey converte a sucursal opcional na chave usada pelos fechamentos.
// 0 representa a barbearia sem sucursal.
func BranchKey(branchID *uint) uint {
	if branchID == nil {
		return 0
	}
	return *branchID
}
