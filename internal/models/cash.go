package models

import "time"

// CashMovement é um lançamento da caja. Nunca é apagado, só anulado.
type CashMovement struct {
	ID           uint  `gorm:"primaryKey" json:"id"`
	BarbershopID uint  `gorm:"index:idx_cash_shop_occurred" json:"barbershop_id"`
	BranchID     *uint `gorm:"index" json:"branch_id"`

	RegisteredByID uint  `json:"registered_by_id"`
	BarberID       *uint `json:"barber_id"`
	AppointmentID  *uint `gorm:"index" json:"appointment_id"`

	Type        string  `gorm:"size:10;not null" json:"type"`
	Category    string  `gorm:"size:50" json:"category"`
	Method      string  `gorm:"size:20;not null" json:"method"`
	AmountCents int64   `gorm:"not null" json:"amount_cents"`
	Description string  `gorm:"size:255" json:"description"`
	ExternalRef *string `gorm:"size:100;uniqueIndex" json:"external_ref"`

	OccurredAt time.Time `gorm:"index:idx_cash_shop_occurred" json:"occurred_at"`

	VoidedAt   *time.Time `json:"voided_at"`
	VoidedByID *uint      `json:"voided_by_id"`
	VoidReason string     `gorm:"size:255" json:"void_reason"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (m *CashMovement) IsVoided() bool {
	return m.VoidedAt != nil
}

// CashClosing é o fechamento (cierre) de caja de uma sucursal num dia.
type CashClosing struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	BarbershopID uint   `gorm:"uniqueIndex:idx_closing_shop_branch_day" json:"barbershop_id"`
	BranchID     uint   `gorm:"uniqueIndex:idx_closing_shop_branch_day" json:"branch_id"`
	Day          string `gorm:"size:10;uniqueIndex:idx_closing_shop_branch_day" json:"day"`

	OpeningCents      int64 `json:"opening_cents"`
	IncomeCents       int64 `json:"income_cents"`
	ExpenseCents      int64 `json:"expense_cents"`
	ExpectedCashCents int64 `json:"expected_cash_cents"`
	CountedCashCents  int64 `json:"counted_cash_cents"`
	DifferenceCents   int64 `json:"difference_cents"`
	MovementsCount    int   `json:"movements_count"`

	ClosedByID uint      `json:"closed_by_id"`
	Notes      string    `gorm:"size:255" json:"notes"`
	CreatedAt  time.Time `json:"created_at"`
}
