package models

import "time"

type Payment struct {
	ID            uint `gorm:"primaryKey" json:"id"`
	BarbershopID  uint `gorm:"index" json:"barbershop_id"`
	AppointmentID uint `gorm:"index" json:"appointment_id"`

	Provider          string `gorm:"size:20;default:'mercadopago'" json:"provider"`
	PreferenceID      string `gorm:"size:100" json:"preference_id"`
	InitPoint         string `gorm:"size:512" json:"init_point"`
	ProviderPaymentID string `gorm:"size:64;index" json:"provider_payment_id"`
	Status            string `gorm:"size:20;default:'pending'" json:"status"`
	AmountCents       int64  `json:"amount_cents"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
