package models

import "time"

// Barbershop é o tenant: tudo na base pertence a uma barbearia.
type Barbershop struct {
	ID                    uint   `gorm:"primaryKey" json:"id"`
	Name                  string `gorm:"size:100;not null" json:"name"`
	Slug                  string `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Phone                 string `gorm:"size:20" json:"phone"`
	Address               string `gorm:"size:255" json:"address"`
	Timezone              string `gorm:"size:64;default:'America/Sao_Paulo'" json:"timezone"`
	Currency              string `gorm:"size:3;default:'ARS'" json:"currency"`
	MinAdvanceMinutes     int    `gorm:"default:120" json:"min_advance_minutes"`
	SlotIntervalMinutes   int    `gorm:"default:0" json:"slot_interval_minutes"`
	WhatsAppPhoneNumberID string `gorm:"column:whatsapp_phone_number_id;size:64;index" json:"whatsapp_phone_number_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
