package models

import "time"

// Cliente sem login, vinculado à barbearia. Phone guarda só dígitos.
type Client struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	BarbershopID uint `gorm:"uniqueIndex:idx_client_shop_phone" json:"barbershop_id"`

	Name     string     `gorm:"size:100;not null" json:"name"`
	Phone    string     `gorm:"size:20;uniqueIndex:idx_client_shop_phone" json:"phone"`
	Email    string     `gorm:"size:100" json:"email"`
	Notes    string     `gorm:"type:text" json:"notes"`
	Birthday *time.Time `gorm:"type:date" json:"birthday"`
	Tags     string     `gorm:"size:255" json:"tags"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
