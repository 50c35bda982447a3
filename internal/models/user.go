package models

import "time"

const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleBarber = "barber"
)

type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	BarbershopID uint       `gorm:"index" json:"barbershop_id"`
	Barbershop   Barbershop `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`
	BranchID     *uint      `gorm:"index" json:"branch_id"`

	Name              string  `gorm:"size:100;not null" json:"name"`
	Email             string  `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash      string  `gorm:"size:255;not null" json:"-"`
	Phone             string  `gorm:"size:20" json:"phone"`
	Role              string  `gorm:"size:20;default:'owner'" json:"role"`
	Active            bool    `gorm:"default:true" json:"active"`
	AvatarURL         string  `gorm:"size:512" json:"avatar_url"`
	CommissionPercent float64 `gorm:"default:0" json:"commission_percent"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) IsManager() bool {
	return u.Role == RoleOwner || u.Role == RoleAdmin
}
