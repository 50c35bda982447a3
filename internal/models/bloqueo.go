package models

import "time"

// Bloqueo impede reservas num dia inteiro ou numa faixa de horário.
// BarberID nil bloqueia a sucursal (ou a barbearia, se BranchID também for nil).
type Bloqueo struct {
	ID           uint  `gorm:"primaryKey" json:"id"`
	BarbershopID uint  `gorm:"index:idx_bloqueo_shop_day" json:"barbershop_id"`
	BranchID     *uint `json:"branch_id"`
	BarberID     *uint `gorm:"index" json:"barber_id"`

	Day       string `gorm:"size:10;not null;index:idx_bloqueo_shop_day" json:"day"`
	FullDay   bool   `json:"full_day"`
	StartTime string `gorm:"size:5" json:"start_time"`
	EndTime   string `gorm:"size:5" json:"end_time"`
	Reason    string `gorm:"size:255" json:"reason"`

	CreatedByID uint      `json:"created_by_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
