package models

import "time"

// AuditLog é gravado de forma assíncrona pelo audit.Dispatcher; nunca é
// alterado depois de criado.
type AuditLog struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BarbershopID uint  `gorm:"index:idx_audit_shop_created,priority:1;not null" json:"barbershop_id"`
	UserID       *uint `gorm:"index" json:"user_id"`

	Action   string `gorm:"size:50;not null;index" json:"action"`
	Entity   string `gorm:"size:50" json:"entity"`
	EntityID *uint  `json:"entity_id"`

	// JSON livre com os detalhes da ação
	Metadata string `gorm:"type:jsonb;default:'{}'" json:"metadata"`

	CreatedAt time.Time `gorm:"index:idx_audit_shop_created,priority:2,sort:desc" json:"created_at"`
}
