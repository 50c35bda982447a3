package models

import "time"

type Conversation struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	BarbershopID uint    `gorm:"uniqueIndex:idx_conversation_shop_phone" json:"barbershop_id"`
	ClientID     *uint   `gorm:"index" json:"client_id"`
	Client       *Client `gorm:"constraint:OnDelete:SET NULL;" json:"client,omitempty"`

	Phone       string `gorm:"size:20;not null;uniqueIndex:idx_conversation_shop_phone" json:"phone"`
	DisplayName string `gorm:"size:100" json:"display_name"`

	LastMessageAt      *time.Time `gorm:"index" json:"last_message_at"`
	LastMessagePreview string     `gorm:"size:120" json:"last_message_preview"`
	UnreadCount        int        `gorm:"default:0" json:"unread_count"`
	Archived           bool       `gorm:"default:false" json:"archived"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ChatMessage struct {
	ID             uint `gorm:"primaryKey" json:"id"`
	ConversationID uint `gorm:"index" json:"conversation_id"`
	BarbershopID   uint `gorm:"index" json:"barbershop_id"`

	Direction   string  `gorm:"size:3;not null" json:"direction"`
	Body        string  `gorm:"type:text" json:"body"`
	MediaURL    string  `gorm:"size:512" json:"media_url"`
	WaMessageID *string `gorm:"size:128;uniqueIndex" json:"wa_message_id"`
	Status      string  `gorm:"size:12" json:"status"`
	SentByID    *uint   `json:"sent_by_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
