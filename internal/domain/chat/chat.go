package chat

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/BruksfildServices01/barberia/internal/models"
)

const (
	DirectionIn  = "in"
	DirectionOut = "out"
)

const (
	StatusReceived  = "received"
	StatusSent      = "sent"
	StatusDelivered = "delivered"
	StatusRead      = "read"
	StatusFailed    = "failed"
)

const previewLen = 120

var ErrNotFound = errors.New("record not found")

// rank ordena os status de saída; a Meta pode entregar os callbacks fora de ordem.
var rank = map[string]int{
	StatusSent:      1,
	StatusDelivered: 2,
	StatusRead:      3,
}

// ShouldAdvance diz se o status recebido deve substituir o atual.
// failed sempre vence; os demais nunca retrocedem.
func ShouldAdvance(current, next string) bool {
	if next == StatusFailed {
		return current != StatusFailed
	}
	n, ok := rank[next]
	if !ok {
		return false
	}
	if current == StatusFailed {
		return false
	}
	return n > rank[current]
}

// Preview corta o corpo para a listagem de conversas sem quebrar runas.
func Preview(body string) string {
	body = strings.Join(strings.Fields(body), " ")
	if utf8.RuneCountInString(body) <= previewLen {
		return body
	}
	r := []rune(body)
	return string(r[:previewLen-1]) + "…"
}

type ConversationFilter struct {
	BarbershopID uint
	Query        string
	UnreadOnly   bool
	Archived     bool
	Limit        int
	Offset       int
}

type Repository interface {
	Transaction(ctx context.Context, fn func(tx Repository) error) error

	FindBarbershopByPhoneNumberID(ctx context.Context, phoneNumberID string) (*models.Barbershop, error)
	GetBarbershopByID(ctx context.Context, id uint) (*models.Barbershop, error)
	FindClientByPhone(ctx context.Context, barbershopID uint, phone string) (*models.Client, error)

	// UpsertConversation devolve a conversa do telefone, criando se preciso.
	UpsertConversation(ctx context.Context, barbershopID uint, phone, displayName string) (*models.Conversation, error)
	GetConversation(ctx context.Context, barbershopID, id uint) (*models.Conversation, error)
	UpdateConversation(ctx context.Context, c *models.Conversation) error
	ListConversations(ctx context.Context, f ConversationFilter) ([]models.Conversation, int64, error)

	// InsertMessage ignora mensagens cujo wa_message_id já existe (created=false).
	InsertMessage(ctx context.Context, m *models.ChatMessage) (created bool, err error)
	FindMessageByWaID(ctx context.Context, waMessageID string) (*models.ChatMessage, error)
	UpdateMessage(ctx context.Context, m *models.ChatMessage) error
	ListMessages(ctx context.Context, barbershopID, conversationID, beforeID uint, limit int) ([]models.ChatMessage, error)
}

// Touch atualiza os campos de resumo da conversa depois de uma mensagem.
func Touch(c *models.Conversation, m *models.ChatMessage, at time.Time) {
	c.LastMessageAt = &at
	c.LastMessagePreview = Preview(m.Body)
	if m.Direction == DirectionIn {
		c.UnreadCount++
		c.Archived = false
	}
}
