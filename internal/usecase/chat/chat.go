package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barberia/internal/audit"
	domain "github.com/BruksfildServices01/barberia/internal/domain/chat"
	"github.com/BruksfildServices01/barberia/internal/httperr"
	"github.com/BruksfildServices01/barberia/internal/models"
	"github.com/BruksfildServices01/barberia/internal/realtime"
	"github.com/BruksfildServices01/barberia/internal/usecase"
	"github.com/BruksfildServices01/barberia/internal/validators"
	"github.com/BruksfildServices01/barberia/internal/whatsapp"
)

// Sender é a parte do cliente da Cloud API que o inbox usa.
type Sender interface {
	SendText(ctx context.Context, phoneNumberID, to, body string) (string, error)
}

// ======================================================
// WEBHOOK (mensagens e status vindos da Meta)
// ======================================================

type HandleWebhook struct {
	repo  domain.Repository
	hooks usecase.Hooks
	log   *zap.Logger
}

func NewHandleWebhook(repo domain.Repository, hooks usecase.Hooks, log *zap.Logger) *HandleWebhook {
	if log == nil {
		log = zap.NewNop()
	}
	return &HandleWebhook{repo: repo, hooks: hooks, log: log}
}

// Execute processa o lote inteiro; mensagens de números desconhecidos são
// ignoradas para que a Meta não fique reenviando.
func (uc *HandleWebhook) Execute(
	ctx context.Context,
	messages []whatsapp.InboundMessage,
	statuses []whatsapp.StatusUpdate,
) error {
	shops := map[string]*models.Barbershop{}

	for _, in := range messages {
		shop, err := uc.shopFor(ctx, shops, in.PhoneNumberID)
		if err != nil {
			return err
		}
		if shop == nil {
			uc.log.Warn("whatsapp message for unknown phone number id",
				zap.String("phone_number_id", in.PhoneNumberID))
			continue
		}

		if err := uc.inbound(ctx, shop, in); err != nil {
			return err
		}
	}

	for _, st := range statuses {
		if err := uc.status(ctx, st); err != nil {
			return err
		}
	}

	return nil
}

func (uc *HandleWebhook) shopFor(
	ctx context.Context,
	cache map[string]*models.Barbershop,
	phoneNumberID string,
) (*models.Barbershop, error) {
	if shop, ok := cache[phoneNumberID]; ok {
		return shop, nil
	}

	shop, err := uc.repo.FindBarbershopByPhoneNumberID(ctx, phoneNumberID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			cache[phoneNumberID] = nil
			return nil, nil
		}
		return nil, err
	}
	cache[phoneNumberID] = shop
	return shop, nil
}

func (uc *HandleWebhook) inbound(ctx context.Context, shop *models.Barbershop, in whatsapp.InboundMessage) error {
	phone := validators.NormalizePhone(in.From)
	at := in.SentAt
	if at.IsZero() {
		at = time.Now()
	}

	var (
		conv    *models.Conversation
		msg     *models.ChatMessage
		created bool
	)

	err := uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		var err error
		conv, err = tx.UpsertConversation(ctx, shop.ID, phone, in.ProfileName)
		if err != nil {
			return err
		}

		if conv.ClientID == nil {
			client, err := tx.FindClientByPhone(ctx, shop.ID, phone)
			if err != nil && !errors.Is(err, domain.ErrNotFound) {
				return err
			}
			if client != nil {
				conv.ClientID = &client.ID
			}
		}

		waID := in.WaMessageID
		msg = &models.ChatMessage{
			ConversationID: conv.ID,
			BarbershopID:   shop.ID,
			Direction:      domain.DirectionIn,
			Body:           in.Body,
			WaMessageID:    &waID,
			Status:         domain.StatusReceived,
			CreatedAt:      at,
		}
		created, err = tx.InsertMessage(ctx, msg)
		if err != nil || !created {
			return err
		}

		domain.Touch(conv, msg, at)
		return tx.UpdateConversation(ctx, conv)
	})
	if err != nil {
		return err
	}
	if !created {
		return nil
	}

	uc.hooks.Metrics.WhatsAppMessage(domain.DirectionIn)
	uc.hooks.Publish(ctx, shop.ID, realtime.TopicChatMessage, map[string]any{
		"conversation": conv,
		"message":      msg,
	})
	return nil
}

func (uc *HandleWebhook) status(ctx context.Context, st whatsapp.StatusUpdate) error {
	msg, err := uc.repo.FindMessageByWaID(ctx, st.WaMessageID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}

	if !domain.ShouldAdvance(msg.Status, st.Status) {
		return nil
	}

	msg.Status = st.Status
	if err := uc.repo.UpdateMessage(ctx, msg); err != nil {
		return err
	}

	uc.hooks.Publish(ctx, msg.BarbershopID, realtime.TopicChatStatus, map[string]any{
		"conversation_id": msg.ConversationID,
		"message_id":      msg.ID,
		"status":          msg.Status,
	})
	return nil
}

// ======================================================
// SEND
// ======================================================

type SendMessage struct {
	repo   domain.Repository
	sender Sender
	hooks  usecase.Hooks
	now    func() time.Time
}

func NewSendMessage(repo domain.Repository, sender Sender, hooks usecase.Hooks) *SendMessage {
	return &SendMessage{repo: repo, sender: sender, hooks: hooks, now: time.Now}
}

// Execute envia pela Cloud API e guarda a mensagem como sent ou failed.
func (uc *SendMessage) Execute(
	ctx context.Context,
	barbershopID uint,
	userID uint,
	conversationID uint,
	body string,
) (*models.ChatMessage, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, httperr.ErrBusiness("message_required")
	}

	shop, err := uc.repo.GetBarbershopByID(ctx, barbershopID)
	if err != nil {
		return nil, err
	}
	if shop.WhatsAppPhoneNumberID == "" || uc.sender == nil {
		return nil, httperr.ErrBusiness("whatsapp_not_configured")
	}

	conv, err := getConversation(ctx, uc.repo, barbershopID, conversationID)
	if err != nil {
		return nil, err
	}

	msg := &models.ChatMessage{
		ConversationID: conv.ID,
		BarbershopID:   barbershopID,
		Direction:      domain.DirectionOut,
		Body:           body,
		Status:         domain.StatusSent,
		SentByID:       &userID,
	}

	waID, sendErr := uc.sender.SendText(ctx, shop.WhatsAppPhoneNumberID, conv.Phone, body)
	switch {
	case errors.Is(sendErr, whatsapp.ErrNotConfigured):
		return nil, httperr.ErrBusiness("whatsapp_not_configured")
	case sendErr != nil:
		msg.Status = domain.StatusFailed
	default:
		msg.WaMessageID = &waID
	}

	now := uc.now()
	msg.CreatedAt = now

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		if _, err := tx.InsertMessage(ctx, msg); err != nil {
			return err
		}
		domain.Touch(conv, msg, now)
		return tx.UpdateConversation(ctx, conv)
	})
	if err != nil {
		return nil, err
	}

	uc.hooks.Metrics.WhatsAppMessage(domain.DirectionOut)
	uc.hooks.Record(audit.Event{
		BarbershopID: barbershopID,
		UserID:       &userID,
		Action:       "chat_message_sent",
		Entity:       "conversation",
		EntityID:     &conv.ID,
		Metadata:     map[string]any{"status": msg.Status},
	})
	uc.hooks.Publish(ctx, barbershopID, realtime.TopicChatMessage, map[string]any{
		"conversation": conv,
		"message":      msg,
	})

	return msg, nil
}

// ======================================================
// INBOX
// ======================================================

type Inbox struct {
	repo domain.Repository
}

func NewInbox(repo domain.Repository) *Inbox {
	return &Inbox{repo: repo}
}

func (uc *Inbox) ListConversations(ctx context.Context, f domain.ConversationFilter) ([]models.Conversation, int64, error) {
	f.Query = strings.TrimSpace(f.Query)
	return uc.repo.ListConversations(ctx, f)
}

func (uc *Inbox) ListMessages(
	ctx context.Context,
	barbershopID uint,
	conversationID uint,
	beforeID uint,
	limit int,
) ([]models.ChatMessage, error) {
	if _, err := getConversation(ctx, uc.repo, barbershopID, conversationID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return uc.repo.ListMessages(ctx, barbershopID, conversationID, beforeID, limit)
}

func (uc *Inbox) MarkRead(ctx context.Context, barbershopID, conversationID uint) (*models.Conversation, error) {
	conv, err := getConversation(ctx, uc.repo, barbershopID, conversationID)
	if err != nil {
		return nil, err
	}
	if conv.UnreadCount == 0 {
		return conv, nil
	}
	conv.UnreadCount = 0
	return conv, uc.repo.UpdateConversation(ctx, conv)
}

func (uc *Inbox) SetArchived(ctx context.Context, barbershopID, conversationID uint, archived bool) (*models.Conversation, error) {
	conv, err := getConversation(ctx, uc.repo, barbershopID, conversationID)
	if err != nil {
		return nil, err
	}
	conv.Archived = archived
	return conv, uc.repo.UpdateConversation(ctx, conv)
}

func getConversation(ctx context.Context, repo domain.Repository, barbershopID, id uint) (*models.Conversation, error) {
	conv, err := repo.GetConversation(ctx, barbershopID, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.ErrBusiness("conversation_not_found")
		}
		return nil, err
	}
	return conv, nil
}
