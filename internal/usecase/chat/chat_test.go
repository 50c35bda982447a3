package chat

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/barberia/internal/domain/chat"
	"github.com/BruksfildServices01/barberia/internal/httperr"
	"github.com/BruksfildServices01/barberia/internal/models"
	"github.com/BruksfildServices01/barberia/internal/realtime"
	"github.com/BruksfildServices01/barberia/internal/usecase"
	"github.com/BruksfildServices01/barberia/internal/whatsapp"
)

type fakeRepo struct {
	shops    []models.Barbershop
	clients  []models.Client
	convs    map[uint]*models.Conversation
	messages []*models.ChatMessage
	nextID   uint
}

func newRepo() *fakeRepo {
	return &fakeRepo{
		shops:   []models.Barbershop{{ID: 1, WhatsAppPhoneNumberID: "PN1"}},
		clients: []models.Client{{ID: 7, BarbershopID: 1, Phone: "5491155550001", Name: "Juan"}},
		convs:   map[uint]*models.Conversation{},
	}
}

func (r *fakeRepo) id() uint {
	r.nextID++
	return r.nextID
}

func (r *fakeRepo) Transaction(_ context.Context, fn func(tx domain.Repository) error) error {
	return fn(r)
}

func (r *fakeRepo) FindBarbershopByPhoneNumberID(_ context.Context, pn string) (*models.Barbershop, error) {
	for i := range r.shops {
		if r.shops[i].WhatsAppPhoneNumberID == pn {
			return &r.shops[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeRepo) GetBarbershopByID(_ context.Context, id uint) (*models.Barbershop, error) {
	for i := range r.shops {
		if r.shops[i].ID == id {
			return &r.shops[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeRepo) FindClientByPhone(_ context.Context, shopID uint, phone string) (*models.Client, error) {
	for i := range r.clients {
		if r.clients[i].BarbershopID == shopID && r.clients[i].Phone == phone {
			return &r.clients[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeRepo) UpsertConversation(_ context.Context, shopID uint, phone, name string) (*models.Conversation, error) {
	for _, c := range r.convs {
		if c.BarbershopID == shopID && c.Phone == phone {
			cp := *c
			return &cp, nil
		}
	}
	c := &models.Conversation{ID: r.id(), BarbershopID: shopID, Phone: phone, DisplayName: name}
	r.convs[c.ID] = c
	cp := *c
	return &cp, nil
}

func (r *fakeRepo) GetConversation(_ context.Context, shopID, id uint) (*models.Conversation, error) {
	if c, ok := r.convs[id]; ok && c.BarbershopID == shopID {
		cp := *c
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r *fakeRepo) UpdateConversation(_ context.Context, c *models.Conversation) error {
	cp := *c
	r.convs[c.ID] = &cp
	return nil
}

func (r *fakeRepo) ListConversations(_ context.Context, f domain.ConversationFilter) ([]models.Conversation, int64, error) {
	out := []models.Conversation{}
	for _, c := range r.convs {
		if c.BarbershopID == f.BarbershopID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *fakeRepo) InsertMessage(_ context.Context, m *models.ChatMessage) (bool, error) {
	if m.WaMessageID != nil {
		for _, existing := range r.messages {
			if existing.WaMessageID != nil && *existing.WaMessageID == *m.WaMessageID {
				return false, nil
			}
		}
	}
	m.ID = r.id()
	cp := *m
	r.messages = append(r.messages, &cp)
	return true, nil
}

func (r *fakeRepo) FindMessageByWaID(_ context.Context, waID string) (*models.ChatMessage, error) {
	for _, m := range r.messages {
		if m.WaMessageID != nil && *m.WaMessageID == waID {
			cp := *m
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeRepo) UpdateMessage(_ context.Context, m *models.ChatMessage) error {
	for i, existing := range r.messages {
		if existing.ID == m.ID {
			cp := *m
			r.messages[i] = &cp
		}
	}
	return nil
}

func (r *fakeRepo) ListMessages(_ context.Context, shopID, convID, beforeID uint, limit int) ([]models.ChatMessage, error) {
	out := []models.ChatMessage{}
	for _, m := range r.messages {
		if m.BarbershopID == shopID && m.ConversationID == convID && (beforeID == 0 || m.ID < beforeID) {
			out = append(out, *m)
		}
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

var _ domain.Repository = (*fakeRepo)(nil)

type publisher struct{ topics []string }

func (p *publisher) Publish(_ context.Context, ev realtime.Event) error {
	p.topics = append(p.topics, ev.Topic)
	return nil
}

type sender struct {
	err  error
	sent []string
}

func (s *sender) SendText(_ context.Context, _, to, body string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.sent = append(s.sent, to+":"+body)
	return "wamid.OUT1", nil
}

func inbound(waID, from, body string) whatsapp.InboundMessage {
	return whatsapp.InboundMessage{
		PhoneNumberID: "PN1",
		From:          from,
		ProfileName:   "Juan",
		WaMessageID:   waID,
		Body:          body,
		SentAt:        time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	}
}

func TestWebhookCreatesConversationOnce(t *testing.T) {
	repo := newRepo()
	pub := &publisher{}
	uc := NewHandleWebhook(repo, usecase.Hooks{Events: pub}, nil)

	msgs := []whatsapp.InboundMessage{
		inbound("wamid.1", "5491155550001", "hola, ¿hay turno?"),
		inbound("wamid.1", "5491155550001", "hola, ¿hay turno?"),
		inbound("wamid.2", "5491155550001", "mañana 10hs"),
		{PhoneNumberID: "OTHER", From: "1", WaMessageID: "wamid.x", Body: "?"},
	}
	require.NoError(t, uc.Execute(context.Background(), msgs, nil))

	require.Len(t, repo.convs, 1)
	conv := repo.convs[1]
	assert.Equal(t, 2, conv.UnreadCount)
	assert.Equal(t, "mañana 10hs", conv.LastMessagePreview)
	require.NotNil(t, conv.ClientID)
	assert.Equal(t, uint(7), *conv.ClientID)
	assert.Len(t, repo.messages, 2)
	assert.Equal(t, []string{realtime.TopicChatMessage, realtime.TopicChatMessage}, pub.topics)
}

func TestWebhookStatusNeverRegresses(t *testing.T) {
	repo := newRepo()
	waID := "wamid.OUT1"
	repo.messages = append(repo.messages, &models.ChatMessage{
		ID: 50, BarbershopID: 1, WaMessageID: &waID, Direction: domain.DirectionOut, Status: domain.StatusSent,
	})

	uc := NewHandleWebhook(repo, usecase.Hooks{}, nil)
	require.NoError(t, uc.Execute(context.Background(), nil, []whatsapp.StatusUpdate{
		{WaMessageID: waID, Status: "read"},
		{WaMessageID: waID, Status: "delivered"},
		{WaMessageID: "unknown", Status: "read"},
	}))

	assert.Equal(t, domain.StatusRead, repo.messages[0].Status)
}

func TestSendMessage(t *testing.T) {
	repo := newRepo()
	require.NoError(t, NewHandleWebhook(repo, usecase.Hooks{}, nil).
		Execute(context.Background(), []whatsapp.InboundMessage{inbound("wamid.1", "5491155550001", "hola")}, nil))

	s := &sender{}
	uc := NewSendMessage(repo, s, usecase.Hooks{})

	msg, err := uc.Execute(context.Background(), 1, 5, 1, "  Te esperamos a las 10  ")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSent, msg.Status)
	assert.Equal(t, "wamid.OUT1", *msg.WaMessageID)
	assert.Equal(t, []string{"5491155550001:Te esperamos a las 10"}, s.sent)
	assert.Equal(t, 1, repo.convs[1].UnreadCount, "saída não zera nem soma não lidas")

	s.err = errors.New("boom")
	msg, err = uc.Execute(context.Background(), 1, 5, 1, "otro")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, msg.Status)
	assert.Nil(t, msg.WaMessageID)

	_, err = uc.Execute(context.Background(), 1, 5, 1, "   ")
	assert.True(t, httperr.IsBusiness(err, "message_required"))

	_, err = uc.Execute(context.Background(), 1, 5, 99, "hola")
	assert.True(t, httperr.IsBusiness(err, "conversation_not_found"))
}

func TestSendWithoutWhatsAppConfigured(t *testing.T) {
	repo := newRepo()
	repo.shops[0].WhatsAppPhoneNumberID = ""

	_, err := NewSendMessage(repo, &sender{}, usecase.Hooks{}).Execute(context.Background(), 1, 5, 1, "hola")
	assert.True(t, httperr.IsBusiness(err, "whatsapp_not_configured"))
}

func TestInboxMarkReadAndArchive(t *testing.T) {
	repo := newRepo()
	require.NoError(t, NewHandleWebhook(repo, usecase.Hooks{}, nil).
		Execute(context.Background(), []whatsapp.InboundMessage{inbound("wamid.1", "5491155550001", "hola")}, nil))

	inbox := NewInbox(repo)

	conv, err := inbox.MarkRead(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Zero(t, conv.UnreadCount)
	assert.Zero(t, repo.convs[1].UnreadCount)

	conv, err = inbox.SetArchived(context.Background(), 1, 1, true)
	require.NoError(t, err)
	assert.True(t, conv.Archived)

	msgs, err := inbox.ListMessages(context.Background(), 1, 1, 0, 0)
	require.NoError(t, err)
	assert.Len(t, msgs, 1)

	_, err = inbox.MarkRead(context.Background(), 2, 1)
	assert.True(t, httperr.IsBusiness(err, "conversation_not_found"))
}
