package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/barberia/internal/domain/chat"
	"github.com/BruksfildServices01/barberia/internal/models"
)

type ChatGormRepository struct {
	db *gorm.DB
}

func NewChatGormRepository(db *gorm.DB) *ChatGormRepository {
	return &ChatGormRepository{db: db}
}

func (r *ChatGormRepository) Transaction(ctx context.Context, fn func(tx domain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ChatGormRepository{db: tx})
	})
}

func (r *ChatGormRepository) FindBarbershopByPhoneNumberID(ctx context.Context, phoneNumberID string) (*models.Barbershop, error) {
	var shop models.Barbershop
	if err := r.db.WithContext(ctx).
		Where("whatsapp_phone_number_id = ? AND whatsapp_phone_number_id <> ''", phoneNumberID).
		First(&shop).Error; err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return &shop, nil
}

func (r *ChatGormRepository) GetBarbershopByID(ctx context.Context, id uint) (*models.Barbershop, error) {
	shop, err := getBarbershop(ctx, r.db, id)
	if err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return shop, nil
}

func (r *ChatGormRepository) FindClientByPhone(ctx context.Context, barbershopID uint, phone string) (*models.Client, error) {
	var c models.Client
	if err := r.db.WithContext(ctx).
		Where("barbershop_id = ? AND phone = ?", barbershopID, phone).
		First(&c).Error; err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return &c, nil
}

// --------------------------------------------------
// Conversations
// --------------------------------------------------

func (r *ChatGormRepository) UpsertConversation(
	ctx context.Context,
	barbershopID uint,
	phone string,
	displayName string,
) (*models.Conversation, error) {

	conv := models.Conversation{
		BarbershopID: barbershopID,
		Phone:        phone,
		DisplayName:  displayName,
	}

	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "barbershop_id"}, {Name: "phone"}},
			DoNothing: true,
		}).
		Create(&conv).Error; err != nil {
		return nil, err
	}

	var out models.Conversation
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("barbershop_id = ? AND phone = ?", barbershopID, phone).
		First(&out).Error; err != nil {
		return nil, err
	}

	if out.DisplayName == "" && displayName != "" {
		out.DisplayName = displayName
	}
	return &out, nil
}

func (r *ChatGormRepository) GetConversation(ctx context.Context, barbershopID, id uint) (*models.Conversation, error) {
	var c models.Conversation
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Where("id = ? AND barbershop_id = ?", id, barbershopID).
		First(&c).Error; err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return &c, nil
}

func (r *ChatGormRepository) UpdateConversation(ctx context.Context, c *models.Conversation) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(c).Error
}

func (r *ChatGormRepository) ListConversations(
	ctx context.Context,
	f domain.ConversationFilter,
) ([]models.Conversation, int64, error) {

	q := r.db.WithContext(ctx).
		Model(&models.Conversation{}).
		Where("barbershop_id = ? AND archived = ?", f.BarbershopID, f.Archived)

	if f.UnreadOnly {
		q = q.Where("unread_count > 0")
	}
	if f.Query != "" {
		like := "%" + strings.ToLower(f.Query) + "%"
		q = q.Where("(LOWER(display_name) LIKE ? OR phone LIKE ?)", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}

	var out []models.Conversation
	if err := q.
		Preload("Client").
		Order("last_message_at DESC NULLS LAST, id DESC").
		Limit(limit).
		Offset(f.Offset).
		Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// --------------------------------------------------
// Messages
// --------------------------------------------------

func (r *ChatGormRepository) InsertMessage(ctx context.Context, m *models.ChatMessage) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "wa_message_id"}},
			DoNothing: true,
		}).
		Create(m)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *ChatGormRepository) FindMessageByWaID(ctx context.Context, waMessageID string) (*models.ChatMessage, error) {
	var m models.ChatMessage
	if err := r.db.WithContext(ctx).
		Where("wa_message_id = ?", waMessageID).
		First(&m).Error; err != nil {
		return nil, notFound(err, domain.ErrNotFound)
	}
	return &m, nil
}

func (r *ChatGormRepository) UpdateMessage(ctx context.Context, m *models.ChatMessage) error {
	return r.db.WithContext(ctx).Model(m).Update("status", m.Status).Error
}

// ListMessages pagina de trás para frente (before = id mais antigo já
// carregado) e devolve em ordem cronológica.
func (r *ChatGormRepository) ListMessages(
	ctx context.Context,
	barbershopID uint,
	conversationID uint,
	beforeID uint,
	limit int,
) ([]models.ChatMessage, error) {

	q := r.db.WithContext(ctx).
		Where("barbershop_id = ? AND conversation_id = ?", barbershopID, conversationID)
	if beforeID != 0 {
		q = q.Where("id < ?", beforeID)
	}

	var out []models.ChatMessage
	if err := q.Order("id DESC").Limit(limit).Find(&out).Error; err != nil {
		return nil, err
	}

	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

var _ domain.Repository = (*ChatGormRepository)(nil)
