package repositories

import (
	"context"
	"time"

	"payaso-portal/internal/adapters/persistence/models"
	"payaso-portal/internal/core/domain"

	"gorm.io/gorm"
)

// ============================================================
// Event chat
// ============================================================

// chatRepository implements ChatRepository interface
type chatRepository struct {
	db *gorm.DB
}

// NewChatRepository creates a new chat repository
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

// ListByEvent lists messages of an event, oldest first
func (r *chatRepository) ListByEvent(ctx context.Context, eventID string, since time.Time) ([]domain.ChatMessage, error) {
	var rows []*models.ChatMessage
	query := r.db.WithContext(ctx).Where("event_id = ?", eventID)
	if !since.IsZero() {
		query = query.Where("created_at > ?", since)
	}
	if err := query.Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	msgs := make([]domain.ChatMessage, 0, len(rows))
	for _, row := range rows {
		msgs = append(msgs, row.ToDomain())
	}
	return msgs, nil
}

// Create stores a chat message
func (r *chatRepository) Create(ctx context.Context, msg *domain.ChatMessage) error {
	row := &models.ChatMessage{
		ID:        msg.ID,
		EventID:   msg.EventID,
		UserID:    msg.UserID,
		UserName:  msg.UserName,
		UserPhoto: msg.UserPhoto,
		Text:      msg.Text,
		CreatedAt: msg.Timestamp,
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	msg.ID = row.ID
	msg.Timestamp = row.CreatedAt
	return nil
}

// ============================================================
// Mass messages
// ============================================================

// messageRepository implements MessageRepository interface
type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new mass message repository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

// Create stores a mass message
func (r *messageRepository) Create(ctx context.Context, msg *domain.SystemMessage) error {
	row := &models.SystemMessage{
		ID:          msg.ID,
		Subject:     msg.Subject,
		Body:        msg.Body,
		TargetRoles: models.JoinRoles(msg.TargetRoles),
		SentBy:      msg.SentBy,
		SentAt:      msg.SentAt,
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	msg.ID = row.ID
	return nil
}

// List returns mass messages, newest first
func (r *messageRepository) List(ctx context.Context) ([]domain.SystemMessage, error) {
	var rows []*models.SystemMessage
	if err := r.db.WithContext(ctx).Order("sent_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	msgs := make([]domain.SystemMessage, 0, len(rows))
	for _, row := range rows {
		msgs = append(msgs, row.ToDomain())
	}
	return msgs, nil
}
