package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/omsherikar/rgipt-student-portal/internal/domain"
)

// GormMessageRepository implements MessageRepository using GORM.
type GormMessageRepository struct {
	db *gorm.DB
}

func NewGormMessageRepository(db *gorm.DB) *GormMessageRepository {
	return &GormMessageRepository{db: db}
}

func (r *GormMessageRepository) Create(ctx context.Context, msg *domain.Message) error {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	if msg.Kind == "" {
		msg.Kind = domain.MessageKindText
	}
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *GormMessageRepository) ListBetween(ctx context.Context, userID, otherID string) ([]*domain.Message, error) {
	var messages []*domain.Message
	result := r.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userID, otherID, otherID, userID).
		Order("created_at ASC").
		Find(&messages)
	if result.Error != nil {
		return nil, result.Error
	}
	return messages, nil
}

func (r *GormMessageRepository) ListForUser(ctx context.Context, userID string) ([]*domain.Message, error) {
	var messages []*domain.Message
	result := r.db.WithContext(ctx).
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&messages)
	if result.Error != nil {
		return nil, result.Error
	}
	return messages, nil
}

func (r *GormMessageRepository) MarkConversationRead(ctx context.Context, readerID, otherID string, readAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&domain.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND is_read = ?", otherID, readerID, false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": readAt,
		}).Error
}
