package repository

import (
	"context"
	"time"

	"github.com/nandanhq/peerverse/internal/model"
	"gorm.io/gorm"
)

type ChatRepository interface {
	Create(ctx context.Context, message *model.ChatMessage) error
	FindSince(ctx context.Context, since time.Time) ([]*model.ChatMessage, error)
}

type chatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) Create(ctx context.Context, message *model.ChatMessage) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *chatRepository) FindSince(ctx context.Context, since time.Time) ([]*model.ChatMessage, error) {
	var messages []*model.ChatMessage
	if err := r.db.WithContext(ctx).
		Preload("Sender").
		Where("created_at >= ?", since).
		Order("created_at ASC").
		Find(&messages).Error; err != nil {
		return nil, err
	}

	return messages, nil
}
