package repository

import (
	"context"

	"github.com/nandanhq/peerverse/internal/model"
	"gorm.io/gorm"
)

type KarmaLogRepository interface {
	Create(ctx context.Context, entry *model.KarmaLog) error
}

type karmaLogRepository struct {
	db *gorm.DB
}

func NewKarmaLogRepository(db *gorm.DB) KarmaLogRepository {
	return &karmaLogRepository{db: db}
}

func (r *karmaLogRepository) Create(ctx context.Context, entry *model.KarmaLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}
