package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/nandanhq/peerverse/internal/model"
	"gorm.io/gorm"
)

type ReplyRepository interface {
	Create(ctx context.Context, reply *model.Reply) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Reply, error)
	FindByPost(ctx context.Context, postID uuid.UUID) ([]*model.Reply, error)
	Update(ctx context.Context, reply *model.Reply) error
	Delete(ctx context.Context, id uuid.UUID) error

	// IncrementUpvotes atomically adjusts the reply counter, floored at
	// zero in SQL.
	IncrementUpvotes(ctx context.Context, id uuid.UUID, delta int) error
}

type replyRepository struct {
	db *gorm.DB
}

func NewReplyRepository(db *gorm.DB) ReplyRepository {
	return &replyRepository{db: db}
}

func (r *replyRepository) Create(ctx context.Context, reply *model.Reply) error {
	return r.db.WithContext(ctx).Create(reply).Error
}

func (r *replyRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Reply, error) {
	var reply model.Reply
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Where("id = ?", id).
		First(&reply).Error; err != nil {
		return nil, err
	}

	return &reply, nil
}

func (r *replyRepository) FindByPost(ctx context.Context, postID uuid.UUID) ([]*model.Reply, error) {
	var replies []*model.Reply
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&replies).Error; err != nil {
		return nil, err
	}

	return replies, nil
}

func (r *replyRepository) Update(ctx context.Context, reply *model.Reply) error {
	return r.db.WithContext(ctx).Save(reply).Error
}

func (r *replyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Reply{}, "id = ?", id).Error
}

func (r *replyRepository) IncrementUpvotes(ctx context.Context, id uuid.UUID, delta int) error {
	res := r.db.WithContext(ctx).
		Model(&model.Reply{}).
		Where("id = ?", id).
		UpdateColumn("upvotes", gorm.Expr("GREATEST(upvotes + ?, 0)", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
