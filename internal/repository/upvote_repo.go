package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/nandanhq/peerverse/internal/model"
	"gorm.io/gorm"
)

// UpvoteRepository is the persistence layer of the upvote ledger. The
// unique index on (user_id, post_id) is the only cross-handler mutual
// exclusion in the system: concurrent casts for the same pair resolve to
// one insert and one gorm.ErrDuplicatedKey.
type UpvoteRepository interface {
	Create(ctx context.Context, userID, postID uuid.UUID) error
	// Delete removes the active entry for (userID, postID). Returns
	// gorm.ErrRecordNotFound when no entry existed.
	Delete(ctx context.Context, userID, postID uuid.UUID) error
	ListPostIDsByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	ListUserIDsForPost(ctx context.Context, postID uuid.UUID) ([]uuid.UUID, error)
	DeleteAllForPost(ctx context.Context, postID uuid.UUID) error
	CountForPost(ctx context.Context, postID uuid.UUID) (int64, error)
}

type upvoteRepository struct {
	db *gorm.DB
}

func NewUpvoteRepository(db *gorm.DB) UpvoteRepository {
	return &upvoteRepository{db: db}
}

func (r *upvoteRepository) Create(ctx context.Context, userID, postID uuid.UUID) error {
	upvote := model.Upvote{
		UserID: userID,
		PostID: postID,
	}
	return r.db.WithContext(ctx).Create(&upvote).Error
}

func (r *upvoteRepository) Delete(ctx context.Context, userID, postID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&model.Upvote{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *upvoteRepository) ListPostIDsByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var postIDs []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&model.Upvote{}).
		Where("user_id = ?", userID).
		Pluck("post_id", &postIDs).Error; err != nil {
		return nil, err
	}
	return postIDs, nil
}

func (r *upvoteRepository) ListUserIDsForPost(ctx context.Context, postID uuid.UUID) ([]uuid.UUID, error) {
	var userIDs []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&model.Upvote{}).
		Where("post_id = ?", postID).
		Pluck("user_id", &userIDs).Error; err != nil {
		return nil, err
	}
	return userIDs, nil
}

func (r *upvoteRepository) DeleteAllForPost(ctx context.Context, postID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Delete(&model.Upvote{}).Error
}

func (r *upvoteRepository) CountForPost(ctx context.Context, postID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.Upvote{}).
		Where("post_id = ?", postID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
