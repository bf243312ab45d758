package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/nandanhq/peerverse/internal/model"
	"gorm.io/gorm"
)

type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error)
	FindByCollege(ctx context.Context, collegeID uuid.UUID) ([]*model.Post, error)
	FindByAuthor(ctx context.Context, authorID uuid.UUID) ([]*model.Post, error)
	Update(ctx context.Context, post *model.Post) error
	Delete(ctx context.Context, id uuid.UUID) error

	// IncrementUpvotes atomically adjusts the derived upvote counter,
	// clamped at zero.
	IncrementUpvotes(ctx context.Context, id uuid.UUID, delta int) error
	// ReconcileUpvotes rewrites every post's upvote counter from the
	// ledger in a single statement. Returns the number of rows touched.
	ReconcileUpvotes(ctx context.Context) (int64, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	var post model.Post
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Replies.Author").
		Where("id = ?", id).
		First(&post).Error; err != nil {
		return nil, err
	}

	return &post, nil
}

func (r *postRepository) FindByCollege(ctx context.Context, collegeID uuid.UUID) ([]*model.Post, error) {
	var posts []*model.Post
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Where("college_id = ?", collegeID).
		Order("created_at DESC").
		Find(&posts).Error; err != nil {
		return nil, err
	}

	return posts, nil
}

func (r *postRepository) FindByAuthor(ctx context.Context, authorID uuid.UUID) ([]*model.Post, error) {
	var posts []*model.Post
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("College").
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Find(&posts).Error; err != nil {
		return nil, err
	}

	return posts, nil
}

func (r *postRepository) Update(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Save(post).Error
}

func (r *postRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Post{}, "id = ?", id).Error
}

func (r *postRepository) IncrementUpvotes(ctx context.Context, id uuid.UUID, delta int) error {
	res := r.db.WithContext(ctx).
		Model(&model.Post{}).
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

func (r *postRepository) ReconcileUpvotes(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE posts
		SET upvotes = sub.cnt
		FROM (
			SELECT p.id, COUNT(u.id) AS cnt
			FROM posts p
			LEFT JOIN upvotes u ON u.post_id = p.id
			GROUP BY p.id
		) AS sub
		WHERE posts.id = sub.id AND posts.upvotes <> sub.cnt`)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
