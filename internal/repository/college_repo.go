package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/nandanhq/peerverse/internal/model"
	"gorm.io/gorm"
)

type CollegeRepository interface {
	Create(ctx context.Context, college *model.College) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.College, error)
	FindByName(ctx context.Context, name string) (*model.College, error)
	FindAll(ctx context.Context) ([]*model.College, error)
	Update(ctx context.Context, college *model.College) error
	AddMember(ctx context.Context, collegeID, userID uuid.UUID) error
}

type collegeRepository struct {
	db *gorm.DB
}

func NewCollegeRepository(db *gorm.DB) CollegeRepository {
	return &collegeRepository{db: db}
}

func (r *collegeRepository) Create(ctx context.Context, college *model.College) error {
	return r.db.WithContext(ctx).Create(college).Error
}

func (r *collegeRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.College, error) {
	var college model.College
	if err := r.db.WithContext(ctx).
		Preload("Members").
		Where("id = ?", id).
		First(&college).Error; err != nil {
		return nil, err
	}

	return &college, nil
}

func (r *collegeRepository) FindByName(ctx context.Context, name string) (*model.College, error) {
	var college model.College
	if err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&college).Error; err != nil {
		return nil, err
	}

	return &college, nil
}

func (r *collegeRepository) FindAll(ctx context.Context) ([]*model.College, error) {
	var colleges []*model.College
	if err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&colleges).Error; err != nil {
		return nil, err
	}

	return colleges, nil
}

func (r *collegeRepository) Update(ctx context.Context, college *model.College) error {
	return r.db.WithContext(ctx).Save(college).Error
}

func (r *collegeRepository) AddMember(ctx context.Context, collegeID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.College{ID: collegeID}).
		Association("Members").
		Append(&model.User{ID: userID})
}
