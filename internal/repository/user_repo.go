package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/nandanhq/peerverse/internal/model"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByVerificationToken(ctx context.Context, token string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	FindMentors(ctx context.Context) ([]*model.User, error)
	FindMentorByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	TopByKarma(ctx context.Context, limit int) ([]*model.User, error)
	Count(ctx context.Context) (int64, error)

	// IncrementKarma atomically adds delta to the user's karma, clamped at
	// zero. Single UPDATE statement, safe under concurrent events.
	IncrementKarma(ctx context.Context, id uuid.UUID, delta int) error
	// IncrementStat atomically adds delta to a stat column
	// ("questions_asked" or "answers_given"), clamped at zero.
	IncrementStat(ctx context.Context, id uuid.UUID, column string, delta int) error

	PromoteToMentor(ctx context.Context, id uuid.UUID) error
	// ClearMentor sets is_mentor false and wipes the assignment sub-state
	// in one UPDATE.
	ClearMentor(ctx context.Context, id uuid.UUID) error
	SetMentorAssignment(ctx context.Context, mentorID, studentID uuid.UUID) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).
		Preload("College").
		Where("id = ?", id).
		First(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).
		Preload("College").
		Where("email = ?", email).
		First(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) FindByVerificationToken(ctx context.Context, token string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).
		Where("verification_token = ?", token).
		First(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) FindMentors(ctx context.Context) ([]*model.User, error) {
	var mentors []*model.User
	if err := r.db.WithContext(ctx).
		Preload("College").
		Where("is_mentor = ?", true).
		Find(&mentors).Error; err != nil {
		return nil, err
	}

	return mentors, nil
}

func (r *userRepository) FindMentorByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var mentor model.User
	if err := r.db.WithContext(ctx).
		Preload("College").
		Where("id = ? AND is_mentor = ?", id, true).
		First(&mentor).Error; err != nil {
		return nil, err
	}

	return &mentor, nil
}

func (r *userRepository) TopByKarma(ctx context.Context, limit int) ([]*model.User, error) {
	var users []*model.User
	if err := r.db.WithContext(ctx).
		Order("karma DESC").
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, err
	}

	return users, nil
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *userRepository) IncrementKarma(ctx context.Context, id uuid.UUID, delta int) error {
	res := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		UpdateColumn("karma", gorm.Expr("GREATEST(karma + ?, 0)", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepository) IncrementStat(ctx context.Context, id uuid.UUID, column string, delta int) error {
	switch column {
	case "questions_asked", "answers_given":
	default:
		return gorm.ErrInvalidField
	}

	res := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr("GREATEST("+column+" + ?, 0)", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepository) PromoteToMentor(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		UpdateColumn("is_mentor", true).Error
}

func (r *userRepository) ClearMentor(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"is_mentor":          false,
			"mentor_is_assigned": false,
			"mentor_assigned_to": nil,
			"mentor_is_paid":     false,
		}).Error
}

func (r *userRepository) SetMentorAssignment(ctx context.Context, mentorID, studentID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ? AND is_mentor = ?", mentorID, true).
		UpdateColumns(map[string]interface{}{
			"mentor_is_assigned": true,
			"mentor_assigned_to": studentID,
		}).Error
}
