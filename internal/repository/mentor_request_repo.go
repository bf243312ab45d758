package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/nandanhq/peerverse/internal/model"
	"gorm.io/gorm"
)

type MentorRequestRepository interface {
	Create(ctx context.Context, request *model.MentorRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.MentorRequest, error)
	FindPendingByPair(ctx context.Context, studentID, mentorID uuid.UUID) (*model.MentorRequest, error)
	FindPending(ctx context.Context) ([]*model.MentorRequest, error)
	FindByStudent(ctx context.Context, studentID uuid.UUID) ([]*model.MentorRequest, error)
	Update(ctx context.Context, request *model.MentorRequest) error
}

type mentorRequestRepository struct {
	db *gorm.DB
}

func NewMentorRequestRepository(db *gorm.DB) MentorRequestRepository {
	return &mentorRequestRepository{db: db}
}

func (r *mentorRequestRepository) Create(ctx context.Context, request *model.MentorRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *mentorRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.MentorRequest, error) {
	var request model.MentorRequest
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&request).Error; err != nil {
		return nil, err
	}

	return &request, nil
}

func (r *mentorRequestRepository) FindPendingByPair(ctx context.Context, studentID, mentorID uuid.UUID) (*model.MentorRequest, error) {
	var request model.MentorRequest
	if err := r.db.WithContext(ctx).
		Where("student_id = ? AND mentor_id = ? AND status = ?", studentID, mentorID, model.MentorRequestPending).
		First(&request).Error; err != nil {
		return nil, err
	}

	return &request, nil
}

func (r *mentorRequestRepository) FindPending(ctx context.Context) ([]*model.MentorRequest, error) {
	var requests []*model.MentorRequest
	if err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Mentor").
		Where("status = ?", model.MentorRequestPending).
		Order("created_at ASC").
		Find(&requests).Error; err != nil {
		return nil, err
	}

	return requests, nil
}

func (r *mentorRequestRepository) FindByStudent(ctx context.Context, studentID uuid.UUID) ([]*model.MentorRequest, error) {
	var requests []*model.MentorRequest
	if err := r.db.WithContext(ctx).
		Preload("Mentor").
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		return nil, err
	}

	return requests, nil
}

func (r *mentorRequestRepository) Update(ctx context.Context, request *model.MentorRequest) error {
	return r.db.WithContext(ctx).Save(request).Error
}
