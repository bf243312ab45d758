package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/nandanhq/peerverse/internal/dto"
	"github.com/nandanhq/peerverse/internal/model"
	"github.com/nandanhq/peerverse/internal/repository"
	"github.com/nandanhq/peerverse/pkg/apperror"
	"gorm.io/gorm"
)

type MentorRequestService interface {
	CreateRequest(ctx context.Context, studentID uuid.UUID, req dto.CreateMentorRequestRequest) (*model.MentorRequest, error)
	GetPendingRequests(ctx context.Context) ([]*model.MentorRequest, error)
	GetRequestsByStudent(ctx context.Context, studentID uuid.UUID) ([]*model.MentorRequest, error)
	ReviewRequest(ctx context.Context, reviewerID, requestID uuid.UUID, req dto.ReviewMentorRequestRequest) (*model.MentorRequest, error)
}

type mentorRequestService struct {
	requestRepo repository.MentorRequestRepository
	userRepo    repository.UserRepository
}

func NewMentorRequestService(requestRepo repository.MentorRequestRepository, userRepo repository.UserRepository) MentorRequestService {
	return &mentorRequestService{requestRepo: requestRepo, userRepo: userRepo}
}

func (s *mentorRequestService) CreateRequest(ctx context.Context, studentID uuid.UUID, req dto.CreateMentorRequestRequest) (*model.MentorRequest, error) {
	mentorID, err := uuid.Parse(req.MentorID)
	if err != nil {
		return nil, apperror.New(0, "invalid mentor id", apperror.ErrInvalidInput)
	}

	if studentID == mentorID {
		return nil, apperror.New(0, "you cannot request yourself as a mentor", apperror.ErrBadRequest)
	}

	mentor, err := s.userRepo.FindMentorByID(ctx, mentorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("mentor", req.MentorID)
		}
		return nil, err
	}

	if mentor.MentorIsAssigned {
		return nil, apperror.New(0, "this mentor is already assigned to a student", apperror.ErrBadRequest)
	}

	if _, err := s.requestRepo.FindPendingByPair(ctx, studentID, mentorID); err == nil {
		return nil, apperror.New(0, "you already have a pending request for this mentor", apperror.ErrBadRequest)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	request := &model.MentorRequest{
		StudentID: studentID,
		MentorID:  mentorID,
		Status:    model.MentorRequestPending,
		Amount:    req.Amount,
	}

	if err := s.requestRepo.Create(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to create mentor request: %w", err)
	}
	return request, nil
}

func (s *mentorRequestService) GetPendingRequests(ctx context.Context) ([]*model.MentorRequest, error) {
	return s.requestRepo.FindPending(ctx)
}

func (s *mentorRequestService) GetRequestsByStudent(ctx context.Context, studentID uuid.UUID) ([]*model.MentorRequest, error) {
	return s.requestRepo.FindByStudent(ctx, studentID)
}

func (s *mentorRequestService) ReviewRequest(ctx context.Context, reviewerID, requestID uuid.UUID, req dto.ReviewMentorRequestRequest) (*model.MentorRequest, error) {
	request, err := s.requestRepo.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("mentor request", requestID.String())
		}
		return nil, err
	}

	if request.Status != model.MentorRequestPending {
		return nil, apperror.New(0, "this request has already been reviewed", apperror.ErrBadRequest)
	}

	request.Status = req.Status
	request.ReviewedByID = &reviewerID
	request.Notes = req.Notes

	if req.Status == model.MentorRequestApproved {
		// Binds the mentor to the student. The mentor drops out of the
		// available pool until they opt out or the assignment is cleared.
		if err := s.userRepo.SetMentorAssignment(ctx, request.MentorID, request.StudentID); err != nil {
			return nil, fmt.Errorf("failed to assign mentor: %w", err)
		}
	}

	if err := s.requestRepo.Update(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to update mentor request: %w", err)
	}
	return request, nil
}
