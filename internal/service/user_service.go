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

type UserService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req dto.UpdateProfileRequest) (*dto.UserResponse, error)
	GetMentors(ctx context.Context) ([]dto.MentorResponse, error)
	GetMentorByID(ctx context.Context, mentorID uuid.UUID) (*dto.MentorResponse, error)
	GetLeaderboard(ctx context.Context, limit int) ([]dto.LeaderboardEntry, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("user", userID.String())
		}
		return nil, err
	}

	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, req dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("user", userID.String())
		}
		return nil, err
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.ProfilePic != "" {
		user.ProfilePic = &req.ProfilePic
	}
	if req.Major != "" {
		user.Major = &req.Major
	}
	if req.Year != 0 {
		user.Year = &req.Year
	}
	if req.LinkedIn != "" {
		user.LinkedIn = &req.LinkedIn
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userService) GetMentors(ctx context.Context) ([]dto.MentorResponse, error) {
	mentors, err := s.userRepo.FindMentors(ctx)
	if err != nil {
		return nil, err
	}

	resps := make([]dto.MentorResponse, 0, len(mentors))
	for _, mentor := range mentors {
		resps = append(resps, toMentorResponse(mentor))
	}
	return resps, nil
}

func (s *userService) GetMentorByID(ctx context.Context, mentorID uuid.UUID) (*dto.MentorResponse, error) {
	mentor, err := s.userRepo.FindMentorByID(ctx, mentorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("mentor", mentorID.String())
		}
		return nil, err
	}

	resp := toMentorResponse(mentor)
	return &resp, nil
}

func (s *userService) GetLeaderboard(ctx context.Context, limit int) ([]dto.LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	users, err := s.userRepo.TopByKarma(ctx, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]dto.LeaderboardEntry, 0, len(users))
	for i, user := range users {
		entries = append(entries, dto.LeaderboardEntry{
			Position:   i + 1,
			UserID:     user.ID,
			Name:       user.Name,
			ProfilePic: user.ProfilePic,
			Karma:      user.Karma,
			IsMentor:   user.IsMentor,
		})
	}
	return entries, nil
}

func toMentorResponse(user *model.User) dto.MentorResponse {
	return dto.MentorResponse{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		ProfilePic: user.ProfilePic,
		CollegeID:  user.CollegeID,
		Major:      user.Major,
		Year:       user.Year,
		LinkedIn:   user.LinkedIn,
		Karma:      user.Karma,
		IsAssigned: user.MentorIsAssigned,
	}
}
