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

type CollegeService interface {
	CreateCollege(ctx context.Context, req dto.CreateCollegeRequest) (*model.College, error)
	GetCollegeByID(ctx context.Context, id uuid.UUID) (*model.College, error)
	GetAllColleges(ctx context.Context) ([]*model.College, error)
	UpdateCollege(ctx context.Context, id uuid.UUID, req dto.UpdateCollegeRequest) (*model.College, error)
	JoinCollege(ctx context.Context, collegeID, userID uuid.UUID) error
}

type collegeService struct {
	collegeRepo repository.CollegeRepository
	userRepo    repository.UserRepository
}

func NewCollegeService(collegeRepo repository.CollegeRepository, userRepo repository.UserRepository) CollegeService {
	return &collegeService{collegeRepo: collegeRepo, userRepo: userRepo}
}

func (s *collegeService) CreateCollege(ctx context.Context, req dto.CreateCollegeRequest) (*model.College, error) {
	if _, err := s.collegeRepo.FindByName(ctx, req.Name); err == nil {
		return nil, apperror.New(0, "a college with that name already exists", apperror.ErrBadRequest)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	college := &model.College{
		Name:         req.Name,
		ProfilePic:   strPtrOrNil(req.ProfilePic),
		Location:     strPtrOrNil(req.Location),
		Description:  strPtrOrNil(req.Description),
		EmailDomains: req.EmailDomains,
		CollegeType:  strPtrOrNil(req.CollegeType),
	}
	if req.Founded != 0 {
		college.Founded = &req.Founded
	}
	if req.TotalStudents != 0 {
		college.TotalStudents = &req.TotalStudents
	}

	if err := s.collegeRepo.Create(ctx, college); err != nil {
		return nil, fmt.Errorf("failed to create college: %w", err)
	}
	return college, nil
}

func (s *collegeService) GetCollegeByID(ctx context.Context, id uuid.UUID) (*model.College, error) {
	college, err := s.collegeRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("college", id.String())
		}
		return nil, err
	}
	return college, nil
}

func (s *collegeService) GetAllColleges(ctx context.Context) ([]*model.College, error) {
	return s.collegeRepo.FindAll(ctx)
}

func (s *collegeService) UpdateCollege(ctx context.Context, id uuid.UUID, req dto.UpdateCollegeRequest) (*model.College, error) {
	college, err := s.collegeRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("college", id.String())
		}
		return nil, err
	}

	if req.Name != "" {
		college.Name = req.Name
	}
	if req.ProfilePic != "" {
		college.ProfilePic = &req.ProfilePic
	}
	if req.Location != "" {
		college.Location = &req.Location
	}
	if req.Description != "" {
		college.Description = &req.Description
	}

	applyRating(&college.Safety, req.Safety)
	applyRating(&college.Healthcare, req.Healthcare)
	applyRating(&college.QualityOfTeaching, req.QualityOfTeaching)
	applyRating(&college.CampusCulture, req.CampusCulture)
	applyRating(&college.StudentSupport, req.StudentSupport)
	applyRating(&college.Affordability, req.Affordability)
	applyRating(&college.Placements, req.Placements)

	if err := s.collegeRepo.Update(ctx, college); err != nil {
		return nil, fmt.Errorf("failed to update college: %w", err)
	}
	return college, nil
}

func (s *collegeService) JoinCollege(ctx context.Context, collegeID, userID uuid.UUID) error {
	if _, err := s.collegeRepo.FindByID(ctx, collegeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("college", collegeID.String())
		}
		return err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("user", userID.String())
		}
		return err
	}

	if err := s.collegeRepo.AddMember(ctx, collegeID, userID); err != nil {
		return fmt.Errorf("failed to join college: %w", err)
	}

	user.CollegeID = &collegeID
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update user college: %w", err)
	}
	return nil
}

func applyRating(field **int, value int) {
	if value != 0 {
		v := value
		*field = &v
	}
}
