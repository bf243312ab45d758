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

type ReplyService interface {
	CreateReply(ctx context.Context, authorID uuid.UUID, req dto.CreateReplyRequest) (*dto.ReplyResponse, error)
	GetRepliesByPost(ctx context.Context, postID uuid.UUID) ([]dto.ReplyResponse, error)
	UpdateReply(ctx context.Context, userID, replyID uuid.UUID, req dto.UpdateReplyRequest) (*dto.ReplyResponse, error)
	DeleteReply(ctx context.Context, userID, replyID uuid.UUID) error
	UpvoteReply(ctx context.Context, replyID uuid.UUID, delta int) (*dto.ReplyResponse, error)
}

type replyService struct {
	replyRepo  repository.ReplyRepository
	postRepo   repository.PostRepository
	reputation ReputationService
}

func NewReplyService(replyRepo repository.ReplyRepository, postRepo repository.PostRepository, reputation ReputationService) ReplyService {
	return &replyService{
		replyRepo:  replyRepo,
		postRepo:   postRepo,
		reputation: reputation,
	}
}

func (s *replyService) CreateReply(ctx context.Context, authorID uuid.UUID, req dto.CreateReplyRequest) (*dto.ReplyResponse, error) {
	postID, err := uuid.Parse(req.PostID)
	if err != nil {
		return nil, apperror.New(0, "invalid post id", apperror.ErrInvalidInput)
	}

	if _, err := s.postRepo.FindByID(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("post", req.PostID)
		}
		return nil, err
	}

	reply := &model.Reply{
		PostID:      postID,
		AuthorID:    authorID,
		Content:     req.Content,
		Media:       req.Media,
		IsAnonymous: req.IsAnonymous,
	}

	if err := s.replyRepo.Create(ctx, reply); err != nil {
		return nil, fmt.Errorf("failed to create reply: %w", err)
	}

	// answersGiven +1, no karma.
	if err := s.reputation.OnReplyCreated(ctx, authorID); err != nil {
		return nil, err
	}

	created, err := s.replyRepo.FindByID(ctx, reply.ID)
	if err != nil {
		return nil, err
	}

	resp := toReplyResponse(created)
	return &resp, nil
}

func (s *replyService) GetRepliesByPost(ctx context.Context, postID uuid.UUID) ([]dto.ReplyResponse, error) {
	replies, err := s.replyRepo.FindByPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	resps := make([]dto.ReplyResponse, 0, len(replies))
	for _, reply := range replies {
		resps = append(resps, toReplyResponse(reply))
	}
	return resps, nil
}

func (s *replyService) UpdateReply(ctx context.Context, userID, replyID uuid.UUID, req dto.UpdateReplyRequest) (*dto.ReplyResponse, error) {
	reply, err := s.replyRepo.FindByID(ctx, replyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("reply", replyID.String())
		}
		return nil, err
	}

	if reply.AuthorID != userID {
		return nil, apperror.New(0, "you can only edit your own replies", apperror.ErrForbidden)
	}

	if req.Content != "" {
		reply.Content = req.Content
	}
	if req.Media != nil {
		reply.Media = req.Media
	}

	if err := s.replyRepo.Update(ctx, reply); err != nil {
		return nil, fmt.Errorf("failed to update reply: %w", err)
	}

	resp := toReplyResponse(reply)
	return &resp, nil
}

func (s *replyService) DeleteReply(ctx context.Context, userID, replyID uuid.UUID) error {
	reply, err := s.replyRepo.FindByID(ctx, replyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("reply", replyID.String())
		}
		return err
	}

	if reply.AuthorID != userID {
		return apperror.New(0, "you can only delete your own replies", apperror.ErrForbidden)
	}

	if err := s.reputation.OnReplyDeleted(ctx, reply.AuthorID); err != nil {
		return err
	}

	if err := s.replyRepo.Delete(ctx, replyID); err != nil {
		return fmt.Errorf("failed to delete reply: %w", err)
	}

	return nil
}

// UpvoteReply adjusts the reply's counter by delta. Reply upvotes do not
// touch the ledger and award no karma, so anyone authenticated may call
// this any number of times.
func (s *replyService) UpvoteReply(ctx context.Context, replyID uuid.UUID, delta int) (*dto.ReplyResponse, error) {
	if delta == 0 {
		return nil, apperror.New(0, "upvote change must be non-zero", apperror.ErrInvalidInput)
	}

	if err := s.replyRepo.IncrementUpvotes(ctx, replyID, delta); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("reply", replyID.String())
		}
		return nil, fmt.Errorf("failed to update reply upvotes: %w", err)
	}

	reply, err := s.replyRepo.FindByID(ctx, replyID)
	if err != nil {
		return nil, err
	}

	resp := toReplyResponse(reply)
	return &resp, nil
}

func toReplyResponse(reply *model.Reply) dto.ReplyResponse {
	resp := dto.ReplyResponse{
		ID:          reply.ID,
		PostID:      reply.PostID,
		Content:     reply.Content,
		Media:       reply.Media,
		Upvotes:     reply.Upvotes,
		IsAnonymous: reply.IsAnonymous,
		CreatedAt:   reply.CreatedAt,
	}

	if !reply.IsAnonymous && reply.Author.ID != uuid.Nil {
		resp.Author = &dto.AuthorSummary{
			ID:         reply.Author.ID,
			Name:       reply.Author.Name,
			ProfilePic: reply.Author.ProfilePic,
			IsMentor:   reply.Author.IsMentor,
		}
	}

	return resp
}
