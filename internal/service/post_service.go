package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/nandanhq/peerverse/internal/dto"
	"github.com/nandanhq/peerverse/internal/model"
	"github.com/nandanhq/peerverse/internal/repository"
	"github.com/nandanhq/peerverse/pkg/apperror"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const maxPostContentLength = 300

type PostService interface {
	CreatePost(ctx context.Context, authorID uuid.UUID, req dto.CreatePostRequest) (*dto.PostResponse, error)
	GetPostByID(ctx context.Context, postID uuid.UUID) (*dto.PostResponse, error)
	GetPostsByCollege(ctx context.Context, collegeID uuid.UUID) ([]dto.PostResponse, error)
	GetPostsByAuthor(ctx context.Context, authorID uuid.UUID) ([]dto.PostResponse, error)
	UpdatePost(ctx context.Context, userID, postID uuid.UUID, req dto.UpdatePostRequest) (*dto.PostResponse, error)
	DeletePost(ctx context.Context, userID, postID uuid.UUID) error
	SearchPosts(ctx context.Context, query string, limit int) (*dto.SearchPostsResponse, error)
}

type postService struct {
	postRepo    repository.PostRepository
	collegeRepo repository.CollegeRepository
	reputation  ReputationService
	search      SearchService
	redisClient *redis.Client

	globalCooldown time.Duration
	postCooldown   time.Duration
}

func NewPostService(
	postRepo repository.PostRepository,
	collegeRepo repository.CollegeRepository,
	reputation ReputationService,
	search SearchService,
	redisClient *redis.Client,
	globalCooldown, postCooldown time.Duration,
) PostService {
	return &postService{
		postRepo:       postRepo,
		collegeRepo:    collegeRepo,
		reputation:     reputation,
		search:         search,
		redisClient:    redisClient,
		globalCooldown: globalCooldown,
		postCooldown:   postCooldown,
	}
}

func (s *postService) CreatePost(ctx context.Context, authorID uuid.UUID, req dto.CreatePostRequest) (*dto.PostResponse, error) {
	// Global cooldown, then a stricter per-post cooldown.
	allowed, err := CheckAndSetRateLimit(ctx, s.redisClient, authorID, "global", s.globalCooldown)
	if err != nil {
		return nil, fmt.Errorf("failed to check rate limit: %w", err)
	}
	if !allowed {
		ttl, _ := GetRateLimitTTL(ctx, s.redisClient, authorID, "global")
		return nil, apperror.New(0, fmt.Sprintf("you are doing that too fast. Please wait %.0f seconds", ttl.Seconds()), apperror.ErrRateLimitExceeded)
	}

	allowed, err = CheckAndSetRateLimit(ctx, s.redisClient, authorID, "post", s.postCooldown)
	if err != nil {
		_ = ClearRateLimit(ctx, s.redisClient, authorID, "global")
		return nil, fmt.Errorf("failed to check rate limit: %w", err)
	}
	if !allowed {
		_ = ClearRateLimit(ctx, s.redisClient, authorID, "global")
		ttl, _ := GetRateLimitTTL(ctx, s.redisClient, authorID, "post")
		return nil, apperror.New(0, fmt.Sprintf("you can only create one post every %.0f seconds. Please wait %.0f seconds", s.postCooldown.Seconds(), ttl.Seconds()), apperror.ErrRateLimitExceeded)
	}

	creationFailed := true
	defer func() {
		if creationFailed {
			_ = ClearRateLimit(ctx, s.redisClient, authorID, "global")
			_ = ClearRateLimit(ctx, s.redisClient, authorID, "post")
		}
	}()

	collegeID, err := uuid.Parse(req.CollegeID)
	if err != nil {
		return nil, apperror.New(0, "invalid college id", apperror.ErrInvalidInput)
	}

	if _, err := s.collegeRepo.FindByID(ctx, collegeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("college", req.CollegeID)
		}
		return nil, err
	}

	if len(req.Content) > maxPostContentLength {
		return nil, apperror.New(0, "post content cannot exceed 300 characters", apperror.ErrInvalidInput)
	}

	post := &model.Post{
		AuthorID:    authorID,
		CollegeID:   collegeID,
		Content:     req.Content,
		Media:       req.Media,
		IsAnonymous: req.IsAnonymous,
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	// Reputation event: questionsAsked +1, karma +5, mentor evaluation.
	if err := s.reputation.OnPostCreated(ctx, authorID, post.ID); err != nil {
		return nil, err
	}

	creationFailed = false

	created, err := s.postRepo.FindByID(ctx, post.ID)
	if err != nil {
		return nil, err
	}

	if s.search != nil {
		if err := s.search.IndexPost(created); err != nil {
			log.Printf("Failed to index post %s: %v", created.ID, err)
		}
	}

	resp := toPostResponse(created)
	return &resp, nil
}

func (s *postService) GetPostByID(ctx context.Context, postID uuid.UUID) (*dto.PostResponse, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("post", postID.String())
		}
		return nil, err
	}

	resp := toPostResponse(post)
	return &resp, nil
}

func (s *postService) GetPostsByCollege(ctx context.Context, collegeID uuid.UUID) ([]dto.PostResponse, error) {
	posts, err := s.postRepo.FindByCollege(ctx, collegeID)
	if err != nil {
		return nil, err
	}
	return toPostResponses(posts), nil
}

func (s *postService) GetPostsByAuthor(ctx context.Context, authorID uuid.UUID) ([]dto.PostResponse, error) {
	posts, err := s.postRepo.FindByAuthor(ctx, authorID)
	if err != nil {
		return nil, err
	}
	return toPostResponses(posts), nil
}

func (s *postService) UpdatePost(ctx context.Context, userID, postID uuid.UUID, req dto.UpdatePostRequest) (*dto.PostResponse, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("post", postID.String())
		}
		return nil, err
	}

	if post.AuthorID != userID {
		return nil, apperror.New(0, "you can only edit your own posts", apperror.ErrForbidden)
	}

	if req.Content != "" {
		if len(req.Content) > maxPostContentLength {
			return nil, apperror.New(0, "post content cannot exceed 300 characters", apperror.ErrInvalidInput)
		}
		post.Content = req.Content
	}
	if req.Media != nil {
		post.Media = req.Media
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	if s.search != nil {
		if err := s.search.IndexPost(post); err != nil {
			log.Printf("Failed to reindex post %s: %v", post.ID, err)
		}
	}

	resp := toPostResponse(post)
	return &resp, nil
}

func (s *postService) DeletePost(ctx context.Context, userID, postID uuid.UUID) error {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("post", postID.String())
		}
		return err
	}

	if post.AuthorID != userID {
		return apperror.New(0, "you can only delete your own posts", apperror.ErrForbidden)
	}

	// Reverses creation karma/stats and cascades ledger cleanup before the
	// row disappears. Upvote-derived karma stays with the author.
	if err := s.reputation.OnPostDeleted(ctx, post.AuthorID, postID); err != nil {
		return err
	}

	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	if s.search != nil {
		if err := s.search.DeletePost(postID.String()); err != nil {
			log.Printf("Failed to remove post %s from index: %v", postID, err)
		}
	}

	return nil
}

func (s *postService) SearchPosts(ctx context.Context, query string, limit int) (*dto.SearchPostsResponse, error) {
	docs, err := s.search.SearchPosts(query, limit)
	if err != nil {
		return nil, err
	}

	hits := make([]dto.PostResponse, 0, len(docs))
	for _, doc := range docs {
		id, err := uuid.Parse(doc.ID)
		if err != nil {
			continue
		}
		post, err := s.postRepo.FindByID(ctx, id)
		if err != nil {
			// Index can briefly lag behind deletions.
			continue
		}
		hits = append(hits, toPostResponse(post))
	}

	return &dto.SearchPostsResponse{Query: query, Hits: hits}, nil
}

func toPostResponse(post *model.Post) dto.PostResponse {
	resp := dto.PostResponse{
		ID:          post.ID,
		CollegeID:   post.CollegeID,
		Content:     post.Content,
		Media:       post.Media,
		Upvotes:     post.Upvotes,
		IsAnonymous: post.IsAnonymous,
		CreatedAt:   post.CreatedAt,
		UpdatedAt:   post.UpdatedAt,
	}

	if !post.IsAnonymous && post.Author.ID != uuid.Nil {
		resp.Author = &dto.AuthorSummary{
			ID:         post.Author.ID,
			Name:       post.Author.Name,
			ProfilePic: post.Author.ProfilePic,
			IsMentor:   post.Author.IsMentor,
		}
	}

	for i := range post.Replies {
		reply := &post.Replies[i]
		resp.Replies = append(resp.Replies, toReplyResponse(reply))
	}

	return resp
}

func toPostResponses(posts []*model.Post) []dto.PostResponse {
	resps := make([]dto.PostResponse, 0, len(posts))
	for _, post := range posts {
		resps = append(resps, toPostResponse(post))
	}
	return resps
}
