package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nandanhq/peerverse/internal/service"
	"github.com/nandanhq/peerverse/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockReputationService struct {
	castUpvoteFn    func(ctx context.Context, voterID, postID uuid.UUID) (*service.UpvoteResult, error)
	retractUpvoteFn func(ctx context.Context, voterID, postID uuid.UUID) (*service.UpvoteResult, error)
	votedPostIDsFn  func(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

func (m *mockReputationService) OnPostCreated(ctx context.Context, authorID, postID uuid.UUID) error {
	return nil
}

func (m *mockReputationService) OnPostDeleted(ctx context.Context, authorID, postID uuid.UUID) error {
	return nil
}

func (m *mockReputationService) OnReplyCreated(ctx context.Context, authorID uuid.UUID) error {
	return nil
}

func (m *mockReputationService) OnReplyDeleted(ctx context.Context, authorID uuid.UUID) error {
	return nil
}

func (m *mockReputationService) CastUpvote(ctx context.Context, voterID, postID uuid.UUID) (*service.UpvoteResult, error) {
	return m.castUpvoteFn(ctx, voterID, postID)
}

func (m *mockReputationService) RetractUpvote(ctx context.Context, voterID, postID uuid.UUID) (*service.UpvoteResult, error) {
	return m.retractUpvoteFn(ctx, voterID, postID)
}

func (m *mockReputationService) OptOutMentor(ctx context.Context, userID uuid.UUID) (*service.OptOutResult, error) {
	return &service.OptOutResult{}, nil
}

func (m *mockReputationService) VotedPostIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return m.votedPostIDsFn(ctx, userID)
}

func (m *mockReputationService) ReconcilePostUpvotes(ctx context.Context) (int64, error) {
	return 0, nil
}

func setupUpvoteRouter(mock *mockReputationService, userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", userID.String())
	})

	h := NewUpvoteHandler(mock)
	router.POST("/posts/:post_id/upvote", h.CastUpvote)
	router.DELETE("/posts/:post_id/upvote", h.RetractUpvote)
	router.GET("/users/me/upvotes", h.GetVotedPosts)
	return router
}

func TestCastUpvoteHandler(t *testing.T) {
	userID := uuid.New()
	postID := uuid.New()

	mock := &mockReputationService{
		castUpvoteFn: func(ctx context.Context, gotVoter, gotPost uuid.UUID) (*service.UpvoteResult, error) {
			require.Equal(t, userID, gotVoter)
			require.Equal(t, postID, gotPost)
			return &service.UpvoteResult{Upvotes: 3, VotedPostIDs: []uuid.UUID{postID}}, nil
		},
	}
	router := setupUpvoteRouter(mock, userID)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/posts/%s/upvote", postID), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"upvotes":3`)
}

func TestCastUpvoteHandlerDuplicate(t *testing.T) {
	userID := uuid.New()
	postID := uuid.New()

	mock := &mockReputationService{
		castUpvoteFn: func(ctx context.Context, voterID, postID uuid.UUID) (*service.UpvoteResult, error) {
			return nil, apperror.New(0, "already upvoted", apperror.ErrDuplicateVote)
		},
	}
	router := setupUpvoteRouter(mock, userID)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/posts/%s/upvote", postID), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCastUpvoteHandlerInvalidID(t *testing.T) {
	router := setupUpvoteRouter(&mockReputationService{}, uuid.New())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/posts/not-a-uuid/upvote", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRetractUpvoteHandlerNoVote(t *testing.T) {
	userID := uuid.New()
	postID := uuid.New()

	mock := &mockReputationService{
		retractUpvoteFn: func(ctx context.Context, voterID, postID uuid.UUID) (*service.UpvoteResult, error) {
			return nil, apperror.New(0, "no active upvote", apperror.ErrNoSuchVote)
		},
	}
	router := setupUpvoteRouter(mock, userID)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/posts/%s/upvote", postID), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetVotedPostsHandler(t *testing.T) {
	userID := uuid.New()
	postID := uuid.New()

	mock := &mockReputationService{
		votedPostIDsFn: func(ctx context.Context, gotUser uuid.UUID) ([]uuid.UUID, error) {
			require.Equal(t, userID, gotUser)
			return []uuid.UUID{postID}, nil
		},
	}
	router := setupUpvoteRouter(mock, userID)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users/me/upvotes", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), postID.String())
}
