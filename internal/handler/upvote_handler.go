package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nandanhq/peerverse/internal/service"
	"github.com/nandanhq/peerverse/pkg/response"
)

type UpvoteHandler struct {
	reputation service.ReputationService
}

func NewUpvoteHandler(reputation service.ReputationService) *UpvoteHandler {
	return &UpvoteHandler{reputation: reputation}
}

func (h *UpvoteHandler) CastUpvote(c *gin.Context) {
	postID, err := uuid.Parse(c.Param("post_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	result, err := h.reputation.CastUpvote(c.Request.Context(), userID, postID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "post upvoted",
		"upvotes":        result.Upvotes,
		"voted_post_ids": result.VotedPostIDs,
	})
}

func (h *UpvoteHandler) RetractUpvote(c *gin.Context) {
	postID, err := uuid.Parse(c.Param("post_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	result, err := h.reputation.RetractUpvote(c.Request.Context(), userID, postID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "upvote removed",
		"upvotes":        result.Upvotes,
		"voted_post_ids": result.VotedPostIDs,
	})
}

// ReconcileUpvotes recomputes every post's upvote counter from the
// ledger. Admin only; the cron job runs the same repair on a schedule.
func (h *UpvoteHandler) ReconcileUpvotes(c *gin.Context) {
	repaired, err := h.reputation.ReconcilePostUpvotes(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "upvote counters reconciled",
		"repaired": repaired,
	})
}

func (h *UpvoteHandler) GetVotedPosts(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	postIDs, err := h.reputation.VotedPostIDs(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"voted_post_ids": postIDs})
}
