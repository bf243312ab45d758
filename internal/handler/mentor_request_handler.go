package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nandanhq/peerverse/internal/dto"
	"github.com/nandanhq/peerverse/internal/service"
	"github.com/nandanhq/peerverse/pkg/response"
	"github.com/nandanhq/peerverse/pkg/validator"
)

type MentorRequestHandler struct {
	requestService service.MentorRequestService
}

func NewMentorRequestHandler(requestService service.MentorRequestService) *MentorRequestHandler {
	return &MentorRequestHandler{requestService: requestService}
}

func (h *MentorRequestHandler) CreateRequest(c *gin.Context) {
	var req dto.CreateMentorRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	request, err := h.requestService.CreateRequest(c.Request.Context(), userID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, request)
}

func (h *MentorRequestHandler) GetMyRequests(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	requests, err := h.requestService.GetRequestsByStudent(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": requests})
}

func (h *MentorRequestHandler) GetPendingRequests(c *gin.Context) {
	requests, err := h.requestService.GetPendingRequests(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": requests})
}

func (h *MentorRequestHandler) ReviewRequest(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("request_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
		return
	}

	var req dto.ReviewMentorRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	reviewerID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	request, err := h.requestService.ReviewRequest(c.Request.Context(), reviewerID, requestID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, request)
}
