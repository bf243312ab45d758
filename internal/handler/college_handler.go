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

type CollegeHandler struct {
	collegeService service.CollegeService
}

func NewCollegeHandler(collegeService service.CollegeService) *CollegeHandler {
	return &CollegeHandler{collegeService: collegeService}
}

func (h *CollegeHandler) CreateCollege(c *gin.Context) {
	var req dto.CreateCollegeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	college, err := h.collegeService.CreateCollege(c.Request.Context(), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, college)
}

func (h *CollegeHandler) GetCollege(c *gin.Context) {
	collegeID, err := uuid.Parse(c.Param("college_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid college id"})
		return
	}

	college, err := h.collegeService.GetCollegeByID(c.Request.Context(), collegeID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, college)
}

func (h *CollegeHandler) GetColleges(c *gin.Context) {
	colleges, err := h.collegeService.GetAllColleges(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": colleges})
}

func (h *CollegeHandler) UpdateCollege(c *gin.Context) {
	collegeID, err := uuid.Parse(c.Param("college_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid college id"})
		return
	}

	var req dto.UpdateCollegeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	college, err := h.collegeService.UpdateCollege(c.Request.Context(), collegeID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, college)
}

func (h *CollegeHandler) JoinCollege(c *gin.Context) {
	collegeID, err := uuid.Parse(c.Param("college_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid college id"})
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if err := h.collegeService.JoinCollege(c.Request.Context(), collegeID, userID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "joined college"})
}
