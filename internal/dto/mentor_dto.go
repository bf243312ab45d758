package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateMentorRequestRequest struct {
	MentorID string `json:"mentor_id" binding:"required,uuid"`
	Amount   int    `json:"amount" binding:"min=0"`
}

type ReviewMentorRequestRequest struct {
	Status string `json:"status" binding:"required,oneof=approved rejected"`
	Notes  string `json:"notes"`
}

type MentorResponse struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	ProfilePic *string    `json:"profile_pic,omitempty"`
	CollegeID  *uuid.UUID `json:"college_id,omitempty"`
	Major      *string    `json:"major,omitempty"`
	Year       *int       `json:"year,omitempty"`
	LinkedIn   *string    `json:"linked_in,omitempty"`
	Karma      int        `json:"karma"`
	IsAssigned bool       `json:"is_assigned"`
}

type LeaderboardEntry struct {
	Position   int       `json:"position"`
	UserID     uuid.UUID `json:"user_id"`
	Name       string    `json:"name"`
	ProfilePic *string   `json:"profile_pic,omitempty"`
	Karma      int       `json:"karma"`
	IsMentor   bool      `json:"is_mentor"`
}

type UpdateProfileRequest struct {
	Name       string `json:"name" binding:"omitempty,min=2,max=100"`
	ProfilePic string `json:"profile_pic" binding:"omitempty,url"`
	Major      string `json:"major" binding:"omitempty,max=100"`
	Year       int    `json:"year" binding:"omitempty,min=1900,max=2100"`
	LinkedIn   string `json:"linked_in" binding:"omitempty,url"`
}

type ChatMessageResponse struct {
	ID        uuid.UUID      `json:"id"`
	Content   string         `json:"content"`
	Type      string         `json:"type"`
	Sender    *AuthorSummary `json:"sender,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
