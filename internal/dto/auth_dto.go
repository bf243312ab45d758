package dto

import (
	"time"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	Name      string `json:"name" binding:"required,min=2,max=100"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8,max=72"`
	CollegeID string `json:"college_id" binding:"required,uuid"`
	Major     string `json:"major" binding:"required,max=100"`
	Year      int    `json:"year" binding:"required,min=1900,max=2100"`
	LinkedIn  string `json:"linked_in" binding:"omitempty,url"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UserResponse struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	ProfilePic     *string    `json:"profile_pic,omitempty"`
	CollegeID      *uuid.UUID `json:"college_id,omitempty"`
	Major          *string    `json:"major,omitempty"`
	Year           *int       `json:"year,omitempty"`
	LinkedIn       *string    `json:"linked_in,omitempty"`
	Karma          int        `json:"karma"`
	QuestionsAsked int        `json:"questions_asked"`
	AnswersGiven   int        `json:"answers_given"`
	IsMentor       bool       `json:"is_mentor"`
	CreatedAt      time.Time  `json:"created_at"`
}
