package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreatePostRequest struct {
	CollegeID   string   `json:"college_id" binding:"required,uuid"`
	Content     string   `json:"content" binding:"required,max=300"`
	Media       []string `json:"media" binding:"omitempty,dive,url"`
	IsAnonymous bool     `json:"is_anonymous"`
}

type UpdatePostRequest struct {
	Content string   `json:"content" binding:"omitempty,max=300"`
	Media   []string `json:"media" binding:"omitempty,dive,url"`
}

type PostResponse struct {
	ID          uuid.UUID      `json:"id"`
	CollegeID   uuid.UUID      `json:"college_id"`
	Content     string         `json:"content"`
	Media       []string       `json:"media,omitempty"`
	Upvotes     int            `json:"upvotes"`
	IsAnonymous bool           `json:"is_anonymous"`
	Author      *AuthorSummary `json:"author,omitempty"`
	Replies     []ReplyResponse `json:"replies,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// AuthorSummary is the public slice of a user attached to content.
// Omitted entirely for anonymous posts.
type AuthorSummary struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	ProfilePic *string   `json:"profile_pic,omitempty"`
	IsMentor   bool      `json:"is_mentor"`
}

type CreateReplyRequest struct {
	PostID      string   `json:"post_id" binding:"required,uuid"`
	Content     string   `json:"content" binding:"required"`
	Media       []string `json:"media" binding:"omitempty,dive,url"`
	IsAnonymous bool     `json:"is_anonymous"`
}

type UpdateReplyRequest struct {
	Content string   `json:"content" binding:"omitempty"`
	Media   []string `json:"media" binding:"omitempty,dive,url"`
}

// UpvoteReplyRequest adjusts a reply's counter by a signed delta,
// typically +1 or -1.
type UpvoteReplyRequest struct {
	UpvoteChange int `json:"upvote_change" binding:"required"`
}

type ReplyResponse struct {
	ID          uuid.UUID      `json:"id"`
	PostID      uuid.UUID      `json:"post_id"`
	Content     string         `json:"content"`
	Media       []string       `json:"media,omitempty"`
	Upvotes     int            `json:"upvotes"`
	IsAnonymous bool           `json:"is_anonymous"`
	Author      *AuthorSummary `json:"author,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

type SearchPostsResponse struct {
	Query string         `json:"query"`
	Hits  []PostResponse `json:"hits"`
}
