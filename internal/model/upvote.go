package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Upvote is the authoritative fact record that a user has upvoted a post.
// The composite unique index enforces at most one active entry per
// (user, post) pair; concurrent casts for the same pair serialize through
// it, with the loser surfacing a duplicate-key error.
type Upvote struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_upvotes_user_post,priority:1;index:idx_upvotes_user" json:"user_id"`
	User   User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	PostID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_upvotes_user_post,priority:2;index:idx_upvotes_post" json:"post_id"`
	Post   Post      `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (u *Upvote) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID, err = uuid.NewV7()
	}
	return
}
