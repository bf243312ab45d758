package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Post struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AuthorID  uuid.UUID `gorm:"type:uuid;not null;index" json:"author_id"`
	Author    User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	CollegeID uuid.UUID `gorm:"type:uuid;not null;index" json:"college_id"`
	College   College   `gorm:"constraint:OnDelete:CASCADE" json:"college,omitempty"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Media     []string  `gorm:"serializer:json;type:jsonb" json:"media,omitempty"`

	// Upvotes is a derived cache of the active upvote ledger entries for
	// this post. The ledger is authoritative; ReconcilePostUpvotes repairs
	// any drift.
	Upvotes int `gorm:"not null;default:0" json:"upvotes"`

	IsAnonymous bool    `gorm:"default:false" json:"is_anonymous"`
	Replies     []Reply `gorm:"foreignKey:PostID" json:"replies,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID, err = uuid.NewV7()
	}
	return
}

type Reply struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AuthorID uuid.UUID `gorm:"type:uuid;not null;index" json:"author_id"`
	Author   User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	PostID   uuid.UUID `gorm:"type:uuid;not null;index" json:"post_id"`
	Post     Post      `gorm:"constraint:OnDelete:CASCADE" json:"post,omitempty"`
	Content  string    `gorm:"type:text;not null" json:"content"`
	Media    []string  `gorm:"serializer:json;type:jsonb" json:"media,omitempty"`

	// Upvotes on replies are a plain counter. Only post upvotes go
	// through the ledger.
	Upvotes int `gorm:"not null;default:0" json:"upvotes"`

	IsAnonymous bool `gorm:"default:false" json:"is_anonymous"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (r *Reply) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID, err = uuid.NewV7()
	}
	return
}
