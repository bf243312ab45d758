package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MentorKarmaThreshold is the karma score at which a user is automatically
// promoted to mentor.
const MentorKarmaThreshold = 500

type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string     `gorm:"size:100;not null" json:"name"`
	Email        string     `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"`
	ProfilePic   *string    `gorm:"type:text" json:"profile_pic,omitempty"`
	CollegeID    *uuid.UUID `gorm:"type:uuid" json:"college_id,omitempty"`
	College      *College   `gorm:"constraint:OnDelete:SET NULL" json:"college,omitempty"`
	Major        *string    `gorm:"size:100" json:"major,omitempty"`
	Year         *int       `json:"year,omitempty"`
	LinkedIn     *string    `gorm:"type:text" json:"linked_in,omitempty"`
	IsAdmin      bool       `gorm:"default:false" json:"is_admin"`

	// Reputation state. Karma never goes below zero; the floor is enforced
	// in SQL (GREATEST) rather than read-modify-write.
	Karma          int `gorm:"not null;default:0" json:"karma"`
	QuestionsAsked int `gorm:"not null;default:0" json:"questions_asked"`
	AnswersGiven   int `gorm:"not null;default:0" json:"answers_given"`

	// IsMentor is derived from karma crossing MentorKarmaThreshold. It is
	// never set directly by a client; it only goes false again through an
	// explicit opt-out by its owner. The Mentor* fields are assignment
	// sub-state and are cleared whenever IsMentor transitions to false.
	IsMentor         bool       `gorm:"default:false" json:"is_mentor"`
	MentorIsAssigned bool       `gorm:"default:false" json:"mentor_is_assigned"`
	MentorAssignedTo *uuid.UUID `gorm:"type:uuid" json:"mentor_assigned_to,omitempty"`
	MentorIsPaid     bool       `gorm:"default:false" json:"mentor_is_paid"`

	IsEmailVerified            bool       `gorm:"default:false" json:"is_email_verified"`
	VerificationToken          *string    `gorm:"size:64;index" json:"-"`
	VerificationTokenExpiresAt *time.Time `json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
