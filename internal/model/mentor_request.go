package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MentorRequestPending  = "pending"
	MentorRequestApproved = "approved"
	MentorRequestRejected = "rejected"
)

type MentorRequest struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID uuid.UUID `gorm:"type:uuid;not null;index" json:"student_id"`
	Student   User      `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"student,omitempty"`
	MentorID  uuid.UUID `gorm:"type:uuid;not null;index" json:"mentor_id"`
	Mentor    User      `gorm:"foreignKey:MentorID;constraint:OnDelete:CASCADE" json:"mentor,omitempty"`

	Status string `gorm:"size:20;default:'pending'" json:"status"`

	// Amount the student offered. No charge is performed here; payment
	// processing lives outside this service.
	Amount int `gorm:"not null;default:0" json:"amount"`

	ReviewedByID *uuid.UUID `gorm:"type:uuid" json:"reviewed_by_id,omitempty"`
	Notes        string     `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (m *MentorRequest) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID, err = uuid.NewV7()
	}
	return
}
