package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type College struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string         `gorm:"size:150;uniqueIndex;not null" json:"name"`
	ProfilePic   *string        `gorm:"type:text" json:"profile_pic,omitempty"`
	Location     *string        `gorm:"size:150" json:"location,omitempty"`
	Description  *string        `gorm:"type:text" json:"description,omitempty"`
	EmailDomains []string       `gorm:"serializer:json;type:jsonb" json:"email_domains,omitempty"`

	Founded       *int    `json:"founded,omitempty"`
	TotalStudents *int    `json:"total_students,omitempty"`
	CollegeType   *string `gorm:"size:50" json:"college_type,omitempty"`

	// Community ratings, 1-5 scale.
	Safety            *int `gorm:"check:safety IS NULL OR safety BETWEEN 1 AND 5" json:"safety,omitempty"`
	Healthcare        *int `json:"healthcare,omitempty"`
	QualityOfTeaching *int `json:"quality_of_teaching,omitempty"`
	CampusCulture     *int `json:"campus_culture,omitempty"`
	StudentSupport    *int `json:"student_support,omitempty"`
	Affordability     *int `json:"affordability,omitempty"`
	Placements        *int `json:"placements,omitempty"`

	Members []User `gorm:"many2many:college_members" json:"members,omitempty"`
	Posts   []Post `gorm:"foreignKey:CollegeID" json:"posts,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (c *College) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID, err = uuid.NewV7()
	}
	return
}
