package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatMessage struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SenderID uuid.UUID `gorm:"type:uuid;not null" json:"sender_id"`
	Sender   User      `gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE" json:"sender,omitempty"`
	Content  string    `gorm:"type:text;not null" json:"content"`
	Type     string    `gorm:"size:10;default:'text'" json:"type"` // 'text' or 'image'

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (m *ChatMessage) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID, err = uuid.NewV7()
	}
	return
}
