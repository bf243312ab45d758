package model

import (
	"time"

	"github.com/google/uuid"
)

// KarmaLog is an append-only audit trail of every karma delta applied by
// the reputation engine. It is written best-effort after the balance
// mutation and backs the reconciliation tooling.
type KarmaLog struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uuid.UUID `gorm:"type:uuid;index:idx_karma_user_date,priority:1;not null" json:"user_id"`
	User           User      `gorm:"foreignKey:UserID" json:"-"`
	ActionType     string    `gorm:"size:50;not null" json:"action_type"` // 'create_post', 'delete_post', 'upvote_received', 'upvote_retracted'
	Points         int       `gorm:"not null" json:"points"`
	ReferenceID    string    `gorm:"size:36" json:"reference_id"`    // UUID string of the post
	ReferenceTable string    `gorm:"size:50" json:"reference_table"` // 'posts', 'upvotes'
	CreatedAt      time.Time `gorm:"index:idx_karma_user_date,priority:2" json:"created_at"`
}
