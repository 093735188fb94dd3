package models

import (
	"time"
)

type Vote struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	UserID      uint        `gorm:"not null;uniqueIndex:idx_voter_target" json:"user_id"`
	VotableType VotableType `gorm:"size:16;not null;uniqueIndex:idx_voter_target" json:"votable_type"`
	VotableID   uint        `gorm:"not null;uniqueIndex:idx_voter_target" json:"votable_id"`
	Value       int         `gorm:"not null" json:"value"` // -1, 0 (retracted) or 1
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// The three-column unique index is what enforces one vote row per
// (voter, target). A retracted vote keeps its row with value 0 so a later
// re-vote updates in place instead of racing a re-insert.
