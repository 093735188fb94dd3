package models

import (
	"time"
)

// KarmaEntry records every delta applied to a user's karma, in the order
// it was applied. User.Karma is always the sum of these rows; Reconcile
// audits that against the vote table.
type KarmaEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Delta     int       `gorm:"not null" json:"delta"`
	Reason    string    `gorm:"size:64" json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}
