package models

import (
	"time"
)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;size:40;not null" json:"username"`
	Karma     int       `gorm:"default:0" json:"karma"` // derived; written only by the karma aggregator, may go negative
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
