package models

import (
	"time"
)

type Link struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	User         User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	Title        string    `gorm:"not null" json:"title"`
	URL          string    `json:"url"`
	Description  string    `gorm:"type:text" json:"description"`   // Optional
	Score        int       `gorm:"default:0;index" json:"score"`   // derived; written only by the vote ledger
	CommentCount int       `gorm:"default:0" json:"comment_count"` // derived; written only by the comment tree
	CreatedAt    time.Time `gorm:"index" json:"created_at"`        // immutable, drives age-based ranking
}

func (l *Link) VotableKind() VotableType { return VotableLink }

func (l *Link) VotableID() uint { return l.ID }

func (l *Link) AuthorID() uint { return l.UserID }
