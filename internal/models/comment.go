package models

import (
	"time"
)

type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	LinkID    uint      `gorm:"not null;index" json:"link_id"`
	Link      Link      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	ParentID  *uint     `gorm:"index" json:"parent_id"` // Nullable for top-level comments
	Parent    *Comment  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Score     int       `gorm:"default:0" json:"score"` // derived; written only by the vote ledger
	CreatedAt time.Time `json:"created_at"`
}

func (c *Comment) VotableKind() VotableType { return VotableComment }

func (c *Comment) VotableID() uint { return c.ID }

func (c *Comment) AuthorID() uint { return c.UserID }
