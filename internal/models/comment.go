package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment represents a comment on a Video
type Comment struct {
	ID      string `gorm:"primaryKey;type:uuid" json:"id"`
	VideoID string `gorm:"type:uuid;not null;index:idx_comments_video_created,priority:1" json:"video_id"`
	OwnerID string `gorm:"type:uuid;not null;index" json:"owner_id"`
	Owner   User   `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Content string `gorm:"type:text;not null" json:"content"`

	CreatedAt time.Time      `gorm:"index:idx_comments_video_created,priority:2,sort:desc" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *Comment) OwnerIdentity() string {
	return c.OwnerID
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = generateUUID()
	}
	return nil
}

// Post is a short community post on a channel
type Post struct {
	ID      string `gorm:"primaryKey;type:uuid" json:"id"`
	OwnerID string `gorm:"type:uuid;not null;index" json:"owner_id"`
	Owner   User   `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Content string `gorm:"type:text;not null" json:"content"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *Post) OwnerIdentity() string {
	return p.OwnerID
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = generateUUID()
	}
	return nil
}
