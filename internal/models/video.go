package models

import (
	"time"

	"gorm.io/gorm"
)

// Video is an uploaded video. Media locations are opaque URLs from the upload service.
type Video struct {
	ID      string `gorm:"primaryKey;type:uuid" json:"id"`
	OwnerID string `gorm:"type:uuid;not null;index" json:"owner_id"`
	Owner   User   `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`

	Title        string  `gorm:"not null" json:"title"`
	Description  string  `gorm:"type:text" json:"description"`
	VideoURL     string  `gorm:"not null" json:"video_url"`
	ThumbnailURL string  `json:"thumbnail_url"`
	Duration     float64 `json:"duration"` // seconds

	// Only ever incremented in the store: views = views + 1
	Views int64 `gorm:"not null;default:0" json:"views"`

	// No default tag: gorm would skip a false value on insert.
	IsPublished bool `gorm:"not null" json:"is_published"`

	// GORM fields
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// OwnerIdentity returns the id of the uploading user
func (v *Video) OwnerIdentity() string {
	return v.OwnerID
}

// VisibleTo reports whether viewerID may see the video. Unpublished videos are
// visible to their owner only.
func (v *Video) VisibleTo(viewerID string) bool {
	return v.IsPublished || (viewerID != "" && v.OwnerID == viewerID)
}

func (v *Video) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = generateUUID()
	}
	return nil
}
