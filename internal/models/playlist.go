package models

import (
	"time"

	"gorm.io/gorm"
)

// Playlist represents an ordered collection of videos
type Playlist struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	Name        string `gorm:"not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	OwnerID     string `gorm:"type:uuid;not null;index" json:"owner_id"`
	Owner       User   `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	IsPublic    bool   `gorm:"not null" json:"is_public"`

	// Relationships
	Entries []PlaylistEntry `gorm:"foreignKey:PlaylistID" json:"entries,omitempty"`

	// GORM fields
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the default table name
func (Playlist) TableName() string {
	return "playlists"
}

func (p *Playlist) OwnerIdentity() string {
	return p.OwnerID
}

// HasAccess checks if a user can read the playlist (owner or public)
func (p *Playlist) HasAccess(userID string) bool {
	if p.IsPublic {
		return true
	}
	return userID != "" && p.OwnerID == userID
}

func (p *Playlist) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = generateUUID()
	}
	return nil
}

// PlaylistEntry represents a video in a playlist. Entries are hard deleted so the
// (playlist_id, video_id) unique index stays meaningful.
type PlaylistEntry struct {
	ID         string `gorm:"primaryKey;type:uuid" json:"id"`
	PlaylistID string `gorm:"type:uuid;not null;uniqueIndex:idx_playlist_entries_unique,priority:1" json:"playlist_id"`
	VideoID    string `gorm:"type:uuid;not null;uniqueIndex:idx_playlist_entries_unique,priority:2" json:"video_id"`
	Video      Video  `gorm:"foreignKey:VideoID" json:"video,omitempty"`
	Position   int    `gorm:"not null;default:0" json:"position"` // Order in playlist (0-based)

	AddedAt time.Time `json:"added_at"`
}

// TableName overrides the default table name
func (PlaylistEntry) TableName() string {
	return "playlist_entries"
}

func (e *PlaylistEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = generateUUID()
	}
	if e.AddedAt.IsZero() {
		e.AddedAt = time.Now().UTC()
	}
	return nil
}
