package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// VideoIDList is an ordered list of video ids stored as a JSON array column.
// jsonb on PostgreSQL, text elsewhere.
type VideoIDList []string

// Scan implements the sql.Scanner interface for reading from database
func (l *VideoIDList) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*l = VideoIDList{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("unsupported watch history value type %T", value)
	}

	if len(raw) == 0 {
		*l = VideoIDList{}
		return nil
	}

	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return fmt.Errorf("failed to decode watch history: %w", err)
	}
	*l = ids
	return nil
}

// Value implements the driver.Valuer interface for writing to database
func (l VideoIDList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// GormDBDataType picks the column type per dialect
func (VideoIDList) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "jsonb"
	}
	return "text"
}

// User is an account. As a content owner it is also a channel.
type User struct {
	ID            string `gorm:"primaryKey;type:uuid" json:"id"`
	Username      string `gorm:"uniqueIndex;not null" json:"username"`
	Email         string `gorm:"uniqueIndex;not null" json:"email"`
	FullName      string `gorm:"not null" json:"full_name"`
	AvatarURL     string `json:"avatar_url"`
	CoverImageURL string `json:"cover_image_url"`

	// Most recent first, capacity bounded. Only the history tracker writes it.
	WatchHistory VideoIDList `gorm:"not null;default:'[]'" json:"-"`

	// GORM fields
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// OwnerIdentity returns the user itself; a user owns their own account data
func (u *User) OwnerIdentity() string {
	return u.ID
}

// BeforeCreate hooks for GORM
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = generateUUID()
	}
	if u.WatchHistory == nil {
		u.WatchHistory = VideoIDList{}
	}
	return nil
}

// Helper function for UUID generation
func generateUUID() string {
	return uuid.New().String()
}
