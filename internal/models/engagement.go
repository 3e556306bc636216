package models

import (
	"time"

	"gorm.io/gorm"
)

// SubjectType is the kind of content a Like points at
type SubjectType string

const (
	SubjectVideo   SubjectType = "video"
	SubjectComment SubjectType = "comment"
	SubjectPost    SubjectType = "post"
)

// Valid reports whether t is a known subject type
func (t SubjectType) Valid() bool {
	switch t {
	case SubjectVideo, SubjectComment, SubjectPost:
		return true
	}
	return false
}

// Subject identifies the likeable thing: a tagged reference instead of three
// nullable foreign keys.
type Subject struct {
	Type SubjectType
	ID   string
}

// Like ties a user to one subject. At most one row per (subject_type, subject_id, liked_by_id).
type Like struct {
	ID          string      `gorm:"primaryKey;type:uuid" json:"id"`
	SubjectType SubjectType `gorm:"type:varchar(16);not null;uniqueIndex:idx_likes_subject_actor,priority:1" json:"subject_type"`
	SubjectID   string      `gorm:"type:uuid;not null;uniqueIndex:idx_likes_subject_actor,priority:2" json:"subject_id"`
	LikedByID   string      `gorm:"type:uuid;not null;uniqueIndex:idx_likes_subject_actor,priority:3;index" json:"liked_by_id"`
	CreatedAt   time.Time   `json:"created_at"`
}

// Subject returns the tagged subject of the like
func (l *Like) Subject() Subject {
	return Subject{Type: l.SubjectType, ID: l.SubjectID}
}

func (l *Like) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = generateUUID()
	}
	return nil
}

// Subscription is a directed edge subscriber -> channel. At most one per pair,
// never channel == subscriber.
type Subscription struct {
	ID           string    `gorm:"primaryKey;type:uuid" json:"id"`
	ChannelID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_subscriptions_pair,priority:1" json:"channel_id"`
	SubscriberID string    `gorm:"type:uuid;not null;uniqueIndex:idx_subscriptions_pair,priority:2;index" json:"subscriber_id"`
	CreatedAt    time.Time `json:"created_at"`
}

func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = generateUUID()
	}
	return nil
}
