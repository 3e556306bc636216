package dto

import (
	"time"

	"github.com/vidshare/backend/internal/models"
)

// OwnerSummary is the trimmed owner shown next to videos, comments and posts
type OwnerSummary struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url"`
}

// ToOwnerSummary converts models.User to OwnerSummary
func ToOwnerSummary(user *models.User) OwnerSummary {
	if user == nil {
		return OwnerSummary{}
	}
	return OwnerSummary{
		ID:        user.ID,
		Username:  user.Username,
		FullName:  user.FullName,
		AvatarURL: user.AvatarURL,
	}
}

// ChannelView is a user's public profile in their capacity as a channel
type ChannelView struct {
	ID              string    `json:"id"`
	Username        string    `json:"username"`
	FullName        string    `json:"full_name"`
	AvatarURL       string    `json:"avatar_url"`
	CoverImageURL   string    `json:"cover_image_url"`
	SubscriberCount int64     `json:"subscriber_count"`
	IsSubscribed    bool      `json:"is_subscribed"`
	CreatedAt       time.Time `json:"created_at"`
	Partial         bool      `json:"partial"`
}

// ToChannelView converts models.User to ChannelView without counts
func ToChannelView(user *models.User) *ChannelView {
	if user == nil {
		return nil
	}
	return &ChannelView{
		ID:            user.ID,
		Username:      user.Username,
		FullName:      user.FullName,
		AvatarURL:     user.AvatarURL,
		CoverImageURL: user.CoverImageURL,
		CreatedAt:     user.CreatedAt,
	}
}

// ToggleResponse reports the relationship state after a toggle
type ToggleResponse struct {
	Active bool `json:"active"`
}
