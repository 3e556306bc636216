package dto

import (
	"time"

	"github.com/vidshare/backend/internal/models"
)

// VideoSummary is the card shown in history, playlists and listings
type VideoSummary struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	ThumbnailURL string       `json:"thumbnail_url"`
	Duration     float64      `json:"duration"`
	Views        int64        `json:"views"`
	CreatedAt    time.Time    `json:"created_at"`
	Owner        OwnerSummary `json:"owner"`
}

// ToVideoSummary converts models.Video (with Owner loaded) to VideoSummary
func ToVideoSummary(video *models.Video) VideoSummary {
	return VideoSummary{
		ID:           video.ID,
		Title:        video.Title,
		ThumbnailURL: video.ThumbnailURL,
		Duration:     video.Duration,
		Views:        video.Views,
		CreatedAt:    video.CreatedAt,
		Owner:        ToOwnerSummary(&video.Owner),
	}
}

// VideoOwner is the owner block of a video detail, including channel counts
type VideoOwner struct {
	OwnerSummary
	SubscriberCount int64 `json:"subscriber_count"`
	IsSubscribed    bool  `json:"is_subscribed"`
}

// VideoDetail is the composed view returned by the video detail endpoint.
// Every field is always present; failed sub-lookups fall back to zero/false
// and set Partial.
type VideoDetail struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	VideoURL     string     `json:"video_url"`
	ThumbnailURL string     `json:"thumbnail_url"`
	Duration     float64    `json:"duration"`
	Views        int64      `json:"views"`
	IsPublished  bool       `json:"is_published"`
	CreatedAt    time.Time  `json:"created_at"`
	Age          string     `json:"age"`
	Owner        VideoOwner `json:"owner"`
	LikeCount    int64      `json:"like_count"`
	IsLiked      bool       `json:"is_liked"`
	Partial      bool       `json:"partial"`
}

// CreateVideoRequest is the multipart form accompanying an upload
type CreateVideoRequest struct {
	Title       string  `form:"title" binding:"required,min=1,max=200"`
	Description string  `form:"description" binding:"max=5000"`
	Duration    float64 `form:"duration" binding:"gte=0"`
	IsPublished bool    `form:"is_published"`
}

// PublishRequest sets the publication flag
type PublishRequest struct {
	IsPublished *bool `json:"is_published" binding:"required"`
}

// HistoryResponse is the watch history, most recent first
type HistoryResponse struct {
	Videos []VideoSummary `json:"videos"`
	Count  int            `json:"count"`
}
