package dto

import (
	"time"

	"github.com/vidshare/backend/internal/models"
)

// PlaylistView is a playlist with its entries resolved to summaries
type PlaylistView struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	IsPublic    bool           `json:"is_public"`
	Owner       OwnerSummary   `json:"owner"`
	Videos      []VideoSummary `json:"videos"`
	CreatedAt   time.Time      `json:"created_at"`
}

// ToPlaylistView converts a playlist. Entries whose video is gone or hidden
// from viewerID are skipped.
func ToPlaylistView(playlist *models.Playlist, viewerID string) *PlaylistView {
	view := &PlaylistView{
		ID:          playlist.ID,
		Name:        playlist.Name,
		Description: playlist.Description,
		IsPublic:    playlist.IsPublic,
		Owner:       ToOwnerSummary(&playlist.Owner),
		Videos:      make([]VideoSummary, 0, len(playlist.Entries)),
		CreatedAt:   playlist.CreatedAt,
	}
	for i := range playlist.Entries {
		video := &playlist.Entries[i].Video
		if video.ID == "" || !video.VisibleTo(viewerID) {
			continue
		}
		view.Videos = append(view.Videos, ToVideoSummary(video))
	}
	return view
}

type CreatePlaylistRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=1000"`
	IsPublic    *bool  `json:"is_public"`
}

type AddPlaylistVideoRequest struct {
	VideoID string `json:"video_id" binding:"required"`
}

// PlaylistAddResponse reports whether the video was newly added
type PlaylistAddResponse struct {
	Added bool `json:"added"`
}
