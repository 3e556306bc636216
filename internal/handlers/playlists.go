package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/vidshare/backend/internal/authz"
	"github.com/vidshare/backend/internal/dto"
	"github.com/vidshare/backend/internal/metrics"
	"github.com/vidshare/backend/internal/models"
	"github.com/vidshare/backend/internal/util"
)

// CreatePlaylist creates a playlist owned by the caller. Playlists are public
// unless is_public is false.
// POST /api/v1/playlists
func (h *Handlers) CreatePlaylist(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var req dto.CreatePlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		util.RespondValidationError(c, "name", "name must not be empty")
		return
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	playlist := &models.Playlist{
		Name:        name,
		Description: req.Description,
		OwnerID:     userID,
		IsPublic:    isPublic,
	}
	if err := h.playlists.CreatePlaylist(c.Request.Context(), playlist); err != nil {
		util.RespondError(c, err)
		return
	}

	metrics.RecordContentCreated("playlist")

	created, err := h.playlists.GetPlaylist(c.Request.Context(), playlist.ID)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToPlaylistView(created, userID))
}

// readablePlaylist loads :id and hides private playlists from non-owners
func (h *Handlers) readablePlaylist(c *gin.Context, viewerID string) (*models.Playlist, bool) {
	playlistID := c.Param("id")
	if err := util.ValidateID("playlist_id", playlistID); err != nil {
		util.RespondError(c, err)
		return nil, false
	}
	playlist, err := h.playlists.GetPlaylist(c.Request.Context(), playlistID)
	if err != nil {
		util.RespondError(c, err)
		return nil, false
	}
	if !playlist.HasAccess(viewerID) {
		util.RespondNotFound(c, "playlist")
		return nil, false
	}
	return playlist, true
}

// ownPlaylist is readablePlaylist plus an ownership check
func (h *Handlers) ownPlaylist(c *gin.Context, userID string) (*models.Playlist, bool) {
	playlist, ok := h.readablePlaylist(c, userID)
	if !ok {
		return nil, false
	}
	if err := authz.RequireOwner(userID, playlist, "playlist"); err != nil {
		util.RespondError(c, err)
		return nil, false
	}
	return playlist, true
}

// GetPlaylist returns a playlist with the videos the viewer may see
// GET /api/v1/playlists/:id
func (h *Handlers) GetPlaylist(c *gin.Context) {
	viewerID, _ := util.ViewerID(c)
	playlist, ok := h.readablePlaylist(c, viewerID)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.ToPlaylistView(playlist, viewerID))
}

// AddPlaylistVideo appends a video to the caller's playlist
// POST /api/v1/playlists/:id/videos
func (h *Handlers) AddPlaylistVideo(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var req dto.AddPlaylistVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	playlist, ok := h.ownPlaylist(c, userID)
	if !ok {
		return
	}
	video, ok := h.visibleVideo(c, req.VideoID, userID)
	if !ok {
		return
	}

	added, err := h.playlists.AddVideo(c.Request.Context(), playlist.ID, video.ID)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.PlaylistAddResponse{Added: added})
}

// RemovePlaylistVideo drops a video from the caller's playlist
// DELETE /api/v1/playlists/:id/videos/:video_id
func (h *Handlers) RemovePlaylistVideo(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}
	videoID := c.Param("video_id")
	if err := util.ValidateID("video_id", videoID); err != nil {
		util.RespondError(c, err)
		return
	}

	playlist, ok := h.ownPlaylist(c, userID)
	if !ok {
		return
	}
	if err := h.playlists.RemoveVideo(c.Request.Context(), playlist.ID, videoID); err != nil {
		util.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "video removed from playlist"})
}

// DeletePlaylist deletes the caller's playlist and its entries
// DELETE /api/v1/playlists/:id
func (h *Handlers) DeletePlaylist(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}
	playlist, ok := h.ownPlaylist(c, userID)
	if !ok {
		return
	}

	if err := h.playlists.DeletePlaylist(c.Request.Context(), playlist.ID); err != nil {
		util.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "playlist deleted"})
}
