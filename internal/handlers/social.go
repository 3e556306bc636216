package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vidshare/backend/internal/dto"
	"github.com/vidshare/backend/internal/social"
	"github.com/vidshare/backend/internal/util"
)

// toggle flips the caller's like or subscription on the target named by :id
func (h *Handlers) toggle(c *gin.Context, kind social.Kind) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	active, err := h.social.Toggle(c.Request.Context(), social.Target{Kind: kind, ID: c.Param("id")}, userID)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToggleResponse{Active: active})
}

// LikeVideo toggles the caller's like on a video
// POST /api/v1/videos/:id/like
func (h *Handlers) LikeVideo(c *gin.Context) {
	h.toggle(c, social.KindVideo)
}

// LikeComment toggles the caller's like on a comment
// POST /api/v1/comments/:id/like
func (h *Handlers) LikeComment(c *gin.Context) {
	h.toggle(c, social.KindComment)
}

// LikePost toggles the caller's like on a community post
// POST /api/v1/posts/:id/like
func (h *Handlers) LikePost(c *gin.Context) {
	h.toggle(c, social.KindPost)
}

// ToggleSubscription subscribes the caller to a channel, or unsubscribes
// POST /api/v1/channels/:id/subscribe
func (h *Handlers) ToggleSubscription(c *gin.Context) {
	h.toggle(c, social.KindChannel)
}

// GetChannel returns a channel profile with its subscriber count
// GET /api/v1/channels/:id
func (h *Handlers) GetChannel(c *gin.Context) {
	viewerID, _ := util.ViewerID(c)

	channel, err := h.aggregator.GetChannel(c.Request.Context(), c.Param("id"), viewerID)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, channel)
}
