package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vidshare/backend/internal/dto"
	"github.com/vidshare/backend/internal/util"
)

// GetWatchHistory returns the caller's watch history, most recent first
// GET /api/v1/users/me/history
func (h *Handlers) GetWatchHistory(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	videos, err := h.tracker.History(c.Request.Context(), userID)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.HistoryResponse{Videos: videos, Count: len(videos)})
}

// ClearWatchHistory empties the caller's watch history
// DELETE /api/v1/users/me/history
func (h *Handlers) ClearWatchHistory(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	if err := h.tracker.Clear(c.Request.Context(), userID); err != nil {
		util.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "watch history cleared"})
}
