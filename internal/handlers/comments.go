package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/vidshare/backend/internal/authz"
	"github.com/vidshare/backend/internal/dto"
	"github.com/vidshare/backend/internal/metrics"
	"github.com/vidshare/backend/internal/models"
	"github.com/vidshare/backend/internal/util"
)

const (
	maxCommentLength = 2000
	maxPostLength    = 5000
)

// normalizeContent trims raw and enforces 1..max characters. On failure the
// validation response has already been sent.
func normalizeContent(c *gin.Context, raw string, max int) (string, bool) {
	content := strings.TrimSpace(raw)
	switch n := utf8.RuneCountInString(content); {
	case n == 0:
		util.RespondValidationError(c, "content", "content must not be empty")
		return "", false
	case n > max:
		util.RespondValidationError(c, "content", fmt.Sprintf("content must be at most %d characters", max))
		return "", false
	}
	return content, true
}

// visibleVideo loads videoID and hides unpublished videos from everyone but the owner
func (h *Handlers) visibleVideo(c *gin.Context, videoID, viewerID string) (*models.Video, bool) {
	if err := util.ValidateID("video_id", videoID); err != nil {
		util.RespondError(c, err)
		return nil, false
	}
	video, err := h.videos.GetVideo(c.Request.Context(), videoID)
	if err != nil {
		util.RespondError(c, err)
		return nil, false
	}
	if !video.VisibleTo(viewerID) {
		util.RespondNotFound(c, "video")
		return nil, false
	}
	return video, true
}

func (h *Handlers) commentViews(ctx context.Context, comments []*models.Comment, viewerID string) ([]dto.CommentView, bool) {
	ids := make([]string, len(comments))
	for i, comment := range comments {
		ids[i] = comment.ID
	}
	state := h.aggregator.GetLikeState(ctx, models.SubjectComment, ids, viewerID)

	views := make([]dto.CommentView, len(comments))
	for i, comment := range comments {
		views[i] = dto.ToCommentView(comment)
		views[i].LikeCount = state.Count(comment.ID)
		views[i].IsLiked = state.IsLiked(comment.ID)
	}
	return views, state.Partial
}

// GetComments lists comments on a video, newest first
// GET /api/v1/videos/:id/comments
func (h *Handlers) GetComments(c *gin.Context) {
	viewerID, _ := util.ViewerID(c)
	video, ok := h.visibleVideo(c, c.Param("id"), viewerID)
	if !ok {
		return
	}

	page := util.ParsePagination(c)
	comments, err := h.comments.ListByVideo(c.Request.Context(), video.ID, page.Limit, page.Offset)
	if err != nil {
		util.RespondError(c, err)
		return
	}

	views, partial := h.commentViews(c.Request.Context(), comments, viewerID)
	c.JSON(http.StatusOK, dto.CommentListResponse{
		Comments: views,
		Limit:    page.Limit,
		Offset:   page.Offset,
		Partial:  partial,
	})
}

// CreateComment adds a comment to a video
// POST /api/v1/videos/:id/comments
func (h *Handlers) CreateComment(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var req dto.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}
	content, ok := normalizeContent(c, req.Content, maxCommentLength)
	if !ok {
		return
	}

	video, ok := h.visibleVideo(c, c.Param("id"), userID)
	if !ok {
		return
	}

	comment := &models.Comment{
		VideoID: video.ID,
		OwnerID: userID,
		Content: content,
	}
	if err := h.comments.CreateComment(c.Request.Context(), comment); err != nil {
		util.RespondError(c, err)
		return
	}

	metrics.RecordContentCreated("comment")

	created, err := h.comments.GetComment(c.Request.Context(), comment.ID)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToCommentView(created))
}

// ownComment loads commentID and checks the caller wrote it
func (h *Handlers) ownComment(c *gin.Context, userID string) (*models.Comment, bool) {
	commentID := c.Param("id")
	if err := util.ValidateID("comment_id", commentID); err != nil {
		util.RespondError(c, err)
		return nil, false
	}
	comment, err := h.comments.GetComment(c.Request.Context(), commentID)
	if err != nil {
		util.RespondError(c, err)
		return nil, false
	}
	if err := authz.RequireOwner(userID, comment, "comment"); err != nil {
		util.RespondError(c, err)
		return nil, false
	}
	return comment, true
}

// UpdateComment edits the caller's own comment
// PATCH /api/v1/comments/:id
func (h *Handlers) UpdateComment(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var req dto.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}
	content, ok := normalizeContent(c, req.Content, maxCommentLength)
	if !ok {
		return
	}

	comment, ok := h.ownComment(c, userID)
	if !ok {
		return
	}
	if err := h.comments.UpdateContent(c.Request.Context(), comment.ID, content); err != nil {
		util.RespondError(c, err)
		return
	}

	updated, err := h.comments.GetComment(c.Request.Context(), comment.ID)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	views, _ := h.commentViews(c.Request.Context(), []*models.Comment{updated}, userID)
	c.JSON(http.StatusOK, views[0])
}

// DeleteComment removes the caller's own comment
// DELETE /api/v1/comments/:id
func (h *Handlers) DeleteComment(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}
	comment, ok := h.ownComment(c, userID)
	if !ok {
		return
	}

	if err := h.comments.DeleteComment(c.Request.Context(), comment.ID); err != nil {
		util.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "comment deleted"})
}
