package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vidshare/backend/internal/authz"
	"github.com/vidshare/backend/internal/dto"
	"github.com/vidshare/backend/internal/metrics"
	"github.com/vidshare/backend/internal/models"
	"github.com/vidshare/backend/internal/util"
)

// CreatePost publishes a community post on the caller's channel
// POST /api/v1/posts
func (h *Handlers) CreatePost(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var req dto.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}
	content, ok := normalizeContent(c, req.Content, maxPostLength)
	if !ok {
		return
	}

	post := &models.Post{OwnerID: userID, Content: content}
	if err := h.posts.CreatePost(c.Request.Context(), post); err != nil {
		util.RespondError(c, err)
		return
	}

	metrics.RecordContentCreated("post")

	created, err := h.posts.GetPost(c.Request.Context(), post.ID)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToPostView(created))
}

// DeletePost removes the caller's own post
// DELETE /api/v1/posts/:id
func (h *Handlers) DeletePost(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}
	postID := c.Param("id")
	if err := util.ValidateID("post_id", postID); err != nil {
		util.RespondError(c, err)
		return
	}

	post, err := h.posts.GetPost(c.Request.Context(), postID)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	if err := authz.RequireOwner(userID, post, "post"); err != nil {
		util.RespondError(c, err)
		return
	}

	if err := h.posts.DeletePost(c.Request.Context(), postID); err != nil {
		util.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "post deleted"})
}

// GetChannelPosts lists a channel's posts, newest first
// GET /api/v1/channels/:id/posts
func (h *Handlers) GetChannelPosts(c *gin.Context) {
	viewerID, _ := util.ViewerID(c)
	channelID := c.Param("id")
	if err := util.ValidateID("channel_id", channelID); err != nil {
		util.RespondError(c, err)
		return
	}

	exists, err := h.users.UserExists(c.Request.Context(), channelID)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	if !exists {
		util.RespondNotFound(c, "channel")
		return
	}

	page := util.ParsePagination(c)
	posts, err := h.posts.ListByOwner(c.Request.Context(), channelID, page.Limit, page.Offset)
	if err != nil {
		util.RespondError(c, err)
		return
	}

	ids := make([]string, len(posts))
	for i, post := range posts {
		ids[i] = post.ID
	}
	state := h.aggregator.GetLikeState(c.Request.Context(), models.SubjectPost, ids, viewerID)

	views := make([]dto.PostView, len(posts))
	for i, post := range posts {
		views[i] = dto.ToPostView(post)
		views[i].LikeCount = state.Count(post.ID)
		views[i].IsLiked = state.IsLiked(post.ID)
	}
	c.JSON(http.StatusOK, dto.PostListResponse{
		Posts:   views,
		Limit:   page.Limit,
		Offset:  page.Offset,
		Partial: state.Partial,
	})
}
