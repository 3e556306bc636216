package handlers

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vidshare/backend/internal/authz"
	"github.com/vidshare/backend/internal/dto"
	apperrors "github.com/vidshare/backend/internal/errors"
	"github.com/vidshare/backend/internal/logger"
	"github.com/vidshare/backend/internal/metrics"
	"github.com/vidshare/backend/internal/models"
	"github.com/vidshare/backend/internal/storage"
	"github.com/vidshare/backend/internal/util"
	"go.uber.org/zap"
)

// GetVideo records a view and returns the composed video detail
// GET /api/v1/videos/:id
func (h *Handlers) GetVideo(c *gin.Context) {
	videoID := c.Param("id")
	viewerID, _ := util.ViewerID(c)

	if err := util.ValidateID("video_id", videoID); err != nil {
		util.RespondError(c, err)
		return
	}

	// A failed view recording never blocks the read
	if err := h.tracker.RecordView(c.Request.Context(), viewerID, videoID); err != nil && !apperrors.Is(err, apperrors.ErrNotFound) {
		logger.Log.Warn("Failed to record view",
			logger.WithUserID(viewerID),
			logger.WithVideoID(videoID),
			zap.Error(err),
		)
	}

	detail, err := h.aggregator.GetVideoDetail(c.Request.Context(), videoID, viewerID)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// CreateVideo uploads a video file (and optional thumbnail) and stores its metadata
// POST /api/v1/videos
func (h *Handlers) CreateVideo(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	if h.uploader == nil {
		util.RespondWithAPIError(c, apperrors.StoreUnavailable().WithDetails("media uploads are not configured"))
		return
	}

	var req dto.CreateVideoRequest
	if err := c.ShouldBind(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	videoFile, err := c.FormFile("video")
	if err != nil {
		util.RespondValidationError(c, "video", "video file is required")
		return
	}
	if !util.IsValidVideoFile(videoFile.Filename) {
		util.RespondValidationError(c, "video", "unsupported video format")
		return
	}
	if videoFile.Size > storage.MaxVideoSize {
		util.RespondValidationError(c, "video", fmt.Sprintf("video exceeds the %d byte limit", storage.MaxVideoSize))
		return
	}

	// Thumbnail is optional
	thumbFile, _ := c.FormFile("thumbnail")
	if thumbFile != nil {
		if !util.IsValidImageFile(thumbFile.Filename) {
			util.RespondValidationError(c, "thumbnail", "unsupported thumbnail format")
			return
		}
		if thumbFile.Size > storage.MaxThumbnailSize {
			util.RespondValidationError(c, "thumbnail", fmt.Sprintf("thumbnail exceeds the %d byte limit", storage.MaxThumbnailSize))
			return
		}
	}

	ctx := c.Request.Context()
	var uploaded []string

	videoResult, err := h.upload(ctx, storage.MediaVideo, videoFile, userID)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	uploaded = append(uploaded, videoResult.Key)

	video := &models.Video{
		OwnerID:     userID,
		Title:       req.Title,
		Description: req.Description,
		VideoURL:    videoResult.URL,
		Duration:    req.Duration,
		IsPublished: req.IsPublished,
	}

	if thumbFile != nil {
		thumbResult, err := h.upload(ctx, storage.MediaThumbnail, thumbFile, userID)
		if err != nil {
			h.discardUploads(uploaded)
			util.RespondError(c, err)
			return
		}
		uploaded = append(uploaded, thumbResult.Key)
		video.ThumbnailURL = thumbResult.URL
	}

	if err := h.videos.CreateVideo(ctx, video); err != nil {
		h.discardUploads(uploaded)
		util.RespondError(c, err)
		return
	}

	created, err := h.videos.GetVideo(ctx, video.ID)
	if err != nil {
		util.RespondError(c, err)
		return
	}

	metrics.RecordContentCreated("video")
	logger.Log.Info("Video uploaded",
		logger.WithUserID(userID),
		logger.WithVideoID(video.ID),
		zap.Int64("size", videoFile.Size),
	)
	c.JSON(http.StatusCreated, dto.ToVideoSummary(created))
}

func (h *Handlers) upload(ctx context.Context, kind storage.MediaKind, header *multipart.FileHeader, ownerID string) (*storage.UploadResult, error) {
	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", kind, apperrors.ErrValidation)
	}
	defer file.Close()

	result, err := h.uploader.Upload(ctx, kind, file, header.Size, ownerID, header.Filename)
	if err != nil {
		metrics.RecordUpload(string(kind), "error")
		return nil, fmt.Errorf("upload %s: %w: %w", kind, apperrors.ErrStoreUnavailable, err)
	}
	metrics.RecordUpload(string(kind), "success")
	return result, nil
}

// discardUploads removes objects left behind by a failed create. Best effort.
func (h *Handlers) discardUploads(keys []string) {
	for _, key := range keys {
		if err := h.uploader.DeleteFile(context.Background(), key); err != nil {
			logger.Log.Warn("Failed to remove orphaned upload", zap.String("key", key), zap.Error(err))
		}
	}
}

// SetPublished toggles the publication flag of the caller's own video
// PATCH /api/v1/videos/:id/publish
func (h *Handlers) SetPublished(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}
	videoID := c.Param("id")
	if err := util.ValidateID("video_id", videoID); err != nil {
		util.RespondError(c, err)
		return
	}

	var req dto.PublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	video, err := h.videos.GetVideo(c.Request.Context(), videoID)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	// Someone else's draft does not exist as far as the caller can tell
	if !video.VisibleTo(userID) {
		util.RespondNotFound(c, "video")
		return
	}
	if err := authz.RequireOwner(userID, video, "video"); err != nil {
		util.RespondError(c, err)
		return
	}

	if err := h.videos.SetPublished(c.Request.Context(), videoID, *req.IsPublished); err != nil {
		util.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": videoID, "is_published": *req.IsPublished})
}
