package repository

import (
	"context"

	"github.com/vidshare/backend/internal/models"
	"gorm.io/gorm"
)

// VideoRepository handles all database operations for videos
type VideoRepository interface {
	CreateVideo(ctx context.Context, video *models.Video) error
	GetVideo(ctx context.Context, videoID string) (*models.Video, error)
	GetVideos(ctx context.Context, videoIDs []string) (map[string]*models.Video, error)
	IncrementViews(ctx context.Context, videoID, viewerID string) error
	SetPublished(ctx context.Context, videoID string, published bool) error
}

type videoRepository struct {
	db *gorm.DB
}

// NewVideoRepository creates a new video repository
func NewVideoRepository(db *gorm.DB) VideoRepository {
	return &videoRepository{db: db}
}

func (r *videoRepository) CreateVideo(ctx context.Context, video *models.Video) error {
	if video == nil {
		return ErrInvalidInput
	}
	return storeErr(r.db.WithContext(ctx).Create(video).Error, "video")
}

// GetVideo loads a video with its owner
func (r *videoRepository) GetVideo(ctx context.Context, videoID string) (*models.Video, error) {
	var video models.Video
	err := r.db.WithContext(ctx).Preload("Owner").Where("id = ?", videoID).First(&video).Error
	if err != nil {
		return nil, storeErr(err, "video")
	}
	return &video, nil
}

// GetVideos loads videos with owners keyed by id. Missing ids are absent from the map.
func (r *videoRepository) GetVideos(ctx context.Context, videoIDs []string) (map[string]*models.Video, error) {
	result := make(map[string]*models.Video, len(videoIDs))
	if len(videoIDs) == 0 {
		return result, nil
	}

	var videos []*models.Video
	err := r.db.WithContext(ctx).Preload("Owner").Where("id IN ?", videoIDs).Find(&videos).Error
	if err != nil {
		return nil, storeErr(err, "video")
	}
	for _, v := range videos {
		result[v.ID] = v
	}
	return result, nil
}

// IncrementViews atomically adds one view, but only when the video is visible
// to viewerID. A hidden or missing video reports ErrNotFound.
func (r *videoRepository) IncrementViews(ctx context.Context, videoID, viewerID string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Video{}).
		Where("id = ? AND (is_published = ? OR owner_id = ?)", videoID, true, viewerID).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	if result.Error != nil {
		return storeErr(result.Error, "video")
	}
	if result.RowsAffected == 0 {
		return storeErr(gorm.ErrRecordNotFound, "video")
	}
	return nil
}

func (r *videoRepository) SetPublished(ctx context.Context, videoID string, published bool) error {
	result := r.db.WithContext(ctx).
		Model(&models.Video{}).
		Where("id = ?", videoID).
		Update("is_published", published)
	if result.Error != nil {
		return storeErr(result.Error, "video")
	}
	if result.RowsAffected == 0 {
		return storeErr(gorm.ErrRecordNotFound, "video")
	}
	return nil
}
