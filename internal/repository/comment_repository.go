package repository

import (
	"context"

	"github.com/vidshare/backend/internal/models"
	"gorm.io/gorm"
)

// CommentRepository handles all database operations for comments
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetComment(ctx context.Context, commentID string) (*models.Comment, error)
	UpdateContent(ctx context.Context, commentID, content string) error
	DeleteComment(ctx context.Context, commentID string) error
	ListByVideo(ctx context.Context, videoID string, limit, offset int) ([]*models.Comment, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	if comment == nil {
		return ErrInvalidInput
	}
	return storeErr(r.db.WithContext(ctx).Create(comment).Error, "comment")
}

func (r *commentRepository) GetComment(ctx context.Context, commentID string) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).Preload("Owner").Where("id = ?", commentID).First(&comment).Error
	if err != nil {
		return nil, storeErr(err, "comment")
	}
	return &comment, nil
}

func (r *commentRepository) UpdateContent(ctx context.Context, commentID, content string) error {
	result := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("id = ?", commentID).
		Update("content", content)
	if result.Error != nil {
		return storeErr(result.Error, "comment")
	}
	if result.RowsAffected == 0 {
		return storeErr(gorm.ErrRecordNotFound, "comment")
	}
	return nil
}

func (r *commentRepository) DeleteComment(ctx context.Context, commentID string) error {
	result := r.db.WithContext(ctx).Where("id = ?", commentID).Delete(&models.Comment{})
	if result.Error != nil {
		return storeErr(result.Error, "comment")
	}
	if result.RowsAffected == 0 {
		return storeErr(gorm.ErrRecordNotFound, "comment")
	}
	return nil
}

// ListByVideo returns comments newest first
func (r *commentRepository) ListByVideo(ctx context.Context, videoID string, limit, offset int) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Where("video_id = ?", videoID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&comments).Error
	if err != nil {
		return nil, storeErr(err, "comments")
	}
	return comments, nil
}
