package repository

import (
	"context"

	"github.com/vidshare/backend/internal/models"
	"gorm.io/gorm"
)

// PostRepository handles community posts
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPost(ctx context.Context, postID string) (*models.Post, error)
	DeletePost(ctx context.Context, postID string) error
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*models.Post, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) CreatePost(ctx context.Context, post *models.Post) error {
	if post == nil {
		return ErrInvalidInput
	}
	return storeErr(r.db.WithContext(ctx).Create(post).Error, "post")
}

func (r *postRepository) GetPost(ctx context.Context, postID string) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Preload("Owner").Where("id = ?", postID).First(&post).Error; err != nil {
		return nil, storeErr(err, "post")
	}
	return &post, nil
}

func (r *postRepository) DeletePost(ctx context.Context, postID string) error {
	result := r.db.WithContext(ctx).Where("id = ?", postID).Delete(&models.Post{})
	if result.Error != nil {
		return storeErr(result.Error, "post")
	}
	if result.RowsAffected == 0 {
		return storeErr(gorm.ErrRecordNotFound, "post")
	}
	return nil
}

func (r *postRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, storeErr(err, "posts")
	}
	return posts, nil
}
