package dto

import (
	"time"

	"github.com/vidshare/backend/internal/models"
)

// CommentView is a comment with its like state
type CommentView struct {
	ID        string       `json:"id"`
	VideoID   string       `json:"video_id"`
	Content   string       `json:"content"`
	Owner     OwnerSummary `json:"owner"`
	LikeCount int64        `json:"like_count"`
	IsLiked   bool         `json:"is_liked"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// ToCommentView converts models.Comment; like fields are filled by the caller
func ToCommentView(comment *models.Comment) CommentView {
	return CommentView{
		ID:        comment.ID,
		VideoID:   comment.VideoID,
		Content:   comment.Content,
		Owner:     ToOwnerSummary(&comment.Owner),
		CreatedAt: comment.CreatedAt,
		UpdatedAt: comment.UpdatedAt,
	}
}

// CommentListResponse is a page of comments. Partial is set when like data
// could not be loaded and fell back to zero/false.
type CommentListResponse struct {
	Comments []CommentView `json:"comments"`
	Limit    int           `json:"limit"`
	Offset   int           `json:"offset"`
	Partial  bool          `json:"partial"`
}

type CommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// PostView is a community post with its like state
type PostView struct {
	ID        string       `json:"id"`
	Content   string       `json:"content"`
	Owner     OwnerSummary `json:"owner"`
	LikeCount int64        `json:"like_count"`
	IsLiked   bool         `json:"is_liked"`
	CreatedAt time.Time    `json:"created_at"`
}

func ToPostView(post *models.Post) PostView {
	return PostView{
		ID:        post.ID,
		Content:   post.Content,
		Owner:     ToOwnerSummary(&post.Owner),
		CreatedAt: post.CreatedAt,
	}
}

type PostListResponse struct {
	Posts   []PostView `json:"posts"`
	Limit   int        `json:"limit"`
	Offset  int        `json:"offset"`
	Partial bool       `json:"partial"`
}

type CreatePostRequest struct {
	Content string `json:"content" binding:"required"`
}
