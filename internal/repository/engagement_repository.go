package repository

import (
	"context"

	"github.com/vidshare/backend/internal/models"
	"gorm.io/gorm"
)

// EngagementRepository handles likes and subscriptions
type EngagementRepository interface {
	// Likes
	CountLikes(ctx context.Context, subject models.Subject) (int64, error)
	HasLiked(ctx context.Context, subject models.Subject, userID string) (bool, error)
	LikeCounts(ctx context.Context, subjectType models.SubjectType, subjectIDs []string) (map[string]int64, error)
	LikedSet(ctx context.Context, subjectType models.SubjectType, subjectIDs []string, userID string) (map[string]bool, error)
	CreateLike(ctx context.Context, like *models.Like) error
	DeleteLike(ctx context.Context, subject models.Subject, userID string) (bool, error)

	// Subscriptions
	CountSubscribers(ctx context.Context, channelID string) (int64, error)
	IsSubscribed(ctx context.Context, channelID, subscriberID string) (bool, error)
	CreateSubscription(ctx context.Context, sub *models.Subscription) error
	DeleteSubscription(ctx context.Context, channelID, subscriberID string) (bool, error)

	// SubjectVisible reports whether the like subject exists and viewerID may see it
	SubjectVisible(ctx context.Context, subject models.Subject, viewerID string) (bool, error)
}

type engagementRepository struct {
	db *gorm.DB
}

// NewEngagementRepository creates a new engagement repository
func NewEngagementRepository(db *gorm.DB) EngagementRepository {
	return &engagementRepository{db: db}
}

func (r *engagementRepository) likes(ctx context.Context, subject models.Subject) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Like{}).
		Where("subject_type = ? AND subject_id = ?", subject.Type, subject.ID)
}

func (r *engagementRepository) CountLikes(ctx context.Context, subject models.Subject) (int64, error) {
	var count int64
	if err := r.likes(ctx, subject).Count(&count).Error; err != nil {
		return 0, storeErr(err, "likes")
	}
	return count, nil
}

func (r *engagementRepository) HasLiked(ctx context.Context, subject models.Subject, userID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	var count int64
	if err := r.likes(ctx, subject).Where("liked_by_id = ?", userID).Count(&count).Error; err != nil {
		return false, storeErr(err, "likes")
	}
	return count > 0, nil
}

type likeCountRow struct {
	SubjectID string
	Total     int64
}

// LikeCounts returns like totals per subject id. Ids without likes map to zero.
func (r *engagementRepository) LikeCounts(ctx context.Context, subjectType models.SubjectType, subjectIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(subjectIDs))
	for _, id := range subjectIDs {
		counts[id] = 0
	}
	if len(subjectIDs) == 0 {
		return counts, nil
	}

	var rows []likeCountRow
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Select("subject_id, COUNT(*) AS total").
		Where("subject_type = ? AND subject_id IN ?", subjectType, subjectIDs).
		Group("subject_id").
		Scan(&rows).Error
	if err != nil {
		return nil, storeErr(err, "likes")
	}
	for _, row := range rows {
		counts[row.SubjectID] = row.Total
	}
	return counts, nil
}

// LikedSet returns which of subjectIDs userID has liked
func (r *engagementRepository) LikedSet(ctx context.Context, subjectType models.SubjectType, subjectIDs []string, userID string) (map[string]bool, error) {
	liked := make(map[string]bool, len(subjectIDs))
	if userID == "" || len(subjectIDs) == 0 {
		return liked, nil
	}

	var ids []string
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("subject_type = ? AND subject_id IN ? AND liked_by_id = ?", subjectType, subjectIDs, userID).
		Pluck("subject_id", &ids).Error
	if err != nil {
		return nil, storeErr(err, "likes")
	}
	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}

func (r *engagementRepository) CreateLike(ctx context.Context, like *models.Like) error {
	if like == nil {
		return ErrInvalidInput
	}
	return storeErr(r.db.WithContext(ctx).Create(like).Error, "like")
}

// DeleteLike removes the like row. Reports whether a row existed.
func (r *engagementRepository) DeleteLike(ctx context.Context, subject models.Subject, userID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("subject_type = ? AND subject_id = ? AND liked_by_id = ?", subject.Type, subject.ID, userID).
		Delete(&models.Like{})
	if result.Error != nil {
		return false, storeErr(result.Error, "like")
	}
	return result.RowsAffected > 0, nil
}

func (r *engagementRepository) CountSubscribers(ctx context.Context, channelID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("channel_id = ?", channelID).
		Count(&count).Error
	if err != nil {
		return 0, storeErr(err, "subscriptions")
	}
	return count, nil
}

func (r *engagementRepository) IsSubscribed(ctx context.Context, channelID, subscriberID string) (bool, error) {
	if subscriberID == "" {
		return false, nil
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("channel_id = ? AND subscriber_id = ?", channelID, subscriberID).
		Count(&count).Error
	if err != nil {
		return false, storeErr(err, "subscriptions")
	}
	return count > 0, nil
}

func (r *engagementRepository) CreateSubscription(ctx context.Context, sub *models.Subscription) error {
	if sub == nil {
		return ErrInvalidInput
	}
	return storeErr(r.db.WithContext(ctx).Create(sub).Error, "subscription")
}

// DeleteSubscription removes the subscription edge. Reports whether a row existed.
func (r *engagementRepository) DeleteSubscription(ctx context.Context, channelID, subscriberID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("channel_id = ? AND subscriber_id = ?", channelID, subscriberID).
		Delete(&models.Subscription{})
	if result.Error != nil {
		return false, storeErr(result.Error, "subscription")
	}
	return result.RowsAffected > 0, nil
}

func (r *engagementRepository) SubjectVisible(ctx context.Context, subject models.Subject, viewerID string) (bool, error) {
	var (
		count int64
		query *gorm.DB
	)
	switch subject.Type {
	case models.SubjectVideo:
		query = r.db.WithContext(ctx).Model(&models.Video{}).
			Where("id = ? AND (is_published = ? OR owner_id = ?)", subject.ID, true, viewerID)
	case models.SubjectComment:
		// a comment is visible exactly when its video is
		query = r.db.WithContext(ctx).Model(&models.Comment{}).
			Joins("JOIN videos ON videos.id = comments.video_id").
			Where("comments.id = ? AND videos.deleted_at IS NULL AND (videos.is_published = ? OR videos.owner_id = ?)", subject.ID, true, viewerID)
	case models.SubjectPost:
		query = r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", subject.ID)
	default:
		return false, nil
	}
	if err := query.Count(&count).Error; err != nil {
		return false, storeErr(err, string(subject.Type))
	}
	return count > 0, nil
}
