package repository

import (
	"context"

	"github.com/vidshare/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// HistoryMutator computes the next watch history from the current one
type HistoryMutator func(current models.VideoIDList) models.VideoIDList

// UserRepository handles all database operations for users
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, userID string) (*models.User, error)
	UserExists(ctx context.Context, userID string) (bool, error)

	// Watch history
	GetWatchHistory(ctx context.Context, userID string) (models.VideoIDList, error)
	UpdateWatchHistory(ctx context.Context, userID string, mutate HistoryMutator) (models.VideoIDList, error)
}

// userRepository implements UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// CreateUser creates a new user
func (r *userRepository) CreateUser(ctx context.Context, user *models.User) error {
	if user == nil {
		return ErrInvalidInput
	}
	return storeErr(r.db.WithContext(ctx).Create(user).Error, "user")
}

// GetUser gets a user by ID
func (r *userRepository) GetUser(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, storeErr(err, "user")
	}
	return &user, nil
}

func (r *userRepository) UserExists(ctx context.Context, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Count(&count).Error
	if err != nil {
		return false, storeErr(err, "user")
	}
	return count > 0, nil
}

// GetWatchHistory returns the stored history, most recent first
func (r *userRepository) GetWatchHistory(ctx context.Context, userID string) (models.VideoIDList, error) {
	var user models.User
	err := r.db.WithContext(ctx).Select("id", "watch_history").Where("id = ?", userID).First(&user).Error
	if err != nil {
		return nil, storeErr(err, "user")
	}
	if user.WatchHistory == nil {
		return models.VideoIDList{}, nil
	}
	return user.WatchHistory, nil
}

// UpdateWatchHistory runs a read-modify-write of the history in one transaction.
// The row is read FOR UPDATE where the dialect supports it; either the mutated
// list is written in full or nothing is.
func (r *userRepository) UpdateWatchHistory(ctx context.Context, userID string, mutate HistoryMutator) (models.VideoIDList, error) {
	var next models.VideoIDList
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", "watch_history").
			Where("id = ?", userID).
			First(&user).Error; err != nil {
			return err
		}

		next = mutate(user.WatchHistory)
		return tx.Model(&models.User{}).
			Where("id = ?", userID).
			Update("watch_history", next).Error
	})
	if err != nil {
		return nil, storeErr(err, "user")
	}
	return next, nil
}
