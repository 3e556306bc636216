package repository

import (
	"context"

	"github.com/vidshare/backend/internal/models"
	"gorm.io/gorm"
)

// PlaylistRepository handles playlists and their entries
type PlaylistRepository interface {
	CreatePlaylist(ctx context.Context, playlist *models.Playlist) error
	GetPlaylist(ctx context.Context, playlistID string) (*models.Playlist, error)
	DeletePlaylist(ctx context.Context, playlistID string) error
	AddVideo(ctx context.Context, playlistID, videoID string) (added bool, err error)
	RemoveVideo(ctx context.Context, playlistID, videoID string) error
}

type playlistRepository struct {
	db *gorm.DB
}

// NewPlaylistRepository creates a new playlist repository
func NewPlaylistRepository(db *gorm.DB) PlaylistRepository {
	return &playlistRepository{db: db}
}

func (r *playlistRepository) CreatePlaylist(ctx context.Context, playlist *models.Playlist) error {
	if playlist == nil {
		return ErrInvalidInput
	}
	return storeErr(r.db.WithContext(ctx).Create(playlist).Error, "playlist")
}

// GetPlaylist loads a playlist with entries in position order
func (r *playlistRepository) GetPlaylist(ctx context.Context, playlistID string) (*models.Playlist, error) {
	var playlist models.Playlist
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Preload("Entries", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Entries.Video").
		Preload("Entries.Video.Owner").
		Where("id = ?", playlistID).
		First(&playlist).Error
	if err != nil {
		return nil, storeErr(err, "playlist")
	}
	return &playlist, nil
}

// DeletePlaylist removes the playlist and its entries
func (r *playlistRepository) DeletePlaylist(ctx context.Context, playlistID string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("playlist_id = ?", playlistID).Delete(&models.PlaylistEntry{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", playlistID).Delete(&models.Playlist{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return storeErr(err, "playlist")
}

// AddVideo appends videoID at the end. Adding a video already present is a no-op
// and reports added=false.
func (r *playlistRepository) AddVideo(ctx context.Context, playlistID, videoID string) (bool, error) {
	added := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.PlaylistEntry{}).
			Where("playlist_id = ? AND video_id = ?", playlistID, videoID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return nil
		}

		var next int
		if err := tx.Model(&models.PlaylistEntry{}).
			Select("COALESCE(MAX(position) + 1, 0)").
			Where("playlist_id = ?", playlistID).
			Scan(&next).Error; err != nil {
			return err
		}

		entry := &models.PlaylistEntry{PlaylistID: playlistID, VideoID: videoID, Position: next}
		if err := tx.Create(entry).Error; err != nil {
			return err
		}
		added = true
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			// lost a race with an identical add
			return false, nil
		}
		return false, storeErr(err, "playlist entry")
	}
	return added, nil
}

func (r *playlistRepository) RemoveVideo(ctx context.Context, playlistID, videoID string) error {
	result := r.db.WithContext(ctx).
		Where("playlist_id = ? AND video_id = ?", playlistID, videoID).
		Delete(&models.PlaylistEntry{})
	if result.Error != nil {
		return storeErr(result.Error, "playlist entry")
	}
	if result.RowsAffected == 0 {
		return storeErr(gorm.ErrRecordNotFound, "playlist entry")
	}
	return nil
}
