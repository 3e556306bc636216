// Package history records video views and maintains each viewer's bounded,
// deduplicated, most-recent-first watch history.
package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vidshare/backend/internal/dto"
	apperrors "github.com/vidshare/backend/internal/errors"
	"github.com/vidshare/backend/internal/lock"
	"github.com/vidshare/backend/internal/logger"
	"github.com/vidshare/backend/internal/metrics"
	"github.com/vidshare/backend/internal/models"
	"github.com/vidshare/backend/internal/repository"
	"github.com/vidshare/backend/internal/telemetry"
	"github.com/vidshare/backend/internal/util"
	"go.uber.org/zap"
)

const (
	DefaultCapacity      = 50
	DefaultRecordTimeout = 3 * time.Second
)

// VideoStore is the video side of the tracker
type VideoStore interface {
	IncrementViews(ctx context.Context, videoID, viewerID string) error
	GetVideos(ctx context.Context, videoIDs []string) (map[string]*models.Video, error)
}

// UserStore is the user side of the tracker
type UserStore interface {
	GetWatchHistory(ctx context.Context, userID string) (models.VideoIDList, error)
	UpdateWatchHistory(ctx context.Context, userID string, mutate repository.HistoryMutator) (models.VideoIDList, error)
}

type Config struct {
	// Capacity bounds the history length
	Capacity int
	// RecordTimeout bounds a view recording once it is detached from the request
	RecordTimeout time.Duration
}

// Tracker records views. History mutations are serialized per viewer through
// the Locker and applied in a single store transaction.
type Tracker struct {
	videos VideoStore
	users  UserStore
	locker lock.Locker
	cfg    Config
}

// NewTracker creates a Tracker. A nil locker uses an in-process KeyedMutex.
func NewTracker(videos VideoStore, users UserStore, locker lock.Locker, cfg Config) *Tracker {
	if cfg.Capacity < 1 {
		cfg.Capacity = DefaultCapacity
	}
	if cfg.RecordTimeout <= 0 {
		cfg.RecordTimeout = DefaultRecordTimeout
	}
	if locker == nil {
		locker = lock.NewKeyedMutex()
	}
	return &Tracker{videos: videos, users: users, locker: locker, cfg: cfg}
}

// Capacity returns the configured history bound
func (t *Tracker) Capacity() int {
	return t.cfg.Capacity
}

// Promote returns list with id moved (or added) to the front and trimmed to
// capacity. The input slice is not modified.
func Promote(list models.VideoIDList, id string, capacity int) models.VideoIDList {
	if capacity < 1 {
		capacity = 1
	}
	next := make(models.VideoIDList, 0, min(len(list)+1, capacity))
	next = append(next, id)
	for _, existing := range list {
		if len(next) == capacity {
			break
		}
		if existing == id {
			continue
		}
		next = append(next, existing)
	}
	return next
}

func viewerLockKey(viewerID string) string {
	return "watch_history:" + viewerID
}

// RecordView counts one view of videoID and, for a known viewer, promotes it in
// their history. An empty viewerID is an anonymous view.
//
// The work is detached from ctx cancellation: once started, the increment and
// history update run to completion (bounded by RecordTimeout) even if the caller
// goes away.
func (t *Tracker) RecordView(ctx context.Context, viewerID, videoID string) (err error) {
	if err := util.ValidateID("video_id", videoID); err != nil {
		return err
	}
	if viewerID != "" {
		if err := util.ValidateID("viewer_id", viewerID); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), t.cfg.RecordTimeout)
	defer cancel()

	ctx, span := telemetry.TraceRecordView(ctx, viewerID, videoID)
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	if err := t.videos.IncrementViews(ctx, videoID, viewerID); err != nil {
		return fmt.Errorf("record view: %w", err)
	}
	metrics.RecordViewRecorded()

	if viewerID == "" {
		return nil
	}
	return t.promote(ctx, viewerID, videoID)
}

func (t *Tracker) promote(ctx context.Context, viewerID, videoID string) error {
	unlock, err := t.locker.Lock(ctx, viewerLockKey(viewerID))
	if err != nil {
		metrics.RecordHistoryUpdate("error")
		return fmt.Errorf("update history: %w: %w", apperrors.ErrStoreUnavailable, err)
	}
	defer unlock()

	_, err = t.users.UpdateWatchHistory(ctx, viewerID, func(current models.VideoIDList) models.VideoIDList {
		return Promote(current, videoID, t.cfg.Capacity)
	})
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		// unknown viewer counts as anonymous
		metrics.RecordHistoryUpdate("skipped")
		logger.Log.Debug("Watch history skipped for unknown viewer",
			logger.WithUserID(viewerID),
			logger.WithVideoID(videoID),
		)
		return nil
	case err != nil:
		metrics.RecordHistoryUpdate("error")
		return fmt.Errorf("update history: %w", err)
	}

	metrics.RecordHistoryUpdate("updated")
	return nil
}

// History resolves the viewer's history to video summaries, most recent first.
// Videos that were deleted, or are unpublished and owned by someone else, are skipped.
func (t *Tracker) History(ctx context.Context, viewerID string) ([]dto.VideoSummary, error) {
	if err := util.ValidateID("viewer_id", viewerID); err != nil {
		return nil, err
	}

	ids, err := t.users.GetWatchHistory(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	videos, err := t.videos.GetVideos(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve history: %w", err)
	}

	summaries := make([]dto.VideoSummary, 0, len(ids))
	for _, id := range ids {
		video, ok := videos[id]
		if !ok || !video.VisibleTo(viewerID) {
			continue
		}
		summaries = append(summaries, dto.ToVideoSummary(video))
	}

	if skipped := len(ids) - len(summaries); skipped > 0 {
		logger.Log.Debug("Watch history entries not resolvable",
			logger.WithUserID(viewerID),
			zap.Int("skipped", skipped),
		)
	}
	return summaries, nil
}

// Clear empties the viewer's history
func (t *Tracker) Clear(ctx context.Context, viewerID string) error {
	if err := util.ValidateID("viewer_id", viewerID); err != nil {
		return err
	}

	unlock, err := t.locker.Lock(ctx, viewerLockKey(viewerID))
	if err != nil {
		return fmt.Errorf("clear history: %w: %w", apperrors.ErrStoreUnavailable, err)
	}
	defer unlock()

	_, err = t.users.UpdateWatchHistory(ctx, viewerID, func(models.VideoIDList) models.VideoIDList {
		return models.VideoIDList{}
	})
	if err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}
