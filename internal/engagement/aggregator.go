// Package engagement composes the read views that join a resource with its
// owner, subscriber and like counts and the viewer's own relationship to it.
package engagement

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/vidshare/backend/internal/dto"
	apperrors "github.com/vidshare/backend/internal/errors"
	"github.com/vidshare/backend/internal/logger"
	"github.com/vidshare/backend/internal/metrics"
	"github.com/vidshare/backend/internal/models"
	"github.com/vidshare/backend/internal/telemetry"
	"github.com/vidshare/backend/internal/util"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Sub-lookup names used in logs and the failure metric
const (
	PartSubscriberCount = "subscriber_count"
	PartIsSubscribed    = "is_subscribed"
	PartLikeCount       = "like_count"
	PartIsLiked         = "is_liked"
)

type VideoStore interface {
	GetVideo(ctx context.Context, videoID string) (*models.Video, error)
}

type UserStore interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
}

// CountStore answers the count and membership lookups
type CountStore interface {
	CountLikes(ctx context.Context, subject models.Subject) (int64, error)
	HasLiked(ctx context.Context, subject models.Subject, userID string) (bool, error)
	LikeCounts(ctx context.Context, subjectType models.SubjectType, subjectIDs []string) (map[string]int64, error)
	LikedSet(ctx context.Context, subjectType models.SubjectType, subjectIDs []string, userID string) (map[string]bool, error)
	CountSubscribers(ctx context.Context, channelID string) (int64, error)
	IsSubscribed(ctx context.Context, channelID, subscriberID string) (bool, error)
}

// Aggregator builds composed views. Sub-lookups run concurrently; one that
// fails yields its neutral value and marks the view partial rather than
// failing the whole read.
type Aggregator struct {
	videos VideoStore
	users  UserStore
	counts CountStore
	now    func() time.Time
}

// Option configures an Aggregator
type Option func(*Aggregator)

// WithClock overrides the clock used for relative ages
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		a.now = now
	}
}

// NewAggregator creates an Aggregator
func NewAggregator(videos VideoStore, users UserStore, counts CountStore, opts ...Option) *Aggregator {
	a := &Aggregator{
		videos: videos,
		users:  users,
		counts: counts,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// RelativeAge renders created relative to now, e.g. "3 days ago"
func RelativeAge(created, now time.Time) string {
	if created.After(now) {
		created = now
	}
	return humanize.RelTime(created, now, "ago", "from now")
}

// partials collects which sub-lookups fell back
type partials struct {
	mu     sync.Mutex
	failed []string
}

func (p *partials) fail(part string, err error) {
	p.mu.Lock()
	p.failed = append(p.failed, part)
	p.mu.Unlock()

	metrics.RecordSubaggregationFailure(part)
	logger.Log.Warn("Sub-aggregation failed, using neutral value",
		zap.String("part", part),
		zap.Error(err),
	)
}

func (p *partials) any() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.failed) > 0
}

// GetVideoDetail composes the video detail view for viewerID (empty for
// anonymous). Missing videos, and unpublished videos not owned by the viewer,
// report ErrNotFound.
func (a *Aggregator) GetVideoDetail(ctx context.Context, videoID, viewerID string) (*dto.VideoDetail, error) {
	if err := util.ValidateID("video_id", videoID); err != nil {
		return nil, err
	}
	if viewerID != "" {
		if err := util.ValidateID("viewer_id", viewerID); err != nil {
			return nil, err
		}
	}

	ctx, span := telemetry.TraceAggregation(ctx, "video_detail", videoID)
	defer span.End()

	video, err := a.videos.GetVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if !video.VisibleTo(viewerID) {
		return nil, fmt.Errorf("video %s: %w", videoID, apperrors.ErrNotFound)
	}

	detail := &dto.VideoDetail{
		ID:           video.ID,
		Title:        video.Title,
		Description:  video.Description,
		VideoURL:     video.VideoURL,
		ThumbnailURL: video.ThumbnailURL,
		Duration:     video.Duration,
		Views:        video.Views,
		IsPublished:  video.IsPublished,
		CreatedAt:    video.CreatedAt,
		Age:          RelativeAge(video.CreatedAt, a.now()),
		Owner: dto.VideoOwner{
			OwnerSummary: dto.ToOwnerSummary(&video.Owner),
		},
	}
	if detail.Owner.ID == "" {
		detail.Owner.ID = video.OwnerID
	}

	subject := models.Subject{Type: models.SubjectVideo, ID: video.ID}
	var (
		g       errgroup.Group
		partial partials
	)

	g.Go(func() error {
		n, err := a.counts.CountSubscribers(ctx, video.OwnerID)
		if err != nil {
			partial.fail(PartSubscriberCount, err)
			return nil
		}
		detail.Owner.SubscriberCount = n
		return nil
	})
	g.Go(func() error {
		n, err := a.counts.CountLikes(ctx, subject)
		if err != nil {
			partial.fail(PartLikeCount, err)
			return nil
		}
		detail.LikeCount = n
		return nil
	})
	if viewerID != "" {
		g.Go(func() error {
			ok, err := a.counts.IsSubscribed(ctx, video.OwnerID, viewerID)
			if err != nil {
				partial.fail(PartIsSubscribed, err)
				return nil
			}
			detail.Owner.IsSubscribed = ok
			return nil
		})
		g.Go(func() error {
			ok, err := a.counts.HasLiked(ctx, subject, viewerID)
			if err != nil {
				partial.fail(PartIsLiked, err)
				return nil
			}
			detail.IsLiked = ok
			return nil
		})
	}
	_ = g.Wait()

	// A cancelled caller gets an error, never a view of neutral fallbacks
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("video detail: %w: %w", apperrors.ErrStoreUnavailable, err)
	}

	detail.Partial = partial.any()
	telemetry.MarkPartial(span, detail.Partial)
	return detail, nil
}

// GetChannel composes a channel profile with subscriber count and the
// viewer's subscription state.
func (a *Aggregator) GetChannel(ctx context.Context, channelID, viewerID string) (*dto.ChannelView, error) {
	if err := util.ValidateID("channel_id", channelID); err != nil {
		return nil, err
	}
	if viewerID != "" {
		if err := util.ValidateID("viewer_id", viewerID); err != nil {
			return nil, err
		}
	}

	ctx, span := telemetry.TraceAggregation(ctx, "channel", channelID)
	defer span.End()

	user, err := a.users.GetUser(ctx, channelID)
	if err != nil {
		return nil, err
	}
	view := dto.ToChannelView(user)

	var (
		g       errgroup.Group
		partial partials
	)
	g.Go(func() error {
		n, err := a.counts.CountSubscribers(ctx, channelID)
		if err != nil {
			partial.fail(PartSubscriberCount, err)
			return nil
		}
		view.SubscriberCount = n
		return nil
	})
	if viewerID != "" && viewerID != channelID {
		g.Go(func() error {
			ok, err := a.counts.IsSubscribed(ctx, channelID, viewerID)
			if err != nil {
				partial.fail(PartIsSubscribed, err)
				return nil
			}
			view.IsSubscribed = ok
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("channel: %w: %w", apperrors.ErrStoreUnavailable, err)
	}
	view.Partial = partial.any()
	telemetry.MarkPartial(span, view.Partial)
	return view, nil
}

// LikeState holds like totals and the viewer's likes for a batch of subjects
type LikeState struct {
	Counts  map[string]int64
	Liked   map[string]bool
	Partial bool
}

// Count returns the like total for id, zero when unknown
func (s LikeState) Count(id string) int64 {
	return s.Counts[id]
}

// IsLiked reports whether the viewer liked id
func (s LikeState) IsLiked(id string) bool {
	return s.Liked[id]
}

// GetLikeState loads like counts and the viewer's likes for subjectIDs
func (a *Aggregator) GetLikeState(ctx context.Context, subjectType models.SubjectType, subjectIDs []string, viewerID string) LikeState {
	state := LikeState{
		Counts: map[string]int64{},
		Liked:  map[string]bool{},
	}
	if len(subjectIDs) == 0 {
		return state
	}

	var (
		g       errgroup.Group
		partial partials
	)
	g.Go(func() error {
		counts, err := a.counts.LikeCounts(ctx, subjectType, subjectIDs)
		if err != nil {
			partial.fail(PartLikeCount, err)
			return nil
		}
		state.Counts = counts
		return nil
	})
	if viewerID != "" {
		g.Go(func() error {
			liked, err := a.counts.LikedSet(ctx, subjectType, subjectIDs, viewerID)
			if err != nil {
				partial.fail(PartIsLiked, err)
				return nil
			}
			state.Liked = liked
			return nil
		})
	}
	_ = g.Wait()

	state.Partial = partial.any()
	return state
}
