// Package social flips the binary viewer relationships: likes on videos,
// comments and posts, and channel subscriptions.
package social

import (
	"context"
	"fmt"

	apperrors "github.com/vidshare/backend/internal/errors"
	"github.com/vidshare/backend/internal/logger"
	"github.com/vidshare/backend/internal/metrics"
	"github.com/vidshare/backend/internal/models"
	"github.com/vidshare/backend/internal/telemetry"
	"github.com/vidshare/backend/internal/util"
	"go.uber.org/zap"
)

// Kind is what a toggle targets
type Kind string

const (
	KindVideo   Kind = "video"
	KindComment Kind = "comment"
	KindPost    Kind = "post"
	KindChannel Kind = "channel"
)

// Target is the tagged thing being toggled
type Target struct {
	Kind Kind
	ID   string
}

// LikeStore holds like rows
type LikeStore interface {
	SubjectVisible(ctx context.Context, subject models.Subject, viewerID string) (bool, error)
	CreateLike(ctx context.Context, like *models.Like) error
	DeleteLike(ctx context.Context, subject models.Subject, userID string) (bool, error)
}

// SubscriptionStore holds subscription edges
type SubscriptionStore interface {
	CreateSubscription(ctx context.Context, sub *models.Subscription) error
	DeleteSubscription(ctx context.Context, channelID, subscriberID string) (bool, error)
}

type UserStore interface {
	UserExists(ctx context.Context, userID string) (bool, error)
}

// Store is everything Toggle needs. The engagement repository satisfies the
// like and subscription halves.
type Store interface {
	LikeStore
	SubscriptionStore
}

type Service struct {
	store Store
	users UserStore
}

func NewService(store Store, users UserStore) *Service {
	return &Service{store: store, users: users}
}

// Toggle deletes the actor's relationship to target if present, otherwise
// creates it, and reports whether it is active afterwards. Two calls in a row
// flip twice. A create that loses a race to a concurrent duplicate still
// reports active.
func (s *Service) Toggle(ctx context.Context, target Target, actorID string) (bool, error) {
	if err := util.ValidateIDs("actor_id", actorID, "subject_id", target.ID); err != nil {
		return false, err
	}

	ctx, span := telemetry.TraceToggle(ctx, string(target.Kind), target.ID)
	defer span.End()

	var (
		active bool
		err    error
	)
	switch target.Kind {
	case KindChannel:
		active, err = s.toggleSubscription(ctx, target.ID, actorID)
	case KindVideo, KindComment, KindPost:
		subject := models.Subject{Type: models.SubjectType(target.Kind), ID: target.ID}
		active, err = s.toggleLike(ctx, subject, actorID)
	default:
		return false, fmt.Errorf("toggle kind %q: %w", target.Kind, apperrors.ErrValidation)
	}
	if err != nil {
		telemetry.RecordError(span, err)
		return false, err
	}

	metrics.RecordToggle(string(target.Kind), active)
	logger.Log.Debug("Toggled relationship",
		zap.String("kind", string(target.Kind)),
		zap.String("subject_id", target.ID),
		logger.WithUserID(actorID),
		zap.Bool("active", active),
	)
	return active, nil
}

func (s *Service) toggleLike(ctx context.Context, subject models.Subject, actorID string) (bool, error) {
	visible, err := s.store.SubjectVisible(ctx, subject, actorID)
	if err != nil {
		return false, err
	}
	if !visible {
		return false, fmt.Errorf("%s %s: %w", subject.Type, subject.ID, apperrors.ErrNotFound)
	}

	removed, err := s.store.DeleteLike(ctx, subject, actorID)
	if err != nil {
		return false, err
	}
	if removed {
		return false, nil
	}

	err = s.store.CreateLike(ctx, &models.Like{
		SubjectType: subject.Type,
		SubjectID:   subject.ID,
		LikedByID:   actorID,
	})
	if err != nil && !apperrors.Is(err, apperrors.ErrAlreadyExists) {
		return false, err
	}
	return true, nil
}

func (s *Service) toggleSubscription(ctx context.Context, channelID, actorID string) (bool, error) {
	if channelID == actorID {
		return false, apperrors.ErrSelfSubscription
	}

	exists, err := s.users.UserExists(ctx, channelID)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, fmt.Errorf("channel %s: %w", channelID, apperrors.ErrNotFound)
	}

	removed, err := s.store.DeleteSubscription(ctx, channelID, actorID)
	if err != nil {
		return false, err
	}
	if removed {
		return false, nil
	}

	err = s.store.CreateSubscription(ctx, &models.Subscription{
		ChannelID:    channelID,
		SubscriberID: actorID,
	})
	if err != nil && !apperrors.Is(err, apperrors.ErrAlreadyExists) {
		return false, err
	}
	return true, nil
}
