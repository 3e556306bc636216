package social

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/vidshare/backend/internal/database"
	apperrors "github.com/vidshare/backend/internal/errors"
	"github.com/vidshare/backend/internal/models"
	"github.com/vidshare/backend/internal/repository"
	"gorm.io/gorm"
)

type ToggleTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *Service

	owner  *models.User
	viewer *models.User
	video  *models.Video
}

func (suite *ToggleTestSuite) SetupTest() {
	suite.db = database.NewTestDB(suite.T())
	suite.service = NewService(
		repository.NewEngagementRepository(suite.db),
		repository.NewUserRepository(suite.db),
	)

	suite.owner = suite.createUser("owner")
	suite.viewer = suite.createUser("viewer")
	suite.video = &models.Video{
		OwnerID:     suite.owner.ID,
		Title:       "clip",
		VideoURL:    "https://cdn.example.com/clip.mp4",
		IsPublished: true,
	}
	require.NoError(suite.T(), suite.db.Create(suite.video).Error)
}

func (suite *ToggleTestSuite) createUser(name string) *models.User {
	user := &models.User{Username: name, Email: name + "@example.com", FullName: name}
	require.NoError(suite.T(), suite.db.Create(user).Error)
	return user
}

func (suite *ToggleTestSuite) countLikes(subjectID string) int64 {
	var n int64
	require.NoError(suite.T(), suite.db.Model(&models.Like{}).Where("subject_id = ?", subjectID).Count(&n).Error)
	return n
}

func (suite *ToggleTestSuite) countSubscriptions(channelID string) int64 {
	var n int64
	require.NoError(suite.T(), suite.db.Model(&models.Subscription{}).Where("channel_id = ?", channelID).Count(&n).Error)
	return n
}

func (suite *ToggleTestSuite) TestLikeTwiceFlipsBack() {
	ctx := context.Background()
	target := Target{Kind: KindVideo, ID: suite.video.ID}

	active, err := suite.service.Toggle(ctx, target, suite.viewer.ID)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), active)
	assert.Equal(suite.T(), int64(1), suite.countLikes(suite.video.ID))

	active, err = suite.service.Toggle(ctx, target, suite.viewer.ID)
	require.NoError(suite.T(), err)
	assert.False(suite.T(), active)
	assert.Equal(suite.T(), int64(0), suite.countLikes(suite.video.ID))
}

func (suite *ToggleTestSuite) TestLikesArePerActor() {
	ctx := context.Background()
	target := Target{Kind: KindVideo, ID: suite.video.ID}

	_, err := suite.service.Toggle(ctx, target, suite.viewer.ID)
	require.NoError(suite.T(), err)
	_, err = suite.service.Toggle(ctx, target, suite.owner.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(2), suite.countLikes(suite.video.ID))

	active, err := suite.service.Toggle(ctx, target, suite.viewer.ID)
	require.NoError(suite.T(), err)
	assert.False(suite.T(), active)
	assert.Equal(suite.T(), int64(1), suite.countLikes(suite.video.ID))
}

func (suite *ToggleTestSuite) TestLikeCommentAndPost() {
	ctx := context.Background()
	comment := &models.Comment{VideoID: suite.video.ID, OwnerID: suite.owner.ID, Content: "first"}
	require.NoError(suite.T(), suite.db.Create(comment).Error)
	post := &models.Post{OwnerID: suite.owner.ID, Content: "new upload soon"}
	require.NoError(suite.T(), suite.db.Create(post).Error)

	active, err := suite.service.Toggle(ctx, Target{Kind: KindComment, ID: comment.ID}, suite.viewer.ID)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), active)

	active, err = suite.service.Toggle(ctx, Target{Kind: KindPost, ID: post.ID}, suite.viewer.ID)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), active)

	var like models.Like
	require.NoError(suite.T(), suite.db.Where("subject_id = ?", comment.ID).First(&like).Error)
	assert.Equal(suite.T(), models.SubjectComment, like.SubjectType)
}

func (suite *ToggleTestSuite) TestLikeMissingSubject() {
	_, err := suite.service.Toggle(context.Background(), Target{Kind: KindComment, ID: uuid.NewString()}, suite.viewer.ID)
	assert.True(suite.T(), errors.Is(err, apperrors.ErrNotFound))
}

func (suite *ToggleTestSuite) TestLikeHiddenVideo() {
	draft := &models.Video{OwnerID: suite.owner.ID, Title: "draft", VideoURL: "https://cdn.example.com/d.mp4"}
	require.NoError(suite.T(), suite.db.Create(draft).Error)

	_, err := suite.service.Toggle(context.Background(), Target{Kind: KindVideo, ID: draft.ID}, suite.viewer.ID)
	assert.True(suite.T(), errors.Is(err, apperrors.ErrNotFound))

	active, err := suite.service.Toggle(context.Background(), Target{Kind: KindVideo, ID: draft.ID}, suite.owner.ID)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), active)
}

func (suite *ToggleTestSuite) TestLikeCommentOnHiddenVideo() {
	ctx := context.Background()
	comment := &models.Comment{VideoID: suite.video.ID, OwnerID: suite.viewer.ID, Content: "nice"}
	require.NoError(suite.T(), suite.db.Create(comment).Error)
	require.NoError(suite.T(), suite.db.Model(suite.video).Update("is_published", false).Error)

	_, err := suite.service.Toggle(ctx, Target{Kind: KindComment, ID: comment.ID}, suite.viewer.ID)
	assert.True(suite.T(), errors.Is(err, apperrors.ErrNotFound))
	assert.Equal(suite.T(), int64(0), suite.countLikes(comment.ID))

	active, err := suite.service.Toggle(ctx, Target{Kind: KindComment, ID: comment.ID}, suite.owner.ID)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), active)
}

func (suite *ToggleTestSuite) TestSubscribeToggles() {
	ctx := context.Background()
	target := Target{Kind: KindChannel, ID: suite.owner.ID}

	active, err := suite.service.Toggle(ctx, target, suite.viewer.ID)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), active)
	assert.Equal(suite.T(), int64(1), suite.countSubscriptions(suite.owner.ID))

	active, err = suite.service.Toggle(ctx, target, suite.viewer.ID)
	require.NoError(suite.T(), err)
	assert.False(suite.T(), active)
	assert.Equal(suite.T(), int64(0), suite.countSubscriptions(suite.owner.ID))
}

func (suite *ToggleTestSuite) TestSelfSubscriptionRejected() {
	_, err := suite.service.Toggle(context.Background(), Target{Kind: KindChannel, ID: suite.viewer.ID}, suite.viewer.ID)
	assert.True(suite.T(), errors.Is(err, apperrors.ErrSelfSubscription))
	assert.Equal(suite.T(), apperrors.CodeSelfSubscription, apperrors.FromError(err).Code)
	assert.Equal(suite.T(), int64(0), suite.countSubscriptions(suite.viewer.ID))
}

func (suite *ToggleTestSuite) TestSubscribeMissingChannel() {
	_, err := suite.service.Toggle(context.Background(), Target{Kind: KindChannel, ID: uuid.NewString()}, suite.viewer.ID)
	assert.True(suite.T(), errors.Is(err, apperrors.ErrNotFound))
}

func TestToggleTestSuite(t *testing.T) {
	suite.Run(t, new(ToggleTestSuite))
}

// racingStore reports no existing row on delete but a duplicate on create,
// which is what the loser of two concurrent first toggles observes.
type racingStore struct {
	mu      sync.Mutex
	creates int
}

func (r *racingStore) SubjectVisible(context.Context, models.Subject, string) (bool, error) {
	return true, nil
}

func (r *racingStore) CreateLike(context.Context, *models.Like) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creates++
	return apperrors.ErrAlreadyExists
}

func (r *racingStore) DeleteLike(context.Context, models.Subject, string) (bool, error) {
	return false, nil
}

func (r *racingStore) CreateSubscription(context.Context, *models.Subscription) error {
	return apperrors.ErrStoreUnavailable
}

func (r *racingStore) DeleteSubscription(context.Context, string, string) (bool, error) {
	return false, nil
}

type existingUsers struct{}

func (existingUsers) UserExists(context.Context, string) (bool, error) { return true, nil }

func TestToggleDuplicateCreateReportsActive(t *testing.T) {
	store := &racingStore{}
	service := NewService(store, existingUsers{})

	active, err := service.Toggle(context.Background(), Target{Kind: KindVideo, ID: uuid.NewString()}, uuid.NewString())
	require.NoError(t, err)
	assert.True(t, active)
	assert.Equal(t, 1, store.creates)
}

func TestToggleSurfacesStoreFailure(t *testing.T) {
	service := NewService(&racingStore{}, existingUsers{})

	_, err := service.Toggle(context.Background(), Target{Kind: KindChannel, ID: uuid.NewString()}, uuid.NewString())
	assert.True(t, errors.Is(err, apperrors.ErrStoreUnavailable))
	assert.True(t, apperrors.FromError(err).Retryable)
}

func TestToggleRejectsBadInput(t *testing.T) {
	service := NewService(&racingStore{}, existingUsers{})

	tests := []struct {
		name   string
		target Target
		actor  string
		want   error
	}{
		{"malformed actor", Target{Kind: KindVideo, ID: uuid.NewString()}, "me", apperrors.ErrInvalidIdentifier},
		{"malformed subject", Target{Kind: KindVideo, ID: "42"}, uuid.NewString(), apperrors.ErrInvalidIdentifier},
		{"unknown kind", Target{Kind: "playlist", ID: uuid.NewString()}, uuid.NewString(), apperrors.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Toggle(context.Background(), tt.target, tt.actor)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}
