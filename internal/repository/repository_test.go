package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/vidshare/backend/internal/database"
	apperrors "github.com/vidshare/backend/internal/errors"
	"github.com/vidshare/backend/internal/models"
	"gorm.io/gorm"
)

func TestStoreErr(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{"record not found", gorm.ErrRecordNotFound, apperrors.ErrNotFound},
		{"duplicated key", gorm.ErrDuplicatedKey, apperrors.ErrAlreadyExists},
		{"sqlite unique", errors.New("constraint failed: UNIQUE constraint failed: likes.subject_id (2067)"), apperrors.ErrAlreadyExists},
		{"postgres unique", errors.New(`ERROR: duplicate key value violates unique constraint "idx_likes_subject_actor"`), apperrors.ErrAlreadyExists},
		{"deadline", context.DeadlineExceeded, apperrors.ErrStoreUnavailable},
		{"connection reset", errors.New("read tcp: connection reset by peer"), apperrors.ErrStoreUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, errors.Is(storeErr(tt.in, "thing"), tt.want))
		})
	}

	assert.NoError(t, storeErr(nil, "thing"))

	wrapped := fmt.Errorf("video: %w", apperrors.ErrNotFound)
	assert.Equal(t, wrapped, storeErr(wrapped, "video"))

	assert.True(t, errors.Is(storeErr(context.Canceled, "video"), context.Canceled))
}

type RepositoryTestSuite struct {
	suite.Suite
	db          *gorm.DB
	users       UserRepository
	videos      VideoRepository
	engagements EngagementRepository
	comments    CommentRepository
	posts       PostRepository
	playlists   PlaylistRepository

	owner  *models.User
	viewer *models.User
}

func (suite *RepositoryTestSuite) SetupTest() {
	suite.db = database.NewTestDB(suite.T())
	suite.users = NewUserRepository(suite.db)
	suite.videos = NewVideoRepository(suite.db)
	suite.engagements = NewEngagementRepository(suite.db)
	suite.comments = NewCommentRepository(suite.db)
	suite.posts = NewPostRepository(suite.db)
	suite.playlists = NewPlaylistRepository(suite.db)

	suite.owner = suite.createUser("owner")
	suite.viewer = suite.createUser("viewer")
}

func (suite *RepositoryTestSuite) createUser(name string) *models.User {
	user := &models.User{Username: name, Email: name + "@example.com", FullName: name}
	require.NoError(suite.T(), suite.users.CreateUser(context.Background(), user))
	return user
}

func (suite *RepositoryTestSuite) createVideo(published bool) *models.Video {
	video := &models.Video{
		OwnerID:     suite.owner.ID,
		Title:       "video",
		VideoURL:    "https://cdn.example.com/v.mp4",
		IsPublished: published,
	}
	require.NoError(suite.T(), suite.videos.CreateVideo(context.Background(), video))
	return video
}

func (suite *RepositoryTestSuite) TestCreateUserDuplicate() {
	err := suite.users.CreateUser(context.Background(), &models.User{
		Username: "owner",
		Email:    "other@example.com",
		FullName: "Other",
	})
	assert.True(suite.T(), errors.Is(err, apperrors.ErrAlreadyExists))
}

func (suite *RepositoryTestSuite) TestUserExists() {
	ok, err := suite.users.UserExists(context.Background(), suite.owner.ID)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), ok)

	ok, err = suite.users.UserExists(context.Background(), uuid.NewString())
	require.NoError(suite.T(), err)
	assert.False(suite.T(), ok)

	_, err = suite.users.GetUser(context.Background(), uuid.NewString())
	assert.True(suite.T(), errors.Is(err, apperrors.ErrNotFound))
}

func (suite *RepositoryTestSuite) TestUpdateWatchHistory() {
	ctx := context.Background()
	next, err := suite.users.UpdateWatchHistory(ctx, suite.viewer.ID, func(current models.VideoIDList) models.VideoIDList {
		assert.Empty(suite.T(), current)
		return models.VideoIDList{"a", "b"}
	})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.VideoIDList{"a", "b"}, next)

	stored, err := suite.users.GetWatchHistory(ctx, suite.viewer.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.VideoIDList{"a", "b"}, stored)

	_, err = suite.users.UpdateWatchHistory(ctx, uuid.NewString(), func(current models.VideoIDList) models.VideoIDList {
		suite.T().Error("mutator must not run for a missing user")
		return current
	})
	assert.True(suite.T(), errors.Is(err, apperrors.ErrNotFound))
}

func (suite *RepositoryTestSuite) TestIncrementViewsVisibility() {
	ctx := context.Background()
	published := suite.createVideo(true)
	draft := suite.createVideo(false)

	require.NoError(suite.T(), suite.videos.IncrementViews(ctx, published.ID, ""))
	require.NoError(suite.T(), suite.videos.IncrementViews(ctx, published.ID, suite.viewer.ID))

	err := suite.videos.IncrementViews(ctx, draft.ID, suite.viewer.ID)
	assert.True(suite.T(), errors.Is(err, apperrors.ErrNotFound))
	err = suite.videos.IncrementViews(ctx, draft.ID, "")
	assert.True(suite.T(), errors.Is(err, apperrors.ErrNotFound))
	require.NoError(suite.T(), suite.videos.IncrementViews(ctx, draft.ID, suite.owner.ID))

	got, err := suite.videos.GetVideo(ctx, published.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(2), got.Views)
	assert.Equal(suite.T(), "owner", got.Owner.Username)

	got, err = suite.videos.GetVideo(ctx, draft.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(1), got.Views)
}

func (suite *RepositoryTestSuite) TestGetVideosSkipsMissing() {
	video := suite.createVideo(true)
	missing := uuid.NewString()

	found, err := suite.videos.GetVideos(context.Background(), []string{video.ID, missing})
	require.NoError(suite.T(), err)
	assert.Len(suite.T(), found, 1)
	assert.Equal(suite.T(), "owner", found[video.ID].Owner.Username)
	assert.NotContains(suite.T(), found, missing)
}

func (suite *RepositoryTestSuite) TestSetPublished() {
	ctx := context.Background()
	video := suite.createVideo(false)

	require.NoError(suite.T(), suite.videos.SetPublished(ctx, video.ID, true))
	got, err := suite.videos.GetVideo(ctx, video.ID)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), got.IsPublished)

	err = suite.videos.SetPublished(ctx, uuid.NewString(), true)
	assert.True(suite.T(), errors.Is(err, apperrors.ErrNotFound))
}

func (suite *RepositoryTestSuite) TestLikes() {
	ctx := context.Background()
	first := suite.createVideo(true)
	second := suite.createVideo(true)
	subject := models.Subject{Type: models.SubjectVideo, ID: first.ID}

	require.NoError(suite.T(), suite.engagements.CreateLike(ctx, &models.Like{
		SubjectType: subject.Type, SubjectID: subject.ID, LikedByID: suite.viewer.ID,
	}))
	require.NoError(suite.T(), suite.engagements.CreateLike(ctx, &models.Like{
		SubjectType: subject.Type, SubjectID: subject.ID, LikedByID: suite.owner.ID,
	}))

	err := suite.engagements.CreateLike(ctx, &models.Like{
		SubjectType: subject.Type, SubjectID: subject.ID, LikedByID: suite.viewer.ID,
	})
	assert.True(suite.T(), errors.Is(err, apperrors.ErrAlreadyExists))

	count, err := suite.engagements.CountLikes(ctx, subject)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(2), count)

	liked, err := suite.engagements.HasLiked(ctx, subject, suite.viewer.ID)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), liked)

	liked, err = suite.engagements.HasLiked(ctx, subject, "")
	require.NoError(suite.T(), err)
	assert.False(suite.T(), liked)

	counts, err := suite.engagements.LikeCounts(ctx, models.SubjectVideo, []string{first.ID, second.ID})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), map[string]int64{first.ID: 2, second.ID: 0}, counts)

	set, err := suite.engagements.LikedSet(ctx, models.SubjectVideo, []string{first.ID, second.ID}, suite.viewer.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), map[string]bool{first.ID: true}, set)

	removed, err := suite.engagements.DeleteLike(ctx, subject, suite.viewer.ID)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), removed)

	removed, err = suite.engagements.DeleteLike(ctx, subject, suite.viewer.ID)
	require.NoError(suite.T(), err)
	assert.False(suite.T(), removed)
}

func (suite *RepositoryTestSuite) TestSubscriptions() {
	ctx := context.Background()
	require.NoError(suite.T(), suite.engagements.CreateSubscription(ctx, &models.Subscription{
		ChannelID: suite.owner.ID, SubscriberID: suite.viewer.ID,
	}))

	err := suite.engagements.CreateSubscription(ctx, &models.Subscription{
		ChannelID: suite.owner.ID, SubscriberID: suite.viewer.ID,
	})
	assert.True(suite.T(), errors.Is(err, apperrors.ErrAlreadyExists))

	n, err := suite.engagements.CountSubscribers(ctx, suite.owner.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(1), n)

	ok, err := suite.engagements.IsSubscribed(ctx, suite.owner.ID, suite.viewer.ID)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), ok)

	// edges are directed
	ok, err = suite.engagements.IsSubscribed(ctx, suite.viewer.ID, suite.owner.ID)
	require.NoError(suite.T(), err)
	assert.False(suite.T(), ok)

	removed, err := suite.engagements.DeleteSubscription(ctx, suite.owner.ID, suite.viewer.ID)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), removed)
}

func (suite *RepositoryTestSuite) TestSubjectVisible() {
	ctx := context.Background()
	draft := suite.createVideo(false)
	comment := &models.Comment{VideoID: draft.ID, OwnerID: suite.viewer.ID, Content: "hi"}
	require.NoError(suite.T(), suite.comments.CreateComment(ctx, comment))

	tests := []struct {
		name    string
		subject models.Subject
		viewer  string
		want    bool
	}{
		{"draft for stranger", models.Subject{Type: models.SubjectVideo, ID: draft.ID}, suite.viewer.ID, false},
		{"draft for owner", models.Subject{Type: models.SubjectVideo, ID: draft.ID}, suite.owner.ID, true},
		{"comment on draft for anonymous", models.Subject{Type: models.SubjectComment, ID: comment.ID}, "", false},
		{"comment on draft for commenter", models.Subject{Type: models.SubjectComment, ID: comment.ID}, suite.viewer.ID, false},
		{"comment on draft for video owner", models.Subject{Type: models.SubjectComment, ID: comment.ID}, suite.owner.ID, true},
		{"missing comment", models.Subject{Type: models.SubjectComment, ID: uuid.NewString()}, suite.owner.ID, false},
		{"missing post", models.Subject{Type: models.SubjectPost, ID: uuid.NewString()}, "", false},
		{"unknown type", models.Subject{Type: "playlist", ID: draft.ID}, "", false},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			ok, err := suite.engagements.SubjectVisible(ctx, tt.subject, tt.viewer)
			require.NoError(suite.T(), err)
			assert.Equal(suite.T(), tt.want, ok)
		})
	}
}

func (suite *RepositoryTestSuite) TestComments() {
	ctx := context.Background()
	video := suite.createVideo(true)

	first := &models.Comment{VideoID: video.ID, OwnerID: suite.viewer.ID, Content: "first"}
	require.NoError(suite.T(), suite.comments.CreateComment(ctx, first))
	second := &models.Comment{VideoID: video.ID, OwnerID: suite.owner.ID, Content: "second"}
	require.NoError(suite.T(), suite.comments.CreateComment(ctx, second))
	// force distinct ordering independent of clock resolution
	require.NoError(suite.T(), suite.db.Model(first).UpdateColumn("created_at", first.CreatedAt.Add(-time.Minute)).Error)

	list, err := suite.comments.ListByVideo(ctx, video.ID, 10, 0)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), list, 2)
	assert.Equal(suite.T(), second.ID, list[0].ID)
	assert.Equal(suite.T(), "owner", list[0].Owner.Username)

	require.NoError(suite.T(), suite.comments.UpdateContent(ctx, first.ID, "edited"))
	got, err := suite.comments.GetComment(ctx, first.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "edited", got.Content)

	require.NoError(suite.T(), suite.comments.DeleteComment(ctx, first.ID))
	_, err = suite.comments.GetComment(ctx, first.ID)
	assert.True(suite.T(), errors.Is(err, apperrors.ErrNotFound))
	assert.True(suite.T(), errors.Is(suite.comments.DeleteComment(ctx, first.ID), apperrors.ErrNotFound))

	list, err = suite.comments.ListByVideo(ctx, video.ID, 10, 0)
	require.NoError(suite.T(), err)
	assert.Len(suite.T(), list, 1)
}

func (suite *RepositoryTestSuite) TestPosts() {
	ctx := context.Background()
	post := &models.Post{OwnerID: suite.owner.ID, Content: "hello subscribers"}
	require.NoError(suite.T(), suite.posts.CreatePost(ctx, post))

	list, err := suite.posts.ListByOwner(ctx, suite.owner.ID, 10, 0)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), list, 1)
	assert.Equal(suite.T(), post.ID, list[0].ID)

	require.NoError(suite.T(), suite.posts.DeletePost(ctx, post.ID))
	_, err = suite.posts.GetPost(ctx, post.ID)
	assert.True(suite.T(), errors.Is(err, apperrors.ErrNotFound))
}

func (suite *RepositoryTestSuite) TestPlaylistEntries() {
	ctx := context.Background()
	first := suite.createVideo(true)
	second := suite.createVideo(true)
	playlist := &models.Playlist{Name: "mix", OwnerID: suite.owner.ID}
	require.NoError(suite.T(), suite.playlists.CreatePlaylist(ctx, playlist))

	added, err := suite.playlists.AddVideo(ctx, playlist.ID, first.ID)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), added)

	added, err = suite.playlists.AddVideo(ctx, playlist.ID, second.ID)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), added)

	added, err = suite.playlists.AddVideo(ctx, playlist.ID, first.ID)
	require.NoError(suite.T(), err)
	assert.False(suite.T(), added, "adding a present video is a no-op")

	got, err := suite.playlists.GetPlaylist(ctx, playlist.ID)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), got.Entries, 2)
	assert.Equal(suite.T(), first.ID, got.Entries[0].VideoID)
	assert.Equal(suite.T(), 0, got.Entries[0].Position)
	assert.Equal(suite.T(), second.ID, got.Entries[1].VideoID)
	assert.Equal(suite.T(), 1, got.Entries[1].Position)
	assert.Equal(suite.T(), "owner", got.Entries[1].Video.Owner.Username)

	require.NoError(suite.T(), suite.playlists.RemoveVideo(ctx, playlist.ID, first.ID))
	assert.True(suite.T(), errors.Is(suite.playlists.RemoveVideo(ctx, playlist.ID, first.ID), apperrors.ErrNotFound))

	require.NoError(suite.T(), suite.playlists.DeletePlaylist(ctx, playlist.ID))
	_, err = suite.playlists.GetPlaylist(ctx, playlist.ID)
	assert.True(suite.T(), errors.Is(err, apperrors.ErrNotFound))
	assert.True(suite.T(), errors.Is(suite.playlists.DeletePlaylist(ctx, playlist.ID), apperrors.ErrNotFound))
}

func TestRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}
