package seed

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	apperrors "github.com/vidshare/backend/internal/errors"
	"github.com/vidshare/backend/internal/history"
	"github.com/vidshare/backend/internal/logger"
	"github.com/vidshare/backend/internal/models"
	"github.com/vidshare/backend/internal/repository"
	"github.com/vidshare/backend/internal/social"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Sizes controls how much development data SeedDev creates
type Sizes struct {
	Users         int
	Videos        int
	Comments      int
	Posts         int
	Views         int
	Likes         int
	Subscriptions int
	Playlists     int
}

// DefaultSizes is a dataset big enough to make listings and counts interesting
var DefaultSizes = Sizes{
	Users:         50,
	Videos:        200,
	Comments:      600,
	Posts:         100,
	Views:         2000,
	Likes:         800,
	Subscriptions: 300,
	Playlists:     40,
}

// Seeder handles database seeding operations. Views, likes and subscriptions go
// through the same services the API uses, so seeded data obeys the same rules.
type Seeder struct {
	db        *gorm.DB
	tracker   *history.Tracker
	social    *social.Service
	playlists repository.PlaylistRepository
	rng       *rand.Rand
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, historyConfig history.Config) *Seeder {
	seed := time.Now().UnixNano()
	// Seed returns an error only for invalid sources
	_ = gofakeit.Seed(seed)

	users := repository.NewUserRepository(db)
	videos := repository.NewVideoRepository(db)
	return &Seeder{
		db:        db,
		tracker:   history.NewTracker(videos, users, nil, historyConfig),
		social:    social.NewService(repository.NewEngagementRepository(db), users),
		playlists: repository.NewPlaylistRepository(db),
		rng:       rand.New(rand.NewSource(seed)),
	}
}

// SeedDev seeds the development database with realistic data
func (s *Seeder) SeedDev(ctx context.Context, sizes Sizes) error {
	logger.Log.Info("Creating users...")
	users, err := s.seedUsers(sizes.Users)
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	logger.Log.Info("Creating videos...")
	videos, err := s.seedVideos(users, sizes.Videos)
	if err != nil {
		return fmt.Errorf("failed to seed videos: %w", err)
	}

	logger.Log.Info("Creating comments...")
	comments, err := s.seedComments(users, videos, sizes.Comments)
	if err != nil {
		return fmt.Errorf("failed to seed comments: %w", err)
	}

	logger.Log.Info("Creating posts...")
	posts, err := s.seedPosts(users, sizes.Posts)
	if err != nil {
		return fmt.Errorf("failed to seed posts: %w", err)
	}

	logger.Log.Info("Recording views...")
	if err := s.seedViews(ctx, users, videos, sizes.Views); err != nil {
		return fmt.Errorf("failed to seed views: %w", err)
	}

	logger.Log.Info("Creating likes...")
	targets := make([]social.Target, 0, len(videos)+len(comments)+len(posts))
	for _, v := range videos {
		targets = append(targets, social.Target{Kind: social.KindVideo, ID: v.ID})
	}
	for _, c := range comments {
		targets = append(targets, social.Target{Kind: social.KindComment, ID: c.ID})
	}
	for _, p := range posts {
		targets = append(targets, social.Target{Kind: social.KindPost, ID: p.ID})
	}
	if err := s.seedToggles(ctx, users, targets, sizes.Likes); err != nil {
		return fmt.Errorf("failed to seed likes: %w", err)
	}

	logger.Log.Info("Creating subscriptions...")
	channels := make([]social.Target, len(users))
	for i, u := range users {
		channels[i] = social.Target{Kind: social.KindChannel, ID: u.ID}
	}
	if err := s.seedToggles(ctx, users, channels, sizes.Subscriptions); err != nil {
		return fmt.Errorf("failed to seed subscriptions: %w", err)
	}

	logger.Log.Info("Creating playlists...")
	if err := s.seedPlaylists(ctx, users, videos, sizes.Playlists); err != nil {
		return fmt.Errorf("failed to seed playlists: %w", err)
	}

	return nil
}

// SeedTest seeds the test database with a small fixed cast
func (s *Seeder) SeedTest(ctx context.Context) error {
	logger.Log.Info("Creating test users...")
	testUserFixtures := []struct {
		username string
		email    string
		fullName string
	}{
		{"alice", "alice@example.com", "Alice Smith"},
		{"bob", "bob@example.com", "Bob Johnson"},
		{"charlie", "charlie@example.com", "Charlie Brown"},
		{"diana", "diana@example.com", "Diana Prince"},
		{"eve", "eve@example.com", "Eve Wilson"},
	}

	var users []models.User
	for _, fixture := range testUserFixtures {
		var user models.User
		err := s.db.Where("username = ? OR email = ?", fixture.username, fixture.email).First(&user).Error
		if err == nil {
			users = append(users, user)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to look up test user %s: %w", fixture.username, err)
		}

		user = models.User{
			Username:  fixture.username,
			Email:     fixture.email,
			FullName:  fixture.fullName,
			AvatarURL: avatarURL(fixture.username),
		}
		if err := s.db.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to create test user %s: %w", fixture.username, err)
		}
		users = append(users, user)
	}

	logger.Log.Info("Creating test videos...")
	videos, err := s.seedVideos(users, 5)
	if err != nil {
		return fmt.Errorf("failed to seed videos: %w", err)
	}

	logger.Log.Info("Creating test comments...")
	if _, err := s.seedComments(users, videos, 10); err != nil {
		return fmt.Errorf("failed to seed comments: %w", err)
	}

	return s.seedViews(ctx, users, videos, 20)
}

// Clean removes all seed data (use with caution!)
func (s *Seeder) Clean() error {
	// Delete in reverse order of dependencies
	tables := []string{
		"playlist_entries",
		"playlists",
		"likes",
		"subscriptions",
		"comments",
		"posts",
		"videos",
		"users",
	}
	for _, table := range tables {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clean %s: %w", table, err)
		}
	}
	return nil
}

// words joins n random words into a title
func (s *Seeder) words(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = gofakeit.Word()
	}
	return strings.Join(parts, " ")
}

func avatarURL(seed string) string {
	return fmt.Sprintf("https://api.dicebear.com/7.x/avataaars/png?seed=%s", seed)
}

// seedUsers creates users with realistic data. An index suffix keeps
// usernames and emails unique.
func (s *Seeder) seedUsers(count int) ([]models.User, error) {
	users := make([]models.User, 0, count)
	for i := 0; i < count; i++ {
		username := fmt.Sprintf("%s%d", gofakeit.Username(), i)
		user := models.User{
			Username:      username,
			Email:         fmt.Sprintf("%s@example.com", username),
			FullName:      gofakeit.Name(),
			AvatarURL:     avatarURL(username),
			CoverImageURL: fmt.Sprintf("https://picsum.photos/seed/%s/1280/320", username),
		}
		user.CreatedAt = gofakeit.DateRange(time.Now().AddDate(-1, 0, 0), time.Now())

		if err := s.db.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		users = append(users, user)
	}

	logger.Log.Info("Created seed users", zap.Int("count", len(users)))
	return users, nil
}

// seedVideos spreads videos across users; roughly one in five stays unpublished
func (s *Seeder) seedVideos(users []models.User, count int) ([]models.Video, error) {
	if len(users) == 0 {
		return nil, nil
	}

	videos := make([]models.Video, 0, count)
	for i := 0; i < count; i++ {
		owner := users[s.rng.Intn(len(users))]
		id := gofakeit.UUID()

		video := models.Video{
			ID:           id,
			OwnerID:      owner.ID,
			Title:        s.words(s.rng.Intn(5) + 2),
			Description:  gofakeit.HipsterSentence() + " " + gofakeit.HipsterSentence(),
			VideoURL:     fmt.Sprintf("https://cdn.example.com/videos/%s.mp4", id),
			ThumbnailURL: fmt.Sprintf("https://cdn.example.com/thumbnails/%s.jpg", id),
			Duration:     float64(s.rng.Intn(3600)+15) + s.rng.Float64(),
			IsPublished:  s.rng.Float32() >= 0.2,
		}
		video.CreatedAt = gofakeit.DateRange(owner.CreatedAt, time.Now())

		if err := s.db.Create(&video).Error; err != nil {
			return nil, fmt.Errorf("failed to create video: %w", err)
		}
		videos = append(videos, video)
	}

	logger.Log.Info("Created videos", zap.Int("count", len(videos)))
	return videos, nil
}

func (s *Seeder) seedComments(users []models.User, videos []models.Video, count int) ([]models.Comment, error) {
	if len(users) == 0 || len(videos) == 0 {
		return nil, nil
	}

	commentTemplates := []string{
		"Great video!",
		"Watched this twice already",
		"Can you do a follow-up?",
		"The editing here is so clean",
		"First!",
		"Saving this for later",
		"Underrated channel",
	}

	comments := make([]models.Comment, 0, count)
	for i := 0; i < count; i++ {
		user := users[s.rng.Intn(len(users))]
		video := videos[s.rng.Intn(len(videos))]

		// Mix of template comments and random sentences
		content := gofakeit.HipsterSentence()
		if s.rng.Float32() < 0.5 {
			content = commentTemplates[s.rng.Intn(len(commentTemplates))]
		}

		comment := models.Comment{
			VideoID: video.ID,
			OwnerID: user.ID,
			Content: content,
		}
		comment.CreatedAt = gofakeit.DateRange(video.CreatedAt, time.Now())
		comment.UpdatedAt = comment.CreatedAt

		if err := s.db.Create(&comment).Error; err != nil {
			return nil, fmt.Errorf("failed to create comment: %w", err)
		}
		comments = append(comments, comment)
	}

	logger.Log.Info("Created comments", zap.Int("count", len(comments)))
	return comments, nil
}

func (s *Seeder) seedPosts(users []models.User, count int) ([]models.Post, error) {
	if len(users) == 0 {
		return nil, nil
	}

	posts := make([]models.Post, 0, count)
	for i := 0; i < count; i++ {
		post := models.Post{
			OwnerID: users[s.rng.Intn(len(users))].ID,
			Content: gofakeit.HipsterSentence(),
		}
		if err := s.db.Create(&post).Error; err != nil {
			return nil, fmt.Errorf("failed to create post: %w", err)
		}
		posts = append(posts, post)
	}

	logger.Log.Info("Created posts", zap.Int("count", len(posts)))
	return posts, nil
}

// seedViews records views through the history tracker. A view of someone
// else's unpublished video is rejected there and skipped here.
func (s *Seeder) seedViews(ctx context.Context, users []models.User, videos []models.Video, count int) error {
	if len(users) == 0 || len(videos) == 0 {
		return nil
	}

	recorded := 0
	for i := 0; i < count; i++ {
		video := videos[s.rng.Intn(len(videos))]
		viewerID := ""
		// A quarter of views are anonymous
		if s.rng.Float32() >= 0.25 {
			viewerID = users[s.rng.Intn(len(users))].ID
		}

		err := s.tracker.RecordView(ctx, viewerID, video.ID)
		switch {
		case err == nil:
			recorded++
		case errors.Is(err, apperrors.ErrNotFound):
		default:
			return err
		}
	}

	logger.Log.Info("Recorded views", zap.Int("recorded", recorded), zap.Int("attempted", count))
	return nil
}

type toggleKey struct {
	target social.Target
	actor  string
}

// seedToggles activates up to count distinct actor/target relationships.
// Each pair is toggled at most once so it ends up active.
func (s *Seeder) seedToggles(ctx context.Context, users []models.User, targets []social.Target, count int) error {
	if len(users) == 0 || len(targets) == 0 {
		return nil
	}

	seen := make(map[toggleKey]struct{}, count)
	created := 0
	for attempt := 0; attempt < count*3 && created < count; attempt++ {
		key := toggleKey{
			target: targets[s.rng.Intn(len(targets))],
			actor:  users[s.rng.Intn(len(users))].ID,
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		_, err := s.social.Toggle(ctx, key.target, key.actor)
		switch {
		case err == nil:
			created++
		case errors.Is(err, apperrors.ErrNotFound), errors.Is(err, apperrors.ErrSelfSubscription):
		default:
			return err
		}
	}

	logger.Log.Info("Created relationships", zap.Int("count", created))
	return nil
}

func (s *Seeder) seedPlaylists(ctx context.Context, users []models.User, videos []models.Video, count int) error {
	if len(users) == 0 {
		return nil
	}

	for i := 0; i < count; i++ {
		owner := users[s.rng.Intn(len(users))]
		playlist := &models.Playlist{
			Name:        s.words(2),
			Description: gofakeit.HipsterSentence(),
			OwnerID:     owner.ID,
			IsPublic:    s.rng.Float32() < 0.7,
		}
		if err := s.playlists.CreatePlaylist(ctx, playlist); err != nil {
			return err
		}

		for j := s.rng.Intn(8); j > 0 && len(videos) > 0; j-- {
			video := videos[s.rng.Intn(len(videos))]
			if !video.VisibleTo(owner.ID) {
				continue
			}
			if _, err := s.playlists.AddVideo(ctx, playlist.ID, video.ID); err != nil {
				return err
			}
		}
	}

	logger.Log.Info("Created playlists", zap.Int("count", count))
	return nil
}
