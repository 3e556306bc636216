package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/vidshare/backend/internal/engagement"
	"github.com/vidshare/backend/internal/history"
	"github.com/vidshare/backend/internal/lock"
	"github.com/vidshare/backend/internal/repository"
	"github.com/vidshare/backend/internal/social"
	"github.com/vidshare/backend/internal/storage"
	"gorm.io/gorm"
)

// Handlers contains all HTTP handlers for the API
type Handlers struct {
	db *gorm.DB

	users     repository.UserRepository
	videos    repository.VideoRepository
	comments  repository.CommentRepository
	posts     repository.PostRepository
	playlists repository.PlaylistRepository

	tracker    *history.Tracker
	aggregator *engagement.Aggregator
	social     *social.Service
	uploader   storage.Uploader
}

// NewHandlers wires repositories and services over db. A nil locker serializes
// history updates in process only.
func NewHandlers(db *gorm.DB, historyConfig history.Config, locker lock.Locker) *Handlers {
	users := repository.NewUserRepository(db)
	videos := repository.NewVideoRepository(db)
	engagements := repository.NewEngagementRepository(db)

	return &Handlers{
		db:         db,
		users:      users,
		videos:     videos,
		comments:   repository.NewCommentRepository(db),
		posts:      repository.NewPostRepository(db),
		playlists:  repository.NewPlaylistRepository(db),
		tracker:    history.NewTracker(videos, users, locker, historyConfig),
		aggregator: engagement.NewAggregator(videos, users, engagements),
		social:     social.NewService(engagements, users),
	}
}

// SetUploader enables video uploads
func (h *Handlers) SetUploader(uploader storage.Uploader) {
	h.uploader = uploader
}

// SetAggregator replaces the view aggregator, e.g. to pin its clock
func (h *Handlers) SetAggregator(aggregator *engagement.Aggregator) {
	h.aggregator = aggregator
}

// RouteMiddleware supplies the auth and rate limiting layers. ViewLimit may be nil.
type RouteMiddleware struct {
	RequireAuth  gin.HandlerFunc
	OptionalAuth gin.HandlerFunc
	ViewLimit    gin.HandlerFunc
}

func chain(handlers ...gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(handlers))
	for _, handler := range handlers {
		if handler != nil {
			out = append(out, handler)
		}
	}
	return out
}

// RegisterRoutes mounts the API under /api/v1 plus /health
func (h *Handlers) RegisterRoutes(r gin.IRouter, mw RouteMiddleware) {
	r.GET("/health", h.HealthCheck)

	api := r.Group("/api/v1")
	{
		videos := api.Group("/videos")
		videos.GET("/:id", chain(mw.OptionalAuth, mw.ViewLimit, h.GetVideo)...)
		videos.GET("/:id/comments", chain(mw.OptionalAuth, h.GetComments)...)
		videos.POST("", chain(mw.RequireAuth, h.CreateVideo)...)
		videos.PATCH("/:id/publish", chain(mw.RequireAuth, h.SetPublished)...)
		videos.POST("/:id/like", chain(mw.RequireAuth, h.LikeVideo)...)
		videos.POST("/:id/comments", chain(mw.RequireAuth, h.CreateComment)...)

		comments := api.Group("/comments")
		comments.Use(chain(mw.RequireAuth)...)
		comments.PATCH("/:id", h.UpdateComment)
		comments.DELETE("/:id", h.DeleteComment)
		comments.POST("/:id/like", h.LikeComment)

		posts := api.Group("/posts")
		posts.Use(chain(mw.RequireAuth)...)
		posts.POST("", h.CreatePost)
		posts.DELETE("/:id", h.DeletePost)
		posts.POST("/:id/like", h.LikePost)

		channels := api.Group("/channels")
		channels.GET("/:id", chain(mw.OptionalAuth, h.GetChannel)...)
		channels.GET("/:id/posts", chain(mw.OptionalAuth, h.GetChannelPosts)...)
		channels.POST("/:id/subscribe", chain(mw.RequireAuth, h.ToggleSubscription)...)

		me := api.Group("/users/me")
		me.Use(chain(mw.RequireAuth)...)
		me.GET("/history", h.GetWatchHistory)
		me.DELETE("/history", h.ClearWatchHistory)

		playlists := api.Group("/playlists")
		playlists.GET("/:id", chain(mw.OptionalAuth, h.GetPlaylist)...)
		playlists.POST("", chain(mw.RequireAuth, h.CreatePlaylist)...)
		playlists.DELETE("/:id", chain(mw.RequireAuth, h.DeletePlaylist)...)
		playlists.POST("/:id/videos", chain(mw.RequireAuth, h.AddPlaylistVideo)...)
		playlists.DELETE("/:id/videos/:video_id", chain(mw.RequireAuth, h.RemovePlaylistVideo)...)
	}
}
