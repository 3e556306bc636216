package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vidshare/backend/internal/cache"
	"github.com/vidshare/backend/internal/config"
	"github.com/vidshare/backend/internal/database"
	"github.com/vidshare/backend/internal/handlers"
	"github.com/vidshare/backend/internal/history"
	"github.com/vidshare/backend/internal/lock"
	"github.com/vidshare/backend/internal/logger"
	"github.com/vidshare/backend/internal/metrics"
	"github.com/vidshare/backend/internal/middleware"
	"github.com/vidshare/backend/internal/storage"
	"github.com/vidshare/backend/internal/telemetry"
	"github.com/vidshare/backend/internal/validation"
	"go.uber.org/zap"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	cfg, err := config.Load(config.NewViper())
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if err := logger.Initialize(logger.Options{
		Level:       cfg.LogLevel,
		File:        cfg.LogFile,
		Development: cfg.IsDevelopment(),
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Close()

	logger.Log.Info("=== VidShare server starting ===",
		zap.String("environment", cfg.Environment),
		zap.String("address", cfg.HTTPAddress),
	)

	// Tracing first so the database plugin picks up the provider
	tp, err := telemetry.InitTracer(telemetry.FromAppConfig(cfg))
	if err != nil {
		logger.FatalWithFields("Failed to initialize tracing", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := telemetry.Shutdown(ctx, tp); err != nil {
			logger.WarnWithFields("Tracer shutdown failed", err)
		}
	}()

	// Initialize database
	if err := database.Initialize(cfg.Database, cfg.IsDevelopment()); err != nil {
		logger.FatalWithFields("Failed to initialize database", err)
	}
	defer database.Close()

	if cfg.Telemetry.Enabled {
		if err := database.DB.Use(telemetry.GORMTracingPlugin()); err != nil {
			logger.FatalWithFields("Failed to install database tracing", err)
		}
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		logger.FatalWithFields("Failed to run migrations", err)
	}

	metrics.Initialize()

	// Redis is optional: it makes the history lock and view rate limit shared
	// across instances
	var redisClient *cache.RedisClient
	if cfg.Redis.Enabled() {
		redisClient, err = cache.NewRedisClient(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password)
		if err != nil {
			if cfg.Require.Redis {
				logger.FatalWithFields("Redis is required but unreachable", err)
			}
			logger.WarnWithFields("Redis unavailable, falling back to in-process locks and limits", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	var (
		locker      lock.Locker
		viewCounter middleware.WindowCounter
	)
	if redisClient != nil {
		locker = lock.NewRedisLocker(redisClient, cfg.History.LockTTL)
		viewCounter = redisClient
	} else {
		locker = lock.NewKeyedMutex()
	}

	// Optional media uploads
	var s3Uploader *storage.S3Uploader
	if cfg.S3.Enabled() {
		s3Uploader, err = storage.NewS3Uploader(context.Background(), cfg.S3)
		if err != nil {
			logger.FatalWithFields("Failed to initialize S3 uploader", err)
		}
	}

	checks := map[string]validation.Check{
		"database": func(ctx context.Context) error {
			sqlDB, err := database.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		"redis": validation.PingCheck(pinger(redisClient)),
	}
	if s3Uploader != nil {
		checks["s3"] = validation.BucketCheck(s3Uploader)
	} else {
		checks["s3"] = validation.BucketCheck(nil)
	}
	validator := validation.NewServiceValidator(cfg.RequiredServices(), checks)
	if err := validator.ValidateServices(context.Background()); err != nil {
		logger.FatalWithFields("Required service validation failed", err)
	}

	// Initialize handlers
	h := handlers.NewHandlers(database.DB, history.Config{
		Capacity:      cfg.History.Capacity,
		RecordTimeout: cfg.Views.RecordTimeout,
	}, locker)
	if s3Uploader != nil {
		h.SetUploader(s3Uploader)
	} else {
		logger.Log.Warn("S3 not configured - video uploads are disabled")
	}

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	if cfg.Telemetry.Enabled {
		r.Use(middleware.TracingMiddleware(cfg.Telemetry.ServiceName))
		r.Use(middleware.SpanAttributesMiddleware())
	}
	r.Use(middleware.GinLoggerMiddleware("/health", "/metrics"))
	r.Use(middleware.MetricsMiddleware())
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// CORS middleware
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Request-ID"}
	r.Use(cors.New(corsConfig))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authenticator := middleware.NewAuthenticator(cfg.JWTSecret)
	h.RegisterRoutes(r, handlers.RouteMiddleware{
		RequireAuth:  authenticator.RequireAuth(),
		OptionalAuth: authenticator.OptionalAuth(),
		ViewLimit:    middleware.RedisRateLimitMiddleware(viewCounter, middleware.ViewRateLimitConfig(cfg.Views.PerMinute)),
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddress,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info("🎬 VidShare backend listening", zap.String("address", cfg.HTTPAddress))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.FatalWithFields("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.ErrorWithFields("Server forced to shutdown", err)
	}

	logger.Log.Info("Server exited")
}

// pinger keeps a missing Redis client a nil interface, so the check reports
// "not configured" instead of calling through a nil pointer
func pinger(rc *cache.RedisClient) validation.Pinger {
	if rc == nil {
		return nil
	}
	return rc
}
