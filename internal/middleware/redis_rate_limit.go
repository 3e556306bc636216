package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	apperrors "github.com/vidshare/backend/internal/errors"
	"github.com/vidshare/backend/internal/logger"
	"github.com/vidshare/backend/internal/util"
	"go.uber.org/zap"
)

// WindowCounter is the subset of cache.RedisClient the limiter needs
type WindowCounter interface {
	Incr(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
}

// RedisRateLimitMiddleware creates a distributed fixed-window rate limiter.
// It works across multiple instances. A nil counter falls back to the
// in-memory token bucket limiter.
func RedisRateLimitMiddleware(counter WindowCounter, config RateLimitConfig) gin.HandlerFunc {
	if config.KeyFunc == nil {
		config.KeyFunc = RateLimitKey
	}
	if counter == nil {
		logger.Log.Warn("Redis rate limiter unavailable, using in-memory limiter")
		return NewRateLimiter(config)
	}

	return func(c *gin.Context) {
		key := fmt.Sprintf("rate_limit:%s:%s", c.FullPath(), config.KeyFunc(c))
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		count, err := counter.Incr(ctx, key)
		if err != nil {
			// Fail closed: a broken limiter would otherwise let every request through
			logger.Log.Error("Rate limit check failed - rejecting request",
				zap.String("key", key),
				zap.Error(err),
			)
			util.RespondWithAPIError(c, apperrors.StoreUnavailable())
			return
		}

		// Set expiration on first request in this window
		if count == 1 {
			if err := counter.Expire(ctx, key, config.Window); err != nil {
				logger.Log.Warn("Failed to set rate limit expiration",
					zap.String("key", key),
					zap.Error(err),
				)
			}
		}

		remaining := int64(config.Limit) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Limit))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(config.Limit) {
			logger.Log.Warn("Rate limit exceeded",
				zap.String("key", key),
				zap.Int("max_requests", config.Limit),
				zap.Int64("current_requests", count),
			)
			c.Header("Retry-After", strconv.Itoa(int(config.Window.Seconds())))
			RecordRateLimitExceeded(c.FullPath(), c.Request.Method)
			util.RespondWithAPIError(c, apperrors.RateLimited(""))
			return
		}

		c.Next()
	}
}
