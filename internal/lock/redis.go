package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vidshare/backend/internal/logger"
	"go.uber.org/zap"
)

const (
	defaultRedisLockTTL = 5 * time.Second
	redisRetryInterval  = 25 * time.Millisecond
	redisReleaseTimeout = 2 * time.Second
	redisKeyPrefix      = "lock:"
)

// RedisClient is the subset of cache.RedisClient the lock needs
type RedisClient interface {
	SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error)
	CompareAndDelete(ctx context.Context, key string, expected string) (bool, error)
}

// RedisLocker is a Locker shared by every instance talking to the same Redis.
// Each lock carries a random token and expires after ttl, so a crashed holder
// cannot wedge a key forever.
type RedisLocker struct {
	client RedisClient
	ttl    time.Duration
}

// NewRedisLocker creates a RedisLocker. A non-positive ttl uses the default.
func NewRedisLocker(client RedisClient, ttl time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = defaultRedisLockTTL
	}
	return &RedisLocker{client: client, ttl: ttl}
}

// Lock retries SET NX until it wins or ctx is done
func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	redisKey := redisKeyPrefix + key
	token := uuid.NewString()

	ticker := time.NewTicker(redisRetryInterval)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, redisKey, token, l.ttl)
		if err != nil {
			return nil, fmt.Errorf("acquire lock %s: %w", key, err)
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s: %w", ErrNotAcquired, key, ctx.Err())
		case <-ticker.C:
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() { l.release(redisKey, token) })
	}, nil
}

func (l *RedisLocker) release(redisKey, token string) {
	releaseCtx, cancel := context.WithTimeout(context.Background(), redisReleaseTimeout)
	defer cancel()
	if _, err := l.client.CompareAndDelete(releaseCtx, redisKey, token); err != nil {
		// the key still expires after ttl
		logger.Log.Warn("Failed to release redis lock",
			zap.String("key", redisKey),
			zap.Error(err),
		)
	}
}
