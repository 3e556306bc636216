package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilClientIsSafe(t *testing.T) {
	var rc *RedisClient
	assert.Error(t, rc.Ping(context.Background()))
	assert.NoError(t, rc.Close())
}

// newTestClient connects to VIDSHARE_REDIS_HOST or skips
func newTestClient(t *testing.T) *RedisClient {
	t.Helper()
	host := os.Getenv("VIDSHARE_REDIS_HOST")
	if host == "" {
		t.Skip("VIDSHARE_REDIS_HOST not set")
	}
	rc, err := NewRedisClient(host, os.Getenv("VIDSHARE_REDIS_PORT"), os.Getenv("VIDSHARE_REDIS_PASSWORD"))
	if err != nil {
		t.Skipf("redis not reachable: %v", err)
	}
	t.Cleanup(func() { _ = rc.Close() })
	return rc
}

func TestCompareAndDelete(t *testing.T) {
	rc := newTestClient(t)
	ctx := context.Background()
	key := "test:" + uuid.NewString()

	ok, err := rc.SetNX(ctx, key, "token-a", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = rc.SetNX(ctx, key, "token-b", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	deleted, err := rc.CompareAndDelete(ctx, key, "token-b")
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = rc.CompareAndDelete(ctx, key, "token-a")
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestIncrExpire(t *testing.T) {
	rc := newTestClient(t)
	ctx := context.Background()
	key := "test:" + uuid.NewString()

	n, err := rc.Incr(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	require.NoError(t, rc.Expire(ctx, key, time.Second))

	n, err = rc.Incr(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
