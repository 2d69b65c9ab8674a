package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"study_tracker/internal/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TEST_REDIS_ADDR が無い環境では Redis のテストはスキップする
func newTestRedisCache(t *testing.T) *RedisStreakCache {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR is not set")
	}
	c, err := NewRedisStreakCache(config.RedisConfig{Addr: addr, StreakTTL: time.Minute})
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestRedisStreakCache(t *testing.T) {
	c := newTestRedisCache(t)
	ctx := context.Background()
	userID := uuid.New()

	_, ok, err := c.Get(ctx, userID)
	require.NoError(t, err)
	assert.False(t, ok, "未登録のキーはミス")

	require.NoError(t, c.Set(ctx, userID, 4))
	count, ok, err := c.Get(ctx, userID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 4, count)

	require.NoError(t, c.Fill(ctx, userID, 1))
	count, _, err = c.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 4, count, "Fill は既存の値を上書きしない")

	ttl, err := c.rdb.TTL(ctx, streakKey(userID)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, c.Delete(ctx, userID))
	_, ok, err = c.Get(ctx, userID)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Fill(ctx, userID, 2))
	count, ok, err = c.Get(ctx, userID)
	require.NoError(t, err)
	assert.True(t, ok, "キーが無ければ Fill で入る")
	assert.Equal(t, 2, count)
}

func TestNewRedisStreakCache_Unreachable(t *testing.T) {
	_, err := NewRedisStreakCache(config.RedisConfig{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}

func TestNoopStreakCache(t *testing.T) {
	var c NoopStreakCache
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, uuid.New(), 3))
	require.NoError(t, c.Fill(ctx, uuid.New(), 3))
	_, ok, err := c.Get(ctx, uuid.New())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, c.Delete(ctx, uuid.New()))
}

func Test_streakKey(t *testing.T) {
	id := uuid.MustParse("0b7e2f5c-3c1a-4a53-9d7f-2a4e8c1b6f00")
	assert.Equal(t, "streak:0b7e2f5c-3c1a-4a53-9d7f-2a4e8c1b6f00", streakKey(id))
}
