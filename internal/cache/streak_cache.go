// internal/cache/streak_cache.go
package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"study_tracker/internal/config"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

const streakKeyPrefix = "streak:"

// RedisStreakCache はストリーク数を Redis に TTL 付きで置く
type RedisStreakCache struct {
	rdb *goredis.Client
	ttl time.Duration
}

// NewRedisStreakCache は接続して Ping で疎通確認する
func NewRedisStreakCache(cfg config.RedisConfig) (*RedisStreakCache, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}

	ttl := cfg.StreakTTL
	if ttl <= 0 {
		ttl = config.DefaultStreakCacheTTL
	}
	return &RedisStreakCache{rdb: rdb, ttl: ttl}, nil
}

func streakKey(userID uuid.UUID) string {
	return streakKeyPrefix + userID.String()
}

// Get はキーが無ければ ok=false を返す
func (c *RedisStreakCache) Get(ctx context.Context, userID uuid.UUID) (int, bool, error) {
	val, err := c.rdb.Get(ctx, streakKey(userID)).Result()
	if errors.Is(err, goredis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("RedisStreakCache.Get: %w", err)
	}
	count, err := strconv.Atoi(val)
	if err != nil {
		// 壊れた値は無かったことにする
		return 0, false, nil
	}
	return count, true, nil
}

func (c *RedisStreakCache) Set(ctx context.Context, userID uuid.UUID, count int) error {
	if err := c.rdb.Set(ctx, streakKey(userID), strconv.Itoa(count), c.ttl).Err(); err != nil {
		return fmt.Errorf("RedisStreakCache.Set: %w", err)
	}
	return nil
}

// Fill はキーが無いときだけ書く (SET NX)。書き込み側が入れた値は上書きしない
func (c *RedisStreakCache) Fill(ctx context.Context, userID uuid.UUID, count int) error {
	if err := c.rdb.SetNX(ctx, streakKey(userID), strconv.Itoa(count), c.ttl).Err(); err != nil {
		return fmt.Errorf("RedisStreakCache.Fill: %w", err)
	}
	return nil
}

func (c *RedisStreakCache) Delete(ctx context.Context, userID uuid.UUID) error {
	if err := c.rdb.Del(ctx, streakKey(userID)).Err(); err != nil {
		return fmt.Errorf("RedisStreakCache.Delete: %w", err)
	}
	return nil
}

// Ping はヘルスチェック用
func (c *RedisStreakCache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *RedisStreakCache) Close() error {
	return c.rdb.Close()
}

// NoopStreakCache は redis.enabled=false のときに使う。常にミス
type NoopStreakCache struct{}

func (NoopStreakCache) Get(context.Context, uuid.UUID) (int, bool, error) { return 0, false, nil }
func (NoopStreakCache) Set(context.Context, uuid.UUID, int) error         { return nil }
func (NoopStreakCache) Fill(context.Context, uuid.UUID, int) error        { return nil }
func (NoopStreakCache) Delete(context.Context, uuid.UUID) error           { return nil }
