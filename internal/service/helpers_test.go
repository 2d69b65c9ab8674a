package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"study_tracker/internal/config"
	"study_tracker/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// fixedClock は Today が固定の Clock
type fixedClock struct {
	today time.Time
}

func (c *fixedClock) Now() time.Time   { return c.today.Add(9 * time.Hour) }
func (c *fixedClock) Today() time.Time { return c.today }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// memoryStreakCache はテスト用の StreakCache
type memoryStreakCache struct {
	mu     sync.Mutex
	values map[uuid.UUID]int
	hits   int
}

func newMemoryStreakCache() *memoryStreakCache {
	return &memoryStreakCache{values: make(map[uuid.UUID]int)}
}

func (c *memoryStreakCache) Get(_ context.Context, userID uuid.UUID) (int, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[userID]
	if ok {
		c.hits++
	}
	return v, ok, nil
}

func (c *memoryStreakCache) Set(_ context.Context, userID uuid.UUID, count int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[userID] = count
	return nil
}

func (c *memoryStreakCache) Fill(_ context.Context, userID uuid.UUID, count int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.values[userID]; !ok {
		c.values[userID] = count
	}
	return nil
}

// gatedStreakCache は Fill の直前で止まり、release が閉じるまで待つ
type gatedStreakCache struct {
	*memoryStreakCache
	entered chan struct{}
	release chan struct{}
}

func newGatedStreakCache() *gatedStreakCache {
	return &gatedStreakCache{
		memoryStreakCache: newMemoryStreakCache(),
		entered:           make(chan struct{}),
		release:           make(chan struct{}),
	}
}

func (c *gatedStreakCache) Fill(ctx context.Context, userID uuid.UUID, count int) error {
	close(c.entered)
	<-c.release
	return c.memoryStreakCache.Fill(ctx, userID, count)
}

func (c *memoryStreakCache) Delete(_ context.Context, userID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, userID)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:         "StudyTrackerTest",
			Timezone:     "UTC",
			TargetDate:   "2025-12-31",
			MaxTxRetries: 3,
		},
		JWT: config.JWTConfig{
			SecretKey:      "test-secret",
			AccessTokenTTL: 15 * time.Minute,
		},
	}
}

// testServices は実リポジトリ (SQLite) で組み立てたサービス一式
type testServices struct {
	clock      *fixedClock
	cache      *memoryStreakCache
	submission SubmissionService
	progress   ProgressService
	admin      AdminService
	export     ExportService
	auth       AuthService
}

func newTestServices(t *testing.T, db *gorm.DB, today time.Time) *testServices {
	t.Helper()
	cache := newMemoryStreakCache()
	svc := newTestServicesWithCache(t, db, today, cache)
	svc.cache = cache
	return svc
}

// newTestServicesWithCache は任意の StreakCache で組み立てる (cache フィールドは空のまま)
func newTestServicesWithCache(t *testing.T, db *gorm.DB, today time.Time, cache StreakCache) *testServices {
	t.Helper()
	cfg := testConfig()
	clock := &fixedClock{today: today}

	userRepo := repository.NewGormUserRepository()
	progressRepo := repository.NewGormProgressRepository()
	dailyRepo := repository.NewGormDailyLogRepository()
	streakRepo := repository.NewGormStreakRepository()
	auditRepo := repository.NewGormOverrideAuditRepository()

	store := NewProgressStore(progressRepo, clock)
	streaks := NewStreakTracker(streakRepo)
	progress := NewProgressService(db, cfg, userRepo, progressRepo, dailyRepo, store, streaks, cache, clock)

	return &testServices{
		clock:      clock,
		submission: NewSubmissionService(db, cfg.App.MaxTxRetries, userRepo, dailyRepo, store, streaks, cache, clock),
		progress:   progress,
		admin:      NewAdminService(db, cfg.App.MaxTxRetries, userRepo, auditRepo, store),
		export:     NewExportService(progress),
		auth:       NewAuthService(db, userRepo, progressRepo, streakRepo, cfg),
	}
}
