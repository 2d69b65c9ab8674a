// postgres_integration_test.go
package handlers_test

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"study_tracker/internal/config"
	"study_tracker/internal/handlers"
	"study_tracker/internal/model"
	"study_tracker/internal/repository"
	"study_tracker/internal/service"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// startPostgres は使い捨ての PostgreSQL コンテナを起動し、マイグレーション済みの接続を返す。
// Docker が使えない環境ではスキップする。
func startPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	if testing.Short() || os.Getenv("SKIP_DOCKER_TESTS") == "1" {
		t.Skip("docker integration tests disabled")
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("Could not construct pool: %s", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("Docker is not available: %s", err)
	}
	pool.MaxWait = 120 * time.Second

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "15-alpine",
		Env: []string{
			"POSTGRES_USER=user",
			"POSTGRES_PASSWORD=secret",
			"POSTGRES_DB=study_tracker",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err, "Could not start PostgreSQL resource")
	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			testLogger.Warn("Could not purge PostgreSQL resource", slog.Any("error", err))
		}
	})
	_ = resource.Expire(300)

	connectionURL := fmt.Sprintf("postgres://user:secret@%s/study_tracker?sslmode=disable", resource.GetHostPort("5432/tcp"))
	dbCfg := config.DatabaseConfig{Driver: "postgres", URL: connectionURL, MaxOpenConns: 10, MaxIdleConns: 5}

	var db *gorm.DB
	err = pool.Retry(func() error {
		var errRetry error
		db, errRetry = repository.NewDB(dbCfg, testLogger)
		if errRetry != nil {
			testLogger.Debug("Retry: DB connection attempt failed.", slog.Any("error", errRetry))
		}
		return errRetry
	})
	require.NoError(t, err, "Could not connect to PostgreSQL container after retries")
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	require.NoError(t, repository.Migrate(db, testLogger), "Could not migrate database")
	return db
}

// 同じユーザーへの同時提出が取りこぼされないこと (行ロック + upsert)
func TestPostgres_ConcurrentSubmissions(t *testing.T) {
	db := startPostgres(t)

	cfg := &config.Config{
		App:  config.AppConfig{Name: "StudyTrackerIT", Timezone: "UTC", TargetDate: "2025-12-31", MaxTxRetries: 5},
		Auth: config.AuthConfig{Enabled: false},
	}
	clock := fixedClock{today: testToday}

	userRepo := repository.NewGormUserRepository()
	progressRepo := repository.NewGormProgressRepository()
	dailyRepo := repository.NewGormDailyLogRepository()
	streakRepo := repository.NewGormStreakRepository()

	store := service.NewProgressStore(progressRepo, clock)
	streaks := service.NewStreakTracker(streakRepo)
	progressService := service.NewProgressService(db, cfg, userRepo, progressRepo, dailyRepo, store, streaks, nil, clock)
	submissionService := service.NewSubmissionService(db, cfg.App.MaxTxRetries, userRepo, dailyRepo, store, streaks, nil, clock)
	authService := service.NewAuthService(db, userRepo, progressRepo, streakRepo, cfg)

	router := handlers.NewRouter(cfg, testLogger, handlers.Handlers{
		Auth:     handlers.NewAuthHandler(authService),
		Progress: handlers.NewProgressHandler(progressService, submissionService, service.NewExportService(progressService)),
		Admin:    handlers.NewAdminHandler(service.NewAdminService(db, cfg.App.MaxTxRetries, userRepo, repository.NewGormOverrideAuditRepository(), store)),
		Health:   handlers.NewHealthHandler(db, nil),
	})
	server := httptest.NewServer(router)
	defer server.Close()

	user, err := authService.ProvisionUser(context.Background(), "concurrent", "pw", nil)
	require.NoError(t, err)
	headers := devHeaders(user.UserID)

	const n = 40
	codes := make([]int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req, _ := http.NewRequest(http.MethodPost, server.URL+"/api/v1/progress/daily",
				strings.NewReader(`{"class_level":12,"lectures":1,"dpp":1}`))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("X-User-ID", user.UserID.String())
			resp, err := server.Client().Do(req)
			if err != nil {
				return
			}
			resp.Body.Close()
			codes[i] = resp.StatusCode
		}(i)
	}
	wg.Wait()
	for i, code := range codes {
		assert.Equal(t, http.StatusOK, code, "request %d", i)
	}

	_, body := sendRequest(t, server, httpRequestDetails{
		Method: http.MethodGet, Path: "/api/v1/progress", Headers: headers,
	}, httpResponseExpectations{ExpectedCode: http.StatusOK})
	var snapshot model.ProgressSnapshot
	decodeSuccess(t, body, &snapshot)

	// 科目は上限で止まり、集計行は上限までの合計
	assert.Equal(t, 30, snapshot.Progress["physics-lectures"].Completed)
	assert.Equal(t, 20, snapshot.Progress["maths-dpp"].Completed)
	assert.Equal(t, 40, snapshot.Progress["class12-lectures"].Completed)
	assert.Equal(t, 40, snapshot.Progress["class12-dpp"].Completed, "集計行のdppは上限60の手前")

	_, body = sendRequest(t, server, httpRequestDetails{
		Method: http.MethodGet, Path: "/api/v1/progress/daily?class_level=12", Headers: headers,
	}, httpResponseExpectations{ExpectedCode: http.StatusOK})
	var history model.HistoryResponse
	decodeSuccess(t, body, &history)
	require.Len(t, history.Logs, 1)
	assert.Equal(t, n, history.Logs[0].Lectures)
	assert.Equal(t, n, history.Logs[0].DPP)

	_, body = sendRequest(t, server, httpRequestDetails{
		Method: http.MethodGet, Path: "/api/v1/streak", Headers: headers,
	}, httpResponseExpectations{ExpectedCode: http.StatusOK})
	var streak model.StreakResponse
	decodeSuccess(t, body, &streak)
	assert.Equal(t, 1, streak.Streak)
}
