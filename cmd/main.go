// cmd/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"study_tracker/internal/cache"
	"study_tracker/internal/config"
	"study_tracker/internal/handlers"
	"study_tracker/internal/logging"
	"study_tracker/internal/repository"
	"study_tracker/internal/scheduler"
	"study_tracker/internal/service"
)

func main() {
	configDir := flag.String("config", "configs", "directory containing config.yaml")
	flag.Parse()

	log.Println("Log Config Loading...")
	if err := config.LoadConfig(*configDir); err != nil {
		slog.Error("Error loading configuration", slog.Any("error", err))
		os.Exit(1)
	}
	cfg := &config.Cfg

	logger := logging.New(os.Stderr, cfg.Log.Level, os.Getenv("APP_ENV"))
	slog.SetDefault(logger)
	slog.Info("Application starting...", slog.String("app", cfg.App.Name), slog.String("version", config.AppVersion))

	// 1. Database
	db, err := repository.NewDB(cfg.Database, logger)
	if err != nil {
		slog.Error("Error initializing database", slog.Any("error", err))
		os.Exit(1)
	}
	sqlDB, err := db.DB()
	if err != nil {
		slog.Error("Error getting underlying sql.DB from GORM", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			slog.Error("Error closing database connection", slog.Any("error", err))
		} else {
			slog.Info("Database connection closed.")
		}
	}()

	if err := repository.Migrate(db, logger); err != nil {
		slog.Error("Error migrating database", slog.Any("error", err))
		os.Exit(1)
	}

	// 2. Streak cache (Redis が使えなければキャッシュなしで動く)
	var streakCache service.StreakCache = cache.NoopStreakCache{}
	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedisStreakCache(cfg.Redis)
		if err != nil {
			slog.Warn("Redis unavailable, streak cache disabled", slog.Any("error", err))
		} else {
			streakCache = redisCache
			defer redisCache.Close()
			slog.Info("Redis streak cache enabled", slog.String("addr", cfg.Redis.Addr))
		}
	}

	// 3. Dependency Injection
	clock := service.NewSystemClock(cfg.Location())

	userRepo := repository.NewGormUserRepository()
	progressRepo := repository.NewGormProgressRepository()
	dailyRepo := repository.NewGormDailyLogRepository()
	streakRepo := repository.NewGormStreakRepository()
	auditRepo := repository.NewGormOverrideAuditRepository()

	store := service.NewProgressStore(progressRepo, clock)
	streaks := service.NewStreakTracker(streakRepo)

	authService := service.NewAuthService(db, userRepo, progressRepo, streakRepo, cfg)
	progressService := service.NewProgressService(db, cfg, userRepo, progressRepo, dailyRepo, store, streaks, streakCache, clock)
	submissionService := service.NewSubmissionService(db, cfg.App.MaxTxRetries, userRepo, dailyRepo, store, streaks, streakCache, clock)
	adminService := service.NewAdminService(db, cfg.App.MaxTxRetries, userRepo, auditRepo, store)
	exportService := service.NewExportService(progressService)
	reminderService := service.NewReminderService(db, userRepo, streakRepo, service.NewMailer(cfg), clock, cfg.App.Name)

	if cfg.Seed.Username != "" {
		var email *string
		if cfg.Seed.Email != "" {
			email = &cfg.Seed.Email
		}
		if _, err := authService.ProvisionUser(context.Background(), cfg.Seed.Username, cfg.Seed.Password, email); err != nil {
			slog.Error("Error provisioning seed user", slog.Any("error", err))
			os.Exit(1)
		}
		slog.Info("Seed user ready", slog.String("username", cfg.Seed.Username))
	}

	// 4. Scheduler
	var jobs *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		jobs, err = scheduler.New(cfg.Scheduler.ReminderSpec, cfg.Location(), reminderService, logger)
		if err != nil {
			slog.Error("Error configuring scheduler", slog.Any("error", err))
			os.Exit(1)
		}
		jobs.Start()
	}

	// 5. Router
	router := handlers.NewRouter(cfg, logger, handlers.Handlers{
		Auth:     handlers.NewAuthHandler(authService),
		Progress: handlers.NewProgressHandler(progressService, submissionService, exportService),
		Admin:    handlers.NewAdminHandler(adminService),
		Health:   handlers.NewHealthHandler(db, streakCache),
	})

	// 6. Start Server
	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 65 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("Server listening", slog.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Could not listen on port", slog.String("port", cfg.Server.Port), slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", slog.Any("error", err))
	}
	if jobs != nil {
		jobs.Stop(ctx)
	}

	log.Println("Server exiting")
}
