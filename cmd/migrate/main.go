// cmd/migrate/main.go
//
// スキーマの適用と初期ユーザーの投入だけを行うコマンド。
//
//	go run ./cmd/migrate -config configs -seed
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"study_tracker/internal/config"
	"study_tracker/internal/logging"
	"study_tracker/internal/repository"
	"study_tracker/internal/service"
)

func main() {
	configDir := flag.String("config", "configs", "directory containing config.yaml")
	seed := flag.Bool("seed", false, "provision the seed user from config (seed.username / seed.password)")
	flag.Parse()

	if err := config.LoadConfig(*configDir); err != nil {
		slog.Error("Error loading configuration", slog.Any("error", err))
		os.Exit(1)
	}
	cfg := &config.Cfg
	logger := logging.New(os.Stderr, cfg.Log.Level, os.Getenv("APP_ENV"))
	slog.SetDefault(logger)

	start := time.Now()
	db, err := repository.NewDB(cfg.Database, logger)
	if err != nil {
		slog.Error("Error initializing database", slog.Any("error", err))
		os.Exit(1)
	}
	sqlDB, _ := db.DB()
	defer sqlDB.Close()

	if err := repository.Migrate(db, logger); err != nil {
		slog.Error("Migration failed", slog.Any("error", err))
		os.Exit(1)
	}
	slog.Info("Migration completed", slog.String("driver", cfg.Database.Driver), slog.Duration("elapsed", time.Since(start)))

	if !*seed {
		return
	}
	if cfg.Seed.Username == "" {
		slog.Error("seed.username is not configured")
		os.Exit(1)
	}
	var email *string
	if cfg.Seed.Email != "" {
		email = &cfg.Seed.Email
	}
	auth := service.NewAuthService(db,
		repository.NewGormUserRepository(),
		repository.NewGormProgressRepository(),
		repository.NewGormStreakRepository(),
		cfg)
	user, err := auth.ProvisionUser(context.Background(), cfg.Seed.Username, cfg.Seed.Password, email)
	if err != nil {
		slog.Error("Seeding failed", slog.Any("error", err))
		os.Exit(1)
	}
	slog.Info("Seed user ready", slog.String("username", user.Username), slog.String("user_id", user.UserID.String()))
}
