package repository

import (
	"embed"
	"fmt"
	"log/slog"

	"study_tracker/internal/model"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate はスキーマを最新にする。
// Postgres は migrations/*.sql を golang-migrate で適用し、SQLite (テスト・ローカル用) は AutoMigrate を使う。
func Migrate(db *gorm.DB, logger *slog.Logger) error {
	if db.Dialector.Name() != "postgres" {
		if err := AutoMigrate(db); err != nil {
			return fmt.Errorf("auto migrate: %w", err)
		}
		logger.Info("Database schema auto-migrated", slog.String("dialect", db.Dialector.Name()))
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB: %w", err)
	}

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migrate driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("init migrate: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("run migrations: %w", err)
	}

	version, dirty, _ := m.Version()
	if dirty {
		logger.Warn("Database migration is dirty", slog.Uint64("version", uint64(version)))
	} else {
		logger.Info("Database migration completed", slog.Uint64("version", uint64(version)))
	}
	return nil
}

// AutoMigrate はモデル定義からテーブルを作る
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.SubjectProgress{},
		&model.DailyLog{},
		&model.Streak{},
		&model.OverrideAudit{},
	)
}
