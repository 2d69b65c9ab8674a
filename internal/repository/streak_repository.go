//go:generate mockery --name StreakRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"study_tracker/internal/middleware"
	"study_tracker/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StreakRepository interface {
	Create(ctx context.Context, tx *gorm.DB, streak *model.Streak) error
	Find(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*model.Streak, error)
	FindForUpdate(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*model.Streak, error)
	Save(ctx context.Context, tx *gorm.DB, streak *model.Streak) error
	// ListByLastActivity は最終記録日が date のストリーク (リマインダー対象)
	ListByLastActivity(ctx context.Context, db *gorm.DB, date time.Time) ([]*model.Streak, error)
}

type gormStreakRepository struct{}

func NewGormStreakRepository() StreakRepository {
	return &gormStreakRepository{}
}

func (r *gormStreakRepository) Create(ctx context.Context, tx *gorm.DB, streak *model.Streak) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(streak)
	if result.Error != nil {
		logger.Error("Error creating streak in DB", "error", result.Error, "user_id", streak.UserID.String())
		return fmt.Errorf("gormStreakRepository.Create: %w", classifyDBError(result.Error))
	}
	return nil
}

func (r *gormStreakRepository) Find(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*model.Streak, error) {
	return r.find(ctx, db.WithContext(ctx), "Find", userID)
}

func (r *gormStreakRepository) FindForUpdate(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*model.Streak, error) {
	return r.find(ctx, tx.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), "FindForUpdate", userID)
}

func (r *gormStreakRepository) find(ctx context.Context, q *gorm.DB, op string, userID uuid.UUID) (*model.Streak, error) {
	logger := middleware.GetLogger(ctx)
	var streak model.Streak
	result := q.Where("user_id = ?", userID).First(&streak)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding streak in DB", "error", result.Error, "user_id", userID.String())
		return nil, fmt.Errorf("gormStreakRepository.%s: %w", op, classifyDBError(result.Error))
	}
	return &streak, nil
}

func (r *gormStreakRepository) Save(ctx context.Context, tx *gorm.DB, streak *model.Streak) error {
	logger := middleware.GetLogger(ctx)
	if err := tx.WithContext(ctx).Save(streak).Error; err != nil {
		logger.Error("Error saving streak in DB", "error", err, "user_id", streak.UserID.String())
		return fmt.Errorf("gormStreakRepository.Save: %w", classifyDBError(err))
	}
	return nil
}

func (r *gormStreakRepository) ListByLastActivity(ctx context.Context, db *gorm.DB, date time.Time) ([]*model.Streak, error) {
	logger := middleware.GetLogger(ctx)
	var streaks []*model.Streak
	result := db.WithContext(ctx).
		Where("last_activity_date = ? AND streak_count > 0", model.DateOnly(date)).
		Order("id ASC").
		Find(&streaks)
	if result.Error != nil {
		logger.Error("Error listing streaks by last activity in DB", "error", result.Error)
		return nil, fmt.Errorf("gormStreakRepository.ListByLastActivity: %w", classifyDBError(result.Error))
	}
	return streaks, nil
}
