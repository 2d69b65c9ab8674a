//go:generate mockery --name DailyLogRepository --output ./mocks --outpkg mocks --case=underscore
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

type DailyLogRepository interface {
	// Merge は (user, class, date) の行に lectures/dpp を加算する。行が無ければ作る。
	// 加算は1文の UPSERT で行うので同時提出でも失われない。
	Merge(ctx context.Context, tx *gorm.DB, userID uuid.UUID, class model.ClassLevel, date time.Time, lectures, dpp int) (*model.DailyLog, error)
	Find(ctx context.Context, db *gorm.DB, userID uuid.UUID, class model.ClassLevel, date time.Time) (*model.DailyLog, error)
	ListRange(ctx context.Context, db *gorm.DB, userID uuid.UUID, class *model.ClassLevel, from, to time.Time) ([]*model.DailyLog, error)
}

type gormDailyLogRepository struct{}

func NewGormDailyLogRepository() DailyLogRepository {
	return &gormDailyLogRepository{}
}

func (r *gormDailyLogRepository) Merge(ctx context.Context, tx *gorm.DB, userID uuid.UUID, class model.ClassLevel, date time.Time, lectures, dpp int) (*model.DailyLog, error) {
	logger := middleware.GetLogger(ctx)
	date = model.DateOnly(date)
	row := &model.DailyLog{
		UserID:     userID,
		ClassLevel: class,
		LogDate:    date,
		Lectures:   lectures,
		DPP:        dpp,
	}
	result := tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "class_level"}, {Name: "log_date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"lectures":   gorm.Expr("daily_progress.lectures + ?", lectures),
			"dpp":        gorm.Expr("daily_progress.dpp + ?", dpp),
			"updated_at": time.Now(),
		}),
	}).Create(row)
	if result.Error != nil {
		logger.Error("Error merging daily log in DB",
			"error", result.Error,
			"user_id", userID.String(),
			"class_level", int(class),
			"date", date.Format(model.DateLayout),
		)
		return nil, fmt.Errorf("gormDailyLogRepository.Merge: %w", classifyDBError(result.Error))
	}
	// 競合時は row の値が加算後になっていないので読み直す
	merged, err := r.Find(ctx, tx, userID, class, date)
	if err != nil {
		return nil, fmt.Errorf("gormDailyLogRepository.Merge: %w", err)
	}
	return merged, nil
}

func (r *gormDailyLogRepository) Find(ctx context.Context, db *gorm.DB, userID uuid.UUID, class model.ClassLevel, date time.Time) (*model.DailyLog, error) {
	logger := middleware.GetLogger(ctx)
	var row model.DailyLog
	result := db.WithContext(ctx).
		Where("user_id = ? AND class_level = ? AND log_date = ?", userID, class, model.DateOnly(date)).
		First(&row)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding daily log in DB", "error", result.Error, "user_id", userID.String())
		return nil, fmt.Errorf("gormDailyLogRepository.Find: %w", classifyDBError(result.Error))
	}
	return &row, nil
}

func (r *gormDailyLogRepository) ListRange(ctx context.Context, db *gorm.DB, userID uuid.UUID, class *model.ClassLevel, from, to time.Time) ([]*model.DailyLog, error) {
	logger := middleware.GetLogger(ctx)
	var rows []*model.DailyLog
	q := db.WithContext(ctx).
		Where("user_id = ? AND log_date >= ? AND log_date <= ?", userID, model.DateOnly(from), model.DateOnly(to))
	if class != nil {
		q = q.Where("class_level = ?", *class)
	}
	result := q.Order("log_date ASC, class_level ASC").Find(&rows)
	if result.Error != nil {
		logger.Error("Error listing daily logs in DB", "error", result.Error, "user_id", userID.String())
		return nil, fmt.Errorf("gormDailyLogRepository.ListRange: %w", classifyDBError(result.Error))
	}
	return rows, nil
}
