//go:generate mockery --name ProgressRepository --output ./mocks --outpkg mocks --case=underscore
// internal/repository/progress_repository.go
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

type ProgressRepository interface {
	CreateBatch(ctx context.Context, tx *gorm.DB, rows []*model.SubjectProgress) error
	Find(ctx context.Context, db *gorm.DB, userID uuid.UUID, subject string, typ model.ProgressType) (*model.SubjectProgress, error)
	// FindForUpdate は行ロック (SELECT ... FOR UPDATE) を取って読む。tx 内で使うこと
	FindForUpdate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, subject string, typ model.ProgressType) (*model.SubjectProgress, error)
	UpdateCompleted(ctx context.Context, tx *gorm.DB, id uint, completed int, at time.Time) error
	ListByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]*model.SubjectProgress, error)
}

type gormProgressRepository struct{}

func NewGormProgressRepository() ProgressRepository {
	return &gormProgressRepository{}
}

func (r *gormProgressRepository) CreateBatch(ctx context.Context, tx *gorm.DB, rows []*model.SubjectProgress) error {
	logger := middleware.GetLogger(ctx)
	if len(rows) == 0 {
		return nil
	}
	// 既にある行はそのまま (シードの再実行を冪等にする)
	result := tx.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&rows)
	if result.Error != nil {
		logger.Error("Error seeding progress rows in DB", "error", result.Error, "user_id", rows[0].UserID.String())
		return fmt.Errorf("gormProgressRepository.CreateBatch: %w", classifyDBError(result.Error))
	}
	return nil
}

func (r *gormProgressRepository) Find(ctx context.Context, db *gorm.DB, userID uuid.UUID, subject string, typ model.ProgressType) (*model.SubjectProgress, error) {
	return r.find(ctx, db.WithContext(ctx), "Find", userID, subject, typ)
}

func (r *gormProgressRepository) FindForUpdate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, subject string, typ model.ProgressType) (*model.SubjectProgress, error) {
	// SQLite ドライバは FOR UPDATE を出力しない (接続1本で直列化される)
	return r.find(ctx, tx.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), "FindForUpdate", userID, subject, typ)
}

func (r *gormProgressRepository) find(ctx context.Context, q *gorm.DB, op string, userID uuid.UUID, subject string, typ model.ProgressType) (*model.SubjectProgress, error) {
	logger := middleware.GetLogger(ctx)
	var row model.SubjectProgress
	result := q.Where("user_id = ? AND subject = ? AND type = ?", userID, subject, typ).First(&row)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding progress row in DB",
			"error", result.Error,
			"user_id", userID.String(),
			"subject", subject,
			"type", string(typ),
		)
		return nil, fmt.Errorf("gormProgressRepository.%s: %w", op, classifyDBError(result.Error))
	}
	return &row, nil
}

func (r *gormProgressRepository) UpdateCompleted(ctx context.Context, tx *gorm.DB, id uint, completed int, at time.Time) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Model(&model.SubjectProgress{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"completed":    completed,
			"last_updated": at,
		})
	if result.Error != nil {
		logger.Error("Error updating progress row in DB", "error", result.Error, "id", id)
		return fmt.Errorf("gormProgressRepository.UpdateCompleted: %w", classifyDBError(result.Error))
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormProgressRepository) ListByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]*model.SubjectProgress, error) {
	logger := middleware.GetLogger(ctx)
	var rows []*model.SubjectProgress
	result := db.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&rows)
	if result.Error != nil {
		logger.Error("Error listing progress rows in DB", "error", result.Error, "user_id", userID.String())
		return nil, fmt.Errorf("gormProgressRepository.ListByUser: %w", classifyDBError(result.Error))
	}
	return rows, nil
}
