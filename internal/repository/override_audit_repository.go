//go:generate mockery --name OverrideAuditRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"fmt"

	"study_tracker/internal/middleware"
	"study_tracker/internal/model"

	"gorm.io/gorm"
)

type OverrideAuditRepository interface {
	Create(ctx context.Context, tx *gorm.DB, audit *model.OverrideAudit) error
}

type gormOverrideAuditRepository struct{}

func NewGormOverrideAuditRepository() OverrideAuditRepository {
	return &gormOverrideAuditRepository{}
}

func (r *gormOverrideAuditRepository) Create(ctx context.Context, tx *gorm.DB, audit *model.OverrideAudit) error {
	logger := middleware.GetLogger(ctx)
	if err := tx.WithContext(ctx).Create(audit).Error; err != nil {
		logger.Error("Error creating override audit in DB",
			"error", err,
			"user_id", audit.UserID.String(),
			"class_level", int(audit.ClassLevel),
		)
		return fmt.Errorf("gormOverrideAuditRepository.Create: %w", classifyDBError(err))
	}
	return nil
}
