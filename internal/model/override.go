package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// OverrideAudit は管理者による絶対値上書きの記録
type OverrideAudit struct {
	ID         uint              `gorm:"primaryKey"`
	UserID     uuid.UUID         `gorm:"type:uuid;not null;index"`
	ClassLevel ClassLevel        `gorm:"not null"`
	Applied    datatypes.JSONMap `gorm:"not null"`
	Skipped    datatypes.JSONMap `gorm:"not null"`
	CreatedAt  time.Time
}

func (OverrideAudit) TableName() string {
	return "override_audits"
}

// AdminUpdateRequest は /admin/update_11th, /admin/update_12th のリクエスト
type AdminUpdateRequest struct {
	Updates map[string]int `json:"updates" validate:"required"`
}

// OverrideResult は上書き結果。Applied は実際に保存された (クランプ後の) 値
type OverrideResult struct {
	Applied map[string]int    `json:"applied"`
	Skipped map[string]string `json:"skipped"`
}
