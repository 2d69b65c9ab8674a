// internal/model/progress.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// SubjectProgress は (ユーザー, 科目, 種類) ごとの完了数。0 <= Completed <= Total
type SubjectProgress struct {
	ID          uint         `gorm:"primaryKey" json:"-"`
	UserID      uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:uq_progress_user_subject_type" json:"-"`
	Subject     string       `gorm:"type:varchar(32);not null;uniqueIndex:uq_progress_user_subject_type" json:"subject"`
	Type        ProgressType `gorm:"type:varchar(16);not null;uniqueIndex:uq_progress_user_subject_type" json:"type"`
	Completed   int          `gorm:"not null;default:0" json:"completed"`
	Total       int          `gorm:"not null" json:"total"`
	LastUpdated time.Time    `gorm:"not null" json:"last_updated"`
}

func (SubjectProgress) TableName() string {
	return "progress"
}

// SeedProgress はユーザー作成時に投入する進捗行 (全科目 + 集計行 × 2種類)
func SeedProgress(userID uuid.UUID, now time.Time) []*SubjectProgress {
	rows := make([]*SubjectProgress, 0, 16)
	for _, level := range ClassLevels {
		catalog, _ := CatalogFor(level)
		for _, subject := range catalog.Members() {
			for _, typ := range ProgressTypes {
				rows = append(rows, &SubjectProgress{
					UserID:      userID,
					Subject:     subject,
					Type:        typ,
					Completed:   0,
					Total:       DefaultTotal(subject, typ),
					LastUpdated: now,
				})
			}
		}
	}
	return rows
}

// ProgressEntry はレスポンス用の進捗 (percentage は派生値)
type ProgressEntry struct {
	Completed  int `json:"completed"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// ProgressSnapshot は GET /progress のレスポンス
type ProgressSnapshot struct {
	Progress map[string]ProgressEntry `json:"progress"`
	// Derived は構成科目の合計から再計算した学年集計 ("class12-lectures" など)
	Derived map[string]ProgressEntry `json:"derived"`
}

// MaxProgressChange は手動補正1回の変化量の上限 (絶対値)。タグと揃える
const MaxProgressChange = 1000

// AdjustProgressRequest は手動補正 (PATCH /progress/{key}) のリクエスト
type AdjustProgressRequest struct {
	Change *int `json:"change" validate:"required,gte=-1000,lte=1000"`
}

// AdjustProgressResponse は手動補正の結果
type AdjustProgressResponse struct {
	Key string `json:"key"`
	ProgressEntry
	Streak int `json:"streak"`
}
