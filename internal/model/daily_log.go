// internal/model/daily_log.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// DailyLog は (ユーザー, 学年, 日付) ごとの提出合計。同日の再提出は加算される
type DailyLog struct {
	ID         uint       `gorm:"primaryKey"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_daily_user_class_date"`
	ClassLevel ClassLevel `gorm:"not null;uniqueIndex:uq_daily_user_class_date"`
	LogDate    time.Time  `gorm:"type:date;not null;uniqueIndex:uq_daily_user_class_date"`
	Lectures   int        `gorm:"not null;default:0"`
	DPP        int        `gorm:"column:dpp;not null;default:0"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (DailyLog) TableName() string {
	return "daily_progress"
}

// MaxDailyCount は1回の提出で受け付ける講義数/DPP数の上限。タグの lte と揃える
const MaxDailyCount = 1000

// SubmitDailyRequest は POST /progress/daily のリクエストボディ
type SubmitDailyRequest struct {
	ClassLevel int  `json:"class_level" validate:"required,oneof=11 12"`
	Lectures   *int `json:"lectures" validate:"required,gte=0,lte=1000"`
	DPP        *int `json:"dpp" validate:"required,gte=0,lte=1000"`
}

// SubmissionInput はサービス層に渡す1日分の提出
type SubmissionInput struct {
	ClassLevel ClassLevel
	Lectures   int
	DPP        int
	Today      time.Time
}

// DailyLogResponse は日次ログのレスポンス表現
type DailyLogResponse struct {
	Date       string     `json:"date"`
	ClassLevel ClassLevel `json:"class_level"`
	Lectures   int        `json:"lectures"`
	DPP        int        `json:"dpp"`
}

func NewDailyLogResponse(l *DailyLog) DailyLogResponse {
	return DailyLogResponse{
		Date:       DateOnly(l.LogDate).Format(DateLayout),
		ClassLevel: l.ClassLevel,
		Lectures:   l.Lectures,
		DPP:        l.DPP,
	}
}

// SubmissionResult は提出結果
type SubmissionResult struct {
	Streak   int                      `json:"streak"`
	DailyLog DailyLogResponse         `json:"daily_log"`
	Progress map[string]ProgressEntry `json:"progress"`
}

// HistoryQuery は日次履歴の検索条件。ClassLevel が nil なら両学年
type HistoryQuery struct {
	ClassLevel *ClassLevel
	From       time.Time
	To         time.Time
}

type HistoryResponse struct {
	From string             `json:"from"`
	To   string             `json:"to"`
	Logs []DailyLogResponse `json:"logs"`
}
