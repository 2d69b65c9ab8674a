package model

import (
	"time"

	"github.com/google/uuid"
)

// Streak は連続学習日数。LastActivityDate が nil の場合は「まだ一度も記録がない」
type Streak struct {
	ID               uint       `gorm:"primaryKey"`
	UserID           uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	StreakCount      int        `gorm:"not null;default:0"`
	LastActivityDate *time.Time `gorm:"type:date"`
	UpdatedAt        time.Time
}

func (Streak) TableName() string {
	return "streaks"
}

type StreakResponse struct {
	Streak int `json:"streak"`
}

type CountdownResponse struct {
	TargetDate string `json:"target_date"`
	DaysLeft   int    `json:"days_left"`
}
