package service

import (
	"context"
	"errors"
	"time"

	"study_tracker/internal/model"
	"study_tracker/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StreakTracker は連続学習日数を管理する
type StreakTracker struct {
	repo repository.StreakRepository
}

func NewStreakTracker(repo repository.StreakRepository) *StreakTracker {
	return &StreakTracker{repo: repo}
}

// advanceStreak は today に活動があったときの次の状態を返す。
//   - 未記録 -> 1
//   - 同じ日 -> 変化なし
//   - 翌日 -> +1
//   - それ以外 (2日以上空いた / 日付が戻った) -> 1
func advanceStreak(count int, last *time.Time, today time.Time) int {
	if last == nil {
		return 1
	}
	switch model.DaysBetween(*last, today) {
	case 0:
		return count
	case 1:
		return count + 1
	default:
		return 1
	}
}

// RecordActivity は今日の活動を記録し、更新後の日数を返す。tx 内で呼ぶこと
func (t *StreakTracker) RecordActivity(ctx context.Context, tx *gorm.DB, userID uuid.UUID, today time.Time) (int, error) {
	today = model.DateOnly(today)
	streak, err := t.repo.FindForUpdate(ctx, tx, userID)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			return 0, err
		}
		// 行が無い場合は新規作成 (同時作成は一意制約の衝突としてリトライされる)
		streak = &model.Streak{UserID: userID}
	}
	var last *time.Time
	if streak.LastActivityDate != nil {
		d := model.DateOnly(*streak.LastActivityDate)
		last = &d
	}
	next := advanceStreak(streak.StreakCount, last, today)
	if last != nil && next == streak.StreakCount && last.Equal(today) {
		return next, nil
	}
	streak.StreakCount = next
	streak.LastActivityDate = &today
	if err := t.repo.Save(ctx, tx, streak); err != nil {
		return 0, err
	}
	return next, nil
}

// Peek は現在の日数を返す。記録が無ければ 0
func (t *StreakTracker) Peek(ctx context.Context, db *gorm.DB, userID uuid.UUID) (int, error) {
	streak, err := t.repo.Find(ctx, db, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return streak.StreakCount, nil
}
