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

// ProgressStore は進捗行の読み書き。書き込みは呼び出し側の tx 内で行う
type ProgressStore struct {
	repo  repository.ProgressRepository
	clock Clock
}

func NewProgressStore(repo repository.ProgressRepository, clock Clock) *ProgressStore {
	return &ProgressStore{repo: repo, clock: clock}
}

func (s *ProgressStore) Get(ctx context.Context, db *gorm.DB, userID uuid.UUID, subject string, typ model.ProgressType) (*model.SubjectProgress, error) {
	row, err := s.repo.Find(ctx, db, userID, subject, typ)
	if err != nil {
		return nil, progressLookupError(err, subject, typ)
	}
	return row, nil
}

// Increment は completed に delta を足し [0, total] に収める。delta == 0 なら読むだけ
func (s *ProgressStore) Increment(ctx context.Context, tx *gorm.DB, userID uuid.UUID, subject string, typ model.ProgressType, delta int) (*model.SubjectProgress, error) {
	if delta == 0 {
		return s.Get(ctx, tx, userID, subject, typ)
	}
	row, err := s.repo.FindForUpdate(ctx, tx, userID, subject, typ)
	if err != nil {
		return nil, progressLookupError(err, subject, typ)
	}
	return s.write(ctx, tx, row, addClamped(row.Completed, delta, 0, row.Total))
}

// SetAbsolute は completed を value にする (範囲外は丸める)
func (s *ProgressStore) SetAbsolute(ctx context.Context, tx *gorm.DB, userID uuid.UUID, subject string, typ model.ProgressType, value int) (*model.SubjectProgress, error) {
	row, err := s.repo.FindForUpdate(ctx, tx, userID, subject, typ)
	if err != nil {
		return nil, progressLookupError(err, subject, typ)
	}
	return s.write(ctx, tx, row, value)
}

func (s *ProgressStore) write(ctx context.Context, tx *gorm.DB, row *model.SubjectProgress, value int) (*model.SubjectProgress, error) {
	at := s.now()
	completed := clamp(value, 0, row.Total)
	if err := s.repo.UpdateCompleted(ctx, tx, row.ID, completed, at); err != nil {
		return nil, err
	}
	row.Completed = completed
	row.LastUpdated = at
	return row, nil
}

func (s *ProgressStore) now() time.Time {
	if s.clock == nil {
		return time.Now()
	}
	return s.clock.Now()
}

func progressLookupError(err error, subject string, typ model.ProgressType) error {
	if errors.Is(err, model.ErrNotFound) {
		return model.NewAppError("PROGRESS_NOT_FOUND", "進捗データが見つかりません。", model.ProgressKey(subject, typ), model.ErrNotFound)
	}
	return err
}

// Percentage は completed/total を百分率にし、0.5 は切り上げる。total が 0 なら 0
func Percentage(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return (200*completed + total) / (2 * total)
}

// addClamped は v+delta を [lo, hi] に収める。v+delta を先に計算しないのでオーバーフローしない
func addClamped(v, delta, lo, hi int) int {
	v = clamp(v, lo, hi)
	if delta > hi-v {
		return hi
	}
	if delta < lo-v {
		return lo
	}
	return v + delta
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func newProgressEntry(row *model.SubjectProgress) model.ProgressEntry {
	return model.ProgressEntry{
		Completed:  row.Completed,
		Total:      row.Total,
		Percentage: Percentage(row.Completed, row.Total),
	}
}
