// internal/service/progress_service.go
package service

import (
	"context"
	"errors"
	"fmt"

	"study_tracker/internal/config"
	"study_tracker/internal/middleware"
	"study_tracker/internal/model"
	"study_tracker/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProgressService は進捗の参照と手動補正
type ProgressService interface {
	GetSnapshot(ctx context.Context, userID uuid.UUID) (*model.ProgressSnapshot, error)
	AdjustProgress(ctx context.Context, userID uuid.UUID, key string, change int) (*model.AdjustProgressResponse, error)
	GetHistory(ctx context.Context, userID uuid.UUID, q model.HistoryQuery) (*model.HistoryResponse, error)
	GetStreak(ctx context.Context, userID uuid.UUID) (int, error)
	Countdown(ctx context.Context) (*model.CountdownResponse, error)
}

type progressService struct {
	db           *gorm.DB
	tx           txRunner
	userRepo     repository.UserRepository
	progressRepo repository.ProgressRepository
	dailyRepo    repository.DailyLogRepository
	store        *ProgressStore
	streaks      *StreakTracker
	cache        StreakCache
	clock        Clock
	cfg          *config.Config
}

func NewProgressService(
	db *gorm.DB,
	cfg *config.Config,
	userRepo repository.UserRepository,
	progressRepo repository.ProgressRepository,
	dailyRepo repository.DailyLogRepository,
	store *ProgressStore,
	streaks *StreakTracker,
	cache StreakCache,
	clock Clock,
) ProgressService {
	return &progressService{
		db:           db,
		tx:           newTxRunner(db, cfg.App.MaxTxRetries),
		userRepo:     userRepo,
		progressRepo: progressRepo,
		dailyRepo:    dailyRepo,
		store:        store,
		streaks:      streaks,
		cache:        cache,
		clock:        clock,
		cfg:          cfg,
	}
}

// GetSnapshot は全進捗行と、構成科目から再計算した学年集計を返す
func (s *progressService) GetSnapshot(ctx context.Context, userID uuid.UUID) (*model.ProgressSnapshot, error) {
	logger := middleware.GetLogger(ctx)
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	rows, err := s.progressRepo.ListByUser(ctx, s.db, userID)
	if err != nil {
		logger.Error("Failed to list progress", "error", err, "user_id", userID.String())
		return nil, toAppError(err)
	}

	snapshot := &model.ProgressSnapshot{
		Progress: make(map[string]model.ProgressEntry, len(rows)),
		Derived:  make(map[string]model.ProgressEntry),
	}
	byKey := make(map[string]*model.SubjectProgress, len(rows))
	for _, row := range rows {
		key := model.ProgressKey(row.Subject, row.Type)
		byKey[key] = row
		snapshot.Progress[key] = newProgressEntry(row)
	}

	for _, level := range model.ClassLevels {
		catalog, _ := model.CatalogFor(level)
		for _, typ := range model.ProgressTypes {
			var completed, total int
			for _, subject := range catalog.Subjects {
				if row, ok := byKey[model.ProgressKey(subject, typ)]; ok {
					completed += row.Completed
					total += row.Total
				}
			}
			snapshot.Derived[model.ProgressKey(catalog.Aggregate, typ)] = model.ProgressEntry{
				Completed:  completed,
				Total:      total,
				Percentage: Percentage(completed, total),
			}
		}
	}
	return snapshot, nil
}

// AdjustProgress は1行だけを増減する。増やした場合は今日の活動として記録する
func (s *progressService) AdjustProgress(ctx context.Context, userID uuid.UUID, key string, change int) (*model.AdjustProgressResponse, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID.String(), "key", key)

	subject, typ, ok := model.ParseProgressKey(key)
	if !ok || !model.IsKnownSubject(subject) {
		logger.Warn("Adjust rejected: unknown progress key")
		return nil, model.NewAppError("INVALID_PROGRESS_KEY", "進捗キーが不正です。", "key", model.ErrInvalidInput)
	}
	if change > model.MaxProgressChange || change < -model.MaxProgressChange {
		logger.Warn("Adjust rejected: change out of range", "change", change)
		return nil, model.NewAppError("INVALID_CHANGE", fmt.Sprintf("変化量は±%dの範囲で指定してください。", model.MaxProgressChange), "change", model.ErrInvalidInput)
	}
	today := s.clock.Today()

	var resp *model.AdjustProgressResponse
	err := s.tx.run(ctx, "AdjustProgress", func(tx *gorm.DB) error {
		row, err := s.store.Increment(ctx, tx, userID, subject, typ, change)
		if err != nil {
			return err
		}
		var streak int
		if change > 0 {
			streak, err = s.streaks.RecordActivity(ctx, tx, userID, today)
		} else {
			streak, err = s.streaks.Peek(ctx, tx, userID)
		}
		if err != nil {
			return err
		}
		resp = &model.AdjustProgressResponse{
			Key:           key,
			ProgressEntry: newProgressEntry(row),
			Streak:        streak,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	refreshStreakCache(ctx, s.cache, userID, resp.Streak)
	logger.Info("Progress adjusted", "change", change, "completed", resp.Completed)
	return resp, nil
}

// GetHistory は期間内の日次ログを日付順で返す。期間未指定なら今月
func (s *progressService) GetHistory(ctx context.Context, userID uuid.UUID, q model.HistoryQuery) (*model.HistoryResponse, error) {
	logger := middleware.GetLogger(ctx)
	if q.ClassLevel != nil {
		if _, ok := model.CatalogFor(*q.ClassLevel); !ok {
			return nil, model.NewAppError("INVALID_CLASS_LEVEL", "学年は11または12を指定してください。", "class_level", model.ErrInvalidInput)
		}
	}
	first, last := model.MonthRange(s.clock.Today())
	if q.From.IsZero() {
		q.From = first
	}
	if q.To.IsZero() {
		q.To = last
	}
	if q.To.Before(q.From) {
		return nil, model.NewAppError("INVALID_DATE_RANGE", "終了日は開始日以降を指定してください。", "to", model.ErrInvalidInput)
	}
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}

	logs, err := s.dailyRepo.ListRange(ctx, s.db, userID, q.ClassLevel, q.From, q.To)
	if err != nil {
		logger.Error("Failed to list daily logs", "error", err, "user_id", userID.String())
		return nil, toAppError(err)
	}
	resp := &model.HistoryResponse{
		From: model.DateOnly(q.From).Format(model.DateLayout),
		To:   model.DateOnly(q.To).Format(model.DateLayout),
		Logs: make([]model.DailyLogResponse, 0, len(logs)),
	}
	for _, l := range logs {
		resp.Logs = append(resp.Logs, model.NewDailyLogResponse(l))
	}
	return resp, nil
}

// GetStreak はキャッシュ経由でストリーク数を返す
func (s *progressService) GetStreak(ctx context.Context, userID uuid.UUID) (int, error) {
	logger := middleware.GetLogger(ctx)
	if s.cache != nil {
		count, ok, err := s.cache.Get(ctx, userID)
		if err != nil {
			logger.Warn("Streak cache read failed, falling back to DB", "error", err)
		} else if ok {
			return count, nil
		}
	}
	count, err := s.streaks.Peek(ctx, s.db, userID)
	if err != nil {
		logger.Error("Failed to read streak", "error", err, "user_id", userID.String())
		return 0, toAppError(err)
	}
	fillStreakCache(ctx, s.cache, userID, count)
	return count, nil
}

// Countdown は app.target_date までの日数 (過ぎたら負)
func (s *progressService) Countdown(ctx context.Context) (*model.CountdownResponse, error) {
	target, err := model.ParseDate(s.cfg.App.TargetDate)
	if err != nil {
		middleware.GetLogger(ctx).Error("Invalid app.target_date", "error", err, "target_date", s.cfg.App.TargetDate)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "目標日の設定が不正です。", "", err)
	}
	return &model.CountdownResponse{
		TargetDate: target.Format(model.DateLayout),
		DaysLeft:   model.DaysBetween(s.clock.Today(), target),
	}, nil
}

func (s *progressService) ensureUser(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.userRepo.FindByID(ctx, s.db, userID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.NewAppError("USER_NOT_FOUND", "ユーザーが見つかりません。", "", model.ErrNotFound)
		}
		return toAppError(err)
	}
	return nil
}
