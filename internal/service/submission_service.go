// internal/service/submission_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"study_tracker/internal/middleware"
	"study_tracker/internal/model"
	"study_tracker/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SubmissionService は1日分の学習量の提出を扱う
type SubmissionService interface {
	Submit(ctx context.Context, userID uuid.UUID, in model.SubmissionInput) (*model.SubmissionResult, error)
}

type submissionService struct {
	tx        txRunner
	userRepo  repository.UserRepository
	dailyRepo repository.DailyLogRepository
	store     *ProgressStore
	streaks   *StreakTracker
	cache     StreakCache
	clock     Clock
}

func NewSubmissionService(
	db *gorm.DB,
	maxRetries int,
	userRepo repository.UserRepository,
	dailyRepo repository.DailyLogRepository,
	store *ProgressStore,
	streaks *StreakTracker,
	cache StreakCache,
	clock Clock,
) SubmissionService {
	return &submissionService{
		tx:        newTxRunner(db, maxRetries),
		userRepo:  userRepo,
		dailyRepo: dailyRepo,
		store:     store,
		streaks:   streaks,
		cache:     cache,
		clock:     clock,
	}
}

// Submit は日次ログへの加算、学年の全科目と集計行への加算、ストリーク更新を1トランザクションで行う
func (s *submissionService) Submit(ctx context.Context, userID uuid.UUID, in model.SubmissionInput) (*model.SubmissionResult, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID.String(), "class_level", int(in.ClassLevel))

	catalog, ok := model.CatalogFor(in.ClassLevel)
	if !ok {
		logger.Warn("Submit rejected: unknown class level")
		return nil, model.NewAppError("INVALID_CLASS_LEVEL", "学年は11または12を指定してください。", "class_level", model.ErrInvalidInput)
	}
	if in.Lectures < 0 || in.Lectures > model.MaxDailyCount {
		return nil, model.NewAppError("INVALID_COUNT", fmt.Sprintf("講義数は0以上%d以下で指定してください。", model.MaxDailyCount), "lectures", model.ErrInvalidInput)
	}
	if in.DPP < 0 || in.DPP > model.MaxDailyCount {
		return nil, model.NewAppError("INVALID_COUNT", fmt.Sprintf("DPP数は0以上%d以下で指定してください。", model.MaxDailyCount), "dpp", model.ErrInvalidInput)
	}
	today := in.Today
	if today.IsZero() {
		today = s.clock.Today()
	}
	today = model.DateOnly(today)
	active := in.Lectures > 0 || in.DPP > 0

	var result *model.SubmissionResult
	err := s.tx.run(ctx, "Submit", func(tx *gorm.DB) error {
		if _, err := s.userRepo.FindByID(ctx, tx, userID); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("USER_NOT_FOUND", "ユーザーが見つかりません。", "", model.ErrNotFound)
			}
			return err
		}

		dailyLog, err := s.mergeDailyLog(ctx, tx, userID, in, today)
		if err != nil {
			return err
		}

		progress, err := s.applyUniformDelta(ctx, tx, userID, catalog, in.Lectures, in.DPP)
		if err != nil {
			return err
		}

		var streak int
		if active {
			streak, err = s.streaks.RecordActivity(ctx, tx, userID, today)
		} else {
			streak, err = s.streaks.Peek(ctx, tx, userID)
		}
		if err != nil {
			return err
		}

		result = &model.SubmissionResult{
			Streak:   streak,
			DailyLog: model.NewDailyLogResponse(dailyLog),
			Progress: progress,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	refreshStreakCache(ctx, s.cache, userID, result.Streak)
	logger.Info("Daily progress submitted",
		"lectures", in.Lectures,
		"dpp", in.DPP,
		"streak", result.Streak,
	)
	return result, nil
}

// mergeDailyLog は当日の行に加算する。0/0 の提出は行を作らず現在値を返す
func (s *submissionService) mergeDailyLog(ctx context.Context, tx *gorm.DB, userID uuid.UUID, in model.SubmissionInput, today time.Time) (*model.DailyLog, error) {
	if in.Lectures > 0 || in.DPP > 0 {
		return s.dailyRepo.Merge(ctx, tx, userID, in.ClassLevel, today, in.Lectures, in.DPP)
	}
	existing, err := s.dailyRepo.Find(ctx, tx, userID, in.ClassLevel, today)
	if err == nil {
		return existing, nil
	}
	if errors.Is(err, model.ErrNotFound) {
		return &model.DailyLog{UserID: userID, ClassLevel: in.ClassLevel, LogDate: today}, nil
	}
	return nil, err
}

// applyUniformDelta は学年の3科目すべてと集計行に同じ lectures/dpp を加算する。
// 提出は科目を区別しないため、各科目に同じ数が入る。集計行も同じ差分で更新するので、
// 上限で丸められた場合は構成科目の合計とずれることがある (スナップショットの derived で確認できる)。
func (s *submissionService) applyUniformDelta(ctx context.Context, tx *gorm.DB, userID uuid.UUID, catalog model.ClassCatalog, lectures, dpp int) (map[string]model.ProgressEntry, error) {
	deltas := map[model.ProgressType]int{
		model.ProgressLectures: lectures,
		model.ProgressDPP:      dpp,
	}
	progress := make(map[string]model.ProgressEntry, len(catalog.Members())*len(model.ProgressTypes))
	// ロック順を固定する (科目 -> 集計行, lectures -> dpp)
	for _, subject := range catalog.Members() {
		for _, typ := range model.ProgressTypes {
			row, err := s.store.Increment(ctx, tx, userID, subject, typ, deltas[typ])
			if err != nil {
				return nil, fmt.Errorf("increment %s: %w", model.ProgressKey(subject, typ), err)
			}
			progress[model.ProgressKey(subject, typ)] = newProgressEntry(row)
		}
	}
	return progress, nil
}
