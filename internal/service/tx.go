package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"study_tracker/internal/middleware"
	"study_tracker/internal/model"

	"gorm.io/gorm"
)

const retryBackoff = 20 * time.Millisecond

// txRunner はトランザクションを実行し、衝突 (ErrConflict) のときだけやり直す
type txRunner struct {
	db         *gorm.DB
	maxRetries int
}

func newTxRunner(db *gorm.DB, maxRetries int) txRunner {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return txRunner{db: db, maxRetries: maxRetries}
}

// run は fn を1つのトランザクションで実行する。fn は tx 以外のDBハンドルを使ってはいけない。
// 衝突が maxRetries 回続いたら STORAGE_UNAVAILABLE を返す。
func (r txRunner) run(ctx context.Context, op string, fn func(tx *gorm.DB) error) error {
	logger := middleware.GetLogger(ctx)
	var err error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		if attempt > 0 {
			logger.Warn("Retrying transaction after conflict", "op", op, "attempt", attempt, "error", err)
			select {
			case <-ctx.Done():
				return model.NewAppError("STORAGE_UNAVAILABLE", "処理がキャンセルされました。", "", fmt.Errorf("%w: %w", model.ErrStorageUnavailable, ctx.Err()))
			case <-time.After(time.Duration(attempt) * retryBackoff):
			}
		}
		err = r.db.WithContext(ctx).Transaction(fn)
		if err == nil {
			return nil
		}
		if !errors.Is(err, model.ErrConflict) {
			return toAppError(err)
		}
	}
	logger.Error("Transaction retries exhausted", "op", op, "retries", r.maxRetries, "error", err)
	return model.NewAppError("STORAGE_UNAVAILABLE", "同時更新が続いたため保存できませんでした。時間をおいて再度お試しください。", "", fmt.Errorf("%w: %v", model.ErrStorageUnavailable, err))
}

// toAppError はリポジトリのエラーを AppError にそろえる
func toAppError(err error) error {
	var appErr *model.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	switch {
	case errors.Is(err, model.ErrNotFound):
		return model.NewAppError("NOT_FOUND", "対象のデータが見つかりません。", "", err)
	case errors.Is(err, model.ErrInvalidInput):
		return model.NewAppError("INVALID_INPUT", "入力値が範囲外です。", "", err)
	case errors.Is(err, model.ErrStorageUnavailable):
		return model.NewAppError("STORAGE_UNAVAILABLE", "データベースに接続できません。", "", err)
	case errors.Is(err, model.ErrConflict):
		return model.NewAppError("CONFLICT", "同時更新が発生しました。", "", err)
	default:
		return model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部でエラーが発生しました。", "", err)
	}
}
