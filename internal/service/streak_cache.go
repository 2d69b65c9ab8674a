package service

import (
	"context"

	"study_tracker/internal/middleware"

	"github.com/google/uuid"
)

// StreakCache はストリーク数の読み取りキャッシュ。
// 書き込み系はコミット後に Set で上書きし、読み取り系は Fill (キーが無いときだけ書く) で埋める。
// 読み取り側が古い値で書き込み側の値を潰すことはない。
type StreakCache interface {
	Get(ctx context.Context, userID uuid.UUID) (count int, ok bool, err error)
	Set(ctx context.Context, userID uuid.UUID, count int) error
	Fill(ctx context.Context, userID uuid.UUID, count int) error
	Delete(ctx context.Context, userID uuid.UUID) error
}

// refreshStreakCache はコミット後の値で上書きする。失敗しても処理は成功扱い
func refreshStreakCache(ctx context.Context, cache StreakCache, userID uuid.UUID, count int) {
	if cache == nil {
		return
	}
	if err := cache.Set(ctx, userID, count); err != nil {
		middleware.GetLogger(ctx).Warn("Failed to refresh streak cache, dropping entry", "error", err, "user_id", userID.String())
		_ = cache.Delete(ctx, userID)
	}
}

// fillStreakCache はミス時の読み込み結果を入れる。既にキーがあれば何もしない
func fillStreakCache(ctx context.Context, cache StreakCache, userID uuid.UUID, count int) {
	if cache == nil {
		return
	}
	if err := cache.Fill(ctx, userID, count); err != nil {
		middleware.GetLogger(ctx).Warn("Failed to fill streak cache", "error", err, "user_id", userID.String())
	}
}
