package handlers

import (
	"context"
	"net/http"

	"study_tracker/internal/middleware"
	"study_tracker/internal/model"
	"study_tracker/internal/webutil"

	"gorm.io/gorm"
)

// pinger はヘルスチェックで疎通を確認できるキャッシュ
type pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db    *gorm.DB
	cache any
}

func NewHealthHandler(db *gorm.DB, cache any) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

// Health はDB (とRedisを使っていればRedis) への疎通を返す
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := middleware.GetLogger(ctx)

	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		logger.Error("Health check failed: could not ping DB", "error", err)
		webutil.HandleError(w, logger, model.NewAppError("STORAGE_UNAVAILABLE", "データベースに接続できません。", "", model.ErrStorageUnavailable))
		return
	}

	status := map[string]string{"database": "ok", "cache": "disabled"}
	if p, ok := h.cache.(pinger); ok {
		if err := p.Ping(ctx); err != nil {
			// キャッシュはなくても動くので 200 のまま
			logger.Warn("Health check: cache ping failed", "error", err)
			status["cache"] = "unavailable"
		} else {
			status["cache"] = "ok"
		}
	}
	webutil.RespondWithSuccess(w, http.StatusOK, status)
}
