// internal/service/admin_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"study_tracker/internal/middleware"
	"study_tracker/internal/model"
	"study_tracker/internal/repository"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AdminService は進捗の絶対値上書きを扱う
type AdminService interface {
	ApplyOverrides(ctx context.Context, userID uuid.UUID, class model.ClassLevel, updates map[string]int) (*model.OverrideResult, error)
}

type adminService struct {
	tx        txRunner
	userRepo  repository.UserRepository
	auditRepo repository.OverrideAuditRepository
	store     *ProgressStore
}

func NewAdminService(db *gorm.DB, maxRetries int, userRepo repository.UserRepository, auditRepo repository.OverrideAuditRepository, store *ProgressStore) AdminService {
	return &adminService{
		tx:        newTxRunner(db, maxRetries),
		userRepo:  userRepo,
		auditRepo: auditRepo,
		store:     store,
	}
}

// ApplyOverrides は "subject-type" -> 値 を学年の範囲で上書きする。
// 学年外の科目・不明な種類・形式不正のキーはスキップして結果に理由を載せる。
// 日次ログとストリークには触れない。
func (s *adminService) ApplyOverrides(ctx context.Context, userID uuid.UUID, class model.ClassLevel, updates map[string]int) (*model.OverrideResult, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID.String(), "class_level", int(class))

	catalog, ok := model.CatalogFor(class)
	if !ok {
		return nil, model.NewAppError("INVALID_CLASS_LEVEL", "学年は11または12を指定してください。", "class_level", model.ErrInvalidInput)
	}

	// キー順に処理してロック順をそろえる
	keys := make([]string, 0, len(updates))
	for key := range updates {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var result *model.OverrideResult
	err := s.tx.run(ctx, "ApplyOverrides", func(tx *gorm.DB) error {
		if _, err := s.userRepo.FindByID(ctx, tx, userID); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("USER_NOT_FOUND", "ユーザーが見つかりません。", "", model.ErrNotFound)
			}
			return err
		}

		res := &model.OverrideResult{
			Applied: make(map[string]int),
			Skipped: make(map[string]string),
		}
		for _, key := range keys {
			subject, typ, reason := parseOverrideKey(catalog, key)
			if reason != "" {
				res.Skipped[key] = reason
				continue
			}
			row, err := s.store.SetAbsolute(ctx, tx, userID, subject, typ, updates[key])
			if err != nil {
				return fmt.Errorf("override %s: %w", key, err)
			}
			res.Applied[key] = row.Completed
		}

		audit := &model.OverrideAudit{
			UserID:     userID,
			ClassLevel: class,
			Applied:    toJSONMap(res.Applied),
			Skipped:    toJSONMap(res.Skipped),
		}
		if err := s.auditRepo.Create(ctx, tx, audit); err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(result.Skipped) > 0 {
		logger.Warn("Some override keys were skipped", "skipped", result.Skipped)
	}
	logger.Info("Progress overrides applied", "applied", len(result.Applied), "skipped", len(result.Skipped))
	return result, nil
}

// parseOverrideKey はキーを最初の '-' で分割する。受け付けない場合は理由を返す
func parseOverrideKey(catalog model.ClassCatalog, key string) (string, model.ProgressType, string) {
	subject, rawType, found := strings.Cut(key, "-")
	if !found || subject == "" || rawType == "" {
		return "", "", "malformed key"
	}
	typ := model.ProgressType(rawType)
	if !typ.Valid() {
		return "", "", fmt.Sprintf("unknown type %q", rawType)
	}
	if !catalog.Allows(subject) {
		return "", "", fmt.Sprintf("subject %q is not part of class %d", subject, catalog.Level)
	}
	return subject, typ, ""
}

func toJSONMap[V any](m map[string]V) datatypes.JSONMap {
	out := make(datatypes.JSONMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
