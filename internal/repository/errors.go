package repository

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"study_tracker/internal/model"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

// Postgres のエラーコード
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgUniqueViolation      = "23505"
)

// pgDataExceptionClass はクラス 22 (data exception)。数値の範囲外など入力値の問題
const pgDataExceptionClass = "22"

// classifyDBError はドライバのエラーを model のセンチネルに対応付ける。
// 衝突系 (リトライで解消しうるもの) は ErrConflict、値の範囲外は ErrInvalidInput、それ以外は ErrStorageUnavailable。
func classifyDBError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, model.ErrConflict) || errors.Is(err, model.ErrStorageUnavailable) || errors.Is(err, model.ErrInvalidInput) {
		return err
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %w", model.ErrConflict, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgSerializationFailure, pgDeadlockDetected, pgUniqueViolation:
			return fmt.Errorf("%w: %w", model.ErrConflict, err)
		}
		if strings.HasPrefix(pgErr.Code, pgDataExceptionClass) {
			return fmt.Errorf("%w: %w", model.ErrInvalidInput, err)
		}
		return fmt.Errorf("%w: %w", model.ErrStorageUnavailable, err)
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code {
		case sqlite3.ErrBusy, sqlite3.ErrLocked:
			return fmt.Errorf("%w: %w", model.ErrConflict, err)
		case sqlite3.ErrConstraint:
			if sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique || sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey {
				return fmt.Errorf("%w: %w", model.ErrConflict, err)
			}
		}
		return fmt.Errorf("%w: %w", model.ErrStorageUnavailable, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, driver.ErrBadConn) {
		return fmt.Errorf("%w: %w", model.ErrStorageUnavailable, err)
	}

	return fmt.Errorf("%w: %w", model.ErrStorageUnavailable, err)
}
