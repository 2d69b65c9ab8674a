// Package testutil はテスト用のDBとユーザーを用意する
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"study_tracker/internal/model"
	"study_tracker/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewSQLiteDB はテストごとに独立したインメモリDBを作り、スキーマを適用する。
// 接続は1本なので、同時に走るトランザクションは直列に実行される。
func NewSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to connect database for testing")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, repository.AutoMigrate(db), "failed to migrate database for testing")
	return db
}

// SeedUser はユーザーと初期進捗・ストリーク行を作る
func SeedUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	ctx := context.Background()
	now := time.Now()
	user := &model.User{
		UserID:       uuid.New(),
		Username:     username,
		PasswordHash: "x",
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := repository.NewGormUserRepository().Create(ctx, tx, user); err != nil {
			return err
		}
		if err := repository.NewGormProgressRepository().CreateBatch(ctx, tx, model.SeedProgress(user.UserID, now)); err != nil {
			return err
		}
		return repository.NewGormStreakRepository().Create(ctx, tx, &model.Streak{UserID: user.UserID})
	})
	require.NoError(t, err)
	return user
}
