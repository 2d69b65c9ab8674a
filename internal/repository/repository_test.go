package repository_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"study_tracker/internal/model"
	"study_tracker/internal/repository"
	"study_tracker/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestDailyLogRepository_Merge(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLiteDB(t)
	user := testutil.SeedUser(t, db, "merge_user")
	repo := repository.NewGormDailyLogRepository()
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	first, err := repo.Merge(ctx, db, user.UserID, model.Class12, date, 3, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, first.Lectures)
	assert.Equal(t, 2, first.DPP)

	second, err := repo.Merge(ctx, db, user.UserID, model.Class12, date, 4, 1)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "同じ日の提出は同じ行に加算される")
	assert.Equal(t, 7, second.Lectures)
	assert.Equal(t, 3, second.DPP)

	// 学年が違えば別の行
	other, err := repo.Merge(ctx, db, user.UserID, model.Class11, date, 1, 0)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)
	assert.Equal(t, 1, other.Lectures)
}

func TestDailyLogRepository_Merge_Concurrent(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLiteDB(t)
	user := testutil.SeedUser(t, db, "concurrent_merge")
	repo := repository.NewGormDailyLogRepository()
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	const n = 20
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			err := db.Transaction(func(tx *gorm.DB) error {
				_, err := repo.Merge(ctx, tx, user.UserID, model.Class11, date, 1, 2)
				return err
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := repo.Find(ctx, db, user.UserID, model.Class11, date)
	require.NoError(t, err)
	assert.Equal(t, n, got.Lectures)
	assert.Equal(t, 2*n, got.DPP)
}

func TestDailyLogRepository_ListRange(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLiteDB(t)
	user := testutil.SeedUser(t, db, "range_user")
	repo := repository.NewGormDailyLogRepository()

	day := func(d int) time.Time { return time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC) }
	for _, d := range []int{1, 5, 9} {
		_, err := repo.Merge(ctx, db, user.UserID, model.Class12, day(d), d, 0)
		require.NoError(t, err)
	}
	_, err := repo.Merge(ctx, db, user.UserID, model.Class11, day(5), 1, 1)
	require.NoError(t, err)

	all, err := repo.ListRange(ctx, db, user.UserID, nil, day(2), day(9))
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, model.Class11, all[0].ClassLevel, "同じ日は学年順")
	assert.Equal(t, 9, all[2].Lectures)

	class12 := model.Class12
	only12, err := repo.ListRange(ctx, db, user.UserID, &class12, day(1), day(31))
	require.NoError(t, err)
	assert.Len(t, only12, 3)
}

func TestProgressRepository_FindAndUpdate(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLiteDB(t)
	user := testutil.SeedUser(t, db, "progress_user")
	repo := repository.NewGormProgressRepository()

	rows, err := repo.ListByUser(ctx, db, user.UserID)
	require.NoError(t, err)
	assert.Len(t, rows, 16)

	// シードの再実行は何もしない
	require.NoError(t, repo.CreateBatch(ctx, db, model.SeedProgress(user.UserID, time.Now())))
	rows, err = repo.ListByUser(ctx, db, user.UserID)
	require.NoError(t, err)
	assert.Len(t, rows, 16)

	row, err := repo.FindForUpdate(ctx, db, user.UserID, "class12", model.ProgressLectures)
	require.NoError(t, err)
	assert.Equal(t, 90, row.Total)

	require.NoError(t, repo.UpdateCompleted(ctx, db, row.ID, 12, time.Now()))
	row, err = repo.Find(ctx, db, user.UserID, "class12", model.ProgressLectures)
	require.NoError(t, err)
	assert.Equal(t, 12, row.Completed)

	_, err = repo.Find(ctx, db, uuid.New(), "maths", model.ProgressDPP)
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.ErrorIs(t, repo.UpdateCompleted(ctx, db, 9999, 1, time.Now()), model.ErrNotFound)
}

func TestStreakRepository(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLiteDB(t)
	user := testutil.SeedUser(t, db, "streak_user")
	repo := repository.NewGormStreakRepository()

	streak, err := repo.FindForUpdate(ctx, db, user.UserID)
	require.NoError(t, err)
	assert.Equal(t, 0, streak.StreakCount)
	assert.Nil(t, streak.LastActivityDate)

	// 二重作成しても1行のまま
	require.NoError(t, repo.Create(ctx, db, &model.Streak{UserID: user.UserID, StreakCount: 5}))
	streak, err = repo.Find(ctx, db, user.UserID)
	require.NoError(t, err)
	assert.Equal(t, 0, streak.StreakCount)

	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	streak.StreakCount = 4
	streak.LastActivityDate = &day
	require.NoError(t, repo.Save(ctx, db, streak))

	list, err := repo.ListByLastActivity(ctx, db, day)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, user.UserID, list[0].UserID)

	list, err = repo.ListByLastActivity(ctx, db, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLiteDB(t)
	user := testutil.SeedUser(t, db, "alice")
	repo := repository.NewGormUserRepository()

	got, err := repo.FindByUsername(ctx, db, "alice")
	require.NoError(t, err)
	assert.Equal(t, user.UserID, got.UserID)

	got, err = repo.FindByID(ctx, db, user.UserID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	_, err = repo.FindByUsername(ctx, db, "bob")
	assert.ErrorIs(t, err, model.ErrNotFound)

	err = repo.Create(ctx, db, &model.User{UserID: uuid.New(), Username: "alice", PasswordHash: "y"})
	assert.ErrorIs(t, err, model.ErrConflict, "ユーザー名の重複")
}
