package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"study_tracker/internal/middleware"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReminderService struct {
	calls     int
	err       error
	gotLogger bool
}

func (f *fakeReminderService) SendStreakReminders(ctx context.Context) (int, error) {
	f.calls++
	f.gotLogger = middleware.GetLogger(ctx) != slog.Default()
	if _, ok := ctx.Deadline(); !ok {
		return 0, errors.New("deadline missing")
	}
	return 2, f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		wantErr bool
	}{
		{"正常系: 毎日20時", "0 20 * * *", false},
		{"正常系: 記述子", "@daily", false},
		{"異常系: 不正な式", "every day", true},
		{"異常系: 秒付き6フィールド", "0 0 20 * * *", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.spec, time.UTC, &fakeReminderService{}, discardLogger())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, s.cron.Entries(), 1)
		})
	}
}

func TestScheduler_runReminders(t *testing.T) {
	fake := &fakeReminderService{}
	s, err := New("0 20 * * *", nil, fake, discardLogger())
	require.NoError(t, err)

	s.runReminders()
	assert.Equal(t, 1, fake.calls)
	assert.True(t, fake.gotLogger, "ジョブ用のロガーがコンテキストに入っている")

	// 失敗してもパニックしない
	fake.err = errors.New("db down")
	s.runReminders()
	assert.Equal(t, 2, fake.calls)
}

func TestScheduler_StartStop(t *testing.T) {
	s, err := New("@every 1h", time.UTC, &fakeReminderService{}, discardLogger())
	require.NoError(t, err)

	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
	assert.NoError(t, ctx.Err())
}
