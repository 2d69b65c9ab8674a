// internal/scheduler/scheduler.go
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"study_tracker/internal/middleware"
	"study_tracker/internal/service"

	"github.com/robfig/cron/v3"
)

const jobTimeout = 5 * time.Minute

// Scheduler は定期バッチ (ストリーク切れ前のリマインド) を動かす
type Scheduler struct {
	cron      *cron.Cron
	reminders service.ReminderService
	logger    *slog.Logger
}

// New は spec (標準の5フィールド cron 式) でリマインドジョブを登録する。Start するまで動かない
func New(spec string, loc *time.Location, reminders service.ReminderService, logger *slog.Logger) (*Scheduler, error) {
	if loc == nil {
		loc = time.UTC
	}
	s := &Scheduler{
		cron:      cron.New(cron.WithLocation(loc)),
		reminders: reminders,
		logger:    logger.With("component", "scheduler"),
	}
	if _, err := s.cron.AddFunc(spec, s.runReminders); err != nil {
		return nil, fmt.Errorf("scheduler: invalid reminder spec %q: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) runReminders() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	logger := s.logger.With("job", "streak_reminder")
	ctx = middleware.WithLogger(ctx, logger)

	start := time.Now()
	sent, err := s.reminders.SendStreakReminders(ctx)
	if err != nil {
		logger.Error("Streak reminder job failed", "error", err)
		return
	}
	logger.Info("Streak reminder job finished", "sent", sent, "elapsed", time.Since(start))
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Scheduler started", "entries", len(s.cron.Entries()))
}

// Stop は実行中のジョブの終了を待つ
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
		s.logger.Info("Scheduler stopped")
	case <-ctx.Done():
		s.logger.Warn("Scheduler stop timed out", "error", ctx.Err())
	}
}
