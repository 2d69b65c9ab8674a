package service

import (
	"context"
	"errors"
	"fmt"

	"study_tracker/internal/middleware"
	"study_tracker/internal/model"
	"study_tracker/internal/repository"

	"gorm.io/gorm"
)

// ReminderService は「昨日まで続いているストリーク」が切れる前に通知する
type ReminderService interface {
	// SendStreakReminders は送信件数を返す。個別の送信失敗はログに残して続行する
	SendStreakReminders(ctx context.Context) (int, error)
}

type reminderService struct {
	db         *gorm.DB
	userRepo   repository.UserRepository
	streakRepo repository.StreakRepository
	mailer     Mailer
	clock      Clock
	appName    string
}

func NewReminderService(db *gorm.DB, userRepo repository.UserRepository, streakRepo repository.StreakRepository, mailer Mailer, clock Clock, appName string) ReminderService {
	return &reminderService{
		db:         db,
		userRepo:   userRepo,
		streakRepo: streakRepo,
		mailer:     mailer,
		clock:      clock,
		appName:    appName,
	}
}

func (s *reminderService) SendStreakReminders(ctx context.Context) (int, error) {
	logger := middleware.GetLogger(ctx)
	yesterday := s.clock.Today().AddDate(0, 0, -1)

	streaks, err := s.streakRepo.ListByLastActivity(ctx, s.db, yesterday)
	if err != nil {
		logger.Error("Failed to list streaks for reminder", "error", err)
		return 0, toAppError(err)
	}

	sent := 0
	for _, streak := range streaks {
		user, err := s.userRepo.FindByID(ctx, s.db, streak.UserID)
		if err != nil {
			if !errors.Is(err, model.ErrNotFound) {
				logger.Error("Failed to load user for reminder", "error", err, "user_id", streak.UserID.String())
			}
			continue
		}
		if user.Email == nil || *user.Email == "" {
			continue
		}

		subject := fmt.Sprintf("【%s】今日の学習で %d 日連続を更新しましょう", s.appName, streak.StreakCount+1)
		body := fmt.Sprintf("%s さん\n\n現在 %d 日連続で学習を記録しています。\n今日も記録すると %d 日連続になります。",
			user.Username, streak.StreakCount, streak.StreakCount+1)
		if err := s.mailer.Send(ctx, *user.Email, subject, body); err != nil {
			logger.Warn("Failed to send streak reminder", "error", err, "user_id", user.UserID.String())
			continue
		}
		sent++
	}

	logger.Info("Streak reminders processed", "candidates", len(streaks), "sent", sent)
	return sent, nil
}
