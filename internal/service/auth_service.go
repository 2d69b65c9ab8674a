package service

import (
	"context"
	"errors"
	"time"

	"study_tracker/internal/config"
	"study_tracker/internal/middleware"
	"study_tracker/internal/model"
	"study_tracker/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService interface {
	Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error)
	// ProvisionUser はユーザーと初期データ (進捗16行・ストリーク行) を用意する。既にあれば不足分だけ補う
	ProvisionUser(ctx context.Context, username, password string, email *string) (*model.User, error)
}

type authService struct {
	db           *gorm.DB
	userRepo     repository.UserRepository
	progressRepo repository.ProgressRepository
	streakRepo   repository.StreakRepository
	cfg          *config.Config
}

// NewAuthService は AuthService の新しいインスタンスを生成します
func NewAuthService(db *gorm.DB, userRepo repository.UserRepository, progressRepo repository.ProgressRepository, streakRepo repository.StreakRepository, cfg *config.Config) AuthService {
	return &authService{
		db:           db,
		userRepo:     userRepo,
		progressRepo: progressRepo,
		streakRepo:   streakRepo,
		cfg:          cfg,
	}
}

// Login はユーザーを認証し、JWTを返します
func (s *authService) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	logger := middleware.GetLogger(ctx).With("username", req.Username)

	user, err := s.userRepo.FindByUsername(ctx, s.db, req.Username)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Warn("Login failed: user not found")
			return nil, model.NewAppError("AUTHENTICATION_FAILED", "ユーザー名またはパスワードが正しくありません。", "", model.ErrInvalidInput)
		}
		logger.Error("Login failed: db error on FindByUsername", "error", err)
		return nil, toAppError(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		logger.Warn("Login failed: password mismatch", "user_id", user.UserID)
		return nil, model.NewAppError("AUTHENTICATION_FAILED", "ユーザー名またはパスワードが正しくありません。", "", model.ErrInvalidInput)
	}

	claims := &jwt.RegisteredClaims{
		Issuer:    s.cfg.App.Name,
		Subject:   user.UserID.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.cfg.JWT.AccessTokenTTL)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(s.cfg.JWT.SecretKey))
	if err != nil {
		logger.Error("Failed to sign JWT", "error", err, "user_id", user.UserID)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "トークンの生成に失敗しました。", "", err)
	}

	logger.Info("Login successful", "user_id", user.UserID)
	return &model.LoginResponse{UserID: user.UserID.String(), AccessToken: signedToken}, nil
}

func (s *authService) ProvisionUser(ctx context.Context, username, password string, email *string) (*model.User, error) {
	logger := middleware.GetLogger(ctx).With("username", username)
	if username == "" || password == "" {
		return nil, model.NewAppError("INVALID_SEED_USER", "ユーザー名とパスワードは必須です。", "", model.ErrInvalidInput)
	}

	var provisioned *model.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := s.userRepo.FindByUsername(ctx, tx, username)
		switch {
		case err == nil:
			logger.Debug("User already exists, ensuring seed rows")
		case errors.Is(err, model.ErrNotFound):
			hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				logger.Error("Failed to hash password", "error", err)
				return model.NewAppError("INTERNAL_SERVER_ERROR", "パスワードの処理中にエラーが発生しました。", "", err)
			}
			user = &model.User{
				UserID:       uuid.New(),
				Username:     username,
				Email:        email,
				PasswordHash: string(hashedPassword),
			}
			if err := s.userRepo.Create(ctx, tx, user); err != nil {
				return err
			}
			logger.Info("User created", "user_id", user.UserID)
		default:
			return err
		}

		// 行が既にあれば何もしない
		if err := s.progressRepo.CreateBatch(ctx, tx, model.SeedProgress(user.UserID, time.Now())); err != nil {
			return err
		}
		if err := s.streakRepo.Create(ctx, tx, &model.Streak{UserID: user.UserID}); err != nil {
			return err
		}
		provisioned = user
		return nil
	})
	if err != nil {
		return nil, toAppError(err)
	}
	return provisioned, nil
}
