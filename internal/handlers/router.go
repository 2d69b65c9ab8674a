package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"study_tracker/internal/config"
	"study_tracker/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

// Handlers はルーターに載せるハンドラ一式
type Handlers struct {
	Auth     *AuthHandler
	Progress *ProgressHandler
	Admin    *AdminHandler
	Health   *HealthHandler
}

// NewRouter はミドルウェアとルートを組み立てる。auth.enabled=false なら X-User-ID ヘッダーで認証する
func NewRouter(cfg *config.Config, logger *slog.Logger, h Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.LoggingMiddleware(logger))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
		Debug:            false,
	})
	r.Use(corsHandler.Handler)

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Route("/api/v1", func(r chi.Router) {
		// --- Public routes ---
		r.Post("/login", h.Auth.Login)
		r.Get("/countdown", h.Progress.GetCountdown)

		// --- Protected routes ---
		r.Group(func(r chi.Router) {
			if cfg.Auth.Enabled {
				r.Use(middleware.JWTAuthMiddleware(cfg))
			} else {
				logger.Warn("Authentication disabled: using X-User-ID header")
				r.Use(middleware.DevUserContextMiddleware)
			}

			r.Route("/progress", func(r chi.Router) {
				r.Get("/", h.Progress.GetSnapshot)
				r.Post("/daily", h.Progress.SubmitDaily)
				r.Get("/daily", h.Progress.GetHistory)
				r.Get("/daily/export", h.Progress.ExportHistory)
				r.Patch("/{key}", h.Progress.AdjustProgress)
			})
			r.Get("/streak", h.Progress.GetStreak)

			r.Route("/admin", func(r chi.Router) {
				r.Post("/update_11th", h.Admin.UpdateClass11)
				r.Post("/update_12th", h.Admin.UpdateClass12)
			})
		})
	})

	r.Get("/health", h.Health.Health)
	return r
}
