package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"study_tracker/internal/middleware"
	"study_tracker/internal/model"
	"study_tracker/internal/service"
	"study_tracker/internal/webutil"

	"github.com/go-chi/chi/v5"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ProgressHandler struct {
	progress   service.ProgressService
	submission service.SubmissionService
	export     service.ExportService
}

func NewProgressHandler(progress service.ProgressService, submission service.SubmissionService, export service.ExportService) *ProgressHandler {
	return &ProgressHandler{progress: progress, submission: submission, export: export}
}

// GetSnapshot は GET /progress
func (h *ProgressHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	snapshot, err := h.progress.GetSnapshot(r.Context(), userID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithSuccess(w, http.StatusOK, snapshot)
}

// AdjustProgress は PATCH /progress/{key} 。change は負でもよい
func (h *ProgressHandler) AdjustProgress(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	var req model.AdjustProgressRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		logger.Warn("Invalid adjust request", "error", err)
		webutil.HandleError(w, logger, err)
		return
	}

	resp, err := h.progress.AdjustProgress(r.Context(), userID, chi.URLParam(r, "key"), *req.Change)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithSuccess(w, http.StatusOK, resp)
}

// SubmitDaily は POST /progress/daily
func (h *ProgressHandler) SubmitDaily(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	var req model.SubmitDailyRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		logger.Warn("Invalid daily submission", "error", err)
		webutil.HandleError(w, logger, err)
		return
	}

	result, err := h.submission.Submit(r.Context(), userID, model.SubmissionInput{
		ClassLevel: model.ClassLevel(req.ClassLevel),
		Lectures:   *req.Lectures,
		DPP:        *req.DPP,
	})
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithSuccess(w, http.StatusOK, result)
}

// GetHistory は GET /progress/daily?class_level=&from=&to=
func (h *ProgressHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	q, err := parseHistoryQuery(r)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	history, err := h.progress.GetHistory(r.Context(), userID, q)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithSuccess(w, http.StatusOK, history)
}

// ExportHistory は GetHistory と同じ条件で .xlsx を返す
func (h *ProgressHandler) ExportHistory(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	q, err := parseHistoryQuery(r)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	buf, filename, err := h.export.ExportHistory(r.Context(), userID, q)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		logger.Warn("Failed to write export body", "error", err)
	}
}

// GetStreak は GET /streak
func (h *ProgressHandler) GetStreak(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	count, err := h.progress.GetStreak(r.Context(), userID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithSuccess(w, http.StatusOK, model.StreakResponse{Streak: count})
}

// GetCountdown は GET /countdown
func (h *ProgressHandler) GetCountdown(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	countdown, err := h.progress.Countdown(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithSuccess(w, http.StatusOK, countdown)
}

// parseHistoryQuery は未指定の項目をゼロ値のまま返す (期間の既定値はサービス側で決める)
func parseHistoryQuery(r *http.Request) (model.HistoryQuery, error) {
	var q model.HistoryQuery
	values := r.URL.Query()

	if v := values.Get("class_level"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return q, model.NewAppError("INVALID_CLASS_LEVEL", "学年は11または12を指定してください。", "class_level", model.ErrInvalidInput)
		}
		level := model.ClassLevel(n)
		q.ClassLevel = &level
	}

	var err error
	if q.From, err = parseDateParam(values.Get("from"), "from"); err != nil {
		return q, err
	}
	if q.To, err = parseDateParam(values.Get("to"), "to"); err != nil {
		return q, err
	}
	return q, nil
}

func parseDateParam(v, field string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	d, err := model.ParseDate(v)
	if err != nil {
		return time.Time{}, model.NewAppError("INVALID_DATE", "日付は YYYY-MM-DD 形式で指定してください。", field, model.ErrInvalidInput)
	}
	return d, nil
}
