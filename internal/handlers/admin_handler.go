package handlers

import (
	"net/http"

	"study_tracker/internal/middleware"
	"study_tracker/internal/model"
	"study_tracker/internal/service"
	"study_tracker/internal/webutil"
)

type AdminHandler struct {
	service service.AdminService
}

func NewAdminHandler(s service.AdminService) *AdminHandler {
	return &AdminHandler{service: s}
}

// UpdateClass11 は POST /admin/update_11th
func (h *AdminHandler) UpdateClass11(w http.ResponseWriter, r *http.Request) {
	h.applyOverrides(w, r, model.Class11)
}

// UpdateClass12 は POST /admin/update_12th
func (h *AdminHandler) UpdateClass12(w http.ResponseWriter, r *http.Request) {
	h.applyOverrides(w, r, model.Class12)
}

func (h *AdminHandler) applyOverrides(w http.ResponseWriter, r *http.Request, class model.ClassLevel) {
	logger := middleware.GetLogger(r.Context()).With("class_level", int(class))
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	var req model.AdminUpdateRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		logger.Warn("Invalid override request", "error", err)
		webutil.HandleError(w, logger, err)
		return
	}

	result, err := h.service.ApplyOverrides(r.Context(), userID, class, req.Updates)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithSuccess(w, http.StatusOK, result)
}
