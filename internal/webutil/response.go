// internal/webutil/response.go
package webutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"study_tracker/internal/model"

	"github.com/go-playground/validator/v10"
)

// HandleError はエラーを解釈し、{"success": false, ...} のJSONを返します。
func HandleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	if logger == nil {
		logger = slog.Default()
	}
	statusCode := MapErrorToStatusCode(err)

	var errResp model.APIErrorResponse
	var appErr *model.AppError

	if errors.As(err, &appErr) {
		errResp = model.APIErrorResponse{
			Success: false,
			Message: appErr.Detail.Message,
			Error:   appErr.Detail,
		}
		if statusCode >= http.StatusInternalServerError {
			logger.Error("Request failed", "status", statusCode, "code", appErr.Detail.Code, "error", err)
		}
	} else {
		// 予期せぬエラーの詳細はログにだけ出す
		logger.Error("Unhandled error", "error", err)
		detail := model.ErrorDetail{
			Code:    "INTERNAL_SERVER_ERROR",
			Message: "サーバー内部でエラーが発生しました。",
		}
		if statusCode == http.StatusServiceUnavailable {
			detail = model.ErrorDetail{
				Code:    "STORAGE_UNAVAILABLE",
				Message: "データベースに接続できません。",
			}
		}
		errResp = model.APIErrorResponse{Success: false, Message: detail.Message, Error: detail}
	}

	RespondWithJSON(w, statusCode, errResp)
}

// MapErrorToStatusCode はアプリケーションエラーをHTTPステータスコードにマッピングします
func MapErrorToStatusCode(err error) int {
	var appErr *model.AppError
	if errors.As(err, &appErr) {
		err = appErr.Unwrap()
	}

	switch {
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, model.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, model.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// RespondWithJSON はJSONレスポンスを返します
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Error("Error marshaling JSON response", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"success":false,"message":"レスポンス生成中にエラーが発生しました。","error":{"code":"INTERNAL_SERVER_ERROR","message":"レスポンス生成中にエラーが発生しました。"}}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// RespondWithSuccess は payload の各フィールドに "success": true を加えて返します。
// payload は JSON オブジェクトになる値 (構造体か map) を渡してください。
func RespondWithSuccess(w http.ResponseWriter, code int, payload interface{}) {
	body := map[string]interface{}{}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err == nil {
			err = json.Unmarshal(raw, &body)
		}
		if err != nil {
			HandleError(w, nil, fmt.Errorf("%w: encode response: %w", model.ErrInternalServer, err))
			return
		}
	}
	body["success"] = true
	RespondWithJSON(w, code, body)
}

// NewValidationErrorResponse は validator のエラーを日本語メッセージの AppError にします
func NewValidationErrorResponse(errs validator.ValidationErrors) *model.AppError {
	fields := make([]string, 0, len(errs))
	messages := make([]string, 0, len(errs))

	for _, err := range errs {
		fields = append(fields, err.Field())
		messages = append(messages, err.Translate(Trans))
	}

	return model.NewAppError(
		"VALIDATION_ERROR",
		strings.Join(messages, " "),
		strings.Join(fields, ","),
		model.ErrInvalidInput,
	)
}
