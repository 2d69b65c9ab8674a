package webutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"study_tracker/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"NotFound", model.NewAppError("NOT_FOUND", "", "", model.ErrNotFound), http.StatusNotFound},
		{"InvalidInput", model.ErrInvalidInput, http.StatusBadRequest},
		{"Conflict", fmt.Errorf("wrap: %w", model.ErrConflict), http.StatusConflict},
		{"StorageUnavailable", model.NewAppError("STORAGE_UNAVAILABLE", "", "", fmt.Errorf("%w: x", model.ErrStorageUnavailable)), http.StatusServiceUnavailable},
		{"Forbidden", model.ErrForbidden, http.StatusForbidden},
		{"その他", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestHandleError(t *testing.T) {
	rr := httptest.NewRecorder()
	HandleError(rr, nil, model.NewAppError("INVALID_CLASS_LEVEL", "学年は11または12を指定してください。", "class_level", model.ErrInvalidInput))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	var body model.APIErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "学年は11または12を指定してください。", body.Message)
	assert.Equal(t, "class_level", body.Error.Field)

	// AppError 以外は詳細を隠す
	rr = httptest.NewRecorder()
	HandleError(rr, nil, errors.New("pq: password authentication failed"))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "pq:")
}

func TestRespondWithSuccess(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondWithSuccess(rr, http.StatusOK, model.StreakResponse{Streak: 3})

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(3), body["streak"])
}

func TestDecodeAndValidate(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{"正常系", `{"class_level":12,"lectures":0,"dpp":3}`, ""},
		{"異常系: lectures が無い", `{"class_level":12,"dpp":3}`, "lectures"},
		{"異常系: 学年が不正", `{"class_level":10,"lectures":1,"dpp":1}`, "class_level"},
		{"異常系: 負の値", `{"class_level":11,"lectures":-1,"dpp":1}`, "lectures"},
		{"異常系: 未知のフィールド", `{"class_level":11,"lectures":1,"dpp":1,"extra":1}`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var dst model.SubmitDailyRequest
			err := DecodeAndValidate(req, &dst)
			if tt.name == "正常系" {
				require.NoError(t, err)
				assert.Equal(t, 0, *dst.Lectures)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, model.ErrInvalidInput)
			var appErr *model.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.wantField, appErr.Detail.Field)
		})
	}
}
