// helpers_test.go
package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"study_tracker/internal/config"
	"study_tracker/internal/handlers"
	"study_tracker/internal/model"
	"study_tracker/internal/repository"
	"study_tracker/internal/service"
	"study_tracker/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// testToday はハンドラテストの「今日」
var testToday = time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)

type fixedClock struct {
	today time.Time
}

func (c fixedClock) Now() time.Time   { return c.today.Add(9 * time.Hour) }
func (c fixedClock) Today() time.Time { return c.today }

// httpRequestDetails はHTTPリクエストの送信に必要な情報をまとめます。
type httpRequestDetails struct {
	Method  string
	Path    string
	Body    interface{}
	Headers map[string]string
}

// httpResponseExpectations はHTTPレスポンスの検証に必要な期待値をまとめます。
type httpResponseExpectations struct {
	ExpectedCode      int
	ExpectedErrorCode string
}

// testServer は SQLite 上に組み立てたアプリ一式
type testServer struct {
	*httptest.Server
	db   *gorm.DB
	cfg  *config.Config
	auth service.AuthService
}

func newTestServer(t *testing.T, authEnabled bool) *testServer {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	cfg := &config.Config{
		App:  config.AppConfig{Name: "StudyTrackerTest", Timezone: "UTC", TargetDate: "2025-12-31", MaxTxRetries: 3},
		Auth: config.AuthConfig{Enabled: authEnabled},
		JWT:  config.JWTConfig{SecretKey: "handler-test-secret", AccessTokenTTL: time.Hour},
	}
	clock := fixedClock{today: testToday}

	userRepo := repository.NewGormUserRepository()
	progressRepo := repository.NewGormProgressRepository()
	dailyRepo := repository.NewGormDailyLogRepository()
	streakRepo := repository.NewGormStreakRepository()
	auditRepo := repository.NewGormOverrideAuditRepository()

	store := service.NewProgressStore(progressRepo, clock)
	streaks := service.NewStreakTracker(streakRepo)
	progressService := service.NewProgressService(db, cfg, userRepo, progressRepo, dailyRepo, store, streaks, nil, clock)
	submissionService := service.NewSubmissionService(db, cfg.App.MaxTxRetries, userRepo, dailyRepo, store, streaks, nil, clock)
	adminService := service.NewAdminService(db, cfg.App.MaxTxRetries, userRepo, auditRepo, store)
	exportService := service.NewExportService(progressService)
	authService := service.NewAuthService(db, userRepo, progressRepo, streakRepo, cfg)

	router := handlers.NewRouter(cfg, testLogger, handlers.Handlers{
		Auth:     handlers.NewAuthHandler(authService),
		Progress: handlers.NewProgressHandler(progressService, submissionService, exportService),
		Admin:    handlers.NewAdminHandler(adminService),
		Health:   handlers.NewHealthHandler(db, nil),
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return &testServer{Server: server, db: db, cfg: cfg, auth: authService}
}

// devHeaders は auth.enabled=false のときの認証ヘッダー
func devHeaders(userID uuid.UUID) map[string]string {
	return map[string]string{"X-User-ID": userID.String()}
}

// sendRequest はHTTPリクエストを送信し、ステータスコードを検証してボディを返します。
func sendRequest(t *testing.T, server *httptest.Server, details httpRequestDetails, expectations httpResponseExpectations) (*http.Response, []byte) {
	t.Helper()

	var reqBodyReader io.Reader
	if details.Body != nil {
		if strPayload, ok := details.Body.(string); ok {
			reqBodyReader = strings.NewReader(strPayload)
		} else {
			reqBodyBytes, err := json.Marshal(details.Body)
			require.NoError(t, err, "Failed to marshal request body")
			reqBodyReader = bytes.NewBuffer(reqBodyBytes)
		}
	}

	req, err := http.NewRequest(details.Method, server.URL+details.Path, reqBodyReader)
	require.NoError(t, err, "Failed to create request")

	if reqBodyReader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range details.Headers {
		req.Header.Set(key, value)
	}

	resp, err := server.Client().Do(req)
	require.NoError(t, err, "Failed to execute request")
	defer resp.Body.Close()

	respBodyBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "Failed to read response body")

	assert.Equal(t, expectations.ExpectedCode, resp.StatusCode, "Status code mismatch: %s", string(respBodyBytes))
	if expectations.ExpectedErrorCode != "" {
		verifyErrorResponse(t, respBodyBytes, expectations.ExpectedErrorCode)
	}
	return resp, respBodyBytes
}

// verifyErrorResponse はエラーレスポンスの形とエラーコードを検証します。
func verifyErrorResponse(t *testing.T, bodyBytes []byte, expectedCode string) {
	t.Helper()
	var errResp model.APIErrorResponse
	require.NoError(t, json.Unmarshal(bodyBytes, &errResp), "error response is not JSON: %s", string(bodyBytes))
	assert.False(t, errResp.Success)
	assert.Equal(t, expectedCode, errResp.Error.Code)
	assert.NotEmpty(t, errResp.Message)
}

// decodeSuccess は {"success": true, ...} を dst に読み込む
func decodeSuccess(t *testing.T, bodyBytes []byte, dst interface{}) {
	t.Helper()
	var envelope struct {
		Success bool `json:"success"`
	}
	require.NoError(t, json.Unmarshal(bodyBytes, &envelope))
	assert.True(t, envelope.Success, "success flag: %s", string(bodyBytes))
	require.NoError(t, json.Unmarshal(bodyBytes, dst))
}

