package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotSame(t, slog.Default(), GetLogger(r.Context()), "リクエスト用のロガーが入っている")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"success":true,"access_token":"secret-token"}`))
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/login", strings.NewReader(`{"username":"u","password":"p@ss"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer xyz")
	rr := httptest.NewRecorder()
	LoggingMiddleware(logger)(next).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	out := buf.String()
	assert.Contains(t, out, "Request started")
	assert.Contains(t, out, "Request completed")
	assert.Contains(t, out, `"status":201`)
	assert.NotContains(t, out, "p@ss")
	assert.NotContains(t, out, "secret-token")
	assert.NotContains(t, out, "Bearer xyz")
}

func Test_formatBody(t *testing.T) {
	assert.Equal(t, "", formatBody("application/json", nil))
	assert.Equal(t, "[application/vnd.openxmlformats-officedocument.spreadsheetml.sheet]",
		formatBody("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", []byte("PK...")))
	assert.Equal(t, `{"password":"[SENSITIVE]","username":"u"}`, formatBody("application/json", []byte(`{"username":"u","password":"x"}`)))
	assert.Equal(t, "not json", formatBody("", []byte("not json")))
}
