package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"budget/config"
	"budget/middleware"
	"budget/repository"
	"budget/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "test"},
		JWT:    config.JWTConfig{Secret: "router-test", ExpireTime: time.Hour},
	}
	middleware.InitJWT(cfg)
	svc := service.NewServices(repository.NewMemoryStore(), service.Options{})
	return SetupRouter(cfg, svc)
}

func send(r http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r := setupTestRouter(t)
	w := send(r, "GET", "/health", "", "")
	assert.Equal(t, 200, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestCORSPreflight(t *testing.T) {
	r := setupTestRouter(t)
	w := send(r, "OPTIONS", "/api/v1/bills", "", "")
	assert.Equal(t, 204, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r := setupTestRouter(t)
	for _, path := range []string{"/api/v1/bills", "/api/v1/dashboard", "/api/v1/auth/profile", "/api/v1/export/csv"} {
		assert.Equal(t, 401, send(r, "GET", path, "", "").Code, path)
	}
}

func TestRegisterLoginAndUse(t *testing.T) {
	r := setupTestRouter(t)

	w := send(r, "POST", "/api/v1/auth/register", "", `{"username":"carol","password":"secret123"}`)
	require.Equal(t, 200, w.Code, w.Body.String())

	w = send(r, "POST", "/api/v1/auth/login", "", `{"username":"carol","password":"secret123"}`)
	require.Equal(t, 200, w.Code, w.Body.String())
	var login struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	token := login.Data.Token
	require.NotEmpty(t, token)

	w = send(r, "POST", "/api/v1/bills", token, `{"name":"房租","amount":"1800","due_day":10}`)
	require.Equal(t, 200, w.Code, w.Body.String())

	w = send(r, "GET", "/api/v1/bills", token, "")
	require.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), "房租")

	w = send(r, "GET", "/api/v1/dashboard", token, "")
	require.Equal(t, 200, w.Code)
	assert.Contains(t, w.Body.String(), `"monthly_expenses":"1800.00"`)
}
