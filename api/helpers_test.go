package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"budget/models"
	"budget/repository"
	"budget/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testNow = time.Date(2024, 3, 12, 9, 30, 0, 0, time.Local)

func fixedClock() time.Time { return testNow }

func setupMockDB(t *testing.T) (*repository.GormStore, sqlmock.Sqlmock, func()) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return repository.NewGormStore(gormDB), mock, func() { sqlDB.Close() }
}

func setUserIDMiddleware(userID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	}
}

// testEnv 内存存储上的完整服务，请求以 user 的身份发出
type testEnv struct {
	svc  *service.Services
	user *models.User
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	svc := service.NewServices(repository.NewMemoryStore(), service.Options{Now: fixedClock})
	user, err := svc.Users.Register(context.Background(), service.RegisterInput{Username: "alice", Password: "secret1"})
	require.NoError(t, err)
	return &testEnv{svc: svc, user: user}
}

func (e *testEnv) router() *gin.Engine {
	r := gin.New()
	r.Use(setUserIDMiddleware(e.user.ID))
	return r
}

func doRequest(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// decodeData 解析响应，out 为 nil 时只返回外层
func decodeData(t *testing.T, w *httptest.ResponseRecorder, out interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	if out != nil {
		require.NoError(t, json.Unmarshal(env.Data, out))
	}
	return env
}
