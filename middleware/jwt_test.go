package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"budget/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "budget-test-secret"

func useTestSecret(t *testing.T) {
	t.Helper()
	InitJWT(&config.Config{JWT: config.JWTConfig{Secret: testSecret}})
	t.Cleanup(func() { jwtSecret = nil })
}

func newProtectedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(JWTAuth())
	r.GET("/api/v1/profile", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":  GetCurrentUserID(c),
			"username": c.GetString("username"),
		})
	})
	return r
}

func TestGenerateToken_Claims(t *testing.T) {
	useTestSecret(t)

	token, err := GenerateToken(7, "maria", 2*time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "maria", claims.Username)
	assert.Equal(t, "budget", claims.Issuer)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(2*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestParseToken_Rejects(t *testing.T) {
	useTestSecret(t)

	expired, err := GenerateToken(1, "maria", -time.Minute)
	require.NoError(t, err)

	// 其他签名算法即使密钥正确也拒绝
	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{UserID: 1}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	foreign, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: 1}).SignedString([]byte("other-secret"))
	require.NoError(t, err)

	cases := map[string]string{
		"空":     "",
		"格式错误":  "not.a.jwt",
		"已过期":   expired,
		"算法不符":  hs512,
		"密钥不一致": foreign,
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseToken(token)
			assert.Error(t, err)
		})
	}
}

func TestJWTAuth_SetsCurrentUser(t *testing.T) {
	useTestSecret(t)
	r := newProtectedRouter()

	token, err := GenerateToken(42, "joao", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		UserID   uint   `json:"user_id"`
		Username string `json:"username"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, uint(42), body.UserID)
	assert.Equal(t, "joao", body.Username)
}

func TestJWTAuth_Unauthorized(t *testing.T) {
	useTestSecret(t)
	r := newProtectedRouter()

	expired, err := GenerateToken(42, "joao", -time.Minute)
	require.NoError(t, err)

	cases := []struct {
		name    string
		header  string
		message string
	}{
		{"缺少头", "", "未提供认证信息"},
		{"非 Bearer", "Basic am9hbzpzZWNyZXQ=", "认证格式错误"},
		{"小写 bearer", "bearer " + expired, "认证格式错误"},
		{"只有前缀", "Bearer ", "认证格式错误"},
		{"过期", "Bearer " + expired, "token 无效或已过期"},
		{"伪造", "Bearer abc.def.ghi", "token 无效或已过期"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			var body struct {
				Code    int    `json:"code"`
				Message string `json:"message"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, http.StatusUnauthorized, body.Code)
			assert.Equal(t, tc.message, body.Message)
		})
	}
}

func TestGetCurrentUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Zero(t, GetCurrentUserID(c))

	// 类型不符按未登录处理
	c.Set(contextUserIDKey, 99)
	assert.Zero(t, GetCurrentUserID(c))

	c.Set(contextUserIDKey, uint(99))
	assert.Equal(t, uint(99), GetCurrentUserID(c))
}
