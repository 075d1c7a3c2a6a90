package api

import (
	"testing"
	"time"

	"budget/config"
	"budget/middleware"
	"budget/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func initTestJWT(t *testing.T) {
	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "debug"},
		JWT:    config.JWTConfig{Secret: "test-secret", ExpireTime: time.Hour},
	}
	config.GlobalConfig = cfg
	middleware.InitJWT(cfg)
	t.Cleanup(func() { config.GlobalConfig = nil })
}

func TestAuthHandler_Register(t *testing.T) {
	store, mock, cleanup := setupMockDB(t)
	defer cleanup()
	initTestJWT(t)

	// 用户名不存在
	mock.ExpectQuery("SELECT .* FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{}))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `users`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	router := gin.New()
	router.POST("/register", NewAuthHandler(service.NewUserService(store), time.Hour).Register)

	w := doRequest(router, "POST", "/register", `{"username":"newuser","password":"password123","email":"test@example.com"}`)

	assert.Equal(t, 200, w.Code)
	var user map[string]interface{}
	env := decodeData(t, w, &user)
	assert.Equal(t, "注册成功", env.Message)
	assert.Equal(t, "newuser", user["username"])
	assert.Equal(t, "newuser", user["name"])
	assert.NotContains(t, user, "password")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_Register_Duplicate(t *testing.T) {
	store, mock, cleanup := setupMockDB(t)
	defer cleanup()
	initTestJWT(t)

	mock.ExpectQuery("SELECT .* FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).AddRow(1, "newuser"))

	router := gin.New()
	router.POST("/register", NewAuthHandler(service.NewUserService(store), time.Hour).Register)

	w := doRequest(router, "POST", "/register", `{"username":"newuser","password":"password123"}`)

	assert.Equal(t, 409, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_Login(t *testing.T) {
	store, mock, cleanup := setupMockDB(t)
	defer cleanup()
	initTestJWT(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	now := time.Now()
	mock.ExpectQuery("SELECT .* FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password", "email", "name", "created_at", "updated_at", "deleted_at"}).
			AddRow(7, "testuser", string(hash), "t@example.com", "测试", now, now, nil))

	router := gin.New()
	router.POST("/login", NewAuthHandler(service.NewUserService(store), time.Hour).Login)

	w := doRequest(router, "POST", "/login", `{"username":"testuser","password":"password123"}`)

	require.Equal(t, 200, w.Code)
	var resp LoginResponse
	decodeData(t, w, &resp)
	assert.Equal(t, uint(7), resp.UserInfo.ID)

	claims, err := middleware.ParseToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "testuser", claims.Username)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	initTestJWT(t)
	env := newTestEnv(t)

	router := gin.New()
	router.POST("/login", NewAuthHandler(env.svc.Users, time.Hour).Login)

	w := doRequest(router, "POST", "/login", `{"username":"alice","password":"wrong-password"}`)
	assert.Equal(t, 401, w.Code)

	w = doRequest(router, "POST", "/login", `{"username":"nobody","password":"whatever"}`)
	assert.Equal(t, 401, w.Code)
}

func TestAuthHandler_GetProfile(t *testing.T) {
	env := newTestEnv(t)
	router := env.router()
	router.GET("/profile", NewAuthHandler(env.svc.Users, time.Hour).GetProfile)

	w := doRequest(router, "GET", "/profile", "")

	require.Equal(t, 200, w.Code)
	var user map[string]interface{}
	decodeData(t, w, &user)
	assert.Equal(t, "alice", user["username"])
}
