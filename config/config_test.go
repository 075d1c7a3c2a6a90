package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeErrorMessage(t *testing.T) {
	fallback := "操作失败"
	testErr := errors.New("internal database error")

	// nil err 返回 fallback
	assert.Equal(t, fallback, SafeErrorMessage(nil, fallback))

	// release 模式返回 fallback，不暴露错误详情
	GlobalConfig = &Config{Server: ServerConfig{Mode: "release"}}
	defer func() { GlobalConfig = nil }()
	assert.Equal(t, fallback, SafeErrorMessage(testErr, fallback))

	// debug 模式返回 err.Error()
	GlobalConfig = &Config{Server: ServerConfig{Mode: "debug"}}
	assert.Equal(t, "internal database error", SafeErrorMessage(testErr, fallback))

	GlobalConfig = nil
	assert.Equal(t, "internal database error", SafeErrorMessage(testErr, fallback))
}

func TestLoadConfig_Defaults(t *testing.T) {
	defer func() { GlobalConfig = nil }()

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 24*time.Hour, cfg.JWT.ExpireTime)
	assert.False(t, cfg.Email.Enabled)
	assert.Equal(t, 3, cfg.Reminder.DaysAhead)
	assert.Same(t, cfg, GlobalConfig)
}

func TestLoadConfig_ExternalFileOverrides(t *testing.T) {
	defer func() { GlobalConfig = nil }()

	path := filepath.Join(t.TempDir(), "override.yaml")
	content := "server:\n  port: \":9090\"\ndatabase:\n  driver: sqlite\n  path: /tmp/b.db\nreminder:\n  days_ahead: 5\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "/tmp/b.db", cfg.Database.Path)
	assert.Equal(t, 5, cfg.Reminder.DaysAhead)
	// 未覆盖的字段保留内置默认值
	assert.Equal(t, "budget", cfg.Database.DBName)
}

func TestAdvisorConfig_Timeout(t *testing.T) {
	assert.Equal(t, 60*time.Second, AdvisorConfig{}.Timeout())
	assert.Equal(t, 5*time.Second, AdvisorConfig{TimeoutSeconds: 5}.Timeout())
}
