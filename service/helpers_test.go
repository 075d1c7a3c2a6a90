package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"budget/models"
	"budget/repository"

	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 12, 9, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func timePtr(t time.Time) *time.Time { return &t }

type testEnv struct {
	store *repository.MemoryStore
	svc   *Services
	user  *models.User
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := repository.NewMemoryStore()
	svc := NewServices(store, Options{Now: clock})
	user := &models.User{Username: "alice", Password: "x", Email: "alice@example.com", Name: "Alice"}
	require.NoError(t, store.CreateUser(context.Background(), user))
	return &testEnv{store: store, svc: svc, user: user}
}

func (e *testEnv) category(t *testing.T, name string) *models.Category {
	t.Helper()
	cat := &models.Category{Name: name, Color: "#ef4444", Icon: "tag"}
	require.NoError(t, e.store.CreateCategory(context.Background(), cat))
	return cat
}

func (e *testEnv) logs(t *testing.T) []models.ActivityLog {
	t.Helper()
	logs, err := e.store.ListActivityLogs(context.Background(), e.user.ID, 0)
	require.NoError(t, err)
	return logs
}

// failingLogStore 写操作日志总是失败
type failingLogStore struct {
	repository.Store
}

func (failingLogStore) AppendActivityLog(context.Context, *models.ActivityLog) error {
	return errors.New("disk full")
}

type recordingPublisher struct {
	events []*models.ActivityLog
	err    error
}

func (p *recordingPublisher) PublishActivity(_ context.Context, entry *models.ActivityLog) error {
	p.events = append(p.events, entry)
	return p.err
}
