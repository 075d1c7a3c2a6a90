package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"budget/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivityLogger_PublishesAfterAppend(t *testing.T) {
	env := newTestEnv(t)
	pub := &recordingPublisher{}
	logger := NewActivityLogger(env.store, pub, clock)

	logger.Log(context.Background(), env.user.ID, models.ActionCreate, models.EntityBill, idPtr(7), "创建账单: 房租",
		map[string]interface{}{"amount": "1800.00"})

	require.Len(t, pub.events, 1)
	assert.NotZero(t, pub.events[0].ID)
	assert.Equal(t, fixedNow, pub.events[0].CreatedAt)

	ev := NewActivityEvent(pub.events[0])
	raw, err := ev.ToJSON()
	require.NoError(t, err)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "create", decoded["action"])
	assert.Equal(t, map[string]interface{}{"amount": "1800.00"}, decoded["metadata"])
}

func TestActivityLogger_FailuresAreSwallowed(t *testing.T) {
	env := newTestEnv(t)

	pub := &recordingPublisher{}
	NewActivityLogger(failingLogStore{Store: env.store}, pub, clock).
		Log(context.Background(), env.user.ID, models.ActionDelete, models.EntityGoal, nil, "删除目标", nil)
	assert.Empty(t, pub.events, "追加失败时不发布")

	pub = &recordingPublisher{err: errors.New("broker down")}
	logger := NewActivityLogger(env.store, pub, clock)
	logger.Log(context.Background(), env.user.ID, models.ActionDelete, models.EntityGoal, nil, "删除目标", nil)
	assert.Len(t, pub.events, 1)

	logs, err := logger.List(context.Background(), env.user.ID, 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Empty(t, logs[0].Metadata)
}

func TestActivityLogger_ListNewestFirstWithLimit(t *testing.T) {
	env := newTestEnv(t)
	logger := NewActivityLogger(env.store, nil, nil)
	for _, msg := range []string{"一", "二", "三"} {
		logger.Log(context.Background(), env.user.ID, models.ActionUpdate, models.EntityBill, nil, msg, nil)
	}

	logs, err := logger.List(context.Background(), env.user.ID, 2)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "三", logs[0].Message)
	assert.Equal(t, "二", logs[1].Message)
}
