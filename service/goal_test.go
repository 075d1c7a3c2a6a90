package service

import (
	"context"
	"testing"

	"budget/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoalService_Lifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	goal, err := env.svc.Goals.Create(ctx, env.user.ID, GoalInput{
		Name: "应急基金", Type: models.GoalTypeSavings, TargetAmount: "10000", Period: models.GoalPeriodYearly,
	})
	require.NoError(t, err)
	assert.True(t, goal.IsActive)
	assert.True(t, goal.CurrentAmount.IsZero())
	assert.Equal(t, 0.0, goal.Progress)

	goal, err = env.svc.Goals.Contribute(ctx, env.user.ID, goal.ID, "2500")
	require.NoError(t, err)
	assert.Equal(t, "2500.00", goal.CurrentAmount.StringFixed(2))
	assert.Equal(t, 25.0, goal.Progress)

	goal, err = env.svc.Goals.Update(ctx, env.user.ID, goal.ID, GoalUpdate{IsActive: boolPtr(false), TargetAmount: strPtr("5000")})
	require.NoError(t, err)
	assert.False(t, goal.IsActive)
	assert.Equal(t, 50.0, goal.Progress)

	list, err := env.svc.Goals.List(ctx, env.user.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.False(t, list[0].IsActive)

	require.NoError(t, env.svc.Goals.Delete(ctx, env.user.ID, goal.ID))
	assert.ErrorIs(t, env.svc.Goals.Delete(ctx, env.user.ID, goal.ID), ErrNotFound)

	logs := env.logs(t)
	require.Len(t, logs, 4)
	for _, l := range logs {
		assert.Equal(t, models.EntityGoal, l.EntityType)
	}
	assert.Equal(t, models.ActionDelete, logs[0].Action)
}

func TestGoalService_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.Goals.Create(ctx, env.user.ID, GoalInput{Name: "x", Type: "invest", TargetAmount: "1", Period: models.GoalPeriodMonthly})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = env.svc.Goals.Create(ctx, env.user.ID, GoalInput{Name: "x", Type: models.GoalTypeSavings, TargetAmount: "1", Period: "weekly"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = env.svc.Goals.Create(ctx, env.user.ID, GoalInput{Name: "", Type: models.GoalTypeSavings, TargetAmount: "1", Period: models.GoalPeriodMonthly})
	assert.ErrorIs(t, err, ErrInvalidInput)
	missing := uint(42)
	_, err = env.svc.Goals.Create(ctx, env.user.ID, GoalInput{Name: "x", Type: models.GoalTypeSavings, TargetAmount: "1", Period: models.GoalPeriodMonthly, CategoryID: &missing})
	assert.ErrorIs(t, err, ErrInvalidInput)

	goal, err := env.svc.Goals.Create(ctx, env.user.ID, GoalInput{Name: "x", Type: models.GoalTypeExpenseLimit, TargetAmount: "100", Period: models.GoalPeriodMonthly})
	require.NoError(t, err)
	_, err = env.svc.Goals.Contribute(ctx, env.user.ID, goal.ID, "0")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = env.svc.Goals.Update(ctx, env.user.ID, goal.ID, GoalUpdate{Type: strPtr("bad")})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = env.svc.Goals.Update(ctx, env.user.ID+1, goal.ID, GoalUpdate{Name: strPtr("y")})
	assert.ErrorIs(t, err, ErrNotFound)
}
