package service

import (
	"context"
	"testing"

	"budget/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryService_DeleteReferencedIsConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	cat, err := env.svc.Categories.Create(ctx, env.user.ID, CategoryInput{Name: "住房"})
	require.NoError(t, err)

	_, err = env.svc.Bills.Create(ctx, env.user.ID, BillInput{CategoryID: &cat.ID, Name: "房租", Amount: "1800", DueDay: 10})
	require.NoError(t, err)

	err = env.svc.Categories.Delete(ctx, env.user.ID, cat.ID)
	assert.ErrorIs(t, err, ErrConflict)
	assert.NotErrorIs(t, err, ErrNotFound)

	still, err := env.store.GetCategory(ctx, cat.ID)
	require.NoError(t, err)
	assert.Equal(t, "住房", still.Name)
}

func TestCategoryService_DeleteAfterReassign(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	cat, err := env.svc.Categories.Create(ctx, env.user.ID, CategoryInput{Name: "交通"})
	require.NoError(t, err)
	bill, err := env.svc.Bills.Create(ctx, env.user.ID, BillInput{CategoryID: &cat.ID, Name: "油费", Amount: "300", DueDay: 5})
	require.NoError(t, err)

	zero := uint(0)
	_, err = env.svc.Bills.Update(ctx, env.user.ID, bill.ID, BillUpdate{CategoryID: &zero})
	require.NoError(t, err)

	require.NoError(t, env.svc.Categories.Delete(ctx, env.user.ID, cat.ID))
	_, err = env.store.GetCategory(ctx, cat.ID)
	assert.Error(t, err)

	logs := env.logs(t)
	assert.Equal(t, models.ActionDelete, logs[0].Action)
	assert.Equal(t, models.EntityCategory, logs[0].EntityType)

	assert.ErrorIs(t, env.svc.Categories.Delete(ctx, env.user.ID, cat.ID), ErrNotFound)
}

func TestCategoryService_CreateDefaultsAndConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cat, err := env.svc.Categories.Create(ctx, env.user.ID, CategoryInput{Name: " 医疗 "})
	require.NoError(t, err)
	assert.Equal(t, "医疗", cat.Name)
	assert.Equal(t, models.DefaultCategoryColor, cat.Color)
	assert.Equal(t, models.DefaultCategoryIcon, cat.Icon)

	_, err = env.svc.Categories.Create(ctx, env.user.ID, CategoryInput{Name: "医疗"})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = env.svc.Categories.Create(ctx, env.user.ID, CategoryInput{Name: ""})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCategoryService_Update(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a, err := env.svc.Categories.Create(ctx, env.user.ID, CategoryInput{Name: "教育"})
	require.NoError(t, err)
	_, err = env.svc.Categories.Create(ctx, env.user.ID, CategoryInput{Name: "其他"})
	require.NoError(t, err)

	updated, err := env.svc.Categories.Update(ctx, env.user.ID, a.ID, CategoryUpdate{Color: strPtr("#ec4899"), Name: strPtr("教育")})
	require.NoError(t, err)
	assert.Equal(t, "#ec4899", updated.Color)

	_, err = env.svc.Categories.Update(ctx, env.user.ID, a.ID, CategoryUpdate{Name: strPtr("其他")})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = env.svc.Categories.Update(ctx, env.user.ID, 999, CategoryUpdate{Color: strPtr("#000000")})
	assert.ErrorIs(t, err, ErrNotFound)
}
