package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*GormStore, sqlmock.Sqlmock, func()) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return NewGormStore(gormDB), mock, func() { sqlDB.Close() }
}

func TestGormStore_DeleteCategory_InUseRollsBack(t *testing.T) {
	store, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `bills`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(2))
	mock.ExpectRollback()

	err := store.DeleteCategory(context.Background(), 3)
	assert.ErrorIs(t, err, ErrCategoryInUse)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_DeleteCategory_HardDelete(t *testing.T) {
	store, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `bills`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))
	mock.ExpectExec("DELETE FROM `categories`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, store.DeleteCategory(context.Background(), 3))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_GetBill_NotFound(t *testing.T) {
	store, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `bills`").
		WillReturnRows(sqlmock.NewRows([]string{}))

	_, err := store.GetBill(context.Background(), 42)
	assert.ErrorIs(t, err, ErrRecordNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
