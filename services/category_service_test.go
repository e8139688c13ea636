package services

import (
	"context"
	"storefront/models"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryService_Create(t *testing.T) {
	mock := newMockPool(t)
	svc := NewCategoryService(mock)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO categories`).
		WithArgs("Teh").
		WillReturnRows(pgxmock.NewRows([]string{"id", "inserted"}).AddRow(int64(6), true))
	mock.ExpectQuery(`INSERT INTO admin_logs`).
		WithArgs(int64(1), models.ActionCategoryCreate, "categories", int64(6), "name: Teh").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), time.Now()))
	mock.ExpectCommit()

	category, err := svc.Create(context.Background(), 1, "  Teh ")
	require.NoError(t, err)
	assert.Equal(t, int64(6), category.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryService_CreateExisting(t *testing.T) {
	mock := newMockPool(t)
	svc := NewCategoryService(mock)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO categories`).
		WithArgs("Kopi").
		WillReturnRows(pgxmock.NewRows([]string{"id", "inserted"}).AddRow(int64(2), false))
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(), 1, "Kopi")
	assert.ErrorIs(t, err, ErrCategoryExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}
