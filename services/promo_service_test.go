package services

import (
	"context"
	"errors"
	"storefront/models"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const updatePromoStatusSQL = `UPDATE promos p SET status = \$1`

func TestPromoService_UpdateStatusSuccessWritesAuditLog(t *testing.T) {
	mock := newMockPool(t)
	svc := NewPromoService(mock, newTestCodec(t))

	mock.ExpectBegin()
	mock.ExpectQuery(updatePromoStatusSQL).
		WithArgs("active", int64(5)).
		WillReturnRows(pgxmock.NewRows([]string{"old_status"}).AddRow("inactive"))
	mock.ExpectQuery(`INSERT INTO admin_logs`).
		WithArgs(int64(1), models.ActionPromoStatusUpdate, "promos", int64(5), "status: inactive -> active").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), time.Now()))
	mock.ExpectCommit()

	change, err := svc.UpdateStatus(context.Background(), 1, 5, "  ACTIVE ")
	require.NoError(t, err)
	assert.Equal(t, "inactive", change.OldStatus)
	assert.Equal(t, "active", change.NewStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPromoService_UpdateStatusUnchangedWritesNothing(t *testing.T) {
	mock := newMockPool(t)
	svc := NewPromoService(mock, newTestCodec(t))

	mock.ExpectBegin()
	mock.ExpectQuery(updatePromoStatusSQL).
		WithArgs("active", int64(5)).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM promos WHERE id = \$1\)`).
		WithArgs(int64(5)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	_, err := svc.UpdateStatus(context.Background(), 1, 5, "active")
	assert.ErrorIs(t, err, ErrPromoStatusUnchanged)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPromoService_UpdateStatusMissingPromoRollsBack(t *testing.T) {
	mock := newMockPool(t)
	svc := NewPromoService(mock, newTestCodec(t))

	mock.ExpectBegin()
	mock.ExpectQuery(updatePromoStatusSQL).
		WithArgs("expired", int64(404)).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(int64(404)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectRollback()

	_, err := svc.UpdateStatus(context.Background(), 1, 404, "expired")
	assert.ErrorIs(t, err, ErrPromoNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPromoService_UpdateStatusDatabaseFailure(t *testing.T) {
	mock := newMockPool(t)
	svc := NewPromoService(mock, newTestCodec(t))

	mock.ExpectBegin()
	mock.ExpectQuery(updatePromoStatusSQL).
		WithArgs("scheduled", int64(5)).
		WillReturnError(errors.New("connection reset by peer"))
	mock.ExpectRollback()

	_, err := svc.UpdateStatus(context.Background(), 1, 5, "scheduled")
	var ie *InfrastructureError
	assert.True(t, errors.As(err, &ie))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPromoService_UpdateStatusRejectsUnknownStatus(t *testing.T) {
	mock := newMockPool(t)
	svc := NewPromoService(mock, newTestCodec(t))

	_, err := svc.UpdateStatus(context.Background(), 1, 5, "archived")
	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func validPromoInput() models.PromoInput {
	return models.PromoInput{
		Name:          "Promo Lebaran",
		Code:          "lebaran25",
		DiscountType:  "percentage",
		DiscountValue: "25",
		MaxDiscount:   "50000",
		StartDate:     "2026-03-01T00:00",
		EndDate:       "2026-03-31T23:59",
	}
}

func TestPromoService_CreateRetriesOnConcurrentSlug(t *testing.T) {
	mock := newMockPool(t)
	svc := NewPromoService(mock, newTestCodec(t))
	now := time.Now()

	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM promos WHERE code = \$1`).
		WithArgs("LEBARAN25", int64(0)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM promos WHERE slug = \$1`).
		WithArgs("promo-lebaran", int64(0)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`INSERT INTO promos`).
		WithArgs(anyArgs(15)...).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "promos_slug_key"})
	mock.ExpectRollback()

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM promos WHERE slug = \$1`).
		WithArgs("promo-lebaran", int64(0)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(`FROM promos WHERE slug = \$1`).
		WithArgs("promo-lebaran-1", int64(0)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`INSERT INTO promos`).
		WithArgs(anyArgs(15)...).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(10), now, now))
	mock.ExpectExec(`DELETE FROM promo_products WHERE promo_id = \$1`).
		WithArgs(int64(10)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectQuery(`INSERT INTO admin_logs`).
		WithArgs(int64(3), models.ActionPromoCreate, "promos", int64(10), "code: LEBARAN25").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), now))
	mock.ExpectCommit()

	promo, err := svc.Create(context.Background(), 3, validPromoInput())
	require.NoError(t, err)
	assert.Equal(t, "promo-lebaran-1", promo.Slug)
	assert.Equal(t, "LEBARAN25", promo.Code)
	assert.Equal(t, models.PromoStatusInactive, promo.Status)
	assert.Equal(t, "50000", promo.MaxDiscount.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPromoService_CreateMapsProducts(t *testing.T) {
	mock := newMockPool(t)
	codec := newTestCodec(t)
	svc := NewPromoService(mock, codec)
	now := time.Now()

	in := validPromoInput()
	in.ProductIDs = []string{mustEncode(t, codec, 4), mustEncode(t, codec, 9), mustEncode(t, codec, 4)}

	mock.ExpectQuery(`WHERE code = \$1`).
		WithArgs("LEBARAN25", int64(0)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectBegin()
	mock.ExpectQuery(`WHERE slug = \$1`).
		WithArgs("promo-lebaran", int64(0)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`INSERT INTO promos`).
		WithArgs(anyArgs(15)...).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(11), now, now))
	mock.ExpectExec(`DELETE FROM promo_products`).
		WithArgs(int64(11)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec(`INSERT INTO promo_products`).
		WithArgs(int64(11), []int64{4, 9}).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(), 3, in)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Message, "produk")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPromoService_CreateCodeTaken(t *testing.T) {
	mock := newMockPool(t)
	svc := NewPromoService(mock, newTestCodec(t))

	mock.ExpectQuery(`WHERE code = \$1`).
		WithArgs("LEBARAN25", int64(0)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	_, err := svc.Create(context.Background(), 3, validPromoInput())
	assert.ErrorIs(t, err, ErrPromoCodeTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPromoService_ParseInputValidation(t *testing.T) {
	svc := &PromoService{}

	tests := map[string]func(in *models.PromoInput){
		"missing name":        func(in *models.PromoInput) { in.Name = " " },
		"bad code":            func(in *models.PromoInput) { in.Code = "a b" },
		"bad discount type":   func(in *models.PromoInput) { in.DiscountType = "bogo" },
		"percentage over 100": func(in *models.PromoInput) { in.DiscountValue = "100.5" },
		"negative value":      func(in *models.PromoInput) { in.DiscountType = "fixed"; in.DiscountValue = "-1" },
		"negative min":        func(in *models.PromoInput) { in.MinPurchase = "-5" },
		"inverted period":     func(in *models.PromoInput) { in.StartDate, in.EndDate = in.EndDate, in.StartDate },
		"bad date":            func(in *models.PromoInput) { in.StartDate = "besok" },
		"bad status":          func(in *models.PromoInput) { in.Status = "paused" },
		"bad max claims":      func(in *models.PromoInput) { in.MaxClaims = "-2" },
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			in := validPromoInput()
			mutate(&in)
			_, err := svc.parseInput(in, true)
			var ve *ValidationError
			assert.True(t, errors.As(err, &ve), "got %v", err)
		})
	}

	p, err := svc.parseInput(validPromoInput(), true)
	require.NoError(t, err)
	assert.Equal(t, models.EligibilityAll, p.Eligibility)
	assert.True(t, p.MinPurchase.IsZero())
	assert.Nil(t, p.MaxClaims)
}
