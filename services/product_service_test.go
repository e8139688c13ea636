package services

import (
	"context"
	"errors"
	"math"
	"mime/multipart"
	"storefront/models"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeImageStore struct {
	saved   []string
	deleted []string
}

func (f *fakeImageStore) Save(_ context.Context, header *multipart.FileHeader) (string, error) {
	ref := "/uploads/products/" + header.Filename
	f.saved = append(f.saved, ref)
	return ref, nil
}

func (f *fakeImageStore) Delete(_ context.Context, ref string) error {
	f.deleted = append(f.deleted, ref)
	return nil
}

var listCols = []string{
	"id", "name", "description", "price_amount", "price_currency", "slug", "status",
	"tags", "image", "categories", "created_at", "updated_at",
}

func TestProductService_InvertedPriceRangeSkipsQuery(t *testing.T) {
	mock := newMockPool(t)
	svc := NewProductService(mock, newTestCodec(t), nil)

	minPrice, maxPrice := int64(90000), int64(10000)
	page, err := svc.List(context.Background(), models.ProductFilter{MinPrice: &minPrice, MaxPrice: &maxPrice, Limit: 10})

	require.NoError(t, err)
	assert.Empty(t, page.Products)
	assert.NotNil(t, page.Products)
	assert.Equal(t, 0, page.Meta.TotalItems)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductService_ListCoercesLimitAndOffset(t *testing.T) {
	mock := newMockPool(t)
	codec := newTestCodec(t)
	svc := NewProductService(mock, codec, nil)
	now := time.Now()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM products p`).
		WithArgs("active").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`ORDER BY p.created_at DESC, p.id DESC LIMIT \$2$`).
		WithArgs("active", 1).
		WillReturnRows(pgxmock.NewRows(listCols).
			AddRow(int64(8), "Teh Tarik", "", "12000.00", "IDR", "teh-tarik", "active", []string{}, "", "", now, now))

	page, err := svc.List(context.Background(), models.ProductFilter{Limit: -5, Offset: -3, SortBy: "nonsense"})
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	assert.Equal(t, 1, page.Meta.Limit)
	assert.Equal(t, 0, page.Meta.Offset)
	assert.Equal(t, 3, page.Meta.TotalPages)
	assert.Equal(t, mustEncode(t, codec, 8), page.Products[0].EncodedID)
	assert.Equal(t, []string{}, page.Products[0].Categories)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductService_ListAllUsesPageOffset(t *testing.T) {
	mock := newMockPool(t)
	svc := NewProductService(mock, newTestCodec(t), nil)

	mock.ExpectQuery(`SELECT COUNT\(\*\)`).
		WithArgs("active").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(30))
	mock.ExpectQuery(`LIMIT \$2 OFFSET \$3$`).
		WithArgs("active", 12, 24).
		WillReturnRows(pgxmock.NewRows(listCols))

	page, err := svc.ListAll(context.Background(), 3, 12)
	require.NoError(t, err)
	assert.Equal(t, 3, page.Meta.Page)
	assert.Equal(t, 3, page.Meta.TotalPages)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductService_ListAllHugePageStillSendsOffset(t *testing.T) {
	mock := newMockPool(t)
	svc := NewProductService(mock, newTestCodec(t), nil)
	wantOffset := (math.MaxInt / 12) * 12

	mock.ExpectQuery(`SELECT COUNT\(\*\)`).
		WithArgs("active").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(30))
	mock.ExpectQuery(`LIMIT \$2 OFFSET \$3$`).
		WithArgs("active", 12, wantOffset).
		WillReturnRows(pgxmock.NewRows(listCols))

	page, err := svc.ListAll(context.Background(), math.MaxInt, 12)
	require.NoError(t, err)
	assert.Empty(t, page.Products)
	assert.Equal(t, wantOffset, page.Meta.Offset)
	assert.Equal(t, math.MaxInt/12+1, page.Meta.Page)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductService_ListDatabaseErrorReturnsEmptyPage(t *testing.T) {
	mock := newMockPool(t)
	svc := NewProductService(mock, newTestCodec(t), nil)

	mock.ExpectQuery(`SELECT COUNT\(\*\)`).
		WithArgs(anyArgs(1)...).
		WillReturnError(errors.New("relation \"products\" does not exist"))

	page, err := svc.ListAll(context.Background(), 1, 12)
	var ie *InfrastructureError
	require.True(t, errors.As(err, &ie))
	require.NotNil(t, page)
	assert.NotNil(t, page.Products)
	assert.Empty(t, page.Products)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductService_SearchRequiresKeyword(t *testing.T) {
	svc := NewProductService(newMockPool(t), newTestCodec(t), nil)

	_, err := svc.Search(context.Background(), "   ", 0, 1, 12)
	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestProductService_DetailRejectsBadID(t *testing.T) {
	mock := newMockPool(t)
	svc := NewProductService(mock, newTestCodec(t), nil)

	_, err := svc.Detail(context.Background(), "not-an-id")
	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductService_DeleteSelectedContinuesPastFailures(t *testing.T) {
	mock := newMockPool(t)
	codec := newTestCodec(t)
	images := &fakeImageStore{}
	svc := NewProductService(mock, codec, images)

	first, missing := mustEncode(t, codec, 1), mustEncode(t, codec, 2)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT image_path FROM product_images`).
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"image_path"}).AddRow("/uploads/products/a.png"))
	mock.ExpectExec(`DELETE FROM products WHERE id = \$1`).
		WithArgs(int64(1)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectQuery(`INSERT INTO admin_logs`).
		WithArgs(int64(7), models.ActionProductDelete, "products", int64(1), "images: 1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), time.Now()))
	mock.ExpectCommit()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT image_path FROM product_images`).
		WithArgs(int64(2)).
		WillReturnRows(pgxmock.NewRows([]string{"image_path"}))
	mock.ExpectExec(`DELETE FROM products WHERE id = \$1`).
		WithArgs(int64(2)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectRollback()

	result, err := svc.DeleteSelected(context.Background(), 7, []string{"garbage", first, missing})
	require.NoError(t, err)
	assert.Equal(t, []string{first}, result.Deleted)
	require.Len(t, result.Failed, 2)
	assert.Equal(t, "garbage", result.Failed[0].ID)
	assert.Equal(t, "ID produk tidak valid", result.Failed[0].Reason)
	assert.Equal(t, missing, result.Failed[1].ID)
	assert.Equal(t, "Produk tidak ditemukan", result.Failed[1].Reason)
	assert.Equal(t, []string{"/uploads/products/a.png"}, images.deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductService_DeleteSelectedEmpty(t *testing.T) {
	svc := NewProductService(newMockPool(t), newTestCodec(t), nil)

	_, err := svc.DeleteSelected(context.Background(), 7, nil)
	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestProductService_UpdateStatusMissingProduct(t *testing.T) {
	mock := newMockPool(t)
	codec := newTestCodec(t)
	svc := NewProductService(mock, codec, nil)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE products SET status = \$1`).
		WithArgs("inactive", int64(3)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectRollback()

	err := svc.UpdateStatus(context.Background(), 7, mustEncode(t, codec, 3), "Inactive")
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductService_CreateValidation(t *testing.T) {
	svc := NewProductService(newMockPool(t), newTestCodec(t), nil)

	cases := []models.CreateProductInput{
		{Name: "", Price: "1000"},
		{Name: "Kopi", Price: "abc"},
		{Name: "Kopi", Price: "-1"},
		{Name: "Kopi", Price: "1000", Currency: "rupiah"},
		{Name: "Kopi", Price: "1000", Status: "draft"},
	}
	for _, in := range cases {
		_, err := svc.Create(context.Background(), 1, in)
		var ve *ValidationError
		assert.True(t, errors.As(err, &ve), "input %+v", in)
	}
}

func TestProductService_CreateInsertsCategoriesAndImages(t *testing.T) {
	mock := newMockPool(t)
	codec := newTestCodec(t)
	svc := NewProductService(mock, codec, nil)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM products WHERE slug = \$1`).
		WithArgs("kopi-gula-aren", int64(0)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`INSERT INTO products`).
		WithArgs(anyArgs(7)...).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(21), now, now))
	mock.ExpectQuery(`INSERT INTO categories`).
		WithArgs("Kopi").
		WillReturnRows(pgxmock.NewRows([]string{"id", "inserted"}).AddRow(int64(2), false))
	mock.ExpectExec(`INSERT INTO product_categories`).
		WithArgs(int64(21), int64(2)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery(`INSERT INTO admin_logs`).
		WithArgs(int64(1), models.ActionProductCreate, "products", int64(21), "slug: kopi-gula-aren").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(5), now))
	mock.ExpectCommit()

	product, err := svc.Create(context.Background(), 1, models.CreateProductInput{
		Name:       "Kopi Gula Aren",
		Price:      "18000",
		Categories: []string{"Kopi", " kopi ", ""},
		Tags:       SplitTags("dingin, manis"),
	})
	require.NoError(t, err)
	assert.Equal(t, mustEncode(t, codec, 21), product.EncodedID)
	assert.Equal(t, "IDR", product.PriceCurrency)
	assert.Equal(t, models.ProductStatusActive, product.Status)
	assert.Equal(t, []string{"dingin", "manis"}, product.Tags)
	assert.NoError(t, mock.ExpectationsWereMet())
}
