package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"regexp"
	"storefront/libs"
	"storefront/models"
	"storefront/repositories"
	"storefront/utils"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const maxInsertAttempts = 3

var currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)

type ProductService struct {
	db           repositories.TxBeginner
	productRepo  *repositories.ProductRepository
	categoryRepo *repositories.CategoryRepository
	logRepo      *repositories.AdminLogRepository
	codec        *utils.IDCodec
	images       libs.ImageStore
}

func NewProductService(db repositories.TxBeginner, codec *utils.IDCodec, images libs.ImageStore) *ProductService {
	return &ProductService{
		db:           db,
		productRepo:  repositories.NewProductRepository(db),
		categoryRepo: repositories.NewCategoryRepository(db),
		logRepo:      repositories.NewAdminLogRepository(db),
		codec:        codec,
		images:       images,
	}
}

// ProductPage is one page of products with client-facing ids already set.
type ProductPage struct {
	Products []models.Product
	Meta     models.MetaData
}

// List runs a filtered listing. Limit and offset are coerced, never
// rejected; an inverted price range yields an empty page without a query.
func (s *ProductService) List(ctx context.Context, f models.ProductFilter) (*ProductPage, error) {
	f.Limit, f.Offset = utils.NormalizeLimitOffset(f.Limit, f.Offset)
	page := f.Offset/f.Limit + 1
	return s.list(ctx, f, page)
}

func (s *ProductService) ListAll(ctx context.Context, page, limit int) (*ProductPage, error) {
	page, limit, offset := utils.NormalizePage(page, limit)
	return s.list(ctx, models.ProductFilter{Limit: limit, Offset: offset}, page)
}

func (s *ProductService) ListByCategory(ctx context.Context, categoryID int64, page, limit int) (*ProductPage, error) {
	if categoryID <= 0 {
		return nil, ErrInvalidCategory
	}
	page, limit, offset := utils.NormalizePage(page, limit)
	return s.list(ctx, models.ProductFilter{CategoryID: categoryID, Limit: limit, Offset: offset}, page)
}

func (s *ProductService) Search(ctx context.Context, keyword string, categoryID int64, page, limit int) (*ProductPage, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, invalid("Kata kunci pencarian wajib diisi")
	}
	if len(keyword) > 100 {
		return nil, invalid("Kata kunci pencarian terlalu panjang")
	}
	page, limit, offset := utils.NormalizePage(page, limit)
	return s.list(ctx, models.ProductFilter{Keyword: keyword, CategoryID: categoryID, Limit: limit, Offset: offset}, page)
}

func (s *ProductService) list(ctx context.Context, f models.ProductFilter, page int) (*ProductPage, error) {
	result := &ProductPage{
		Products: []models.Product{},
		Meta:     models.MetaData{Page: page, Limit: f.Limit, Offset: f.Offset},
	}

	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return result, nil
	}

	products, total, err := s.productRepo.List(ctx, f)
	if err != nil {
		log.Printf("[Product] list failed: %v", err)
		return result, infra("list products", err)
	}

	if err := s.encodeIDs(products); err != nil {
		return result, err
	}

	result.Products = products
	result.Meta = pageMeta(page, f.Limit, f.Offset, total)
	return result, nil
}

func (s *ProductService) encodeIDs(products []models.Product) error {
	for i := range products {
		encoded, err := s.codec.Encode(products[i].ID)
		if err != nil {
			return infra("encode product id", err)
		}
		products[i].EncodedID = encoded
	}
	return nil
}

func (s *ProductService) decodeID(encoded string) (int64, error) {
	id, err := s.codec.Decode(encoded)
	if err != nil {
		return 0, invalid("ID produk tidak valid")
	}
	return id, nil
}

func (s *ProductService) Detail(ctx context.Context, encodedID string) (*models.Product, error) {
	id, err := s.decodeID(encodedID)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindActiveByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, infra("get product", err)
	}

	product.EncodedID = encodedID
	return product, nil
}

func (s *ProductService) UpdateStatus(ctx context.Context, adminID int64, encodedID, status string) error {
	id, err := s.decodeID(encodedID)
	if err != nil {
		return err
	}

	status = strings.ToLower(strings.TrimSpace(status))
	if !models.ValidProductStatus(status) {
		return invalid("Status produk tidak valid")
	}

	err = repositories.RunInTx(ctx, s.db, func(tx pgx.Tx) error {
		if err := s.productRepo.WithTx(tx).UpdateStatus(ctx, id, status); err != nil {
			return err
		}
		return recordAdminAction(ctx, s.logRepo.WithTx(tx), adminID, models.ActionProductStatusUpdate,
			"products", id, "status: "+status)
	})
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrProductNotFound
	}
	if err != nil {
		return infra("update product status", err)
	}
	return nil
}

// DeleteSelected deletes each product in its own transaction. A bad or
// missing id is reported in the result and does not stop the batch.
func (s *ProductService) DeleteSelected(ctx context.Context, adminID int64, encodedIDs []string) (*models.BatchDeleteResult, error) {
	if len(encodedIDs) == 0 {
		return nil, invalid("Tidak ada produk yang dipilih")
	}

	result := &models.BatchDeleteResult{Deleted: []string{}, Failed: []models.DeleteFailure{}}
	for _, encoded := range encodedIDs {
		id, err := s.decodeID(encoded)
		if err != nil {
			result.Failed = append(result.Failed, models.DeleteFailure{ID: encoded, Reason: "ID produk tidak valid"})
			continue
		}

		var images []string
		err = repositories.RunInTx(ctx, s.db, func(tx pgx.Tx) error {
			repo := s.productRepo.WithTx(tx)
			paths, err := repo.ImagePaths(ctx, id)
			if err != nil {
				return err
			}
			if err := repo.Delete(ctx, id); err != nil {
				return err
			}
			images = paths
			return recordAdminAction(ctx, s.logRepo.WithTx(tx), adminID, models.ActionProductDelete,
				"products", id, fmt.Sprintf("images: %d", len(paths)))
		})

		switch {
		case errors.Is(err, repositories.ErrNotFound):
			result.Failed = append(result.Failed, models.DeleteFailure{ID: encoded, Reason: "Produk tidak ditemukan"})
		case err != nil:
			log.Printf("[Product] delete %d failed: %v", id, err)
			result.Failed = append(result.Failed, models.DeleteFailure{ID: encoded, Reason: "Gagal menghapus produk"})
		default:
			result.Deleted = append(result.Deleted, encoded)
			s.removeImages(ctx, images)
		}
	}

	return result, nil
}

func (s *ProductService) removeImages(ctx context.Context, refs []string) {
	if s.images == nil {
		return
	}
	for _, ref := range refs {
		if err := s.images.Delete(ctx, ref); err != nil {
			log.Printf("[Product] failed to remove image %s: %v", ref, err)
		}
	}
}

func (s *ProductService) Create(ctx context.Context, adminID int64, in models.CreateProductInput) (*models.Product, error) {
	product, err := buildProduct(in)
	if err != nil {
		return nil, err
	}

	uploaded, err := s.storeImages(ctx, in.Images)
	if err != nil {
		return nil, err
	}

	for attempt := 1; attempt <= maxInsertAttempts; attempt++ {
		err = repositories.RunInTx(ctx, s.db, func(tx pgx.Tx) error {
			return s.insertProduct(ctx, tx, adminID, product, uploaded)
		})
		if !repositories.IsConflictOn(err, repositories.ProductSlugConstraint) {
			break
		}
		log.Printf("[Product] slug %q taken concurrently, retrying (%d/%d)", product.Slug, attempt, maxInsertAttempts)
	}

	if err != nil {
		s.removeImages(ctx, uploaded)
		var ve *ValidationError
		if errors.As(err, &ve) || errors.Is(err, ErrSlugExhausted) {
			return nil, err
		}
		return nil, infra("create product", err)
	}

	encoded, err := s.codec.Encode(product.ID)
	if err != nil {
		return nil, infra("encode product id", err)
	}
	product.EncodedID = encoded
	product.Images = uploaded
	if len(uploaded) > 0 {
		product.Image = uploaded[0]
	}
	return product, nil
}

func (s *ProductService) insertProduct(ctx context.Context, tx pgx.Tx, adminID int64, p *models.Product, images []string) error {
	repo := s.productRepo.WithTx(tx)

	slug, err := GenerateUniqueSlug(ctx, repo, p.Name, 0)
	if err != nil {
		return err
	}
	p.Slug = slug

	if err := repo.Create(ctx, p); err != nil {
		return err
	}

	categories := s.categoryRepo.WithTx(tx)
	for _, name := range p.Categories {
		categoryID, _, err := categories.Upsert(ctx, name)
		if err != nil {
			return err
		}
		if err := repo.AttachCategory(ctx, p.ID, categoryID); err != nil {
			return err
		}
	}

	for _, path := range images {
		if err := repo.AddImage(ctx, p.ID, path); err != nil {
			return err
		}
	}

	return recordAdminAction(ctx, s.logRepo.WithTx(tx), adminID, models.ActionProductCreate,
		"products", p.ID, "slug: "+p.Slug)
}

func (s *ProductService) storeImages(ctx context.Context, headers []*multipart.FileHeader) ([]string, error) {
	uploaded := []string{}
	if len(headers) == 0 {
		return uploaded, nil
	}
	if s.images == nil {
		return nil, invalid("Penyimpanan gambar tidak tersedia")
	}

	for _, header := range headers {
		ref, err := s.images.Save(ctx, header)
		if err != nil {
			s.removeImages(ctx, uploaded)
			return nil, invalid("Gagal mengunggah gambar %s: %v", header.Filename, err)
		}
		uploaded = append(uploaded, ref)
	}
	return uploaded, nil
}

func buildProduct(in models.CreateProductInput) (*models.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("Nama produk wajib diisi")
	}
	if len(name) > 200 {
		return nil, invalid("Nama produk maksimal 200 karakter")
	}

	price, err := decimal.NewFromString(strings.TrimSpace(in.Price))
	if err != nil {
		return nil, invalid("Harga produk tidak valid")
	}
	if price.IsNegative() {
		return nil, invalid("Harga produk tidak boleh negatif")
	}

	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = models.DefaultCurrency
	}
	if !currencyPattern.MatchString(currency) {
		return nil, invalid("Mata uang tidak valid")
	}

	status := strings.ToLower(strings.TrimSpace(in.Status))
	if status == "" {
		status = models.ProductStatusActive
	}
	if !models.ValidProductStatus(status) {
		return nil, invalid("Status produk tidak valid")
	}

	return &models.Product{
		Name:          name,
		Description:   strings.TrimSpace(in.Description),
		PriceAmount:   price.Round(2),
		PriceCurrency: currency,
		Status:        status,
		Categories:    cleanList(in.Categories, 100),
		Tags:          cleanList(in.Tags, 50),
	}, nil
}

// cleanList trims entries, drops empty or overlong ones and removes
// case-insensitive duplicates while keeping the first spelling.
func cleanList(items []string, maxLen int) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, item := range items {
		item = strings.TrimSpace(item)
		key := strings.ToLower(item)
		if item == "" || len(item) > maxLen || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	return out
}

// SplitTags turns "a, b ,c" into its parts.
func SplitTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return strings.Split(raw, ",")
}
