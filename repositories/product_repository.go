package repositories

import (
	"context"
	"errors"
	"fmt"
	"storefront/models"
	"storefront/repositories/query"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const ProductSlugConstraint = "products_slug_key"

const (
	productImageExpr = `COALESCE((SELECT pi.image_path FROM product_images pi WHERE pi.product_id = p.id ORDER BY pi.created_at, pi.id LIMIT 1), '')`
	productCatsExpr  = `COALESCE((SELECT string_agg(c.name, ',' ORDER BY c.name) FROM product_categories pc JOIN categories c ON c.id = pc.category_id WHERE pc.product_id = p.id), '')`
	productImgsExpr  = `COALESCE((SELECT array_agg(pi.image_path ORDER BY pi.created_at, pi.id) FROM product_images pi WHERE pi.product_id = p.id), '{}')`
)

var productListColumns = []string{
	"p.id", "p.name", "p.description", "p.price_amount::text", "p.price_currency",
	"p.slug", "p.status", "p.tags", productImageExpr, productCatsExpr,
	"p.created_at", "p.updated_at",
}

type ProductRepository struct {
	db DBTX
}

func NewProductRepository(db DBTX) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) WithTx(tx pgx.Tx) *ProductRepository {
	return &ProductRepository{db: tx}
}

// activeProducts is the shared predicate of every public listing.
func activeProducts(f models.ProductFilter) *query.Builder {
	b := query.From("products p").
		Where(query.Eq("p.status", models.ProductStatusActive)).
		Where(query.IsNull("p.deleted_at"))

	if len(f.Categories) > 0 {
		b = b.Where(query.Expr(
			"EXISTS (SELECT 1 FROM product_categories pc JOIN categories c ON c.id = pc.category_id WHERE pc.product_id = p.id AND c.name = ANY(?))",
			f.Categories,
		))
	}
	if f.CategoryID > 0 {
		b = b.Where(query.Expr(
			"EXISTS (SELECT 1 FROM product_categories pc WHERE pc.product_id = p.id AND pc.category_id = ?)",
			f.CategoryID,
		))
	}
	if f.MinPrice != nil {
		b = b.Where(query.Gte("p.price_amount", *f.MinPrice))
	}
	if f.MaxPrice != nil {
		b = b.Where(query.Lte("p.price_amount", *f.MaxPrice))
	}
	if kw := strings.TrimSpace(f.Keyword); kw != "" {
		b = b.Where(query.ILikeAny(kw, "p.name", "p.description"))
	}
	return b
}

// List returns one page of active products and the total matching count.
// Limit and Offset are expected to be normalized by the caller.
func (r *ProductRepository) List(ctx context.Context, f models.ProductFilter) ([]models.Product, int, error) {
	base := activeProducts(f)

	countStmt := base.Count().Build()
	var total int
	if err := r.db.QueryRow(ctx, countStmt.SQL, countStmt.Args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	column, dir := ResolveSort(f.SortBy, f.Order)
	stmt := base.Select(productListColumns...).
		OrderBy("p."+column, dir).
		OrderBy("p.id", dir).
		Limit(f.Limit).
		Offset(f.Offset).
		Build()

	rows, err := r.db.Query(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows, false)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read products: %w", err)
	}

	return products, total, nil
}

// FindActiveByID loads an active product with its full image list.
func (r *ProductRepository) FindActiveByID(ctx context.Context, id int64) (*models.Product, error) {
	stmt := activeProducts(models.ProductFilter{}).
		Select(productListColumns...).
		Select(productImgsExpr).
		Where(query.Eq("p.id", id)).
		Build()

	p, err := scanProduct(r.db.QueryRow(ctx, stmt.SQL, stmt.Args...), true)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func scanProduct(row pgx.Row, withImages bool) (*models.Product, error) {
	var (
		p     models.Product
		price string
		cats  string
	)
	dest := []any{
		&p.ID, &p.Name, &p.Description, &price, &p.PriceCurrency,
		&p.Slug, &p.Status, &p.Tags, &p.Image, &cats,
		&p.CreatedAt, &p.UpdatedAt,
	}
	if withImages {
		dest = append(dest, &p.Images)
	}

	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan product: %w", err)
	}

	amount, err := decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("invalid price for product %d: %w", p.ID, err)
	}
	p.PriceAmount = amount
	p.Categories = splitNames(cats)
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return &p, nil
}

func splitNames(joined string) []string {
	if joined == "" {
		return []string{}
	}
	return strings.Split(joined, ",")
}

func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO products (name, description, price_amount, price_currency, slug, status, tags)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`,
		p.Name, p.Description, p.PriceAmount, p.PriceCurrency, p.Slug, p.Status, p.Tags,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert product: %w", mapWriteError(err))
	}
	return nil
}

func (r *ProductRepository) AttachCategory(ctx context.Context, productID, categoryID int64) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO product_categories (product_id, category_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		productID, categoryID)
	if err != nil {
		return fmt.Errorf("failed to attach category: %w", err)
	}
	return nil
}

func (r *ProductRepository) AddImage(ctx context.Context, productID int64, path string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO product_images (product_id, image_path) VALUES ($1, $2)`,
		productID, path)
	if err != nil {
		return fmt.Errorf("failed to insert product image: %w", err)
	}
	return nil
}

func (r *ProductRepository) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM products WHERE slug = $1 AND id <> $2)`,
		slug, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check product slug: %w", err)
	}
	return exists, nil
}

func (r *ProductRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE products SET status = $1, updated_at = NOW() WHERE id = $2 AND deleted_at IS NULL`,
		status, id)
	if err != nil {
		return fmt.Errorf("failed to update product status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ProductRepository) ImagePaths(ctx context.Context, id int64) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT image_path FROM product_images WHERE product_id = $1 ORDER BY created_at, id`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query product images: %w", err)
	}
	defer rows.Close()

	paths := []string{}
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("failed to scan product image: %w", err)
		}
		paths = append(paths, path)
	}
	return paths, rows.Err()
}

// Delete removes the product row; images and mappings go with it by cascade.
func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByPromo returns the active products mapped to a promo.
func (r *ProductRepository) ListByPromo(ctx context.Context, promoID int64) ([]models.Product, error) {
	stmt := activeProducts(models.ProductFilter{}).
		Select(productListColumns...).
		Where(query.Expr("EXISTS (SELECT 1 FROM promo_products pp WHERE pp.product_id = p.id AND pp.promo_id = ?)", promoID)).
		OrderBy("p.name", query.Asc).
		Build()

	rows, err := r.db.Query(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query promo products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows, false)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}
