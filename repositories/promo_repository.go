package repositories

import (
	"context"
	"errors"
	"fmt"
	"storefront/models"
	"storefront/repositories/query"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

const (
	PromoSlugConstraint = "promos_slug_key"
	PromoCodeConstraint = "promos_code_key"
)

var promoColumns = []string{
	"id", "name", "code", "description", "discount_type", "discount_value::text",
	"max_discount::text", "start_date", "end_date", "status", "eligibility",
	"min_purchase::text", "max_claims", "subcategory_id", "auto_apply", "slug",
	"created_at", "updated_at",
}

type PromoRepository struct {
	db DBTX
}

func NewPromoRepository(db DBTX) *PromoRepository {
	return &PromoRepository{db: db}
}

func (r *PromoRepository) WithTx(tx pgx.Tx) *PromoRepository {
	return &PromoRepository{db: tx}
}

func (r *PromoRepository) Create(ctx context.Context, p *models.Promo) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO promos (name, code, description, discount_type, discount_value, max_discount,
			start_date, end_date, status, eligibility, min_purchase, max_claims, subcategory_id,
			auto_apply, slug)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at, updated_at`,
		p.Name, p.Code, p.Description, p.DiscountType, p.DiscountValue, p.MaxDiscount,
		p.StartDate, p.EndDate, p.Status, p.Eligibility, p.MinPurchase, p.MaxClaims, p.SubcategoryID,
		p.AutoApply, p.Slug,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert promo: %w", mapWriteError(err))
	}
	return nil
}

// Update rewrites every editable field except status, which only changes
// through UpdateStatus.
func (r *PromoRepository) Update(ctx context.Context, p *models.Promo) error {
	err := r.db.QueryRow(ctx, `
		UPDATE promos SET name = $1, code = $2, description = $3, discount_type = $4,
			discount_value = $5, max_discount = $6, start_date = $7, end_date = $8,
			eligibility = $9, min_purchase = $10, max_claims = $11, subcategory_id = $12,
			auto_apply = $13, slug = $14, updated_at = NOW()
		WHERE id = $15
		RETURNING status, created_at, updated_at`,
		p.Name, p.Code, p.Description, p.DiscountType, p.DiscountValue, p.MaxDiscount,
		p.StartDate, p.EndDate, p.Eligibility, p.MinPurchase, p.MaxClaims, p.SubcategoryID,
		p.AutoApply, p.Slug, p.ID,
	).Scan(&p.Status, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update promo: %w", mapWriteError(err))
	}
	return nil
}

// UpdateStatus locks the row and changes its status only when it differs.
// It returns the previous status, or ErrNotFound when no row changed; the
// caller tells a missing promo from an unchanged one with Exists.
func (r *PromoRepository) UpdateStatus(ctx context.Context, id int64, status string) (string, error) {
	var oldStatus string
	err := r.db.QueryRow(ctx, `
		UPDATE promos p SET status = $1, updated_at = NOW()
		FROM (SELECT id, status AS old_status FROM promos WHERE id = $2 FOR UPDATE) old
		WHERE p.id = old.id AND p.status <> $1
		RETURNING old.old_status`,
		status, id).Scan(&oldStatus)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to update promo status: %w", err)
	}
	return oldStatus, nil
}

func (r *PromoRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM promos WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check promo: %w", err)
	}
	return exists, nil
}

func (r *PromoRepository) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM promos WHERE slug = $1 AND id <> $2)`,
		slug, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check promo slug: %w", err)
	}
	return exists, nil
}

func (r *PromoRepository) CodeExists(ctx context.Context, code string, excludeID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM promos WHERE code = $1 AND id <> $2)`,
		code, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check promo code: %w", err)
	}
	return exists, nil
}

func (r *PromoRepository) FindByID(ctx context.Context, id int64) (*models.Promo, error) {
	stmt := query.From("promos").Select(promoColumns...).Where(query.Eq("id", id)).Build()
	return r.findOne(ctx, stmt)
}

// FindActiveBySlug only returns promos whose status is active.
func (r *PromoRepository) FindActiveBySlug(ctx context.Context, slug string) (*models.Promo, error) {
	stmt := query.From("promos").
		Select(promoColumns...).
		Where(query.Eq("slug", slug)).
		Where(query.Eq("status", models.PromoStatusActive)).
		Build()
	return r.findOne(ctx, stmt)
}

func (r *PromoRepository) findOne(ctx context.Context, stmt query.Statement) (*models.Promo, error) {
	p, err := scanPromo(r.db.QueryRow(ctx, stmt.SQL, stmt.Args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

func (r *PromoRepository) List(ctx context.Context, f models.PromoFilter) ([]models.Promo, int, error) {
	base := query.From("promos")
	if f.Status != "" {
		base = base.Where(query.Eq("status", f.Status))
	}

	countStmt := base.Count().Build()
	var total int
	if err := r.db.QueryRow(ctx, countStmt.SQL, countStmt.Args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count promos: %w", err)
	}

	stmt := base.Select(promoColumns...).
		OrderBy("created_at", query.Desc).
		OrderBy("id", query.Desc).
		Limit(f.Limit).
		Offset(f.Offset).
		Build()

	rows, err := r.db.Query(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query promos: %w", err)
	}
	defer rows.Close()

	promos := []models.Promo{}
	for rows.Next() {
		p, err := scanPromo(rows)
		if err != nil {
			return nil, 0, err
		}
		promos = append(promos, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read promos: %w", err)
	}
	return promos, total, nil
}

func scanPromo(row pgx.Row) (*models.Promo, error) {
	var (
		p                          models.Promo
		discountValue, minPurchase string
		maxDiscount                pgtype.Text
		startDate, endDate         pgtype.Timestamptz
		maxClaims                  pgtype.Int4
		subcategoryID              pgtype.Int8
	)

	err := row.Scan(
		&p.ID, &p.Name, &p.Code, &p.Description, &p.DiscountType, &discountValue,
		&maxDiscount, &startDate, &endDate, &p.Status, &p.Eligibility,
		&minPurchase, &maxClaims, &subcategoryID, &p.AutoApply, &p.Slug,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan promo: %w", err)
	}

	if p.DiscountValue, err = decimal.NewFromString(discountValue); err != nil {
		return nil, fmt.Errorf("invalid discount value for promo %d: %w", p.ID, err)
	}
	if p.MinPurchase, err = decimal.NewFromString(minPurchase); err != nil {
		return nil, fmt.Errorf("invalid min purchase for promo %d: %w", p.ID, err)
	}
	if maxDiscount.Valid {
		d, err := decimal.NewFromString(maxDiscount.String)
		if err != nil {
			return nil, fmt.Errorf("invalid max discount for promo %d: %w", p.ID, err)
		}
		p.MaxDiscount = &d
	}
	if startDate.Valid {
		t := startDate.Time
		p.StartDate = &t
	}
	if endDate.Valid {
		t := endDate.Time
		p.EndDate = &t
	}
	if maxClaims.Valid {
		n := int(maxClaims.Int32)
		p.MaxClaims = &n
	}
	if subcategoryID.Valid {
		id := subcategoryID.Int64
		p.SubcategoryID = &id
	}
	return &p, nil
}

// ReplaceProducts swaps the promo's product mapping for ids and returns how
// many mappings were written. Unknown or deleted product ids are skipped.
func (r *PromoRepository) ReplaceProducts(ctx context.Context, promoID int64, ids []int64) (int64, error) {
	if _, err := r.db.Exec(ctx, `DELETE FROM promo_products WHERE promo_id = $1`, promoID); err != nil {
		return 0, fmt.Errorf("failed to clear promo products: %w", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	tag, err := r.db.Exec(ctx, `
		INSERT INTO promo_products (promo_id, product_id)
		SELECT $1, p.id FROM products p WHERE p.id = ANY($2) AND p.deleted_at IS NULL
		ON CONFLICT DO NOTHING`,
		promoID, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to map promo products: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *PromoRepository) ProductIDs(ctx context.Context, promoID int64) ([]int64, error) {
	rows, err := r.db.Query(ctx,
		`SELECT product_id FROM promo_products WHERE promo_id = $1 ORDER BY product_id`, promoID)
	if err != nil {
		return nil, fmt.Errorf("failed to query promo products: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan promo product: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
