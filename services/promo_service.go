package services

import (
	"context"
	"errors"
	"log"
	"regexp"
	"storefront/models"
	"storefront/repositories"
	"storefront/utils"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

var (
	promoCodePattern = regexp.MustCompile(`^[A-Z0-9_-]{3,50}$`)
	hundred          = decimal.NewFromInt(100)
	promoDateLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02 15:04:05", "2006-01-02"}
)

type PromoService struct {
	db          repositories.TxBeginner
	promoRepo   *repositories.PromoRepository
	productRepo *repositories.ProductRepository
	logRepo     *repositories.AdminLogRepository
	codec       *utils.IDCodec
}

func NewPromoService(db repositories.TxBeginner, codec *utils.IDCodec) *PromoService {
	return &PromoService{
		db:          db,
		promoRepo:   repositories.NewPromoRepository(db),
		productRepo: repositories.NewProductRepository(db),
		logRepo:     repositories.NewAdminLogRepository(db),
		codec:       codec,
	}
}

type PromoStatusChange struct {
	PromoID   int64  `json:"promo_id"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
}

// UpdateStatus changes a promo's status in one transaction together with its
// audit row. A missing promo and an unchanged status both roll back
// without writing anything.
func (s *PromoService) UpdateStatus(ctx context.Context, adminID, promoID int64, rawStatus string) (*PromoStatusChange, error) {
	status, ok := models.NormalizePromoStatus(rawStatus)
	if !ok {
		return nil, invalid("Status promo tidak valid")
	}
	if promoID <= 0 {
		return nil, invalid("ID promo tidak valid")
	}

	change := &PromoStatusChange{PromoID: promoID, NewStatus: status}
	err := repositories.RunInTx(ctx, s.db, func(tx pgx.Tx) error {
		promos := s.promoRepo.WithTx(tx)

		old, err := promos.UpdateStatus(ctx, promoID, status)
		if errors.Is(err, repositories.ErrNotFound) {
			exists, existsErr := promos.Exists(ctx, promoID)
			if existsErr != nil {
				return existsErr
			}
			if !exists {
				return ErrPromoNotFound
			}
			return ErrPromoStatusUnchanged
		}
		if err != nil {
			return err
		}
		change.OldStatus = old

		return recordAdminAction(ctx, s.logRepo.WithTx(tx), adminID, models.ActionPromoStatusUpdate,
			"promos", promoID, describeChange("status", old, status))
	})

	switch {
	case err == nil:
		return change, nil
	case errors.Is(err, ErrPromoNotFound), errors.Is(err, ErrPromoStatusUnchanged):
		return nil, err
	default:
		log.Printf("[Promo] status update for %d failed: %v", promoID, err)
		return nil, infra("update promo status", err)
	}
}

func (s *PromoService) Create(ctx context.Context, adminID int64, in models.PromoInput) (*models.Promo, error) {
	promo, err := s.parseInput(in, true)
	if err != nil {
		return nil, err
	}
	productIDs, err := s.decodeProductIDs(in.ProductIDs)
	if err != nil {
		return nil, err
	}

	if err := s.ensureCodeFree(ctx, promo.Code, 0); err != nil {
		return nil, err
	}

	err = s.retryOnSlugConflict(func() error {
		return repositories.RunInTx(ctx, s.db, func(tx pgx.Tx) error {
			promos := s.promoRepo.WithTx(tx)

			slug, err := GenerateUniqueSlug(ctx, promos, promo.Name, 0)
			if err != nil {
				return err
			}
			promo.Slug = slug

			if err := promos.Create(ctx, promo); err != nil {
				return err
			}
			if err := s.mapProducts(ctx, promos, promo.ID, productIDs); err != nil {
				return err
			}
			return recordAdminAction(ctx, s.logRepo.WithTx(tx), adminID, models.ActionPromoCreate,
				"promos", promo.ID, "code: "+promo.Code)
		})
	})
	if err != nil {
		return nil, s.writeError("create promo", err)
	}

	promo.ProductIDs = productIDs
	return promo, nil
}

// Update edits a promo. The slug is regenerated only when the name changes.
func (s *PromoService) Update(ctx context.Context, adminID, promoID int64, in models.PromoInput) (*models.Promo, error) {
	current, err := s.promoRepo.FindByID(ctx, promoID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrPromoNotFound
	}
	if err != nil {
		return nil, infra("get promo", err)
	}

	promo, err := s.parseInput(in, false)
	if err != nil {
		return nil, err
	}
	promo.ID = promoID
	promo.Slug = current.Slug

	productIDs, err := s.decodeProductIDs(in.ProductIDs)
	if err != nil {
		return nil, err
	}
	if err := s.ensureCodeFree(ctx, promo.Code, promoID); err != nil {
		return nil, err
	}

	renamed := promo.Name != current.Name
	err = s.retryOnSlugConflict(func() error {
		return repositories.RunInTx(ctx, s.db, func(tx pgx.Tx) error {
			promos := s.promoRepo.WithTx(tx)

			if renamed {
				slug, err := GenerateUniqueSlug(ctx, promos, promo.Name, promoID)
				if err != nil {
					return err
				}
				promo.Slug = slug
			}

			if err := promos.Update(ctx, promo); err != nil {
				return err
			}
			if err := s.mapProducts(ctx, promos, promoID, productIDs); err != nil {
				return err
			}
			return recordAdminAction(ctx, s.logRepo.WithTx(tx), adminID, models.ActionPromoUpdate,
				"promos", promoID, describeChange("slug", current.Slug, promo.Slug))
		})
	})
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrPromoNotFound
	}
	if err != nil {
		return nil, s.writeError("update promo", err)
	}

	promo.ProductIDs = productIDs
	return promo, nil
}

func (s *PromoService) retryOnSlugConflict(fn func() error) error {
	var err error
	for attempt := 1; attempt <= maxInsertAttempts; attempt++ {
		err = fn()
		if !repositories.IsConflictOn(err, repositories.PromoSlugConstraint) {
			return err
		}
		log.Printf("[Promo] slug taken concurrently, retrying (%d/%d)", attempt, maxInsertAttempts)
	}
	return err
}

func (s *PromoService) writeError(op string, err error) error {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve), errors.Is(err, ErrSlugExhausted):
		return err
	case repositories.IsConflictOn(err, repositories.PromoCodeConstraint):
		return ErrPromoCodeTaken
	default:
		log.Printf("[Promo] %s failed: %v", op, err)
		return infra(op, err)
	}
}

func (s *PromoService) ensureCodeFree(ctx context.Context, code string, excludeID int64) error {
	taken, err := s.promoRepo.CodeExists(ctx, code, excludeID)
	if err != nil {
		return infra("check promo code", err)
	}
	if taken {
		return ErrPromoCodeTaken
	}
	return nil
}

func (s *PromoService) mapProducts(ctx context.Context, promos *repositories.PromoRepository, promoID int64, ids []int64) error {
	mapped, err := promos.ReplaceProducts(ctx, promoID, ids)
	if err != nil {
		return err
	}
	if mapped != int64(len(ids)) {
		return invalid("Sebagian produk yang dipilih tidak ditemukan")
	}
	return nil
}

func (s *PromoService) decodeProductIDs(encoded []string) ([]int64, error) {
	ids := []int64{}
	seen := map[int64]bool{}
	for _, raw := range encoded {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		id, err := s.codec.Decode(raw)
		if err != nil {
			return nil, invalid("ID produk tidak valid: %s", raw)
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (s *PromoService) List(ctx context.Context, status string, page, limit int) ([]models.Promo, models.MetaData, error) {
	page, limit, offset := utils.NormalizePage(page, limit)
	meta := models.MetaData{Page: page, Limit: limit, Offset: offset}

	filter := models.PromoFilter{Limit: limit, Offset: offset}
	if strings.TrimSpace(status) != "" {
		normalized, ok := models.NormalizePromoStatus(status)
		if !ok {
			return []models.Promo{}, meta, invalid("Status promo tidak valid")
		}
		filter.Status = normalized
	}

	promos, total, err := s.promoRepo.List(ctx, filter)
	if err != nil {
		return []models.Promo{}, meta, infra("list promos", err)
	}
	return promos, pageMeta(page, limit, offset, total), nil
}

// GetBySlug returns an active promo with the products it applies to.
func (s *PromoService) GetBySlug(ctx context.Context, slug string) (*models.Promo, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return nil, ErrPromoNotFound
	}

	promo, err := s.promoRepo.FindActiveBySlug(ctx, slug)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrPromoNotFound
	}
	if err != nil {
		return nil, infra("get promo", err)
	}

	products, err := s.productRepo.ListByPromo(ctx, promo.ID)
	if err != nil {
		return nil, infra("list promo products", err)
	}

	promo.Products = make([]models.ProductCard, 0, len(products))
	for _, p := range products {
		encoded, err := s.codec.Encode(p.ID)
		if err != nil {
			return nil, infra("encode product id", err)
		}
		p.EncodedID = encoded
		promo.Products = append(promo.Products, p.Card())
	}
	return promo, nil
}

func (s *PromoService) parseInput(in models.PromoInput, creating bool) (*models.Promo, error) {
	p := &models.Promo{
		Name:        strings.TrimSpace(in.Name),
		Code:        strings.ToUpper(strings.TrimSpace(in.Code)),
		Description: strings.TrimSpace(in.Description),
		AutoApply:   in.AutoApply,
	}

	if p.Name == "" {
		return nil, invalid("Nama promo wajib diisi")
	}
	if len(p.Name) > 200 {
		return nil, invalid("Nama promo maksimal 200 karakter")
	}
	if !promoCodePattern.MatchString(p.Code) {
		return nil, invalid("Kode promo harus 3-50 karakter huruf, angka, - atau _")
	}

	p.DiscountType = strings.ToLower(strings.TrimSpace(in.DiscountType))
	if !models.ValidDiscountType(p.DiscountType) {
		return nil, invalid("Jenis diskon tidak valid")
	}

	value, err := parseAmount(in.DiscountValue, "Nilai diskon")
	if err != nil {
		return nil, err
	}
	if p.DiscountType == models.DiscountTypePercentage && value.GreaterThan(hundred) {
		return nil, invalid("Diskon persentase maksimal 100")
	}
	p.DiscountValue = value

	if strings.TrimSpace(in.MaxDiscount) != "" {
		maxDiscount, err := parseAmount(in.MaxDiscount, "Maksimal diskon")
		if err != nil {
			return nil, err
		}
		p.MaxDiscount = &maxDiscount
	}

	p.MinPurchase = decimal.Zero
	if strings.TrimSpace(in.MinPurchase) != "" {
		if p.MinPurchase, err = parseAmount(in.MinPurchase, "Minimal pembelian"); err != nil {
			return nil, err
		}
	}

	if p.StartDate, err = parsePromoDate(in.StartDate, "Tanggal mulai"); err != nil {
		return nil, err
	}
	if p.EndDate, err = parsePromoDate(in.EndDate, "Tanggal berakhir"); err != nil {
		return nil, err
	}
	if p.StartDate != nil && p.EndDate != nil && p.StartDate.After(*p.EndDate) {
		return nil, invalid("Tanggal mulai harus sebelum tanggal berakhir")
	}

	if raw := strings.TrimSpace(in.MaxClaims); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return nil, invalid("Maksimal klaim tidak valid")
		}
		p.MaxClaims = &n
	}

	if raw := strings.TrimSpace(in.SubcategoryID); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return nil, invalid("Subkategori tidak valid")
		}
		p.SubcategoryID = &id
	}

	p.Eligibility = strings.ToLower(strings.TrimSpace(in.Eligibility))
	if p.Eligibility == "" {
		p.Eligibility = models.EligibilityAll
	}
	if len(p.Eligibility) > 50 {
		return nil, invalid("Syarat promo terlalu panjang")
	}

	if creating {
		p.Status = models.PromoStatusInactive
		if strings.TrimSpace(in.Status) != "" {
			status, ok := models.NormalizePromoStatus(in.Status)
			if !ok {
				return nil, invalid("Status promo tidak valid")
			}
			p.Status = status
		}
	}

	return p, nil
}

func parseAmount(raw, label string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, invalid("%s wajib diisi", label)
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, invalid("%s tidak valid", label)
	}
	if d.IsNegative() {
		return decimal.Zero, invalid("%s tidak boleh negatif", label)
	}
	return d.Round(2), nil
}

func parsePromoDate(raw, label string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range promoDateLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return &t, nil
		}
	}
	return nil, invalid("%s tidak valid", label)
}
