package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	PromoStatusActive    = "active"
	PromoStatusInactive  = "inactive"
	PromoStatusScheduled = "scheduled"
	PromoStatusExpired   = "expired"

	DiscountTypePercentage = "percentage"
	DiscountTypeFixed      = "fixed"

	EligibilityAll = "all"
)

var promoStatuses = map[string]bool{
	PromoStatusActive:    true,
	PromoStatusInactive:  true,
	PromoStatusScheduled: true,
	PromoStatusExpired:   true,
}

// NormalizePromoStatus trims and lowercases status and reports whether the
// result is one of the four known promo statuses.
func NormalizePromoStatus(status string) (string, bool) {
	s := strings.ToLower(strings.TrimSpace(status))
	return s, promoStatuses[s]
}

func ValidDiscountType(t string) bool {
	return t == DiscountTypePercentage || t == DiscountTypeFixed
}

type Promo struct {
	ID            int64            `json:"id"`
	Name          string           `json:"name"`
	Code          string           `json:"code"`
	Description   string           `json:"description"`
	DiscountType  string           `json:"discount_type"`
	DiscountValue decimal.Decimal  `json:"discount_value"`
	MaxDiscount   *decimal.Decimal `json:"max_discount,omitempty"`
	StartDate     *time.Time       `json:"start_date,omitempty"`
	EndDate       *time.Time       `json:"end_date,omitempty"`
	Status        string           `json:"status"`
	Eligibility   string           `json:"eligibility"`
	MinPurchase   decimal.Decimal  `json:"min_purchase"`
	MaxClaims     *int             `json:"max_claims,omitempty"`
	SubcategoryID *int64           `json:"subcategory_id,omitempty"`
	AutoApply     bool             `json:"auto_apply"`
	Slug          string           `json:"slug"`
	ProductIDs    []int64          `json:"-"`
	Products      []ProductCard    `json:"products,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

type PromoFilter struct {
	Status string
	Limit  int
	Offset int
}
