package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	ProductStatusActive   = "active"
	ProductStatusInactive = "inactive"

	DefaultCurrency = "IDR"
)

func ValidProductStatus(status string) bool {
	return status == ProductStatusActive || status == ProductStatusInactive
}

// Product is a full product row. ID never leaves the process; EncodedID is
// what clients see.
type Product struct {
	ID            int64           `json:"-"`
	EncodedID     string          `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	PriceAmount   decimal.Decimal `json:"price_amount"`
	PriceCurrency string          `json:"price_currency"`
	Slug          string          `json:"slug"`
	Status        string          `json:"status"`
	Image         string          `json:"image"`
	Categories    []string        `json:"categories"`
	Images        []string        `json:"images,omitempty"`
	Tags          []string        `json:"tags"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     *time.Time      `json:"-"`
}

// ProductCard is the trimmed shape returned by the filter endpoint.
type ProductCard struct {
	ID          string          `json:"id"`
	Image       string          `json:"image"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency"`
}

func (p Product) Card() ProductCard {
	return ProductCard{
		ID:          p.EncodedID,
		Image:       p.Image,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.PriceAmount,
		Currency:    p.PriceCurrency,
	}
}

type ProductFilter struct {
	Categories []string
	CategoryID int64
	MinPrice   *int64
	MaxPrice   *int64
	Keyword    string
	SortBy     string
	Order      string
	Limit      int
	Offset     int
}

type DeleteFailure struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

type BatchDeleteResult struct {
	Deleted []string        `json:"deleted"`
	Failed  []DeleteFailure `json:"failed"`
}
