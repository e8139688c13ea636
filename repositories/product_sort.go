package repositories

import (
	"storefront/repositories/query"
	"strings"
)

const (
	SortPriceLow  = "price_low"
	SortPriceHigh = "price_high"
	SortName      = "name"
	SortCreated   = "created"
)

// ResolveSort maps a client sort key to a fixed column and direction.
// Unknown keys fall back to newest first.
func ResolveSort(sortBy, order string) (string, query.Direction) {
	dir, valid := query.ParseDirection(order)

	switch strings.ToLower(strings.TrimSpace(sortBy)) {
	case SortPriceLow:
		return "price_amount", query.Asc
	case SortPriceHigh:
		return "price_amount", query.Desc
	case SortName:
		if valid {
			return "name", dir
		}
		return "name", query.Asc
	case SortCreated:
		if valid {
			return "created_at", dir
		}
		return "created_at", query.Desc
	default:
		return "created_at", query.Desc
	}
}
