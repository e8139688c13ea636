package utils

import (
	"math"
	"strconv"
	"strings"
)

const DefaultPageLimit = 12

// NormalizeLimitOffset applies limit = max(1, limit) and offset = max(0, offset).
func NormalizeLimitOffset(limit, offset int) (int, int) {
	if limit < 1 {
		limit = 1
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// NormalizePage coerces page and limit and derives the row offset.
// Page is clamped so the offset never overflows int.
func NormalizePage(page, limit int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	limit, _ = NormalizeLimitOffset(limit, 0)
	if maxSkip := math.MaxInt / limit; page-1 > maxSkip {
		page = maxSkip + 1
	}
	limit, offset := NormalizeLimitOffset(limit, (page-1)*limit)
	return page, limit, offset
}

func TotalPages(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// ParseIntDefault returns def when raw is empty or not an integer.
func ParseIntDefault(raw string, def int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

// ParseOptionalInt64 returns nil for an empty or non-numeric value.
func ParseOptionalInt64(raw string) *int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &v
}
