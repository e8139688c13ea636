package services

import (
	"context"
	"fmt"

	"github.com/gosimple/slug"
)

const maxSlugAttempts = 100

type SlugChecker interface {
	SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error)
}

// GenerateUniqueSlug derives a URL slug from title and appends -1, -2, ...
// until checker reports it free. excludeID lets a record keep its own slug
// on update; pass 0 on create.
func GenerateUniqueSlug(ctx context.Context, checker SlugChecker, title string, excludeID int64) (string, error) {
	base := slug.Make(title)
	if base == "" {
		return "", invalid("Judul tidak valid untuk dijadikan slug")
	}

	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		candidate := base
		if attempt > 0 {
			candidate = fmt.Sprintf("%s-%d", base, attempt)
		}

		exists, err := checker.SlugExists(ctx, candidate, excludeID)
		if err != nil {
			return "", infra("check slug", err)
		}
		if !exists {
			return candidate, nil
		}
	}

	return "", ErrSlugExhausted
}
