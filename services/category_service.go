package services

import (
	"context"
	"errors"
	"storefront/models"
	"storefront/repositories"
	"strings"
	"unicode/utf8"

	"github.com/jackc/pgx/v5"
)

type CategoryService struct {
	db           repositories.TxBeginner
	categoryRepo *repositories.CategoryRepository
	logRepo      *repositories.AdminLogRepository
}

func NewCategoryService(db repositories.TxBeginner) *CategoryService {
	return &CategoryService{
		db:           db,
		categoryRepo: repositories.NewCategoryRepository(db),
		logRepo:      repositories.NewAdminLogRepository(db),
	}
}

func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return []models.Category{}, infra("list categories", err)
	}
	return categories, nil
}

// Create adds a category by name. Names are unique; an existing name is
// reported as ErrCategoryExists and nothing is logged.
func (s *CategoryService) Create(ctx context.Context, adminID int64, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("Nama kategori wajib diisi")
	}
	if utf8.RuneCountInString(name) > 100 {
		return nil, invalid("Nama kategori maksimal 100 karakter")
	}

	category := &models.Category{Name: name}
	err := repositories.RunInTx(ctx, s.db, func(tx pgx.Tx) error {
		id, inserted, err := s.categoryRepo.WithTx(tx).Upsert(ctx, name)
		if err != nil {
			return err
		}
		if !inserted {
			return ErrCategoryExists
		}
		category.ID = id
		return recordAdminAction(ctx, s.logRepo.WithTx(tx), adminID, models.ActionCategoryCreate,
			"categories", id, "name: "+name)
	})
	if errors.Is(err, ErrCategoryExists) {
		return nil, err
	}
	if err != nil {
		return nil, infra("create category", err)
	}
	return category, nil
}
