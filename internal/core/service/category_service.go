package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/liqued/storefront-api/internal/core/domain"
	"github.com/liqued/storefront-api/internal/core/ports"
)

type CategoryService struct {
	repo ports.CategoryRepository
	log  zerolog.Logger
}

func NewCategoryService(repo ports.CategoryRepository, log zerolog.Logger) *CategoryService {
	return &CategoryService{repo: repo, log: log}
}

func (s *CategoryService) Create(ctx context.Context, name string, description *string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, domain.NewValidationError("category name is required")
	}

	id, err := s.repo.Create(ctx, name, description)
	if err != nil {
		return 0, err
	}

	s.log.Info().Int64("category_id", id).Str("name", name).Msg("category created")
	return id, nil
}

func (s *CategoryService) List(ctx context.Context) ([]domain.Category, error) {
	return s.repo.List(ctx)
}

// Get returns the category together with the number of products in it.
func (s *CategoryService) Get(ctx context.Context, id int64) (*ports.CategoryDetail, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	count, err := s.repo.ProductCount(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ports.CategoryDetail{Category: *c, ProductCount: count}, nil
}

func (s *CategoryService) Update(ctx context.Context, id int64, update domain.CategoryUpdate) error {
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return domain.NewValidationError("category name cannot be empty")
		}
		update.Name = &name
	}
	if update.Empty() {
		return domain.NewValidationError("no fields to update")
	}

	n, err := s.repo.UpdateByID(ctx, id, update)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

// Delete removes the category. Products in it keep existing with no category.
func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	n, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrCategoryNotFound
	}

	s.log.Info().Int64("category_id", id).Msg("category deleted")
	return nil
}
