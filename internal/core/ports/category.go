package ports

import (
	"context"

	"github.com/liqued/storefront-api/internal/core/domain"
)

// CategoryRepository persists catalog categories.
type CategoryRepository interface {
	// Create returns domain.ErrCategoryExists on a duplicate name.
	Create(ctx context.Context, name string, description *string) (int64, error)
	List(ctx context.Context) ([]domain.Category, error)
	FindByID(ctx context.Context, id int64) (*domain.Category, error)
	UpdateByID(ctx context.Context, id int64, update domain.CategoryUpdate) (int64, error)
	DeleteByID(ctx context.Context, id int64) (int64, error)
	ProductCount(ctx context.Context, id int64) (int64, error)
}

// CategoryDetail is a category with the number of products referencing it.
type CategoryDetail struct {
	domain.Category
	ProductCount int64 `json:"product_count"`
}

type CategoryService interface {
	Create(ctx context.Context, name string, description *string) (int64, error)
	List(ctx context.Context) ([]domain.Category, error)
	Get(ctx context.Context, id int64) (*CategoryDetail, error)
	Update(ctx context.Context, id int64, update domain.CategoryUpdate) error
	Delete(ctx context.Context, id int64) error
}
