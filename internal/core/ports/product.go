package ports

import (
	"context"
	"io"

	"github.com/liqued/storefront-api/internal/core/domain"
)

// ProductRepository persists products.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) (int64, error)
	List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	UpdateByID(ctx context.Context, id int64, update domain.ProductUpdate) (int64, error)
	DeleteByID(ctx context.Context, id int64) (int64, error)
	// AdjustStock adds delta to the stock; rows that would go negative are not touched.
	AdjustStock(ctx context.Context, id int64, delta int) (int64, error)
}

// ImageStore saves uploaded product images and returns their public URL.
type ImageStore interface {
	Save(ctx context.Context, filename, contentType string, body io.Reader) (string, error)
}

// ImageUpload is an image attached to a create or update request.
type ImageUpload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// ProductInput carries the fields of a product create. Description is optional.
type ProductInput struct {
	Name        string
	Description *string
	Price       float64
	CategoryID  int64
	Stock       int
	Image       *ImageUpload
}

// ProductPatch carries the optional fields of a product update.
type ProductPatch struct {
	Update domain.ProductUpdate
	Image  *ImageUpload
}

type ProductService interface {
	Create(ctx context.Context, input ProductInput) (int64, error)
	List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	Update(ctx context.Context, id int64, patch ProductPatch) error
	AdjustStock(ctx context.Context, id int64, delta int) error
	Delete(ctx context.Context, id int64) error
}
