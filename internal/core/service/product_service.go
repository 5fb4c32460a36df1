package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/liqued/storefront-api/internal/core/domain"
	"github.com/liqued/storefront-api/internal/core/ports"
)

type ProductService struct {
	products   ports.ProductRepository
	categories ports.CategoryRepository
	images     ports.ImageStore
	log        zerolog.Logger
}

func NewProductService(products ports.ProductRepository, categories ports.CategoryRepository, images ports.ImageStore, log zerolog.Logger) *ProductService {
	return &ProductService{products: products, categories: categories, images: images, log: log}
}

// Create validates the input, stores the optional image and inserts the product.
func (s *ProductService) Create(ctx context.Context, in ports.ProductInput) (int64, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.Price == 0 || in.CategoryID == 0 {
		return 0, domain.NewValidationError("name, price, and category are required")
	}
	if in.Price < 0 {
		return 0, domain.NewValidationError("price must be greater than 0")
	}
	if in.Stock < 0 {
		return 0, domain.NewValidationError("stock cannot be negative")
	}
	if err := s.ensureCategory(ctx, in.CategoryID); err != nil {
		return 0, err
	}

	p := &domain.Product{
		Name:        name,
		Description: in.Description,
		Price:       in.Price,
		CategoryID:  &in.CategoryID,
		Stock:       in.Stock,
	}
	if in.Image != nil {
		url, err := s.saveImage(ctx, in.Image)
		if err != nil {
			return 0, err
		}
		p.ImageURL = &url
	}

	id, err := s.products.Create(ctx, p)
	if err != nil {
		return 0, err
	}

	s.log.Info().Int64("product_id", id).Str("name", name).Msg("product created")
	return id, nil
}

func (s *ProductService) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	return s.products.List(ctx, filter)
}

func (s *ProductService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return s.products.FindByID(ctx, id)
}

// Update applies a partial update. A new image replaces the stored image URL.
func (s *ProductService) Update(ctx context.Context, id int64, patch ports.ProductPatch) error {
	u := patch.Update

	if u.Name != nil {
		name := strings.TrimSpace(*u.Name)
		if name == "" {
			return domain.NewValidationError("name cannot be empty")
		}
		u.Name = &name
	}
	if u.Price != nil && *u.Price <= 0 {
		return domain.NewValidationError("price must be greater than 0")
	}
	if u.Stock != nil && *u.Stock < 0 {
		return domain.NewValidationError("stock cannot be negative")
	}
	if u.CategoryID != nil {
		if err := s.ensureCategory(ctx, *u.CategoryID); err != nil {
			return err
		}
	}

	if patch.Image != nil {
		if _, err := s.products.FindByID(ctx, id); err != nil {
			return err
		}
		url, err := s.saveImage(ctx, patch.Image)
		if err != nil {
			return err
		}
		u.ImageURL = &url
	}

	if u.Empty() {
		return domain.NewValidationError("no fields to update")
	}

	n, err := s.products.UpdateByID(ctx, id, u)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// AdjustStock adds delta (which may be negative) to the product's stock.
func (s *ProductService) AdjustStock(ctx context.Context, id int64, delta int) error {
	if delta == 0 {
		return domain.NewValidationError("quantity must be non-zero")
	}

	n, err := s.products.AdjustStock(ctx, id, delta)
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := s.products.FindByID(ctx, id); err != nil {
			return err
		}
		return domain.NewValidationError("insufficient stock")
	}
	return nil
}

func (s *ProductService) Delete(ctx context.Context, id int64) error {
	n, err := s.products.DeleteByID(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrProductNotFound
	}

	s.log.Info().Int64("product_id", id).Msg("product deleted")
	return nil
}

func (s *ProductService) ensureCategory(ctx context.Context, id int64) error {
	if _, err := s.categories.FindByID(ctx, id); err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return domain.NewValidationError("category does not exist")
		}
		return err
	}
	return nil
}

func (s *ProductService) saveImage(ctx context.Context, img *ports.ImageUpload) (string, error) {
	url, err := s.images.Save(ctx, img.Filename, img.ContentType, img.Body)
	if err != nil {
		return "", err
	}
	s.log.Debug().Str("url", url).Msg("product image stored")
	return url, nil
}
