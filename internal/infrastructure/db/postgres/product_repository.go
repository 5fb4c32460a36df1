package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/liqued/storefront-api/internal/core/domain"
)

const productSelect = `SELECT p.id, p.name, p.description, p.price::float8 AS price, p.category_id,
	c.name AS category_name, p.image_url, p.stock, p.created_at, p.updated_at
	FROM products p LEFT JOIN categories c ON c.id = p.category_id`

type ProductRepository struct {
	db *sqlx.DB
}

func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) (int64, error) {
	query := `INSERT INTO products (name, description, price, category_id, image_url, stock)
	VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`

	var id int64
	err := r.db.QueryRowxContext(ctx, query,
		p.Name, p.Description, p.Price, p.CategoryID, p.ImageURL, p.Stock,
	).Scan(&id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, domain.NewValidationError("category does not exist")
		}
		return 0, fmt.Errorf("insert product: %w", err)
	}
	return id, nil
}

// List returns products newest first, optionally narrowed by category and a
// case-insensitive search over name and description.
func (r *ProductRepository) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	var (
		where []string
		args  []any
	)
	if filter.CategoryID > 0 {
		args = append(args, filter.CategoryID)
		where = append(where, fmt.Sprintf("p.category_id = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where = append(where, fmt.Sprintf("(p.name ILIKE $%d OR p.description ILIKE $%d)", len(args), len(args)))
	}

	query := productSelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY p.created_at DESC"

	products := []domain.Product{}
	if err := r.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	if err := r.db.GetContext(ctx, &p, productSelect+` WHERE p.id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	return &p, nil
}

func (r *ProductRepository) UpdateByID(ctx context.Context, id int64, update domain.ProductUpdate) (int64, error) {
	var set setClause
	if update.Name != nil {
		set.add("name", *update.Name)
	}
	if update.Description != nil {
		set.add("description", *update.Description)
	}
	if update.Price != nil {
		set.add("price", *update.Price)
	}
	if update.CategoryID != nil {
		set.add("category_id", *update.CategoryID)
	}
	if update.ImageURL != nil {
		set.add("image_url", *update.ImageURL)
	}
	if update.Stock != nil {
		set.add("stock", *update.Stock)
	}
	if set.empty() {
		return 0, domain.NewValidationError("no fields to update")
	}

	query, args := set.update("products", id)
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, domain.NewValidationError("category does not exist")
		}
		return 0, fmt.Errorf("update product: %w", err)
	}
	return res.RowsAffected()
}

func (r *ProductRepository) DeleteByID(ctx context.Context, id int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("delete product: %w", err)
	}
	return res.RowsAffected()
}

// AdjustStock adds delta in a single statement; a row that would drop below
// zero is not updated and 0 is returned.
func (r *ProductRepository) AdjustStock(ctx context.Context, id int64, delta int) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE products SET stock = stock + $1, updated_at = now() WHERE id = $2 AND stock + $1 >= 0`,
		delta, id,
	)
	if err != nil {
		return 0, fmt.Errorf("adjust stock: %w", err)
	}
	return res.RowsAffected()
}
