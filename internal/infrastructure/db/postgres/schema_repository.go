package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/liqued/storefront-api/internal/core/domain"
)

// knownTables is the inspection allow-list. Each entry fixes the columns
// that may be read; users never exposes password_hash.
var knownTables = []struct {
	name    string
	columns []string
}{
	{"users", []string{"id", "username", "email", "role", "created_at", "updated_at"}},
	{"categories", []string{"id", "name", "description", "created_at", "updated_at"}},
	{"products", []string{"id", "name", "description", "price", "category_id", "image_url", "stock", "created_at", "updated_at"}},
	{"contact_messages", []string{"id", "name", "email", "subject", "message", "is_read", "created_at"}},
}

func lookupTable(name string) ([]string, error) {
	for _, t := range knownTables {
		if t.name == name {
			return t.columns, nil
		}
	}
	return nil, domain.ErrUnknownTable
}

type SchemaRepository struct {
	db *sqlx.DB
}

func NewSchemaRepository(db *sqlx.DB) *SchemaRepository {
	return &SchemaRepository{db: db}
}

func (r *SchemaRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SchemaRepository) Migrate(ctx context.Context) error {
	return Migrate(ctx, r.db.DB)
}

func (r *SchemaRepository) Reset(ctx context.Context) error {
	return Rollback(ctx, r.db.DB)
}

// Tables returns the allow-listed tables present in the current schema, in
// allow-list order.
func (r *SchemaRepository) Tables(ctx context.Context) ([]string, error) {
	var present []string
	err := r.db.SelectContext(ctx, &present,
		`SELECT table_name FROM information_schema.tables WHERE table_schema = current_schema() AND table_type = 'BASE TABLE'`)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}

	exists := make(map[string]bool, len(present))
	for _, t := range present {
		exists[t] = true
	}

	tables := []string{}
	for _, t := range knownTables {
		if exists[t.name] {
			tables = append(tables, t.name)
		}
	}
	return tables, nil
}

func (r *SchemaRepository) Count(ctx context.Context, table string) (int64, error) {
	if _, err := lookupTable(table); err != nil {
		return 0, err
	}

	var n int64
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM `+table); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

// Columns describes the exposed columns of table.
func (r *SchemaRepository) Columns(ctx context.Context, table string) ([]domain.Column, error) {
	exposed, err := lookupTable(table)
	if err != nil {
		return nil, err
	}

	var all []domain.Column
	err = r.db.SelectContext(ctx, &all,
		`SELECT column_name, data_type, is_nullable, column_default FROM information_schema.columns
		WHERE table_schema = current_schema() AND table_name = $1 ORDER BY ordinal_position`, table)
	if err != nil {
		return nil, fmt.Errorf("describe %s: %w", table, err)
	}

	allowed := make(map[string]bool, len(exposed))
	for _, c := range exposed {
		allowed[c] = true
	}
	columns := []domain.Column{}
	for _, c := range all {
		if allowed[c.Name] {
			columns = append(columns, c)
		}
	}
	return columns, nil
}

// Rows reads up to limit rows of table, newest id first, using its fixed projection.
func (r *SchemaRepository) Rows(ctx context.Context, table string, limit int) ([]map[string]any, error) {
	columns, err := lookupTable(table)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY id DESC LIMIT $1`, strings.Join(columns, ", "), table)
	rows, err := r.db.QueryxContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", table, err)
	}
	defer rows.Close()

	out := []map[string]any{}
	for rows.Next() {
		row := make(map[string]any, len(columns))
		if err := rows.MapScan(row); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		for k, v := range row {
			if b, ok := v.([]byte); ok {
				row[k] = string(b)
			}
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Seed inserts the sample catalog. Running it twice adds nothing.
func (r *SchemaRepository) Seed(ctx context.Context) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, seedCategories); err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}
	if _, err := tx.ExecContext(ctx, seedProducts); err != nil {
		return fmt.Errorf("seed products: %w", err)
	}
	return tx.Commit()
}

const seedCategories = `INSERT INTO categories (name, description) VALUES
	('Electronics', 'Electronic devices and gadgets'),
	('Clothing', 'Apparel and fashion items'),
	('Home & Garden', 'Home decor and garden supplies'),
	('Sports', 'Sports equipment and accessories')
	ON CONFLICT (name) DO NOTHING`

const seedProducts = `INSERT INTO products (name, description, price, category_id, stock)
	SELECT v.name, v.description, v.price, c.id, v.stock
	FROM (VALUES
		('Smartphone', 'Latest model smartphone with amazing features', 699.99, 'Electronics', 50),
		('Laptop', 'High performance laptop for work and gaming', 1299.99, 'Electronics', 25),
		('T-Shirt', 'Comfortable cotton t-shirt', 29.99, 'Clothing', 100),
		('Running Shoes', 'Professional running shoes', 89.99, 'Sports', 40)
	) AS v(name, description, price, category, stock)
	LEFT JOIN categories c ON c.name = v.category
	WHERE NOT EXISTS (SELECT 1 FROM products p WHERE p.name = v.name)`
