package ports

import (
	"context"

	"github.com/liqued/storefront-api/internal/core/domain"
)

// SchemaRepository runs migrations and inspects the allow-listed tables.
type SchemaRepository interface {
	Ping(ctx context.Context) error
	Migrate(ctx context.Context) error
	Reset(ctx context.Context) error
	Seed(ctx context.Context) error
	// Tables returns the known tables that currently exist.
	Tables(ctx context.Context) ([]string, error)
	Count(ctx context.Context, table string) (int64, error)
	Columns(ctx context.Context, table string) ([]domain.Column, error)
	Rows(ctx context.Context, table string, limit int) ([]map[string]any, error)
}

// DatabaseStatus is the public view of the database connection.
type DatabaseStatus struct {
	Status   string             `json:"status"`
	Database string             `json:"database"`
	Tables   []domain.TableStat `json:"tables"`
}

type DatabaseService interface {
	Status(ctx context.Context) (*DatabaseStatus, error)
	Init(ctx context.Context) ([]string, error)
	Tables(ctx context.Context) ([]string, error)
	Structure(ctx context.Context, table string) ([]domain.Column, error)
	Data(ctx context.Context, table string, limit int) ([]map[string]any, error)
	Seed(ctx context.Context) error
	Reset(ctx context.Context) error
}
