package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/liqued/storefront-api/internal/core/domain"
	"github.com/liqued/storefront-api/internal/core/ports"
)

const (
	defaultRowLimit = 100
	maxRowLimit     = 1000
)

// DatabaseService backs the admin database tools.
type DatabaseService struct {
	repo     ports.SchemaRepository
	database string
	log      zerolog.Logger
}

func NewDatabaseService(repo ports.SchemaRepository, database string, log zerolog.Logger) *DatabaseService {
	return &DatabaseService{repo: repo, database: database, log: log}
}

// Status pings the database and counts the rows of every known table.
func (s *DatabaseService) Status(ctx context.Context) (*ports.DatabaseStatus, error) {
	if err := s.repo.Ping(ctx); err != nil {
		return nil, fmt.Errorf("database status: %w", err)
	}

	tables, err := s.repo.Tables(ctx)
	if err != nil {
		return nil, err
	}

	stats := make([]domain.TableStat, 0, len(tables))
	for _, t := range tables {
		n, err := s.repo.Count(ctx, t)
		if err != nil {
			return nil, err
		}
		stats = append(stats, domain.TableStat{Name: t, Rows: n})
	}

	return &ports.DatabaseStatus{Status: "connected", Database: s.database, Tables: stats}, nil
}

// Init applies pending migrations and returns the tables that now exist.
func (s *DatabaseService) Init(ctx context.Context) ([]string, error) {
	if err := s.repo.Migrate(ctx); err != nil {
		return nil, err
	}
	s.log.Info().Msg("database migrations applied")
	return s.repo.Tables(ctx)
}

func (s *DatabaseService) Tables(ctx context.Context) ([]string, error) {
	return s.repo.Tables(ctx)
}

func (s *DatabaseService) Structure(ctx context.Context, table string) ([]domain.Column, error) {
	return s.repo.Columns(ctx, table)
}

// Data returns up to limit rows of table. Limit defaults to 100 and is capped at 1000.
func (s *DatabaseService) Data(ctx context.Context, table string, limit int) ([]map[string]any, error) {
	if limit <= 0 {
		limit = defaultRowLimit
	}
	if limit > maxRowLimit {
		limit = maxRowLimit
	}
	return s.repo.Rows(ctx, table, limit)
}

func (s *DatabaseService) Seed(ctx context.Context) error {
	if err := s.repo.Seed(ctx); err != nil {
		return err
	}
	s.log.Info().Msg("sample data seeded")
	return nil
}

// Reset rolls back every migration, dropping all tables.
func (s *DatabaseService) Reset(ctx context.Context) error {
	if err := s.repo.Reset(ctx); err != nil {
		return err
	}
	s.log.Warn().Msg("database reset: all tables dropped")
	return nil
}
