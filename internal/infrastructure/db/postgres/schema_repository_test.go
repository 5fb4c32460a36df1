package postgres_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/liqued/storefront-api/internal/core/domain"
	"github.com/liqued/storefront-api/internal/infrastructure/db/postgres"
)

func TestSchemaRepository_Tables_FiltersAndOrders(t *testing.T) {
	db, mock := newMock(t)
	r := postgres.NewSchemaRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM information_schema.tables`)).
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).
			AddRow("products").AddRow("goose_db_version").AddRow("users"))

	tables, err := r.Tables(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"users", "products"}, tables)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSchemaRepository_UnknownTable(t *testing.T) {
	db, mock := newMock(t)
	r := postgres.NewSchemaRepository(db)

	_, err := r.Count(context.Background(), "pg_shadow")
	require.ErrorIs(t, err, domain.ErrUnknownTable)
	_, err = r.Columns(context.Background(), "users; DROP TABLE users")
	require.ErrorIs(t, err, domain.ErrUnknownTable)
	_, err = r.Rows(context.Background(), "goose_db_version", 10)
	require.ErrorIs(t, err, domain.ErrUnknownTable)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSchemaRepository_Columns_HidesPasswordHash(t *testing.T) {
	db, mock := newMock(t)
	r := postgres.NewSchemaRepository(db)

	rows := sqlmock.NewRows([]string{"column_name", "data_type", "is_nullable", "column_default"}).
		AddRow("id", "bigint", "NO", "nextval('users_id_seq'::regclass)").
		AddRow("email", "character varying", "NO", nil).
		AddRow("password_hash", "character varying", "NO", nil)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM information_schema.columns`)).
		WithArgs("users").WillReturnRows(rows)

	cols, err := r.Columns(context.Background(), "users")
	require.NoError(t, err)
	require.Len(t, cols, 2)
	for _, c := range cols {
		require.NotEqual(t, "password_hash", c.Name)
	}
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSchemaRepository_Rows_UsesFixedProjection(t *testing.T) {
	db, mock := newMock(t)
	r := postgres.NewSchemaRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, username, email, role, created_at, updated_at FROM users ORDER BY id DESC LIMIT $1`)).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "role", "created_at", "updated_at"}).
			AddRow(int64(1), []byte("ann"), "ann@x.com", "admin", nil, nil))

	rows, err := r.Rows(context.Background(), "users", 5)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "ann", rows[0]["username"])
	require.NotContains(t, rows[0], "password_hash")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSchemaRepository_Count(t *testing.T) {
	db, mock := newMock(t)
	r := postgres.NewSchemaRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM products`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(4)))

	n, err := r.Count(context.Background(), "products")
	require.NoError(t, err)
	require.Equal(t, int64(4), n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSchemaRepository_Seed(t *testing.T) {
	db, mock := newMock(t)
	r := postgres.NewSchemaRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`ON CONFLICT (name) DO NOTHING`)).WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec(regexp.QuoteMeta(`WHERE NOT EXISTS (SELECT 1 FROM products p WHERE p.name = v.name)`)).WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectCommit()

	require.NoError(t, r.Seed(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConfig_DSN(t *testing.T) {
	cfg := postgres.Config{Host: "db", Port: 5432, User: "app", Password: "p@ss", Database: "liqued_db", SSLMode: "disable"}
	require.Equal(t, "postgres://app:p%40ss@db:5432/liqued_db?sslmode=disable", cfg.DSN())
}
