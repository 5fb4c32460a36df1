package postgres_test

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/liqued/storefront-api/internal/core/domain"
	"github.com/liqued/storefront-api/internal/infrastructure/db/postgres"
)

func TestCategoryRepository_Create_Duplicate(t *testing.T) {
	db, mock := newMock(t)
	r := postgres.NewCategoryRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO categories (name, description) VALUES ($1, $2) RETURNING id`)).
		WithArgs("Sports", nil).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := r.Create(context.Background(), "Sports", nil)
	require.ErrorIs(t, err, domain.ErrCategoryExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepository_FindByID_NotFound(t *testing.T) {
	db, mock := newMock(t)
	r := postgres.NewCategoryRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM categories WHERE id = $1`)).
		WithArgs(int64(9)).WillReturnError(sql.ErrNoRows)

	_, err := r.FindByID(context.Background(), 9)
	require.ErrorIs(t, err, domain.ErrCategoryNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepository_ProductCount(t *testing.T) {
	db, mock := newMock(t)
	r := postgres.NewCategoryRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM products WHERE category_id = $1`)).
		WithArgs(int64(1)).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(4)))

	n, err := r.ProductCount(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, int64(4), n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_List_Filters(t *testing.T) {
	db, mock := newMock(t)
	r := postgres.NewProductRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "name", "description", "price", "category_id", "category_name", "image_url", "stock", "created_at", "updated_at"}).
		AddRow(int64(1), "Laptop", "Fast", 1299.99, int64(2), "Electronics", nil, int64(25), now, now)
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE p.category_id = $1 AND (p.name ILIKE $2 OR p.description ILIKE $2) ORDER BY p.created_at DESC`)).
		WithArgs(int64(2), "%lap%").
		WillReturnRows(rows)

	products, err := r.List(context.Background(), domain.ProductFilter{CategoryID: 2, Search: "lap"})
	require.NoError(t, err)
	require.Len(t, products, 1)
	require.Equal(t, "Electronics", *products[0].CategoryName)
	require.Nil(t, products[0].ImageURL)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_List_NoFilters(t *testing.T) {
	db, mock := newMock(t)
	r := postgres.NewProductRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`LEFT JOIN categories c ON c.id = p.category_id ORDER BY p.created_at DESC`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	products, err := r.List(context.Background(), domain.ProductFilter{})
	require.NoError(t, err)
	require.Empty(t, products)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Create_UnknownCategory(t *testing.T) {
	db, mock := newMock(t)
	r := postgres.NewProductRepository(db)

	cat := int64(99)
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO products`)).
		WillReturnError(&pgconn.PgError{Code: "23503"})

	_, err := r.Create(context.Background(), &domain.Product{Name: "x", Price: 1, CategoryID: &cat})
	require.True(t, domain.IsValidation(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_UpdateByID(t *testing.T) {
	db, mock := newMock(t)
	r := postgres.NewProductRepository(db)

	price, stock := 10.5, 3
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE products SET price = $1, stock = $2, updated_at = now() WHERE id = $3`)).
		WithArgs(price, stock, int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := r.UpdateByID(context.Background(), 4, domain.ProductUpdate{Price: &price, Stock: &stock})
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_AdjustStock_NeverNegative(t *testing.T) {
	db, mock := newMock(t)
	r := postgres.NewProductRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE products SET stock = stock + $1, updated_at = now() WHERE id = $2 AND stock + $1 >= 0`)).
		WithArgs(-5, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	n, err := r.AdjustStock(context.Background(), 1, -5)
	require.NoError(t, err)
	require.Zero(t, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContactRepository_CreateAndMarkRead(t *testing.T) {
	db, mock := newMock(t)
	r := postgres.NewContactRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO contact_messages (name, email, subject, message) VALUES ($1, $2, $3, $4) RETURNING id`)).
		WithArgs("Ann", "ann@x.com", "No Subject", "Hi").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE contact_messages SET is_read = TRUE WHERE id = $1`)).
		WithArgs(int64(11)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	id, err := r.Create(context.Background(), &domain.ContactMessage{Name: "Ann", Email: "ann@x.com", Subject: "No Subject", Message: "Hi"})
	require.NoError(t, err)
	require.Equal(t, int64(11), id)

	n, err := r.MarkRead(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContactRepository_FindByID_NotFound(t *testing.T) {
	db, mock := newMock(t)
	r := postgres.NewContactRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM contact_messages WHERE id = $1`)).
		WithArgs(int64(3)).WillReturnError(sql.ErrNoRows)

	_, err := r.FindByID(context.Background(), 3)
	require.ErrorIs(t, err, domain.ErrMessageNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
