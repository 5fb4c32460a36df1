package postgres_test

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/liqued/storefront-api/internal/core/domain"
	"github.com/liqued/storefront-api/internal/infrastructure/db/postgres"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestUserRepository_Create(t *testing.T) {
	db, mock := newMock(t)
	r := postgres.NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users (username, email, password_hash, role) VALUES ($1, $2, $3, $4) RETURNING id`)).
		WithArgs("ann", "ann@x.com", "hash", domain.RoleUser).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	id, err := r.Create(context.Background(), &domain.User{Username: "ann", Email: "ann@x.com", PasswordHash: "hash", Role: domain.RoleUser})
	require.NoError(t, err)
	require.Equal(t, int64(7), id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	db, mock := newMock(t)
	r := postgres.NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := r.Create(context.Background(), &domain.User{Username: "ann", Email: "ann@x.com", PasswordHash: "hash", Role: domain.RoleUser})
	require.ErrorIs(t, err, domain.ErrEmailTaken)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByEmail(t *testing.T) {
	db, mock := newMock(t)
	r := postgres.NewUserRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "role", "created_at", "updated_at"}).
		AddRow(int64(1), "ann", "ann@x.com", "hash", "admin", now, now)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, username, email, password_hash, role, created_at, updated_at FROM users WHERE email = $1`)).
		WithArgs("ann@x.com").WillReturnRows(rows)

	u, err := r.FindByEmail(context.Background(), "ann@x.com")
	require.NoError(t, err)
	require.Equal(t, "hash", u.PasswordHash)
	require.Equal(t, domain.RoleAdmin, u.Role)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByID_PublicProjection(t *testing.T) {
	db, mock := newMock(t)
	r := postgres.NewUserRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "username", "email", "role", "created_at", "updated_at"}).
		AddRow(int64(1), "ann", "ann@x.com", "user", now, now)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, username, email, role, created_at, updated_at FROM users WHERE id = $1`)).
		WithArgs(int64(1)).WillReturnRows(rows)

	u, err := r.FindByID(context.Background(), 1)
	require.NoError(t, err)
	require.Empty(t, u.PasswordHash)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByID_NotFound(t *testing.T) {
	db, mock := newMock(t)
	r := postgres.NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE id = $1`)).
		WithArgs(sqlmock.AnyArg()).WillReturnError(sql.ErrNoRows)

	_, err := r.FindByID(context.Background(), 42)
	require.ErrorIs(t, err, domain.ErrUserNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdateByID_OnlyProvidedFields(t *testing.T) {
	db, mock := newMock(t)
	r := postgres.NewUserRepository(db)

	email := "new@x.com"
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET email = $1, updated_at = now() WHERE id = $2`)).
		WithArgs(email, int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := r.UpdateByID(context.Background(), 3, domain.UserUpdate{Email: &email})
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdateByID_AllFields(t *testing.T) {
	db, mock := newMock(t)
	r := postgres.NewUserRepository(db)

	name, email, hash := "bob", "bob@x.com", "h"
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET username = $1, email = $2, password_hash = $3, updated_at = now() WHERE id = $4`)).
		WithArgs(name, email, hash, int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	n, err := r.UpdateByID(context.Background(), 3, domain.UserUpdate{Username: &name, Email: &email, PasswordHash: &hash})
	require.NoError(t, err)
	require.Zero(t, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdateByID_Empty(t *testing.T) {
	db, mock := newMock(t)
	r := postgres.NewUserRepository(db)

	_, err := r.UpdateByID(context.Background(), 3, domain.UserUpdate{})
	require.True(t, domain.IsValidation(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_List(t *testing.T) {
	db, mock := newMock(t)
	r := postgres.NewUserRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "username", "email", "role", "created_at", "updated_at"}).
		AddRow(int64(2), "bob", "bob@x.com", "user", now, now).
		AddRow(int64(1), "ann", "ann@x.com", "admin", now, now)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM users ORDER BY created_at DESC`)).WillReturnRows(rows)

	users, err := r.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	require.Equal(t, "bob", users[0].Username)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_DeleteByID(t *testing.T) {
	db, mock := newMock(t)
	r := postgres.NewUserRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM users WHERE id = $1`)).
		WithArgs(int64(5)).WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := r.DeleteByID(context.Background(), 5)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
	require.NoError(t, mock.ExpectationsWereMet())
}
