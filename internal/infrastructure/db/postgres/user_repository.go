package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/liqued/storefront-api/internal/core/domain"
)

const (
	userPublicColumns = `id, username, email, role, created_at, updated_at`
	userFullColumns   = `id, username, email, password_hash, role, created_at, updated_at`
)

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (int64, error) {
	query := `INSERT INTO users (username, email, password_hash, role) VALUES ($1, $2, $3, $4) RETURNING id`

	var id int64
	err := r.db.QueryRowxContext(ctx, query, user.Username, user.Email, user.PasswordHash, user.Role).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, domain.ErrEmailTaken
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}
	return id, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.get(ctx, `SELECT `+userFullColumns+` FROM users WHERE email = $1`, email)
}

func (r *UserRepository) FindCredentialsByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.get(ctx, `SELECT `+userFullColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.get(ctx, `SELECT `+userPublicColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	users := []domain.User{}
	if err := r.db.SelectContext(ctx, &users, `SELECT `+userPublicColumns+` FROM users ORDER BY created_at DESC`); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (r *UserRepository) UpdateByID(ctx context.Context, id int64, update domain.UserUpdate) (int64, error) {
	var set setClause
	if update.Username != nil {
		set.add("username", *update.Username)
	}
	if update.Email != nil {
		set.add("email", *update.Email)
	}
	if update.PasswordHash != nil {
		set.add("password_hash", *update.PasswordHash)
	}
	if set.empty() {
		return 0, domain.NewValidationError("no fields to update")
	}

	query, args := set.update("users", id)
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, domain.ErrEmailTaken
		}
		return 0, fmt.Errorf("update user: %w", err)
	}
	return res.RowsAffected()
}

func (r *UserRepository) DeleteByID(ctx context.Context, id int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("delete user: %w", err)
	}
	return res.RowsAffected()
}

func (r *UserRepository) get(ctx context.Context, query string, arg any) (*domain.User, error) {
	var u domain.User
	if err := r.db.GetContext(ctx, &u, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}
