package ports

import (
	"context"

	"github.com/liqued/storefront-api/internal/core/domain"
)

// UserRepository is the credential store.
type UserRepository interface {
	// Create inserts a user whose password is already hashed and returns the new id.
	// Returns domain.ErrEmailTaken when the email is already registered.
	Create(ctx context.Context, user *domain.User) (int64, error)
	// FindByEmail returns the full record including the password hash.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindCredentialsByID returns the full record including the password hash.
	FindCredentialsByID(ctx context.Context, id int64) (*domain.User, error)
	// FindByID returns the public projection (no hash).
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	// UpdateByID applies the non-nil fields and returns the affected row count.
	UpdateByID(ctx context.Context, id int64, update domain.UserUpdate) (int64, error)
	DeleteByID(ctx context.Context, id int64) (int64, error)
}
