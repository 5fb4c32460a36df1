package ports

import (
	"context"

	"github.com/liqued/storefront-api/internal/core/domain"
)

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// TokenManager mints and validates bearer tokens.
type TokenManager interface {
	Issue(claims domain.Claims) (string, error)
	Verify(token string) (*domain.Claims, error)
}

// RegisterInput carries the fields accepted at registration.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// ProfileInput carries the optional fields of a profile update.
type ProfileInput struct {
	Username *string
	Email    *string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (int64, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Profile(ctx context.Context, userID int64) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID int64, input ProfileInput) error
	ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error
	ListUsers(ctx context.Context) ([]domain.User, error)
	DeleteUser(ctx context.Context, callerID, targetID int64) error
}
