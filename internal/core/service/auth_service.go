package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/liqued/storefront-api/internal/api/metrics"
	"github.com/liqued/storefront-api/internal/core/domain"
	"github.com/liqued/storefront-api/internal/core/ports"
)

const (
	minPasswordLength = 6
	// bcrypt refuses longer inputs.
	maxPasswordBytes = 72
)

var validate = validator.New()

func validEmail(email string) bool {
	return validate.Var(email, "required,email") == nil
}

// AuthService implements registration, login and account management.
type AuthService struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
	tokens ports.TokenManager
	log    zerolog.Logger

	// dummyHash is compared against on unknown emails so both login failure
	// paths cost one bcrypt comparison.
	dummyHash string
}

func NewAuthService(repo ports.UserRepository, hasher ports.PasswordHasher, tokens ports.TokenManager, log zerolog.Logger) *AuthService {
	dummy, _ := hasher.Hash("dummy-password-for-timing")
	return &AuthService{repo: repo, hasher: hasher, tokens: tokens, log: log, dummyHash: dummy}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (int64, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)
	if username == "" || email == "" || in.Password == "" {
		return 0, domain.NewValidationError("all fields are required")
	}
	if !validEmail(email) {
		return 0, domain.NewValidationError("invalid email format")
	}
	if len(in.Password) < minPasswordLength {
		return 0, domain.NewValidationError("password must be at least 6 characters")
	}
	if len(in.Password) > maxPasswordBytes {
		return 0, domain.NewValidationError("password must be at most 72 bytes")
	}

	id, err := s.create(ctx, username, email, in.Password, domain.RoleUser)
	if err != nil {
		return 0, err
	}

	metrics.RegistrationsTotal.Inc()
	s.log.Info().Int64("user_id", id).Msg("user registered")
	return id, nil
}

func (s *AuthService) create(ctx context.Context, username, email, plaintext, role string) (int64, error) {
	hash, err := s.hasher.Hash(plaintext)
	if err != nil {
		return 0, err
	}
	return s.repo.Create(ctx, &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	})
}

// Login verifies credentials and returns a signed token plus the public user.
// Unknown email and wrong password fail identically with ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.NewValidationError("email and password are required")
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.hasher.Verify(password, s.dummyHash)
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
			return "", nil, domain.ErrInvalidCredentials
		}
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return "", nil, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(domain.Claims{UserID: user.ID, Email: user.Email, Role: user.Role})
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return "", nil, err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	user.PasswordHash = ""
	return token, user, nil
}

func (s *AuthService) Profile(ctx context.Context, userID int64) (*domain.User, error) {
	return s.repo.FindByID(ctx, userID)
}

// UpdateProfile changes the caller's username and/or email. Empty values are ignored.
func (s *AuthService) UpdateProfile(ctx context.Context, userID int64, in ports.ProfileInput) error {
	var update domain.UserUpdate

	if in.Username != nil {
		if username := strings.TrimSpace(*in.Username); username != "" {
			update.Username = &username
		}
	}
	if in.Email != nil {
		if email := strings.TrimSpace(*in.Email); email != "" {
			if !validEmail(email) {
				return domain.NewValidationError("invalid email format")
			}
			existing, err := s.repo.FindByEmail(ctx, email)
			switch {
			case err == nil && existing.ID != userID:
				return domain.ErrEmailTaken
			case err != nil && !errors.Is(err, domain.ErrUserNotFound):
				return err
			}
			update.Email = &email
		}
	}

	if update.Empty() {
		return domain.NewValidationError("no fields to update")
	}

	n, err := s.repo.UpdateByID(ctx, userID, update)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrUserNotFound
	}

	s.log.Info().Int64("user_id", userID).Msg("profile updated")
	return nil
}

// ChangePassword verifies the current password before storing the new hash.
// Tokens issued before the change stay valid until they expire.
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, current, next string) error {
	if current == "" || next == "" {
		return domain.NewValidationError("current and new password are required")
	}
	if len(next) < minPasswordLength {
		return domain.NewValidationError("new password must be at least 6 characters")
	}
	if len(next) > maxPasswordBytes {
		return domain.NewValidationError("password must be at most 72 bytes")
	}

	user, err := s.repo.FindCredentialsByID(ctx, userID)
	if err != nil {
		return err
	}
	if !s.hasher.Verify(current, user.PasswordHash) {
		return domain.ErrWrongPassword
	}

	hash, err := s.hasher.Hash(next)
	if err != nil {
		return err
	}
	n, err := s.repo.UpdateByID(ctx, userID, domain.UserUpdate{PasswordHash: &hash})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrUserNotFound
	}

	s.log.Info().Int64("user_id", userID).Msg("password changed")
	return nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.repo.List(ctx)
}

// DeleteUser removes targetID. An admin cannot delete their own account.
func (s *AuthService) DeleteUser(ctx context.Context, callerID, targetID int64) error {
	if callerID == targetID {
		return domain.ErrCannotDeleteSelf
	}

	n, err := s.repo.DeleteByID(ctx, targetID)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrUserNotFound
	}

	s.log.Info().Int64("user_id", targetID).Int64("deleted_by", callerID).Msg("user deleted")
	return nil
}

// EnsureAdmin creates an admin account for email unless one already exists.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, email, password string) error {
	existing, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		if existing.Role != domain.RoleAdmin {
			s.log.Warn().Str("email", email).Msg("bootstrap admin email belongs to a non-admin account")
		}
		return nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Errorf("ensure admin: %w", err)
	}
	if len(password) < minPasswordLength {
		return domain.NewValidationError("admin password must be at least 6 characters")
	}
	if len(password) > maxPasswordBytes {
		return domain.NewValidationError("password must be at most 72 bytes")
	}

	id, err := s.create(ctx, username, email, password, domain.RoleAdmin)
	if err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}

	s.log.Info().Int64("user_id", id).Str("email", email).Msg("bootstrap admin created")
	return nil
}
