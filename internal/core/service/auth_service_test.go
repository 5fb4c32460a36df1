package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/liqued/storefront-api/internal/core/domain"
	"github.com/liqued/storefront-api/internal/core/ports"
	"github.com/liqued/storefront-api/internal/pkg/password"
	"github.com/liqued/storefront-api/internal/pkg/token"
)

type stubUserRepo struct {
	users  map[int64]*domain.User
	nextID int64
	err    error // if set, every call returns it
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[int64]*domain.User), nextID: 1}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	for _, u := range r.users {
		if u.Email == user.Email {
			return 0, domain.ErrEmailTaken
		}
	}
	u := cloneUser(user)
	u.ID = r.nextID
	r.nextID++
	r.users[u.ID] = u
	return u.ID, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindCredentialsByID(_ context.Context, id int64) (*domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

// FindByID mirrors the public projection of the real repository.
func (r *stubUserRepo) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	u, err := r.FindCredentialsByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.PasswordHash = ""
	return u, nil
}

func (r *stubUserRepo) List(_ context.Context) ([]domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		c := *u
		c.PasswordHash = ""
		out = append(out, c)
	}
	return out, nil
}

func (r *stubUserRepo) UpdateByID(_ context.Context, id int64, update domain.UserUpdate) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	u, ok := r.users[id]
	if !ok {
		return 0, nil
	}
	if update.Username != nil {
		u.Username = *update.Username
	}
	if update.Email != nil {
		u.Email = *update.Email
	}
	if update.PasswordHash != nil {
		u.PasswordHash = *update.PasswordHash
	}
	return 1, nil
}

func (r *stubUserRepo) DeleteByID(_ context.Context, id int64) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	if _, ok := r.users[id]; !ok {
		return 0, nil
	}
	delete(r.users, id)
	return 1, nil
}

func newAuthSvc(repo *stubUserRepo) (*AuthService, *token.Manager) {
	tokens := token.NewManager("secret", time.Hour)
	return NewAuthService(repo, password.NewHasher(bcrypt.MinCost), tokens, zerolog.Nop()), tokens
}

func register(t *testing.T, svc *AuthService, username, email, pwd string) int64 {
	t.Helper()
	id, err := svc.Register(context.Background(), ports.RegisterInput{Username: username, Email: email, Password: pwd})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return id
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newAuthSvc(repo)

	id := register(t, svc, "alice", "a@x.com", "secret1")
	if id == 0 {
		t.Fatalf("expected id")
	}

	stored := repo.users[id]
	if stored.PasswordHash == "secret1" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret1")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if stored.Role != domain.RoleUser {
		t.Fatalf("expected role user, got %s", stored.Role)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc, _ := newAuthSvc(newStubUserRepo())

	cases := map[string]ports.RegisterInput{
		"missing username": {Email: "a@x.com", Password: "secret1"},
		"missing email":    {Username: "alice", Password: "secret1"},
		"missing password": {Username: "alice", Email: "a@x.com"},
		"bad email":        {Username: "alice", Email: "not-an-email", Password: "secret1"},
		"short password":   {Username: "alice", Email: "a@x.com", Password: "12345"},
	}
	for name, in := range cases {
		if _, err := svc.Register(context.Background(), in); !domain.IsValidation(err) {
			t.Fatalf("%s: expected validation error, got %v", name, err)
		}
	}
}

func TestAuthService_Register_PasswordBoundary(t *testing.T) {
	svc, _ := newAuthSvc(newStubUserRepo())

	if _, err := svc.Register(context.Background(), ports.RegisterInput{Username: "a", Email: "a@x.com", Password: "12345"}); !domain.IsValidation(err) {
		t.Fatalf("5 chars: expected validation error, got %v", err)
	}
	if _, err := svc.Register(context.Background(), ports.RegisterInput{Username: "a", Email: "a@x.com", Password: "123456"}); err != nil {
		t.Fatalf("6 chars: expected success, got %v", err)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc, _ := newAuthSvc(newStubUserRepo())

	register(t, svc, "bob", "bob@x.com", "secret1")
	_, err := svc.Register(context.Background(), ports.RegisterInput{Username: "bob2", Email: "bob@x.com", Password: "secret2"})
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, tokens := newAuthSvc(newStubUserRepo())
	id := register(t, svc, "carol", "carol@x.com", "s3cret")

	signed, user, err := svc.Login(context.Background(), "carol@x.com", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user == nil || user.Username != "carol" || user.Role != domain.RoleUser {
		t.Fatalf("unexpected user: %+v", user)
	}
	if user.PasswordHash != "" {
		t.Fatalf("login must not return the password hash")
	}

	claims, err := tokens.Verify(signed)
	if err != nil {
		t.Fatalf("token invalid: %v", err)
	}
	if claims.UserID != id || claims.Email != "carol@x.com" || claims.Role != domain.RoleUser {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestAuthService_Login_WrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	svc, _ := newAuthSvc(newStubUserRepo())
	register(t, svc, "dave", "dave@x.com", "goodpass")

	_, _, wrongPwd := svc.Login(context.Background(), "dave@x.com", "badpass")
	_, _, unknown := svc.Login(context.Background(), "ghost@x.com", "badpass")

	if !errors.Is(wrongPwd, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongPwd)
	}
	if !errors.Is(unknown, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", unknown)
	}
	if wrongPwd.Error() != unknown.Error() {
		t.Fatalf("failure messages differ: %q vs %q", wrongPwd, unknown)
	}
}

func TestAuthService_Login_MissingFields(t *testing.T) {
	svc, _ := newAuthSvc(newStubUserRepo())
	if _, _, err := svc.Login(context.Background(), "", "x"); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAuthService_Login_RepoError(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newAuthSvc(repo)
	repo.err = errors.New("connection refused")

	_, _, err := svc.Login(context.Background(), "a@x.com", "secret1")
	if err == nil || errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected raw repository error, got %v", err)
	}
}

func TestAuthService_Profile(t *testing.T) {
	svc, _ := newAuthSvc(newStubUserRepo())
	id := register(t, svc, "alice", "a@x.com", "secret1")

	u, err := svc.Profile(context.Background(), id)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if u.Username != "alice" || u.Email != "a@x.com" || u.PasswordHash != "" {
		t.Fatalf("unexpected profile: %+v", u)
	}

	if _, err := svc.Profile(context.Background(), 999); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_UpdateProfile(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newAuthSvc(repo)
	alice := register(t, svc, "alice", "a@x.com", "secret1")
	register(t, svc, "bob", "b@x.com", "secret1")

	name := "alice2"
	if err := svc.UpdateProfile(context.Background(), alice, ports.ProfileInput{Username: &name}); err != nil {
		t.Fatalf("update username: %v", err)
	}
	if repo.users[alice].Username != "alice2" {
		t.Fatalf("username not updated")
	}

	taken := "b@x.com"
	if err := svc.UpdateProfile(context.Background(), alice, ports.ProfileInput{Email: &taken}); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	own := "a@x.com"
	if err := svc.UpdateProfile(context.Background(), alice, ports.ProfileInput{Email: &own}); err != nil {
		t.Fatalf("keeping own email should succeed: %v", err)
	}

	bad := "nope"
	if err := svc.UpdateProfile(context.Background(), alice, ports.ProfileInput{Email: &bad}); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	empty := ""
	if err := svc.UpdateProfile(context.Background(), alice, ports.ProfileInput{Username: &empty}); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for empty update, got %v", err)
	}

	if err := svc.UpdateProfile(context.Background(), 999, ports.ProfileInput{Username: &name}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	svc, _ := newAuthSvc(newStubUserRepo())
	id := register(t, svc, "alice", "a@x.com", "secret1")

	if err := svc.ChangePassword(context.Background(), id, "wrong", "newsecret"); !errors.Is(err, domain.ErrWrongPassword) {
		t.Fatalf("expected ErrWrongPassword, got %v", err)
	}
	if err := svc.ChangePassword(context.Background(), id, "secret1", "12345"); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for short password, got %v", err)
	}
	if err := svc.ChangePassword(context.Background(), id, "secret1", "newsecret"); err != nil {
		t.Fatalf("change password: %v", err)
	}

	if _, _, err := svc.Login(context.Background(), "a@x.com", "secret1"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("old password should no longer work, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "a@x.com", "newsecret"); err != nil {
		t.Fatalf("new password should work: %v", err)
	}
}

func TestAuthService_DeleteUser(t *testing.T) {
	svc, _ := newAuthSvc(newStubUserRepo())
	admin := register(t, svc, "root", "root@x.com", "secret1")
	target := register(t, svc, "bob", "b@x.com", "secret1")

	if err := svc.DeleteUser(context.Background(), admin, admin); !errors.Is(err, domain.ErrCannotDeleteSelf) {
		t.Fatalf("expected ErrCannotDeleteSelf, got %v", err)
	}
	if err := svc.DeleteUser(context.Background(), admin, target); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.DeleteUser(context.Background(), admin, target); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("second delete: expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_EnsureAdmin(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newAuthSvc(repo)

	if err := svc.EnsureAdmin(context.Background(), "admin", "admin@x.com", "adminpass"); err != nil {
		t.Fatalf("ensure admin: %v", err)
	}
	if err := svc.EnsureAdmin(context.Background(), "admin", "admin@x.com", "adminpass"); err != nil {
		t.Fatalf("ensure admin twice: %v", err)
	}
	if len(repo.users) != 1 {
		t.Fatalf("expected exactly one user, got %d", len(repo.users))
	}
	for _, u := range repo.users {
		if u.Role != domain.RoleAdmin {
			t.Fatalf("expected admin role, got %s", u.Role)
		}
	}
}

func TestAuthService_EnsureAdmin_RejectsOverlongPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newAuthSvc(repo)

	err := svc.EnsureAdmin(context.Background(), "admin", "admin@x.com", strings.Repeat("x", 73))
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(repo.users) != 0 {
		t.Fatalf("no user should be created, got %d", len(repo.users))
	}
}
