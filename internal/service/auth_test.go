package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/arefin/miniddit/internal/apperror"
	"github.com/arefin/miniddit/internal/auth"
	"github.com/arefin/miniddit/internal/model"
)

// =========================================================================
// FAKES AND HELPERS
// =========================================================================

// fakeUserRepo is an in-memory implementation of repository.UserRepository.
// A hand-written fake keeps the tests readable: what it does is right here.
type fakeUserRepo struct {
	byUsername map[string]*model.User
	nextID     int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byUsername: make(map[string]*model.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	if _, exists := f.byUsername[user.Username]; exists {
		return apperror.Conflict("user", user.Username)
	}
	f.nextID++
	user.ID = "user-" + strconv.Itoa(f.nextID)
	f.byUsername[user.Username] = user
	return nil
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	user, ok := f.byUsername[username]
	if !ok {
		return nil, apperror.NotFound("user", username)
	}
	return user, nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	for _, user := range f.byUsername {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, apperror.NotFound("user", id)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestAuthService(t *testing.T) (*AuthService, *fakeUserRepo, *auth.TokenService) {
	t.Helper()
	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars!!")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, tokens, auth.NewPasswordServiceForTest(bcrypt.MinCost), discardLogger())
	return svc, repo, tokens
}

// =========================================================================
// REGISTER TESTS
// =========================================================================

func TestRegister(t *testing.T) {
	svc, repo, _ := newTestAuthService(t)

	user, err := svc.Register(context.Background(), "alice", "hunter2")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if user.ID == "" {
		t.Error("Register() did not assign an id")
	}
	if user.Role != model.RoleUser {
		t.Errorf("Role = %q, want %q", user.Role, model.RoleUser)
	}
	if user.PasswordHash == "hunter2" {
		t.Error("password stored as plaintext")
	}
	if _, ok := repo.byUsername["alice"]; !ok {
		t.Error("user not stored in repository")
	}
}

func TestRegister_Validation(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"empty username", "", "pass"},
		{"whitespace username", "   ", "pass"},
		{"empty password", "alice", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.username, tt.password)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("Register(%q, %q) error = %v, want ErrValidation",
					tt.username, tt.password, err)
			}
		})
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	if _, err := svc.Register(context.Background(), "alice", "first"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	_, err := svc.Register(context.Background(), "alice", "second")
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("Register() duplicate error = %v, want ErrConflict", err)
	}
}

// =========================================================================
// LOGIN TESTS
// =========================================================================

func TestLogin_RoundTrip(t *testing.T) {
	svc, _, tokens := newTestAuthService(t)

	registered, err := svc.Register(context.Background(), "alice", "hunter2")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	token, err := svc.Login(context.Background(), "alice", "hunter2")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	// The issued token must decode back to the registered user's identity.
	id, err := tokens.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if id.UserID != registered.ID {
		t.Errorf("UserID = %q, want %q", id.UserID, registered.ID)
	}
	if id.Username != "alice" {
		t.Errorf("Username = %q, want %q", id.Username, "alice")
	}
	if id.Role != model.RoleUser {
		t.Errorf("Role = %q, want %q", id.Role, model.RoleUser)
	}
}

func TestLogin_UnknownUser(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	_, err := svc.Login(context.Background(), "ghost", "whatever")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Login() error = %v, want ErrNotFound", err)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	if _, err := svc.Register(context.Background(), "alice", "correct"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	_, err := svc.Login(context.Background(), "alice", "incorrect")
	if !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("Login() error = %v, want ErrUnauthorized", err)
	}
}
