// Package service contains the business logic layer of the application.
//
// Handlers parse HTTP and map errors to status codes; services validate
// input and enforce the rules; repositories talk to the database. Services
// depend on the repository interfaces, never on the sqlite package, so
// tests wire in in-memory fakes.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/arefin/miniddit/internal/apperror"
	"github.com/arefin/miniddit/internal/auth"
	"github.com/arefin/miniddit/internal/model"
	"github.com/arefin/miniddit/internal/repository"
)

// AuthService handles registration and login.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// Register hashes the password and stores a new account with the default
// role. Username and password must be non-empty; a duplicate username
// surfaces as apperror.ErrConflict from the repository.
func (s *AuthService) Register(ctx context.Context, username, password string) (*model.User, error) {
	username = strings.TrimSpace(username)

	if username == "" {
		return nil, apperror.ValidationFailed("username", "username is required")
	}
	if password == "" {
		return nil, apperror.ValidationFailed("password", "password is required")
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("registering %s: %w", username, err)
	}

	user := &model.User{
		Username:     username,
		PasswordHash: hash,
		Role:         model.RoleUser,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("registering %s: %w", username, err)
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}

// Login verifies the credentials and issues a signed token carrying the
// user's id, username and role.
//
// Failure modes callers care about:
//   - unknown username  → apperror.ErrNotFound ("user not found")
//   - wrong password    → apperror.ErrUnauthorized ("wrong password")
//
// Both map to 400 at the HTTP layer, matching the public contract.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", apperror.ValidationFailed("username", "username is required")
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return "", err
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		// Log at Info, not Error: a typo'd password is normal traffic.
		s.logger.Info("login rejected",
			slog.String("username", username),
		)
		return "", apperror.Unauthorized("wrong password")
	}

	token, err := s.tokens.Generate(auth.Identity{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	})
	if err != nil {
		return "", fmt.Errorf("issuing token for %s: %w", username, err)
	}

	s.logger.Info("user logged in",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)

	return token, nil
}
