// Package auth provides JWT token generation and validation for the forum API.
//
// AUTHENTICATION FLOW:
//  1. POST /register stores a username + bcrypt hash
//  2. POST /login verifies the password and issues a signed JWT
//  3. The client sends the raw token in the Authorization header on every
//     protected request (no "Bearer " scheme prefix; the token IS the header
//     value, a wire detail clients depend on)
//  4. RequireAuth validates the token and puts the identity in the request
//     context
//
// The token is signed with HS256 and a symmetric secret. It carries no
// expiry claim: a token stays valid until the secret rotates. That makes
// logout purely client-side and secret rotation the only revocation lever.
package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the set of claims embedded in every token: who the token
// belongs to (internal user id in "sub") plus the username and role the
// original document carried.
type Identity struct {
	UserID   string
	Username string
	Role     string
}

// TokenService handles JWT creation and validation.
//
// It holds the HMAC secret key used to sign and verify tokens. The same
// secret must be used for both operations.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production.
// Example: JWT_SECRET=$(openssl rand -hex 32)
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// claims is the JWT payload. RegisteredClaims contributes "sub" (the user
// id); Username and Role are custom claims. ExpiresAt is deliberately never
// set; see the package comment.
type claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Generate creates and signs a token for the given identity.
func (s *TokenService) Generate(id Identity) (string, error) {
	c := claims{
		Username: id.Username,
		Role:     id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: id.UserID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a JWT string and returns the identity it
// encodes.
//
// Checks performed:
//   - signature is valid for our secret
//   - algorithm is HS256 (rejects "none" and asymmetric confusion)
//   - a subject claim is present
//
// There is no expiry check because tokens are issued without one.
func (s *TokenService) Validate(tokenStr string) (Identity, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
	)
	if err != nil {
		return Identity{}, fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return Identity{}, fmt.Errorf("auth: invalid token claims")
	}

	if c.Subject == "" {
		return Identity{}, fmt.Errorf("auth: token has no subject")
	}

	return Identity{
		UserID:   c.Subject,
		Username: c.Username,
		Role:     c.Role,
	}, nil
}
