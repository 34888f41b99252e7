package repository

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
)

// TokenService defines the interface for token operations
type TokenService interface {
	GenerateToken(ctx context.Context, username string) (string, *Claims, error)
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// PasswordVerifier checks a plaintext password against a stored hash.
type PasswordVerifier interface {
	Compare(hash, password string) error
}

// Claims represents JWT claims
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}
