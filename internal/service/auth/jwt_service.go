package auth

import (
	"context"
	"time"
)

// JWTService defines operations for managing JWT authentication tokens.
// The application has a single admin principal, so tokens carry a username
// subject rather than a user id.
type JWTService interface {
	// GenerateToken creates a signed JWT whose subject is the given username.
	// Returns the token string or an error if token generation fails.
	GenerateToken(ctx context.Context, username string) (string, error)

	// ValidateToken validates the provided token string and extracts the
	// claims. Returns an error if validation fails (expired, invalid
	// signature, etc.).
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)

	// TokenLifetime returns the validity window stamped on new tokens.
	TokenLifetime() time.Duration
}

// Claims is the validated content of a bearer token.
type Claims struct {
	// Subject is the authenticated principal: the admin username.
	Subject string `json:"sub,omitempty"`

	// Standard registered JWT claims
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
