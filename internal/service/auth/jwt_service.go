package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskflow-api/internal/domain"
)

// JWTService issues and validates signed access tokens.
type JWTService interface {
	// GenerateToken creates a signed access token carrying the user's identity
	// claims and one role claim per entry in roles.
	GenerateToken(ctx context.Context, user *domain.User, roles []string) (*AccessToken, error)

	// ValidateToken verifies signature, issuer, audience and lifetime and
	// returns the token's claims.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// AccessToken is a freshly signed token and its expiry.
type AccessToken struct {
	Token     string
	ExpiresAt time.Time
}

// Claims is the identity carried by a validated access token.
type Claims struct {
	UserID    uuid.UUID
	Email     string
	Username  string
	FirstName string
	LastName  string
	Roles     []string

	// ID is the per-token nonce (jti); two tokens issued in the same second
	// for the same user still differ.
	ID        string
	Issuer    string
	Audience  []string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// HasRole reports whether the claims include role.
func (c *Claims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}
