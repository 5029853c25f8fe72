package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/storefront-api/internal/domain"
)

// JWTService issues and checks the access tokens handed out at login.
type JWTService interface {
	// GenerateToken creates a signed access token for acct.
	// The returned time is the token's expiry.
	GenerateToken(ctx context.Context, acct *domain.Account) (string, time.Time, error)

	// ValidateToken validates the provided token string and extracts the claims.
	// Returns ErrExpiredToken, ErrTokenNotYetValid or ErrInvalidToken on failure.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is the decoded content of a valid access token.
type Claims struct {
	// AccountID is the account the token was issued for.
	AccountID uuid.UUID `json:"aid,omitempty"`

	// Role is the account role at issue time, as its storage name.
	// Authorization always uses the role loaded from the store.
	Role string `json:"role,omitempty"`

	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
