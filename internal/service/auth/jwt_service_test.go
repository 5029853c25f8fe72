package auth

import (
	"context"
	"testing"
	"time"

	"github.com/phrazzld/storefront-api/internal/config"
	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-long-enough-for-testing"

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func testAccount(t *testing.T) *domain.Account {
	t.Helper()
	acct, err := domain.NewAccount("maria@example.com", "Maria Sokolova", "$2a$10$hash", domain.RoleManager)
	require.NoError(t, err)
	return acct
}

func TestNewJWTService(t *testing.T) {
	t.Parallel()

	_, err := NewJWTService(config.AuthConfig{JWTSecret: "short", TokenLifetimeMinutes: 60})
	assert.Error(t, err)

	_, err = NewJWTService(config.AuthConfig{JWTSecret: testSecret, TokenLifetimeMinutes: 0})
	assert.Error(t, err)

	svc, err := NewJWTService(config.AuthConfig{JWTSecret: testSecret, TokenLifetimeMinutes: 60})
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	lifetime := 60 * time.Minute
	acct := testAccount(t)

	svc, err := newHMACJWTService(testSecret, lifetime, fixedClock(fixedTime))
	require.NoError(t, err)

	token, expiresAt, err := svc.GenerateToken(context.Background(), acct)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, fixedTime.Add(lifetime), expiresAt)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, acct.ID, claims.AccountID)
	assert.Equal(t, "manager", claims.Role)
	assert.Equal(t, acct.ID.String(), claims.Subject)
	assert.Equal(t, fixedTime.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, fixedTime.Add(lifetime).Unix(), claims.ExpiresAt.Unix())
	assert.NotEmpty(t, claims.ID)

	_, _, err = svc.GenerateToken(context.Background(), nil)
	assert.Error(t, err)
}

func TestValidateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	lifetime := 60 * time.Minute
	acct := testAccount(t)

	issue := func(t *testing.T, secret string) string {
		svc, err := newHMACJWTService(secret, lifetime, fixedClock(fixedTime))
		require.NoError(t, err)
		token, _, err := svc.GenerateToken(context.Background(), acct)
		require.NoError(t, err)
		return token
	}

	tests := []struct {
		name    string
		token   func(t *testing.T) string
		at      time.Time
		secret  string
		wantErr error
	}{
		{
			name:   "valid token",
			token:  func(t *testing.T) string { return issue(t, testSecret) },
			at:     fixedTime,
			secret: testSecret,
		},
		{
			name:    "expired token",
			token:   func(t *testing.T) string { return issue(t, testSecret) },
			at:      fixedTime.Add(lifetime + time.Hour),
			secret:  testSecret,
			wantErr: ErrExpiredToken,
		},
		{
			name:   "within clock skew",
			token:  func(t *testing.T) string { return issue(t, testSecret) },
			at:     fixedTime.Add(lifetime + time.Minute),
			secret: testSecret,
		},
		{
			name:    "invalid signature",
			token:   func(t *testing.T) string { return issue(t, "wrong-secret-that-is-long-enough-for-testing") },
			at:      fixedTime,
			secret:  testSecret,
			wantErr: ErrInvalidToken,
		},
		{
			name:    "malformed token",
			token:   func(t *testing.T) string { return "this.is.not.a.valid.jwt.token" },
			at:      fixedTime,
			secret:  testSecret,
			wantErr: ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc, err := newHMACJWTService(tt.secret, lifetime, fixedClock(tt.at))
			require.NoError(t, err)

			claims, err := svc.ValidateToken(context.Background(), tt.token(t))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, acct.ID, claims.AccountID)
		})
	}
}
