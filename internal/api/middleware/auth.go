// Package middleware holds the HTTP middleware of the API.
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/storefront-api/internal/api/shared"
	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/platform/logger"
	"github.com/phrazzld/storefront-api/internal/redact"
	"github.com/phrazzld/storefront-api/internal/service/auth"
)

// AccountResolver loads the account a token was issued for.
type AccountResolver interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
}

// AuthMiddleware resolves the acting account from a bearer token.
type AuthMiddleware struct {
	jwtService auth.JWTService
	accounts   AccountResolver
	logger     *slog.Logger
}

// NewAuthMiddleware creates an AuthMiddleware.
func NewAuthMiddleware(jwtService auth.JWTService, accounts AccountResolver, log *slog.Logger) *AuthMiddleware {
	if log == nil {
		log = slog.Default()
	}
	return &AuthMiddleware{
		jwtService: jwtService,
		accounts:   accounts,
		logger:     log.With(slog.String("component", "auth_middleware")),
	}
}

// Authenticate puts the account named by the Authorization header into the
// request context. Requests without the header continue as guests; a header
// that is malformed, expired, or names a deleted account is rejected with 401.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}

		log := logger.FromContextOrDefault(r.Context(), m.logger)

		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "invalid authorization format")
			return
		}

		claims, err := m.jwtService.ValidateToken(r.Context(), strings.TrimSpace(token))
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrExpiredToken):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "token expired")
			case auth.IsTokenError(err):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "invalid token")
			default:
				log.Error("failed to validate token", slog.String("error", redact.Error(err)))
				shared.RespondWithError(w, r, http.StatusInternalServerError, "authentication error")
			}
			return
		}

		acct, err := m.accounts.GetByID(r.Context(), claims.AccountID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				log.Debug("token names a missing account", slog.String("account_id", claims.AccountID.String()))
				shared.RespondWithError(w, r, http.StatusUnauthorized, "invalid token")
				return
			}
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "authentication error", err)
			return
		}

		ctx := shared.WithAccount(r.Context(), acct)
		ctx = logger.WithLogger(ctx, log.With(slog.String("account_id", acct.ID.String())))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAccount rejects guest requests with 401.
func RequireAccount(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if shared.AccountFromContext(r.Context()) == nil {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
