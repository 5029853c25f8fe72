package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/storefront-api/internal/api/shared"
	"github.com/phrazzld/storefront-api/internal/authz"
	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/platform/logger"
	"github.com/phrazzld/storefront-api/internal/service"
	"github.com/phrazzld/storefront-api/internal/service/auth"
)

// AuthHandler serves registration and login.
type AuthHandler struct {
	accounts   service.AccountService
	jwtService auth.JWTService
	logger     *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(accounts service.AccountService, jwtService auth.JWTService, log *slog.Logger) *AuthHandler {
	if accounts == nil || jwtService == nil {
		panic("auth handler requires an account service and a JWT service")
	}
	if log == nil {
		log = slog.Default()
	}
	return &AuthHandler{
		accounts:   accounts,
		jwtService: jwtService,
		logger:     log.With(slog.String("component", "auth_handler")),
	}
}

// Routes mounts the auth endpoints on r.
func (h *AuthHandler) Routes(r chi.Router) {
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	in := service.RegisterInput{
		Login:                req.Login,
		Password:             req.Password,
		FullName:             req.FullName,
		PasswordConfirmation: req.PasswordConfirmation,
	}
	if req.Role != "" {
		role, err := domain.ParseRole(req.Role)
		if err != nil {
			respondBadRequest(w, r, "unknown role", err)
			return
		}
		if role != domain.RoleClient {
			if _, err := authz.RequireAdmin(actingAccount(r), "assign account roles"); err != nil {
				HandleAPIError(w, r, err)
				return
			}
		}
		in.Role = role
	}

	acct, err := h.accounts.Register(r.Context(), in)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	h.respondWithToken(w, r, http.StatusCreated, acct)
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	acct, err := h.accounts.Login(r.Context(), req.Login, req.Password)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	if acct == nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "invalid login or password")
		return
	}

	h.respondWithToken(w, r, http.StatusOK, acct)
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, r *http.Request, status int, acct *domain.Account) {
	token, expiresAt, err := h.jwtService.GenerateToken(r.Context(), acct)
	if err != nil {
		logger.FromContextOrDefault(r.Context(), h.logger).Error("failed to generate token",
			slog.String("account_id", acct.ID.String()),
			slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusInternalServerError, "failed to generate authentication token")
		return
	}

	shared.RespondWithJSON(w, r, status, AuthResponse{
		AccountID: acct.ID,
		Role:      acct.Role.String(),
		RoleLabel: acct.Role.Label(),
		FullName:  acct.FullName,
		Token:     token,
		ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
	})
}
