package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/platform/logger"
	"github.com/phrazzld/storefront-api/internal/service/auth"
	"github.com/phrazzld/storefront-api/internal/store"
	"github.com/phrazzld/storefront-api/internal/validation"
)

// RegisterInput carries a self-registration request.
type RegisterInput struct {
	Login    string
	Password string
	FullName string
	// PasswordConfirmation is checked against Password when present.
	PasswordConfirmation *string
	// Role of the new account. RoleGuest, the zero value, means RoleClient.
	Role domain.Role
}

// AccountService handles login, registration and account lookups.
type AccountService interface {
	// Login returns the account whose login and password match, or (nil, nil).
	// An unknown login and a wrong password are indistinguishable.
	Login(ctx context.Context, login, password string) (*domain.Account, error)

	// Register validates and creates an account.
	Register(ctx context.Context, in RegisterInput) (*domain.Account, error)

	GetAllAccounts(ctx context.Context) ([]*domain.Account, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
}

// AccountServiceImpl implements AccountService.
type AccountServiceImpl struct {
	accounts store.AccountStore
	hasher   auth.PasswordHasher
	logger   *slog.Logger
}

var _ AccountService = (*AccountServiceImpl)(nil)

// NewAccountService creates an AccountService.
func NewAccountService(accounts store.AccountStore, hasher auth.PasswordHasher, logger *slog.Logger) *AccountServiceImpl {
	if accounts == nil || hasher == nil {
		panic("account service requires an account store and a password hasher")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AccountServiceImpl{
		accounts: accounts,
		hasher:   hasher,
		logger:   logger.With(slog.String("component", "account_service")),
	}
}

// Login implements AccountService.
func (s *AccountServiceImpl) Login(ctx context.Context, login, password string) (*domain.Account, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	acct, err := s.accounts.GetByLogin(ctx, strings.TrimSpace(login))
	if err != nil {
		if store.IsNotFoundError(err) {
			s.hasher.CompareDummy(password)
			log.Debug("login failed")
			return nil, nil
		}
		return nil, classifyStoreError(log, "look up account", err, "account not found")
	}

	if err := s.hasher.Compare(acct.PasswordHash, password); err != nil {
		if !errors.Is(err, auth.ErrPasswordMismatch) {
			log.Warn("stored password hash is unusable",
				slog.String("account_id", acct.ID.String()),
				slog.String("error", err.Error()))
		}
		log.Debug("login failed")
		return nil, nil
	}

	log.Info("account logged in", slog.String("account_id", acct.ID.String()))
	return acct, nil
}

// Register implements AccountService.
func (s *AccountServiceImpl) Register(ctx context.Context, in RegisterInput) (*domain.Account, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	checks := []func() (bool, string){
		func() (bool, string) { return validation.ValidateLogin(in.Login) },
		func() (bool, string) { return validation.ValidateFullName(in.FullName) },
		func() (bool, string) { return validation.ValidatePassword(in.Password) },
	}
	if in.PasswordConfirmation != nil {
		checks = append(checks, func() (bool, string) {
			return validation.ValidatePasswordConfirmation(in.Password, *in.PasswordConfirmation)
		})
	}
	for _, check := range checks {
		if ok, msg := check(); !ok {
			return nil, domain.InvalidArgument("%s", msg)
		}
	}

	role := in.Role
	if role == domain.RoleGuest {
		role = domain.RoleClient
	}
	if !role.IsValid() {
		return nil, domain.InvalidArgument("unknown role")
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		log.Error("failed to hash password", slog.String("error", err.Error()))
		return nil, domain.Storage("failed to register account", err)
	}

	acct, err := domain.NewAccount(in.Login, in.FullName, hash, role)
	if err != nil {
		return nil, invalidInput(err)
	}

	if err := s.accounts.Create(ctx, acct); err != nil {
		if errors.Is(err, store.ErrLoginExists) {
			log.Debug("registration with existing login rejected")
		}
		return nil, classifyStoreError(log, "register account", err, "account not found")
	}

	log.Info("account registered",
		slog.String("account_id", acct.ID.String()),
		slog.String("role", acct.Role.String()))
	return acct, nil
}

// GetAllAccounts implements AccountService.
func (s *AccountServiceImpl) GetAllAccounts(ctx context.Context) ([]*domain.Account, error) {
	accounts, err := s.accounts.GetAll(ctx)
	if err != nil {
		return nil, classifyStoreError(logger.FromContextOrDefault(ctx, s.logger), "list accounts", err, "account not found")
	}
	return accounts, nil
}

// GetByID implements AccountService.
func (s *AccountServiceImpl) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	acct, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, classifyStoreError(logger.FromContextOrDefault(ctx, s.logger), "get account", err,
			"account "+id.String()+" not found")
	}
	return acct, nil
}
