package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/storefront-api/internal/domain"
)

// AccountStore defines the interface for account persistence.
type AccountStore interface {
	// Create saves a new account.
	// Returns ErrLoginExists if the login is already taken.
	Create(ctx context.Context, account *domain.Account) error

	// GetByID retrieves an account by its ID.
	// Returns ErrAccountNotFound if the account does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)

	// GetByLogin retrieves an account by its login.
	// Returns ErrAccountNotFound if the account does not exist.
	GetByLogin(ctx context.Context, login string) (*domain.Account, error)

	// GetByFullName returns every account with exactly this full name.
	GetByFullName(ctx context.Context, fullName string) ([]*domain.Account, error)

	// GetAll returns all accounts ordered by creation time.
	GetAll(ctx context.Context) ([]*domain.Account, error)

	// Update overwrites the mutable fields of an account.
	// Returns ErrAccountNotFound if the account does not exist.
	Update(ctx context.Context, account *domain.Account) error

	// Delete removes an account. Orders keep existing with a nil account.
	// Returns ErrAccountNotFound if the account does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns an AccountStore bound to tx.
	WithTx(tx *sql.Tx) AccountStore
}
