package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/storefront-api/internal/domain"
)

// OrderStore defines the interface for orders and their lines.
type OrderStore interface {
	// Create saves a new order without lines.
	Create(ctx context.Context, order *domain.Order) error

	// GetByID retrieves an order by its ID.
	// Returns ErrOrderNotFound if the order does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)

	// GetAll returns every order, newest first.
	GetAll(ctx context.Context) ([]*domain.Order, error)

	// GetByAccount returns the orders placed by accountID, newest first.
	GetByAccount(ctx context.Context, accountID uuid.UUID) ([]*domain.Order, error)

	// Update overwrites the fields of an existing order. Lines are untouched.
	// Returns ErrOrderNotFound if the order does not exist.
	Update(ctx context.Context, order *domain.Order) error

	// Delete removes an order together with its lines.
	// Returns ErrOrderNotFound if the order does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// IsItemReferenced reports whether any order line points at itemID.
	IsItemReferenced(ctx context.Context, itemID uuid.UUID) (bool, error)

	// GetOrderLines returns the lines of orderID.
	GetOrderLines(ctx context.Context, orderID uuid.UUID) ([]*domain.OrderLine, error)

	// AddOrderLine saves one line of an existing order.
	AddOrderLine(ctx context.Context, line *domain.OrderLine) error

	// DeleteOrderLines removes every line of orderID.
	DeleteOrderLines(ctx context.Context, orderID uuid.UUID) error

	// WithTx returns an OrderStore bound to tx.
	WithTx(tx *sql.Tx) OrderStore
}
