package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/storefront-api/internal/domain"
)

// PickupPointStore defines the interface for pickup point persistence.
type PickupPointStore interface {
	Create(ctx context.Context, point *domain.PickupPoint) error

	// GetByID returns ErrPickupPointNotFound if the point does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.PickupPoint, error)

	GetAll(ctx context.Context) ([]*domain.PickupPoint, error)

	// Update returns ErrPickupPointNotFound if the point does not exist.
	Update(ctx context.Context, point *domain.PickupPoint) error

	// Delete removes the point. Orders keep existing with a nil pickup point.
	Delete(ctx context.Context, id uuid.UUID) error

	WithTx(tx *sql.Tx) PickupPointStore
}
