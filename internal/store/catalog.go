package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/storefront-api/internal/domain"
)

// CatalogStore defines the interface for catalog item persistence.
type CatalogStore interface {
	// Create saves a new item.
	// Returns ErrArticleExists if the article is already used.
	Create(ctx context.Context, item *domain.CatalogItem) error

	// GetByID retrieves an item by its ID.
	// Returns ErrItemNotFound if the item does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.CatalogItem, error)

	// GetByArticle retrieves an item by its article code.
	// Returns ErrItemNotFound if the item does not exist.
	GetByArticle(ctx context.Context, article string) (*domain.CatalogItem, error)

	// GetAll returns the whole catalog ordered by name.
	GetAll(ctx context.Context) ([]*domain.CatalogItem, error)

	// Update overwrites every field of an existing item.
	// Returns ErrItemNotFound if the item does not exist and
	// ErrArticleExists if the new article belongs to another item.
	Update(ctx context.Context, item *domain.CatalogItem) error

	// Delete removes an item.
	// Returns ErrItemNotFound if the item does not exist and
	// ErrReferenced if an order line still points at it.
	Delete(ctx context.Context, id uuid.UUID) error

	// UpdateCount sets the stock count of an item.
	// Returns ErrItemNotFound if the item does not exist.
	UpdateCount(ctx context.Context, id uuid.UUID, count int) error

	// DecrementCount subtracts quantity from the stock count only when at
	// least quantity units are available.
	// Returns ErrInsufficientStock when the condition does not hold.
	DecrementCount(ctx context.Context, id uuid.UUID, quantity int) error

	// Search returns items whose name, article, description, category,
	// manufacturer or provider contains query, ignoring case.
	Search(ctx context.Context, query string) ([]*domain.CatalogItem, error)

	// DistinctProviders returns the sorted distinct non-empty providers.
	DistinctProviders(ctx context.Context) ([]string, error)

	// DistinctCategories returns the sorted distinct non-empty categories.
	DistinctCategories(ctx context.Context) ([]string, error)

	// DistinctManufacturers returns the sorted distinct non-empty manufacturers.
	DistinctManufacturers(ctx context.Context) ([]string, error)

	// WithTx returns a CatalogStore bound to tx.
	WithTx(tx *sql.Tx) CatalogStore
}
