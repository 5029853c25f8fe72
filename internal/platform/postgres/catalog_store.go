package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/platform/logger"
	"github.com/phrazzld/storefront-api/internal/store"
	"github.com/shopspring/decimal"
)

// PostgresCatalogStore implements store.CatalogStore.
type PostgresCatalogStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCatalogStore creates a catalog store over db.
// If logger is nil, the default logger is used.
func NewPostgresCatalogStore(db store.DBTX, logger *slog.Logger) *PostgresCatalogStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCatalogStore{
		db:     db,
		logger: logger.With(slog.String("component", "catalog_store")),
	}
}

var _ store.CatalogStore = (*PostgresCatalogStore)(nil)

const catalogColumns = `id, article, name, unit, price, discount, count,
	provider, manufacturer, category, description, image`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func scanItem(row rowScanner) (*domain.CatalogItem, error) {
	var item domain.CatalogItem
	var discount decimal.NullDecimal
	if err := row.Scan(
		&item.ID,
		&item.Article,
		&item.Name,
		&item.Unit,
		&item.Price,
		&discount,
		&item.Count,
		&item.Provider,
		&item.Manufacturer,
		&item.Category,
		&item.Description,
		&item.Image,
	); err != nil {
		return nil, err
	}
	if discount.Valid {
		item.Discount = &discount.Decimal
	}
	return &item, nil
}

func nullDiscount(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

// Create implements store.CatalogStore.
func (s *PostgresCatalogStore) Create(ctx context.Context, item *domain.CatalogItem) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := item.Validate(); err != nil {
		log.Warn("catalog item validation failed during create",
			slog.String("error", err.Error()),
			slog.String("item_id", item.ID.String()))
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO catalog_items (`+catalogColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`,
		item.ID,
		item.Article,
		item.Name,
		item.Unit,
		item.Price,
		nullDiscount(item.Discount),
		item.Count,
		item.Provider,
		item.Manufacturer,
		item.Category,
		item.Description,
		item.Image,
	)
	if err != nil {
		mapped := MapError(err)
		if !errors.Is(mapped, store.ErrDuplicate) {
			log.Error("failed to create catalog item",
				slog.String("error", err.Error()),
				slog.String("item_id", item.ID.String()))
		}
		return mapped
	}

	log.Info("catalog item created",
		slog.String("item_id", item.ID.String()),
		slog.String("article", item.Article))
	return nil
}

// GetByID implements store.CatalogStore.
func (s *PostgresCatalogStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.CatalogItem, error) {
	return s.getOne(ctx, `SELECT `+catalogColumns+` FROM catalog_items WHERE id = $1`, id)
}

// GetByArticle implements store.CatalogStore.
func (s *PostgresCatalogStore) GetByArticle(ctx context.Context, article string) (*domain.CatalogItem, error) {
	return s.getOne(ctx, `SELECT `+catalogColumns+` FROM catalog_items WHERE article = $1`, article)
}

func (s *PostgresCatalogStore) getOne(ctx context.Context, query string, arg any) (*domain.CatalogItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	item, err := scanItem(s.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrItemNotFound
		}
		log.Error("failed to get catalog item", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	return item, nil
}

// GetAll implements store.CatalogStore.
func (s *PostgresCatalogStore) GetAll(ctx context.Context) ([]*domain.CatalogItem, error) {
	return s.list(ctx, `SELECT `+catalogColumns+` FROM catalog_items ORDER BY name, id`)
}

// Search implements store.CatalogStore.
func (s *PostgresCatalogStore) Search(ctx context.Context, query string) ([]*domain.CatalogItem, error) {
	pattern := "%" + likeEscaper.Replace(strings.TrimSpace(query)) + "%"
	return s.list(ctx, `
		SELECT `+catalogColumns+`
		FROM catalog_items
		WHERE name ILIKE $1
			OR article ILIKE $1
			OR description ILIKE $1
			OR category ILIKE $1
			OR manufacturer ILIKE $1
			OR provider ILIKE $1
		ORDER BY name, id
	`, pattern)
}

func (s *PostgresCatalogStore) list(ctx context.Context, query string, args ...any) ([]*domain.CatalogItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query catalog items", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	items := []*domain.CatalogItem{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			log.Error("failed to scan catalog item row", slog.String("error", err.Error()))
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return items, nil
}

// Update implements store.CatalogStore.
func (s *PostgresCatalogStore) Update(ctx context.Context, item *domain.CatalogItem) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := item.Validate(); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE catalog_items
		SET article = $1, name = $2, unit = $3, price = $4, discount = $5, count = $6,
			provider = $7, manufacturer = $8, category = $9, description = $10, image = $11
		WHERE id = $12
	`,
		item.Article,
		item.Name,
		item.Unit,
		item.Price,
		nullDiscount(item.Discount),
		item.Count,
		item.Provider,
		item.Manufacturer,
		item.Category,
		item.Description,
		item.Image,
		item.ID,
	)
	if err != nil {
		mapped := MapError(err)
		if !errors.Is(mapped, store.ErrDuplicate) {
			log.Error("failed to update catalog item",
				slog.String("error", err.Error()),
				slog.String("item_id", item.ID.String()))
		}
		return mapped
	}

	if err := CheckRowsAffected(result, store.ErrItemNotFound); err != nil {
		return err
	}

	log.Info("catalog item updated", slog.String("item_id", item.ID.String()))
	return nil
}

// Delete implements store.CatalogStore.
func (s *PostgresCatalogStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM catalog_items WHERE id = $1`, id)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return store.ErrReferenced
		}
		log.Error("failed to delete catalog item",
			slog.String("error", err.Error()),
			slog.String("item_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrItemNotFound); err != nil {
		return err
	}

	log.Info("catalog item deleted", slog.String("item_id", id.String()))
	return nil
}

// UpdateCount implements store.CatalogStore.
func (s *PostgresCatalogStore) UpdateCount(ctx context.Context, id uuid.UUID, count int) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `UPDATE catalog_items SET count = $1 WHERE id = $2`, count, id)
	if err != nil {
		log.Error("failed to update stock count",
			slog.String("error", err.Error()),
			slog.String("item_id", id.String()))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrItemNotFound)
}

// DecrementCount implements store.CatalogStore.
func (s *PostgresCatalogStore) DecrementCount(ctx context.Context, id uuid.UUID, quantity int) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `
		UPDATE catalog_items
		SET count = count - $1
		WHERE id = $2 AND count >= $1
	`, quantity, id)
	if err != nil {
		log.Error("failed to decrement stock count",
			slog.String("error", err.Error()),
			slog.String("item_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrInsufficientStock); err != nil {
		return err
	}

	log.Debug("stock decremented",
		slog.String("item_id", id.String()),
		slog.Int("quantity", quantity))
	return nil
}

// DistinctProviders implements store.CatalogStore.
func (s *PostgresCatalogStore) DistinctProviders(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, "provider")
}

// DistinctCategories implements store.CatalogStore.
func (s *PostgresCatalogStore) DistinctCategories(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, "category")
}

// DistinctManufacturers implements store.CatalogStore.
func (s *PostgresCatalogStore) DistinctManufacturers(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, "manufacturer")
}

// column is always one of the fixed names above, never user input.
func (s *PostgresCatalogStore) distinct(ctx context.Context, column string) ([]string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT `+column+`
		FROM catalog_items
		WHERE `+column+` IS NOT NULL AND `+column+` <> ''
		ORDER BY `+column)
	if err != nil {
		log.Error("failed to query distinct values",
			slog.String("error", err.Error()),
			slog.String("column", column))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return values, nil
}

// WithTx implements store.CatalogStore.
func (s *PostgresCatalogStore) WithTx(tx *sql.Tx) store.CatalogStore {
	return &PostgresCatalogStore{db: tx, logger: s.logger}
}
