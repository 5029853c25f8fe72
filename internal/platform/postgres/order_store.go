package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/platform/logger"
	"github.com/phrazzld/storefront-api/internal/store"
)

// PostgresOrderStore implements store.OrderStore.
type PostgresOrderStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresOrderStore creates an order store over db.
// If logger is nil, the default logger is used.
func NewPostgresOrderStore(db store.DBTX, logger *slog.Logger) *PostgresOrderStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresOrderStore{
		db:     db,
		logger: logger.With(slog.String("component", "order_store")),
	}
}

var _ store.OrderStore = (*PostgresOrderStore)(nil)

const orderColumns = `id, account_id, pickup_point_id, created_at, delivered_at, recipient_code, status`

func nullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var order domain.Order
	var accountID, pickupPointID uuid.NullUUID
	var deliveredAt sql.NullTime
	var status string

	if err := row.Scan(
		&order.ID,
		&accountID,
		&pickupPointID,
		&order.CreatedAt,
		&deliveredAt,
		&order.RecipientCode,
		&status,
	); err != nil {
		return nil, err
	}

	if accountID.Valid {
		order.AccountID = &accountID.UUID
	}
	if pickupPointID.Valid {
		order.PickupPointID = &pickupPointID.UUID
	}
	if deliveredAt.Valid {
		t := deliveredAt.Time.UTC()
		order.DeliveredAt = &t
	}
	order.CreatedAt = order.CreatedAt.UTC()
	order.Status = domain.OrderStatus(status)
	return &order, nil
}

// Create implements store.OrderStore.
func (s *PostgresOrderStore) Create(ctx context.Context, order *domain.Order) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := order.Validate(); err != nil {
		log.Warn("order validation failed during create",
			slog.String("error", err.Error()),
			slog.String("order_id", order.ID.String()))
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO orders (`+orderColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		order.ID,
		nullUUID(order.AccountID),
		nullUUID(order.PickupPointID),
		order.CreatedAt,
		order.DeliveredAt,
		order.RecipientCode,
		string(order.Status),
	)
	if err != nil {
		log.Error("failed to create order",
			slog.String("error", err.Error()),
			slog.String("order_id", order.ID.String()))
		return MapError(err)
	}

	log.Info("order created",
		slog.String("order_id", order.ID.String()),
		slog.String("status", string(order.Status)))
	return nil
}

// GetByID implements store.OrderStore.
func (s *PostgresOrderStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	order, err := scanOrder(s.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrOrderNotFound
		}
		log.Error("failed to get order by ID",
			slog.String("error", err.Error()),
			slog.String("order_id", id.String()))
		return nil, MapError(err)
	}
	return order, nil
}

// GetAll implements store.OrderStore.
func (s *PostgresOrderStore) GetAll(ctx context.Context) ([]*domain.Order, error) {
	return s.list(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC, id`)
}

// GetByAccount implements store.OrderStore.
func (s *PostgresOrderStore) GetByAccount(ctx context.Context, accountID uuid.UUID) ([]*domain.Order, error) {
	return s.list(ctx, `SELECT `+orderColumns+` FROM orders WHERE account_id = $1 ORDER BY created_at DESC, id`, accountID)
}

func (s *PostgresOrderStore) list(ctx context.Context, query string, args ...any) ([]*domain.Order, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query orders", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	orders := []*domain.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			log.Error("failed to scan order row", slog.String("error", err.Error()))
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return orders, nil
}

// Update implements store.OrderStore.
func (s *PostgresOrderStore) Update(ctx context.Context, order *domain.Order) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := order.Validate(); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE orders
		SET account_id = $1, pickup_point_id = $2, created_at = $3,
			delivered_at = $4, recipient_code = $5, status = $6
		WHERE id = $7
	`,
		nullUUID(order.AccountID),
		nullUUID(order.PickupPointID),
		order.CreatedAt,
		order.DeliveredAt,
		order.RecipientCode,
		string(order.Status),
		order.ID,
	)
	if err != nil {
		log.Error("failed to update order",
			slog.String("error", err.Error()),
			slog.String("order_id", order.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrOrderNotFound); err != nil {
		return err
	}

	log.Info("order updated",
		slog.String("order_id", order.ID.String()),
		slog.String("status", string(order.Status)))
	return nil
}

// Delete implements store.OrderStore. Lines are removed by ON DELETE CASCADE.
func (s *PostgresOrderStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete order",
			slog.String("error", err.Error()),
			slog.String("order_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrOrderNotFound); err != nil {
		return err
	}

	log.Info("order deleted", slog.String("order_id", id.String()))
	return nil
}

// IsItemReferenced implements store.OrderStore.
func (s *PostgresOrderStore) IsItemReferenced(ctx context.Context, itemID uuid.UUID) (bool, error) {
	var referenced bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM order_lines WHERE item_id = $1)`, itemID,
	).Scan(&referenced)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to check item references",
			slog.String("error", err.Error()),
			slog.String("item_id", itemID.String()))
		return false, MapError(err)
	}
	return referenced, nil
}

// GetOrderLines implements store.OrderStore.
func (s *PostgresOrderStore) GetOrderLines(ctx context.Context, orderID uuid.UUID) ([]*domain.OrderLine, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, order_id, item_id, quantity
		FROM order_lines
		WHERE order_id = $1
		ORDER BY id
	`, orderID)
	if err != nil {
		log.Error("failed to query order lines",
			slog.String("error", err.Error()),
			slog.String("order_id", orderID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	lines := []*domain.OrderLine{}
	for rows.Next() {
		var line domain.OrderLine
		if err := rows.Scan(&line.ID, &line.OrderID, &line.ItemID, &line.Quantity); err != nil {
			return nil, err
		}
		lines = append(lines, &line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return lines, nil
}

// AddOrderLine implements store.OrderStore.
func (s *PostgresOrderStore) AddOrderLine(ctx context.Context, line *domain.OrderLine) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := line.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO order_lines (id, order_id, item_id, quantity)
		VALUES ($1, $2, $3, $4)
	`, line.ID, line.OrderID, line.ItemID, line.Quantity)
	if err != nil {
		log.Error("failed to add order line",
			slog.String("error", err.Error()),
			slog.String("order_id", line.OrderID.String()),
			slog.String("item_id", line.ItemID.String()))
		return MapError(err)
	}
	return nil
}

// DeleteOrderLines implements store.OrderStore.
func (s *PostgresOrderStore) DeleteOrderLines(ctx context.Context, orderID uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM order_lines WHERE order_id = $1`, orderID); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete order lines",
			slog.String("error", err.Error()),
			slog.String("order_id", orderID.String()))
		return MapError(err)
	}
	return nil
}

// WithTx implements store.OrderStore.
func (s *PostgresOrderStore) WithTx(tx *sql.Tx) store.OrderStore {
	return &PostgresOrderStore{db: tx, logger: s.logger}
}
