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

// PostgresPickupPointStore implements store.PickupPointStore.
type PostgresPickupPointStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresPickupPointStore creates a pickup point store over db.
func NewPostgresPickupPointStore(db store.DBTX, logger *slog.Logger) *PostgresPickupPointStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresPickupPointStore{
		db:     db,
		logger: logger.With(slog.String("component", "pickup_point_store")),
	}
}

var _ store.PickupPointStore = (*PostgresPickupPointStore)(nil)

func (s *PostgresPickupPointStore) Create(ctx context.Context, point *domain.PickupPoint) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO pickup_points (id, address) VALUES ($1, $2)`, point.ID, point.Address)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to create pickup point",
			slog.String("error", err.Error()),
			slog.String("pickup_point_id", point.ID.String()))
		return MapError(err)
	}
	return nil
}

func (s *PostgresPickupPointStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.PickupPoint, error) {
	var point domain.PickupPoint
	err := s.db.QueryRowContext(ctx,
		`SELECT id, address FROM pickup_points WHERE id = $1`, id,
	).Scan(&point.ID, &point.Address)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrPickupPointNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get pickup point",
			slog.String("error", err.Error()),
			slog.String("pickup_point_id", id.String()))
		return nil, MapError(err)
	}
	return &point, nil
}

func (s *PostgresPickupPointStore) GetAll(ctx context.Context) ([]*domain.PickupPoint, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, `SELECT id, address FROM pickup_points ORDER BY address, id`)
	if err != nil {
		log.Error("failed to query pickup points", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	points := []*domain.PickupPoint{}
	for rows.Next() {
		var p domain.PickupPoint
		if err := rows.Scan(&p.ID, &p.Address); err != nil {
			return nil, err
		}
		points = append(points, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return points, nil
}

func (s *PostgresPickupPointStore) Update(ctx context.Context, point *domain.PickupPoint) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE pickup_points SET address = $1 WHERE id = $2`, point.Address, point.ID)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrPickupPointNotFound)
}

func (s *PostgresPickupPointStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM pickup_points WHERE id = $1`, id)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrPickupPointNotFound)
}

func (s *PostgresPickupPointStore) WithTx(tx *sql.Tx) store.PickupPointStore {
	return &PostgresPickupPointStore{db: tx, logger: s.logger}
}
