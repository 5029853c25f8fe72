package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/storefront-api/internal/store"
)

// PostgreSQL error codes
const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
	checkViolationCode      = "23514"
	notNullViolationCode    = "23502"
)

// Constraint names from the migrations that map to specific store errors.
const (
	accountsLoginConstraint     = "accounts_login_key"
	catalogArticleConstraint    = "catalog_items_article_key"
	catalogCountCheckConstraint = "catalog_items_count_check"
	orderAccountFKey            = "orders_account_id_fkey"
	orderPickupPointFKey        = "orders_pickup_point_id_fkey"
	orderLineItemFKey           = "order_lines_item_id_fkey"
)

// MapError maps a database error to the store error set, wrapping the
// original so it stays available to errors.As.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %w", store.ErrNotFound, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			switch pgErr.ConstraintName {
			case accountsLoginConstraint:
				return fmt.Errorf("%w: %w", store.ErrLoginExists, err)
			case catalogArticleConstraint:
				return fmt.Errorf("%w: %w", store.ErrArticleExists, err)
			}
			return fmt.Errorf("%w: %w", store.ErrDuplicate, err)
		case foreignKeyViolationCode:
			return fmt.Errorf("%w: %w", missingReference(pgErr.ConstraintName), err)
		case checkViolationCode:
			if pgErr.ConstraintName == catalogCountCheckConstraint {
				return fmt.Errorf("%w: %w", store.ErrInsufficientStock, err)
			}
			return fmt.Errorf("%w: check constraint violation (%s): %w",
				store.ErrInvalidEntity, pgErr.ConstraintName, err)
		case notNullViolationCode:
			return fmt.Errorf("%w: not null violation (%s): %w",
				store.ErrInvalidEntity, pgErr.ColumnName, err)
		}
	}

	return err
}

func missingReference(constraint string) error {
	switch constraint {
	case orderAccountFKey:
		return store.ErrUnknownAccount
	case orderPickupPointFKey:
		return store.ErrUnknownPickupPoint
	case orderLineItemFKey:
		return store.ErrUnknownItem
	}
	return fmt.Errorf("%w (%s)", store.ErrMissingReference, constraint)
}

// IsUniqueViolation checks if err is a PostgreSQL unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// IsForeignKeyViolation checks if err is a PostgreSQL foreign key violation.
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolationCode
}

// CheckRowsAffected returns notFound when result reports zero affected rows.
func CheckRowsAffected(result sql.Result, notFound error) error {
	if result == nil {
		return fmt.Errorf("nil result provided to CheckRowsAffected")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return notFound
	}
	return nil
}
