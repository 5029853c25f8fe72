package postgres

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/storefront-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockResult implements sql.Result for testing
type mockResult struct {
	rowsAffected int64
	err          error
}

func (m mockResult) LastInsertId() (int64, error) {
	return 0, nil
}

func (m mockResult) RowsAffected() (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.rowsAffected, nil
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected error
	}{
		{
			name:     "sql_no_rows",
			err:      sql.ErrNoRows,
			expected: store.ErrNotFound,
		},
		{
			name:     "login_unique_violation",
			err:      &pgconn.PgError{Code: uniqueViolationCode, ConstraintName: accountsLoginConstraint},
			expected: store.ErrLoginExists,
		},
		{
			name:     "article_unique_violation",
			err:      &pgconn.PgError{Code: uniqueViolationCode, ConstraintName: catalogArticleConstraint},
			expected: store.ErrArticleExists,
		},
		{
			name:     "other_unique_violation",
			err:      &pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "something_key"},
			expected: store.ErrDuplicate,
		},
		{
			name:     "account_foreign_key_violation",
			err:      &pgconn.PgError{Code: foreignKeyViolationCode, ConstraintName: "orders_account_id_fkey"},
			expected: store.ErrUnknownAccount,
		},
		{
			name:     "pickup_point_foreign_key_violation",
			err:      &pgconn.PgError{Code: foreignKeyViolationCode, ConstraintName: "orders_pickup_point_id_fkey"},
			expected: store.ErrUnknownPickupPoint,
		},
		{
			name:     "item_foreign_key_violation",
			err:      &pgconn.PgError{Code: foreignKeyViolationCode, ConstraintName: "order_lines_item_id_fkey"},
			expected: store.ErrUnknownItem,
		},
		{
			name:     "other_foreign_key_violation",
			err:      &pgconn.PgError{Code: foreignKeyViolationCode, ConstraintName: "order_lines_order_id_fkey"},
			expected: store.ErrMissingReference,
		},
		{
			name:     "stock_check_violation",
			err:      &pgconn.PgError{Code: checkViolationCode, ConstraintName: catalogCountCheckConstraint},
			expected: store.ErrInsufficientStock,
		},
		{
			name:     "other_check_violation",
			err:      &pgconn.PgError{Code: checkViolationCode, ConstraintName: "catalog_items_price_check"},
			expected: store.ErrInvalidEntity,
		},
		{
			name:     "not_null_violation",
			err:      &pgconn.PgError{Code: notNullViolationCode, ColumnName: "name"},
			expected: store.ErrInvalidEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := MapError(tt.err)
			assert.ErrorIs(t, mapped, tt.expected)
			assert.ErrorIs(t, mapped, tt.err, "original error should stay in the chain")
		})
	}

	t.Run("nil_error", func(t *testing.T) {
		assert.NoError(t, MapError(nil))
	})

	t.Run("unknown_error_passes_through", func(t *testing.T) {
		err := errors.New("connection reset")
		assert.Same(t, err, MapError(err))
	})

	t.Run("unique_violation_is_also_generic_duplicate", func(t *testing.T) {
		mapped := MapError(&pgconn.PgError{Code: uniqueViolationCode, ConstraintName: accountsLoginConstraint})
		assert.ErrorIs(t, mapped, store.ErrDuplicate)
		assert.True(t, store.IsDuplicateError(mapped))
	})
}

func TestViolationPredicates(t *testing.T) {
	unique := &pgconn.PgError{Code: uniqueViolationCode}
	fk := &pgconn.PgError{Code: foreignKeyViolationCode}

	assert.True(t, IsUniqueViolation(unique))
	assert.False(t, IsUniqueViolation(fk))
	assert.True(t, IsForeignKeyViolation(fk))
	assert.False(t, IsForeignKeyViolation(errors.New("plain")))
}

func TestCheckRowsAffected(t *testing.T) {
	t.Run("rows_affected", func(t *testing.T) {
		assert.NoError(t, CheckRowsAffected(mockResult{rowsAffected: 1}, store.ErrItemNotFound))
	})

	t.Run("zero_rows_returns_given_error", func(t *testing.T) {
		err := CheckRowsAffected(mockResult{}, store.ErrItemNotFound)
		assert.ErrorIs(t, err, store.ErrItemNotFound)
	})

	t.Run("rows_affected_error", func(t *testing.T) {
		err := CheckRowsAffected(mockResult{err: errors.New("driver")}, store.ErrItemNotFound)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get rows affected")
	})

	t.Run("nil_result", func(t *testing.T) {
		assert.Error(t, CheckRowsAffected(nil, store.ErrItemNotFound))
	})
}
