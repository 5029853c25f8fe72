package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var orderColumnNames = []string{
	"id", "account_id", "pickup_point_id", "created_at", "delivered_at", "recipient_code", "status",
}

func validItem(t *testing.T) *domain.CatalogItem {
	t.Helper()
	item, err := domain.NewCatalogItem("A-1", "Drill", "pcs", decimal.NewFromInt(100), 5)
	require.NoError(t, err)
	return item
}

func TestPostgresOrderStore_GetByID_NullReferences(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostgresOrderStore(db, nil)
	id := uuid.New()
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT (.+) FROM orders WHERE id =").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(orderColumnNames).AddRow(
			id.String(), nil, nil, created, nil, nil, "processing",
		))

	order, err := s.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, order.AccountID)
	assert.Nil(t, order.PickupPointID)
	assert.Nil(t, order.DeliveredAt)
	assert.Nil(t, order.RecipientCode)
	assert.Equal(t, domain.OrderStatusProcessing, order.Status)
	assert.True(t, created.Equal(order.CreatedAt))
}

func TestPostgresOrderStore_GetByAccount(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostgresOrderStore(db, nil)
	accountID := uuid.New()
	created := time.Now().UTC()

	mock.ExpectQuery("FROM orders WHERE account_id =").
		WithArgs(accountID).
		WillReturnRows(sqlmock.NewRows(orderColumnNames).
			AddRow(uuid.NewString(), accountID.String(), nil, created, nil, "123", "new").
			AddRow(uuid.NewString(), accountID.String(), nil, created, nil, nil, "ready"))

	orders, err := s.GetByAccount(context.Background(), accountID)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	require.NotNil(t, orders[0].AccountID)
	assert.Equal(t, accountID, *orders[0].AccountID)
	require.NotNil(t, orders[0].RecipientCode)
	assert.Equal(t, "123", *orders[0].RecipientCode)
}

func TestPostgresOrderStore_CreateRejectsInvalidOrder(t *testing.T) {
	db, _ := newMockDB(t)
	s := NewPostgresOrderStore(db, nil)

	order := domain.NewOrder(nil, nil, nil)
	order.Status = "lost"

	err := s.Create(context.Background(), order)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestPostgresOrderStore_UpdateMissing(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostgresOrderStore(db, nil)
	order := domain.NewOrder(nil, nil, nil)

	mock.ExpectExec("UPDATE orders").WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.Update(context.Background(), order)
	assert.ErrorIs(t, err, store.ErrOrderNotFound)
}

func TestPostgresOrderStore_IsItemReferenced(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostgresOrderStore(db, nil)
	itemID := uuid.New()

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(itemID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	referenced, err := s.IsItemReferenced(context.Background(), itemID)
	require.NoError(t, err)
	assert.True(t, referenced)
}

func TestPostgresOrderStore_Lines(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostgresOrderStore(db, nil)
	orderID := uuid.New()
	itemID := uuid.New()

	line, err := domain.NewOrderLine(orderID, itemID, 2)
	require.NoError(t, err)

	mock.ExpectExec("INSERT INTO order_lines").
		WithArgs(line.ID, orderID, itemID, 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("FROM order_lines").
		WithArgs(orderID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "item_id", "quantity"}).
			AddRow(line.ID.String(), orderID.String(), itemID.String(), 2))
	mock.ExpectExec("DELETE FROM order_lines").
		WithArgs(orderID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ctx := context.Background()
	require.NoError(t, s.AddOrderLine(ctx, line))

	lines, err := s.GetOrderLines(ctx, orderID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, *line, *lines[0])

	require.NoError(t, s.DeleteOrderLines(ctx, orderID))
}

func TestPostgresOrderStore_AddOrderLineUnknownItem(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostgresOrderStore(db, nil)

	line, err := domain.NewOrderLine(uuid.New(), uuid.New(), 1)
	require.NoError(t, err)

	mock.ExpectExec("INSERT INTO order_lines").
		WillReturnError(&pgconn.PgError{Code: foreignKeyViolationCode, ConstraintName: orderLineItemFKey})

	err = s.AddOrderLine(context.Background(), line)
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrUnknownItem)
	assert.ErrorIs(t, err, store.ErrMissingReference)
	assert.False(t, store.IsNotFoundError(err))
}
