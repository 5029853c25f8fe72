package api

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newOrderHandlerForTest() (*OrderHandler, *mockOrderService) {
	orders := &mockOrderService{}
	return NewOrderHandler(orders, nil), orders
}

func orderFor(acct *domain.Account) *domain.Order {
	order := &domain.Order{ID: uuid.New(), Status: domain.OrderStatusNew, CreatedAt: time.Now().UTC()}
	if acct != nil {
		order.AccountID = &acct.ID
	}
	return order
}

func TestOrderHandler_List(t *testing.T) {
	client := account(domain.RoleClient)

	h, orders := newOrderHandlerForTest()
	orders.On("GetOrdersForAccount", mock.Anything, client).Return([]*domain.Order{orderFor(client)}, nil)
	rec := serve(t, "/api/orders", h.Routes, client, http.MethodGet, "/api/orders", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]domain.Order](t, rec), 1)

	h, orders = newOrderHandlerForTest()
	orders.On("GetOrdersForAccount", mock.Anything, (*domain.Account)(nil)).
		Return(nil, domain.Unauthorized("you must be signed in to view orders"))
	rec = serve(t, "/api/orders", h.Routes, nil, http.MethodGet, "/api/orders", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOrderHandler_ListAll(t *testing.T) {
	manager := account(domain.RoleManager)
	h, orders := newOrderHandlerForTest()
	orders.On("GetAll", mock.Anything, manager).Return(nil, nil)

	rec := serve(t, "/api/orders", h.Routes, manager, http.MethodGet, "/api/orders/all", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestOrderHandler_Visibility(t *testing.T) {
	owner := account(domain.RoleClient)
	other := account(domain.RoleClient)
	manager := account(domain.RoleManager)
	order := orderFor(owner)
	path := "/api/orders/" + order.ID.String()

	tests := []struct {
		name   string
		acct   *domain.Account
		status int
	}{
		{"guest", nil, http.StatusUnauthorized},
		{"owner", owner, http.StatusOK},
		{"other client", other, http.StatusNotFound},
		{"manager", manager, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, orders := newOrderHandlerForTest()
			orders.On("GetByID", mock.Anything, order.ID).Return(order, nil)

			rec := serve(t, "/api/orders", h.Routes, tt.acct, http.MethodGet, path, "")
			assert.Equal(t, tt.status, rec.Code)
		})
	}

	t.Run("guest order hidden from clients", func(t *testing.T) {
		guestOrder := orderFor(nil)
		h, orders := newOrderHandlerForTest()
		orders.On("GetByID", mock.Anything, guestOrder.ID).Return(guestOrder, nil)

		rec := serve(t, "/api/orders", h.Routes, owner, http.MethodGet, "/api/orders/"+guestOrder.ID.String(), "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestOrderHandler_LinesAndTotal(t *testing.T) {
	owner := account(domain.RoleClient)
	order := orderFor(owner)
	line := &domain.OrderLine{ID: uuid.New(), OrderID: order.ID, ItemID: uuid.New(), Quantity: 3}

	h, orders := newOrderHandlerForTest()
	orders.On("GetByID", mock.Anything, order.ID).Return(order, nil)
	orders.On("GetOrderLines", mock.Anything, order.ID).Return([]*domain.OrderLine{line}, nil)
	orders.On("CalculateTotal", mock.Anything, order.ID).Return(decimal.NewFromInt(240), nil)

	rec := serve(t, "/api/orders", h.Routes, owner, http.MethodGet, "/api/orders/"+order.ID.String()+"/lines", "")
	require.Equal(t, http.StatusOK, rec.Code)
	lines := decodeBody[[]domain.OrderLine](t, rec)
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)

	rec = serve(t, "/api/orders", h.Routes, owner, http.MethodGet, "/api/orders/"+order.ID.String()+"/total", "")
	require.Equal(t, http.StatusOK, rec.Code)
	total := decodeBody[TotalResponse](t, rec)
	assert.True(t, total.Total.Equal(decimal.NewFromInt(240)))
	require.NotNil(t, total.OrderID)
	assert.Equal(t, order.ID, *total.OrderID)
}

func TestOrderHandler_Create(t *testing.T) {
	itemID := uuid.New()
	pointID := uuid.New()

	t.Run("guest checkout", func(t *testing.T) {
		h, orders := newOrderHandlerForTest()
		created := orderFor(nil)
		orders.On("Create", mock.Anything, service.CreateOrderInput{
			PickupPointID: &pointID,
			Lines:         []domain.LineRequest{{ItemID: itemID, Quantity: 2}},
		}, (*domain.Account)(nil)).Return(created, nil)

		rec := serve(t, "/api/orders", h.Routes, nil, http.MethodPost, "/api/orders",
			`{"pickup_point_id":"`+pointID.String()+`","lines":[{"item_id":"`+itemID.String()+`","quantity":2}]}`)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		assert.Equal(t, created.ID, decodeBody[domain.Order](t, rec).ID)
	})

	t.Run("insufficient stock", func(t *testing.T) {
		h, orders := newOrderHandlerForTest()
		orders.On("Create", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, domain.Conflict("not enough stock for item A1: available 5, requested 6"))

		rec := serve(t, "/api/orders", h.Routes, nil, http.MethodPost, "/api/orders",
			`{"lines":[{"item_id":"`+itemID.String()+`","quantity":6}]}`)
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, errorMessage(t, rec), "available 5, requested 6")
	})

	t.Run("signed-in client is forbidden", func(t *testing.T) {
		client := account(domain.RoleClient)
		h, orders := newOrderHandlerForTest()
		orders.On("Create", mock.Anything, mock.Anything, client).
			Return(nil, domain.Forbidden("only administrators may place orders while signed in"))

		rec := serve(t, "/api/orders", h.Routes, client, http.MethodPost, "/api/orders",
			`{"lines":[{"item_id":"`+itemID.String()+`","quantity":1}]}`)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		h, orders := newOrderHandlerForTest()
		rec := serve(t, "/api/orders", h.Routes, nil, http.MethodPost, "/api/orders", `{"lines":"all"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestOrderHandler_CreateForAdmin(t *testing.T) {
	admin := account(domain.RoleAdmin)
	h, orders := newOrderHandlerForTest()
	orders.On("CreateForAdmin", mock.Anything, mock.MatchedBy(func(in service.AdminOrderInput) bool {
		return in.Status == "Готов" && in.CreatedAt != nil && in.CreatedAt.Year() == 2024 && len(in.Lines) == 1
	}), admin).Return(orderFor(nil), nil)

	rec := serve(t, "/api/orders", h.Routes, admin, http.MethodPost, "/api/orders/admin",
		`{"status":"Готов","created_at":"2024-03-01T10:00:00Z","lines":[{"item_id":"`+uuid.NewString()+`","quantity":1}]}`)
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	orders.AssertExpectations(t)
}

func TestOrderHandler_Quote(t *testing.T) {
	h, orders := newOrderHandlerForTest()
	orders.On("CalculateCartTotal", mock.Anything, mock.MatchedBy(func(lines []domain.LineRequest) bool {
		return len(lines) == 1 && lines[0].Quantity == 3
	})).Return(decimal.NewFromInt(240), nil)

	rec := serve(t, "/api/orders", h.Routes, nil, http.MethodPost, "/api/orders/quote",
		`{"lines":[{"item_id":"`+uuid.NewString()+`","quantity":3}]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[TotalResponse](t, rec)
	assert.Nil(t, resp.OrderID)
	assert.Equal(t, "240", resp.Total.String())
}

func TestOrderHandler_Patch(t *testing.T) {
	admin := account(domain.RoleAdmin)
	orderID := uuid.New()

	t.Run("absent lines stay nil", func(t *testing.T) {
		h, orders := newOrderHandlerForTest()
		orders.On("UpdateData", mock.Anything, orderID, mock.MatchedBy(func(p service.OrderPatch) bool {
			return p.Lines == nil && p.Status != nil && *p.Status == "processing"
		}), admin).Return(orderFor(nil), nil)

		rec := serve(t, "/api/orders", h.Routes, admin, http.MethodPatch, "/api/orders/"+orderID.String(), `{"status":"processing"}`)
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		orders.AssertExpectations(t)
	})

	t.Run("empty lines clear the order", func(t *testing.T) {
		h, orders := newOrderHandlerForTest()
		orders.On("UpdateData", mock.Anything, orderID, mock.MatchedBy(func(p service.OrderPatch) bool {
			return p.Lines != nil && len(p.Lines) == 0
		}), admin).Return(orderFor(nil), nil)

		rec := serve(t, "/api/orders", h.Routes, admin, http.MethodPatch, "/api/orders/"+orderID.String(), `{"lines":[]}`)
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		orders.AssertExpectations(t)
	})

	t.Run("illegal transition", func(t *testing.T) {
		h, orders := newOrderHandlerForTest()
		orders.On("UpdateData", mock.Anything, orderID, mock.Anything, admin).
			Return(nil, domain.Conflict("order cannot move from delivered to new"))

		rec := serve(t, "/api/orders", h.Routes, admin, http.MethodPatch, "/api/orders/"+orderID.String(), `{"status":"new"}`)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestOrderHandler_UpdateStatus(t *testing.T) {
	manager := account(domain.RoleManager)
	orderID := uuid.New()
	path := "/api/orders/" + orderID.String() + "/status"

	h, orders := newOrderHandlerForTest()
	updated := orderFor(nil)
	updated.Status = domain.OrderStatusReady
	orders.On("UpdateStatus", mock.Anything, orderID, "готов").Return(updated, nil).Once()
	rec := serve(t, "/api/orders", h.Routes, manager, http.MethodPut, path, `{"status":"готов"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.OrderStatusReady, decodeBody[domain.Order](t, rec).Status)

	orders.On("UpdateStatus", mock.Anything, orderID, "ready").Return(nil, nil).Once()
	rec = serve(t, "/api/orders", h.Routes, manager, http.MethodPut, path, `{"status":"ready"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(t, "/api/orders", h.Routes, manager, http.MethodPut, path, `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Status is required", errorMessage(t, rec))

	rec = serve(t, "/api/orders", h.Routes, account(domain.RoleClient), http.MethodPut, path, `{"status":"ready"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	orders.AssertExpectations(t)
}

func TestOrderHandler_Delete(t *testing.T) {
	admin := account(domain.RoleAdmin)
	orderID := uuid.New()

	h, orders := newOrderHandlerForTest()
	orders.On("Delete", mock.Anything, orderID, admin).Return(nil).Once()
	rec := serve(t, "/api/orders", h.Routes, admin, http.MethodDelete, "/api/orders/"+orderID.String(), "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	orders.On("Delete", mock.Anything, orderID, admin).
		Return(domain.Storage("failed to delete order", errors.New("deadlock detected"))).Once()
	rec = serve(t, "/api/orders", h.Routes, admin, http.MethodDelete, "/api/orders/"+orderID.String(), "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "deadlock")
}

func TestOrderHandler_PickupPoints(t *testing.T) {
	h, orders := newOrderHandlerForTest()
	orders.On("GetAllPickupPoints", mock.Anything).
		Return([]*domain.PickupPoint{{ID: uuid.New(), Address: "420151, г. Лесной, ул. Вишневая, 32"}}, nil)

	rec := serve(t, "/api/pickup-points", func(r chi.Router) { r.Get("/", h.PickupPoints) },
		nil, http.MethodGet, "/api/pickup-points", "")
	require.Equal(t, http.StatusOK, rec.Code)
	points := decodeBody[[]domain.PickupPoint](t, rec)
	require.Len(t, points, 1)
	assert.Contains(t, points[0].Address, "Лесной")
}
