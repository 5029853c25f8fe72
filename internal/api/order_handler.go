package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/storefront-api/internal/api/shared"
	"github.com/phrazzld/storefront-api/internal/authz"
	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/platform/logger"
	"github.com/phrazzld/storefront-api/internal/service"
)

// OrderHandler serves the order and pickup point endpoints.
type OrderHandler struct {
	orders service.OrderService
	logger *slog.Logger
}

// NewOrderHandler creates an OrderHandler.
func NewOrderHandler(orders service.OrderService, log *slog.Logger) *OrderHandler {
	if orders == nil {
		panic("order handler requires an order service")
	}
	if log == nil {
		log = slog.Default()
	}
	return &OrderHandler{
		orders: orders,
		logger: log.With(slog.String("component", "order_handler")),
	}
}

// Routes mounts the order endpoints on r.
func (h *OrderHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/all", h.ListAll)
	r.Post("/", h.Create)
	r.Post("/admin", h.CreateForAdmin)
	r.Post("/quote", h.Quote)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Patch("/", h.Patch)
		r.Delete("/", h.Delete)
		r.Get("/lines", h.Lines)
		r.Get("/total", h.Total)
		r.Put("/status", h.UpdateStatus)
	})
}

// visibleOrder loads order id for the acting account. Clients only see their
// own orders; someone else's order is reported as missing.
func (h *OrderHandler) visibleOrder(w http.ResponseWriter, r *http.Request) (*domain.Order, bool) {
	acct, err := authz.RequireAuthenticated(actingAccount(r), "view orders")
	if err != nil {
		HandleAPIError(w, r, err)
		return nil, false
	}
	id, ok := pathUUIDOrRespond(w, r, "id")
	if !ok {
		return nil, false
	}

	order, err := h.orders.GetByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err)
		return nil, false
	}
	if authz.CanViewAllOrders(acct) {
		return order, true
	}
	if !authz.CanViewOwnOrders(acct) || order.AccountID == nil || *order.AccountID != acct.ID {
		logger.FromContextOrDefault(r.Context(), h.logger).Debug("order hidden from account",
			slog.String("order_id", id.String()))
		HandleAPIError(w, r, domain.NotFound("order %s not found", id))
		return nil, false
	}
	return order, true
}

// List handles GET /api/orders: every order for staff, own orders for clients.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.GetOrdersForAccount(r.Context(), actingAccount(r))
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, nonNil(orders))
}

// ListAll handles GET /api/orders/all.
func (h *OrderHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.GetAll(r.Context(), actingAccount(r))
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, nonNil(orders))
}

// Get handles GET /api/orders/{id}.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	order, ok := h.visibleOrder(w, r)
	if !ok {
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, order)
}

// Lines handles GET /api/orders/{id}/lines.
func (h *OrderHandler) Lines(w http.ResponseWriter, r *http.Request) {
	order, ok := h.visibleOrder(w, r)
	if !ok {
		return
	}

	lines, err := h.orders.GetOrderLines(r.Context(), order.ID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, nonNil(lines))
}

// Total handles GET /api/orders/{id}/total.
func (h *OrderHandler) Total(w http.ResponseWriter, r *http.Request) {
	order, ok := h.visibleOrder(w, r)
	if !ok {
		return
	}

	total, err := h.orders.CalculateTotal(r.Context(), order.ID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, TotalResponse{OrderID: &order.ID, Total: total})
}

// Create handles POST /api/orders. Guests may check out without a token.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	order, err := h.orders.Create(r.Context(), service.CreateOrderInput{
		PickupPointID: req.PickupPointID,
		RecipientCode: req.RecipientCode,
		Lines:         req.Lines,
	}, actingAccount(r))
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, order)
}

// CreateForAdmin handles POST /api/orders/admin.
func (h *OrderHandler) CreateForAdmin(w http.ResponseWriter, r *http.Request) {
	var req AdminOrderRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	order, err := h.orders.CreateForAdmin(r.Context(), service.AdminOrderInput{
		Status:        req.Status,
		AccountID:     req.AccountID,
		PickupPointID: req.PickupPointID,
		RecipientCode: req.RecipientCode,
		CreatedAt:     req.CreatedAt,
		DeliveredAt:   req.DeliveredAt,
		Lines:         req.Lines,
	}, actingAccount(r))
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, order)
}

// Quote handles POST /api/orders/quote, pricing a cart without placing it.
func (h *OrderHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	total, err := h.orders.CalculateCartTotal(r.Context(), req.Lines)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, TotalResponse{Total: total})
}

// Patch handles PATCH /api/orders/{id}.
func (h *OrderHandler) Patch(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUIDOrRespond(w, r, "id")
	if !ok {
		return
	}
	var req OrderPatchRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	order, err := h.orders.UpdateData(r.Context(), id, service.OrderPatch{
		Status:        req.Status,
		AccountID:     req.AccountID,
		PickupPointID: req.PickupPointID,
		RecipientCode: req.RecipientCode,
		CreatedAt:     req.CreatedAt,
		DeliveredAt:   req.DeliveredAt,
		Lines:         req.Lines,
	}, actingAccount(r))
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, order)
}

// UpdateStatus handles PUT /api/orders/{id}/status. Manager or Admin only.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	if _, err := authz.RequireManagerOrAdmin(actingAccount(r), "change order status"); err != nil {
		HandleAPIError(w, r, err)
		return
	}
	id, ok := pathUUIDOrRespond(w, r, "id")
	if !ok {
		return
	}
	var req StatusRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	order, err := h.orders.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	if order == nil {
		HandleAPIError(w, r, domain.NotFound("order %s not found", id))
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, order)
}

// Delete handles DELETE /api/orders/{id}.
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUIDOrRespond(w, r, "id")
	if !ok {
		return
	}

	if err := h.orders.Delete(r.Context(), id, actingAccount(r)); err != nil {
		HandleAPIError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PickupPoints handles GET /api/pickup-points.
func (h *OrderHandler) PickupPoints(w http.ResponseWriter, r *http.Request) {
	points, err := h.orders.GetAllPickupPoints(r.Context())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, nonNil(points))
}

// nonNil turns a nil slice into an empty one so it encodes as [].
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

