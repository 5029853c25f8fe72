package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/storefront-api/internal/authz"
	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/events"
	"github.com/phrazzld/storefront-api/internal/platform/logger"
	"github.com/phrazzld/storefront-api/internal/redact"
	"github.com/phrazzld/storefront-api/internal/store"
	"github.com/shopspring/decimal"
)

// CreateOrderInput is a self-checkout order request.
type CreateOrderInput struct {
	PickupPointID *uuid.UUID
	RecipientCode *string
	Lines         []domain.LineRequest
}

// AdminOrderInput is an administrative order backfill. Lines are attached
// as given, without quantity or stock checks.
type AdminOrderInput struct {
	// Status is parsed with domain.ParseOrderStatus; empty means new.
	Status        string
	AccountID     *uuid.UUID
	PickupPointID *uuid.UUID
	RecipientCode *string
	CreatedAt     *time.Time
	DeliveredAt   *time.Time
	Lines         []domain.LineRequest
}

// OrderPatch is a partial order update. Nil fields are left untouched.
// A non-nil Lines, even an empty one, replaces every line of the order.
type OrderPatch struct {
	Status        *string
	AccountID     *uuid.UUID
	PickupPointID *uuid.UUID
	RecipientCode *string
	CreatedAt     *time.Time
	DeliveredAt   *time.Time
	Lines         []domain.LineRequest
}

// OrderServiceConfig holds the order service options.
type OrderServiceConfig struct {
	// ReserveStock decrements item counts inside the order-creation transaction.
	ReserveStock bool
}

// OrderService manages orders, their lines and totals.
type OrderService interface {
	// GetAll lists every order. Manager or Admin only.
	GetAll(ctx context.Context, acct *domain.Account) ([]*domain.Order, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	GetByAccount(ctx context.Context, accountID uuid.UUID) ([]*domain.Order, error)

	// GetOrdersForAccount returns all orders to managers and admins and
	// a client's own orders to a client.
	GetOrdersForAccount(ctx context.Context, acct *domain.Account) ([]*domain.Order, error)

	// Create places an order. A nil acct is a guest checkout.
	Create(ctx context.Context, in CreateOrderInput, acct *domain.Account) (*domain.Order, error)
	CreateForAdmin(ctx context.Context, in AdminOrderInput, acct *domain.Account) (*domain.Order, error)

	// UpdateStatus moves an order to status. It returns (nil, nil) when the order does not exist.
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) (*domain.Order, error)
	Update(ctx context.Context, order *domain.Order, acct *domain.Account) (*domain.Order, error)
	UpdateData(ctx context.Context, orderID uuid.UUID, patch OrderPatch, acct *domain.Account) (*domain.Order, error)
	Delete(ctx context.Context, id uuid.UUID, acct *domain.Account) error

	// CalculateTotal sums the discounted prices of an order's persisted lines.
	CalculateTotal(ctx context.Context, orderID uuid.UUID) (decimal.Decimal, error)

	// CalculateCartTotal checks quantities and item existence like Create and
	// returns the total of the candidate lines. Stock is not checked.
	CalculateCartTotal(ctx context.Context, lines []domain.LineRequest) (decimal.Decimal, error)

	GetOrderLines(ctx context.Context, orderID uuid.UUID) ([]*domain.OrderLine, error)
	GetAllPickupPoints(ctx context.Context) ([]*domain.PickupPoint, error)
}

// OrderServiceImpl implements OrderService.
type OrderServiceImpl struct {
	orders     store.OrderStore
	items      store.CatalogStore
	points     store.PickupPointStore
	transactor store.Transactor
	emitter    events.EventEmitter
	cfg        OrderServiceConfig
	logger     *slog.Logger
}

var _ OrderService = (*OrderServiceImpl)(nil)

// NewOrderService creates an OrderService. A nil emitter discards events.
func NewOrderService(
	orders store.OrderStore,
	items store.CatalogStore,
	points store.PickupPointStore,
	transactor store.Transactor,
	emitter events.EventEmitter,
	cfg OrderServiceConfig,
	logger *slog.Logger,
) *OrderServiceImpl {
	if orders == nil || items == nil || points == nil || transactor == nil {
		panic("order service requires order, catalog and pickup point stores and a transactor")
	}
	if emitter == nil {
		emitter = events.NopEmitter{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OrderServiceImpl{
		orders:     orders,
		items:      items,
		points:     points,
		transactor: transactor,
		emitter:    emitter,
		cfg:        cfg,
		logger:     logger.With(slog.String("component", "order_service")),
	}
}

func (s *OrderServiceImpl) log(ctx context.Context) *slog.Logger {
	return logger.FromContextOrDefault(ctx, s.logger)
}

func orderNotFound(id uuid.UUID) string {
	return "order " + id.String() + " not found"
}

// GetAll implements OrderService.
func (s *OrderServiceImpl) GetAll(ctx context.Context, acct *domain.Account) ([]*domain.Order, error) {
	if !authz.CanViewAllOrders(acct) {
		return nil, domain.Forbidden("only managers and administrators may view all orders")
	}

	orders, err := s.orders.GetAll(ctx)
	if err != nil {
		return nil, classifyStoreError(s.log(ctx), "list orders", err, "order not found")
	}
	return orders, nil
}

// GetByID implements OrderService.
func (s *OrderServiceImpl) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, classifyStoreError(s.log(ctx), "get order", err, orderNotFound(id))
	}
	return order, nil
}

// GetByAccount implements OrderService.
func (s *OrderServiceImpl) GetByAccount(ctx context.Context, accountID uuid.UUID) ([]*domain.Order, error) {
	orders, err := s.orders.GetByAccount(ctx, accountID)
	if err != nil {
		return nil, classifyStoreError(s.log(ctx), "list account orders", err, "order not found")
	}
	return orders, nil
}

// GetOrdersForAccount implements OrderService.
func (s *OrderServiceImpl) GetOrdersForAccount(ctx context.Context, acct *domain.Account) ([]*domain.Order, error) {
	if _, err := authz.RequireAuthenticated(acct, "view orders"); err != nil {
		return nil, err
	}

	switch {
	case authz.CanViewAllOrders(acct):
		return s.GetAll(ctx, acct)
	case authz.CanViewOwnOrders(acct):
		return s.GetByAccount(ctx, acct.ID)
	default:
		return nil, domain.Forbidden("you are not allowed to view orders")
	}
}

// checkedLine is a validated line request together with its item.
type checkedLine struct {
	item     *domain.CatalogItem
	quantity int
}

// resolveLines checks quantities and item existence for every line. Repeated
// items are merged with their quantities summed, in order of first appearance.
func (s *OrderServiceImpl) resolveLines(ctx context.Context, lines []domain.LineRequest) ([]checkedLine, error) {
	totals := make([]checkedLine, 0, len(lines))
	index := make(map[uuid.UUID]int, len(lines))

	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, domain.InvalidArgument("quantity must be greater than 0")
		}

		if i, ok := index[line.ItemID]; ok {
			totals[i].quantity += line.Quantity
			continue
		}

		item, err := s.requireItem(ctx, line.ItemID)
		if err != nil {
			return nil, err
		}
		index[line.ItemID] = len(totals)
		totals = append(totals, checkedLine{item: item, quantity: line.Quantity})
	}
	return totals, nil
}

func checkStock(lines []checkedLine) error {
	for _, l := range lines {
		if l.quantity > l.item.Count {
			return insufficientStock(l.item, l.item.Count, l.quantity)
		}
	}
	return nil
}

func (s *OrderServiceImpl) requireItem(ctx context.Context, id uuid.UUID) (*domain.CatalogItem, error) {
	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, classifyStoreError(s.log(ctx), "get catalog item", err,
			"catalog item "+id.String()+" not found")
	}
	return item, nil
}

// requireLineItems checks that every line points at an existing item.
// Quantities are not checked.
func (s *OrderServiceImpl) requireLineItems(ctx context.Context, lines []domain.LineRequest) error {
	seen := make(map[uuid.UUID]bool, len(lines))
	for _, l := range lines {
		if seen[l.ItemID] {
			continue
		}
		if _, err := s.requireItem(ctx, l.ItemID); err != nil {
			return err
		}
		seen[l.ItemID] = true
	}
	return nil
}

func insufficientStock(item *domain.CatalogItem, available, requested int) error {
	return domain.Conflict("not enough stock for %q: available %d, requested %d",
		item.Name, available, requested)
}

// Create implements OrderService.
func (s *OrderServiceImpl) Create(ctx context.Context, in CreateOrderInput, acct *domain.Account) (*domain.Order, error) {
	if acct != nil {
		if err := authz.Check(authz.CanCreateOrder, acct, "create orders"); err != nil {
			return nil, err
		}
	}

	if len(in.Lines) == 0 {
		return nil, domain.InvalidArgument("an order must contain at least one item")
	}

	checked, err := s.resolveLines(ctx, in.Lines)
	if err != nil {
		return nil, err
	}
	if err := checkStock(checked); err != nil {
		return nil, err
	}

	if err := s.requirePickupPoint(ctx, in.PickupPointID); err != nil {
		return nil, err
	}

	var accountID *uuid.UUID
	if acct != nil {
		id := acct.ID
		accountID = &id
	}
	order := domain.NewOrder(accountID, in.PickupPointID, in.RecipientCode)

	err = s.transactor.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		orders := s.orders.WithTx(tx)
		if err := orders.Create(ctx, order); err != nil {
			return err
		}
		if err := addLines(ctx, orders, order.ID, in.Lines); err != nil {
			return err
		}

		if !s.cfg.ReserveStock {
			return nil
		}
		items := s.items.WithTx(tx)
		for _, c := range checked {
			if err := items.DecrementCount(ctx, c.item.ID, c.quantity); err != nil {
				if errors.Is(err, store.ErrInsufficientStock) {
					return insufficientStock(c.item, c.item.Count, c.quantity)
				}
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, classifyStoreError(s.log(ctx), "create order", err, "catalog item not found")
	}

	s.log(ctx).Info("order created",
		slog.String("order_id", order.ID.String()),
		slog.Int("line_count", len(in.Lines)),
		slog.Bool("guest", acct == nil))

	s.emit(ctx, events.TypeOrderCreated, order.ID, events.OrderCreatedPayload{
		AccountID: order.AccountID,
		Status:    string(order.Status),
		LineCount: len(in.Lines),
	})
	return order, nil
}

func (s *OrderServiceImpl) requirePickupPoint(ctx context.Context, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	if _, err := s.points.GetByID(ctx, *id); err != nil {
		return classifyStoreError(s.log(ctx), "get pickup point", err,
			"pickup point "+id.String()+" not found")
	}
	return nil
}

func addLines(ctx context.Context, orders store.OrderStore, orderID uuid.UUID, lines []domain.LineRequest) error {
	for _, l := range lines {
		line, err := domain.NewOrderLine(orderID, l.ItemID, l.Quantity)
		if err != nil {
			return err
		}
		if err := orders.AddOrderLine(ctx, line); err != nil {
			return err
		}
	}
	return nil
}

// CreateForAdmin implements OrderService.
func (s *OrderServiceImpl) CreateForAdmin(ctx context.Context, in AdminOrderInput, acct *domain.Account) (*domain.Order, error) {
	if _, err := authz.RequireAdmin(acct, "create orders"); err != nil {
		return nil, err
	}

	status := domain.OrderStatusNew
	if in.Status != "" {
		parsed, err := domain.ParseOrderStatus(in.Status)
		if err != nil {
			return nil, domain.InvalidArgument("unknown order status %q", in.Status)
		}
		status = parsed
	}

	order := domain.NewOrder(in.AccountID, in.PickupPointID, in.RecipientCode)
	order.Status = status
	if in.CreatedAt != nil {
		order.CreatedAt = in.CreatedAt.UTC()
	}
	if in.DeliveredAt != nil {
		t := in.DeliveredAt.UTC()
		order.DeliveredAt = &t
	}
	if err := order.Validate(); err != nil {
		return nil, invalidInput(err)
	}
	if err := s.requirePickupPoint(ctx, in.PickupPointID); err != nil {
		return nil, err
	}
	if err := s.requireLineItems(ctx, in.Lines); err != nil {
		return nil, err
	}

	err := s.transactor.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		orders := s.orders.WithTx(tx)
		if err := orders.Create(ctx, order); err != nil {
			return err
		}
		return addLines(ctx, orders, order.ID, in.Lines)
	})
	if err != nil {
		return nil, classifyStoreError(s.log(ctx), "create order", err, "catalog item not found")
	}

	s.log(ctx).Info("order created by administrator",
		slog.String("order_id", order.ID.String()),
		slog.String("status", string(order.Status)),
		slog.String("admin_id", acct.ID.String()))

	s.emit(ctx, events.TypeOrderCreated, order.ID, events.OrderCreatedPayload{
		AccountID: order.AccountID,
		Status:    string(order.Status),
		LineCount: len(in.Lines),
	})
	return order, nil
}

func parseTransition(from domain.OrderStatus, raw string) (domain.OrderStatus, error) {
	next, err := domain.ParseOrderStatus(raw)
	if err != nil {
		return "", domain.InvalidArgument("unknown order status %q", raw)
	}
	if !from.CanTransitionTo(next) {
		return "", domain.Conflict("order cannot move from %s to %s", from, next)
	}
	return next, nil
}

// markDelivered stamps the delivery time when an order first reaches delivered.
func markDelivered(order *domain.Order) {
	if order.Status == domain.OrderStatusDelivered && order.DeliveredAt == nil {
		now := time.Now().UTC()
		order.DeliveredAt = &now
	}
}

// UpdateStatus implements OrderService.
func (s *OrderServiceImpl) UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, nil
		}
		return nil, classifyStoreError(s.log(ctx), "get order", err, orderNotFound(orderID))
	}

	previous := order.Status
	next, err := parseTransition(previous, status)
	if err != nil {
		return nil, err
	}

	order.Status = next
	markDelivered(order)

	if err := s.orders.Update(ctx, order); err != nil {
		return nil, classifyStoreError(s.log(ctx), "update order status", err, orderNotFound(orderID))
	}

	s.emitStatusChange(ctx, order.ID, previous, next)
	return order, nil
}

// Update implements OrderService.
func (s *OrderServiceImpl) Update(ctx context.Context, order *domain.Order, acct *domain.Account) (*domain.Order, error) {
	if _, err := authz.RequireAdmin(acct, "edit orders"); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.InvalidArgument("order is required")
	}
	if err := order.Validate(); err != nil {
		return nil, invalidInput(err)
	}

	existing, err := s.orders.GetByID(ctx, order.ID)
	if err != nil {
		return nil, classifyStoreError(s.log(ctx), "get order", err, orderNotFound(order.ID))
	}
	if !existing.Status.CanTransitionTo(order.Status) {
		return nil, domain.Conflict("order cannot move from %s to %s", existing.Status, order.Status)
	}

	if err := s.orders.Update(ctx, order); err != nil {
		return nil, classifyStoreError(s.log(ctx), "update order", err, orderNotFound(order.ID))
	}

	s.emitStatusChange(ctx, order.ID, existing.Status, order.Status)
	return order, nil
}

// UpdateData implements OrderService.
func (s *OrderServiceImpl) UpdateData(ctx context.Context, orderID uuid.UUID, patch OrderPatch, acct *domain.Account) (*domain.Order, error) {
	if _, err := authz.RequireAdmin(acct, "edit orders"); err != nil {
		return nil, err
	}

	for _, l := range patch.Lines {
		if l.Quantity <= 0 {
			return nil, domain.InvalidArgument("quantity must be greater than 0")
		}
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, classifyStoreError(s.log(ctx), "get order", err, orderNotFound(orderID))
	}
	previous := order.Status

	if patch.Status != nil {
		next, err := parseTransition(order.Status, *patch.Status)
		if err != nil {
			return nil, err
		}
		order.Status = next
	}
	if patch.AccountID != nil {
		order.AccountID = patch.AccountID
	}
	if patch.PickupPointID != nil {
		if err := s.requirePickupPoint(ctx, patch.PickupPointID); err != nil {
			return nil, err
		}
		order.PickupPointID = patch.PickupPointID
	}
	if patch.RecipientCode != nil {
		order.RecipientCode = patch.RecipientCode
	}
	if patch.CreatedAt != nil {
		order.CreatedAt = patch.CreatedAt.UTC()
	}
	if patch.DeliveredAt != nil {
		t := patch.DeliveredAt.UTC()
		order.DeliveredAt = &t
	}
	markDelivered(order)

	if err := order.Validate(); err != nil {
		return nil, invalidInput(err)
	}
	if err := s.requireLineItems(ctx, patch.Lines); err != nil {
		return nil, err
	}

	err = s.transactor.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		orders := s.orders.WithTx(tx)
		if err := orders.Update(ctx, order); err != nil {
			return err
		}
		if patch.Lines == nil {
			return nil
		}
		if err := orders.DeleteOrderLines(ctx, order.ID); err != nil {
			return err
		}
		return addLines(ctx, orders, order.ID, patch.Lines)
	})
	if err != nil {
		// Every not-found inside the transaction is the order itself; missing
		// references are classified by entity.
		return nil, classifyStoreError(s.log(ctx), "update order", err, orderNotFound(orderID))
	}

	s.log(ctx).Info("order updated",
		slog.String("order_id", order.ID.String()),
		slog.Bool("lines_replaced", patch.Lines != nil))

	s.emitStatusChange(ctx, order.ID, previous, order.Status)
	return order, nil
}

// Delete implements OrderService.
func (s *OrderServiceImpl) Delete(ctx context.Context, id uuid.UUID, acct *domain.Account) error {
	if _, err := authz.RequireAdmin(acct, "delete orders"); err != nil {
		return err
	}

	if err := s.orders.Delete(ctx, id); err != nil {
		return classifyStoreError(s.log(ctx), "delete order", err, orderNotFound(id))
	}

	s.log(ctx).Info("order deleted", slog.String("order_id", id.String()))
	s.emit(ctx, events.TypeOrderDeleted, id, nil)
	return nil
}

// CalculateTotal implements OrderService.
func (s *OrderServiceImpl) CalculateTotal(ctx context.Context, orderID uuid.UUID) (decimal.Decimal, error) {
	lines, err := s.orders.GetOrderLines(ctx, orderID)
	if err != nil {
		return decimal.Zero, classifyStoreError(s.log(ctx), "list order lines", err, orderNotFound(orderID))
	}

	total := decimal.Zero
	for _, line := range lines {
		item, err := s.items.GetByID(ctx, line.ItemID)
		if err != nil {
			if store.IsNotFoundError(err) {
				continue
			}
			return decimal.Zero, classifyStoreError(s.log(ctx), "get catalog item", err, "catalog item not found")
		}
		total = total.Add(item.FinalPrice().Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total, nil
}

// CalculateCartTotal implements OrderService.
func (s *OrderServiceImpl) CalculateCartTotal(ctx context.Context, lines []domain.LineRequest) (decimal.Decimal, error) {
	checked, err := s.resolveLines(ctx, lines)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, c := range checked {
		total = total.Add(c.item.FinalPrice().Mul(decimal.NewFromInt(int64(c.quantity))))
	}
	return total, nil
}

// GetOrderLines implements OrderService.
func (s *OrderServiceImpl) GetOrderLines(ctx context.Context, orderID uuid.UUID) ([]*domain.OrderLine, error) {
	lines, err := s.orders.GetOrderLines(ctx, orderID)
	if err != nil {
		return nil, classifyStoreError(s.log(ctx), "list order lines", err, orderNotFound(orderID))
	}
	return lines, nil
}

// GetAllPickupPoints implements OrderService.
func (s *OrderServiceImpl) GetAllPickupPoints(ctx context.Context) ([]*domain.PickupPoint, error) {
	points, err := s.points.GetAll(ctx)
	if err != nil {
		return nil, classifyStoreError(s.log(ctx), "list pickup points", err, "pickup point not found")
	}
	return points, nil
}

func (s *OrderServiceImpl) emitStatusChange(ctx context.Context, orderID uuid.UUID, from, to domain.OrderStatus) {
	if from == to {
		return
	}
	s.emit(ctx, events.TypeOrderStatusChanged, orderID, events.StatusChangedPayload{
		From: string(from),
		To:   string(to),
	})
}

// emit publishes an event after a committed change. Failures are logged only.
func (s *OrderServiceImpl) emit(ctx context.Context, eventType string, orderID uuid.UUID, payload any) {
	event, err := events.NewEvent(eventType, orderID, payload)
	if err == nil {
		err = s.emitter.EmitEvent(ctx, event)
	}
	if err != nil {
		s.log(ctx).Warn("failed to emit order event",
			slog.String("event_type", eventType),
			slog.String("order_id", orderID.String()),
			redact.ErrorAttr(err))
	}
}
