package domain

import (
	"errors"
	"strings"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

// Known order statuses.
const (
	OrderStatusNew        OrderStatus = "new"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusReady      OrderStatus = "ready"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// ErrUnknownOrderStatus is returned by ParseOrderStatus for an unrecognized status.
var ErrUnknownOrderStatus = errors.New("unknown order status")

// Legal forward moves. Cancellation is handled separately.
var orderStatusNext = map[OrderStatus]OrderStatus{
	OrderStatusNew:        OrderStatusProcessing,
	OrderStatusProcessing: OrderStatusReady,
	OrderStatusReady:      OrderStatusDelivered,
}

// Labels found in legacy order data.
var orderStatusAliases = map[string]OrderStatus{
	"новый":     OrderStatusNew,
	"в работе":  OrderStatusProcessing,
	"готов":     OrderStatusReady,
	"завершен":  OrderStatusDelivered,
	"выдан":     OrderStatusDelivered,
	"отменен":   OrderStatusCancelled,
	"canceled":  OrderStatusCancelled,
	"completed": OrderStatusDelivered,
}

// IsValid reports whether s is a known status.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusNew, OrderStatusProcessing, OrderStatusReady,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is possible from s.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransitionTo reports whether moving from s to next is legal. Staying in
// the same status is always allowed.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if !s.IsValid() || !next.IsValid() {
		return false
	}
	if s == next {
		return true
	}
	if s.IsTerminal() {
		return false
	}
	if next == OrderStatusCancelled {
		return true
	}
	return orderStatusNext[s] == next
}

// ParseOrderStatus converts a status name or legacy label into an OrderStatus.
func ParseOrderStatus(raw string) (OrderStatus, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	status := OrderStatus(normalized)
	if status.IsValid() {
		return status, nil
	}
	if alias, ok := orderStatusAliases[normalized]; ok {
		return alias, nil
	}
	return "", ErrUnknownOrderStatus
}
