package domain

import (
	"time"

	"github.com/google/uuid"
)

// Order is a purchase record. It owns its lines; the account and pickup point
// references are weak and become nil when the referenced row is deleted.
type Order struct {
	ID            uuid.UUID   `json:"id"`
	AccountID     *uuid.UUID  `json:"account_id,omitempty"`
	PickupPointID *uuid.UUID  `json:"pickup_point_id,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	DeliveredAt   *time.Time  `json:"delivered_at,omitempty"`
	RecipientCode *string     `json:"recipient_code,omitempty"`
	Status        OrderStatus `json:"status"`
}

// NewOrder creates an order in status new.
func NewOrder(accountID, pickupPointID *uuid.UUID, recipientCode *string) *Order {
	return &Order{
		ID:            uuid.New(),
		AccountID:     accountID,
		PickupPointID: pickupPointID,
		CreatedAt:     time.Now().UTC(),
		RecipientCode: recipientCode,
		Status:        OrderStatusNew,
	}
}

// Validate checks the structural invariants of an order.
func (o *Order) Validate() error {
	if o.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", nil)
	}
	if !o.Status.IsValid() {
		return NewValidationError("status", "is not a known status", ErrUnknownOrderStatus)
	}
	if o.CreatedAt.IsZero() {
		return NewValidationError("created_at", "cannot be zero", nil)
	}
	if o.DeliveredAt != nil && o.DeliveredAt.Before(o.CreatedAt) {
		return NewValidationError("delivered_at", "cannot precede created_at", nil)
	}
	return nil
}

// OrderLine is a quantity of one catalog item within an order.
type OrderLine struct {
	ID       uuid.UUID `json:"id"`
	OrderID  uuid.UUID `json:"order_id"`
	ItemID   uuid.UUID `json:"item_id"`
	Quantity int       `json:"quantity"`
}

// NewOrderLine creates a line for orderID.
func NewOrderLine(orderID, itemID uuid.UUID, quantity int) (*OrderLine, error) {
	line := &OrderLine{
		ID:       uuid.New(),
		OrderID:  orderID,
		ItemID:   itemID,
		Quantity: quantity,
	}

	if err := line.Validate(); err != nil {
		return nil, err
	}

	return line, nil
}

// Validate checks the line invariants.
func (l *OrderLine) Validate() error {
	if l.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", nil)
	}
	if l.OrderID == uuid.Nil {
		return NewValidationError("order_id", "cannot be empty", nil)
	}
	if l.ItemID == uuid.Nil {
		return NewValidationError("item_id", "cannot be empty", nil)
	}
	if l.Quantity <= 0 {
		return NewValidationError("quantity", "must be positive", nil)
	}
	return nil
}

// LineRequest is a candidate order line supplied by a caller before an order exists.
type LineRequest struct {
	ItemID   uuid.UUID `json:"item_id"`
	Quantity int       `json:"quantity"`
}

// PickupPoint is a physical address where orders are collected.
type PickupPoint struct {
	ID      uuid.UUID `json:"id"`
	Address string    `json:"address"`
}

// NewPickupPoint creates a pickup point with a fresh ID.
func NewPickupPoint(address string) (*PickupPoint, error) {
	p := &PickupPoint{ID: uuid.New(), Address: address}
	if p.Address == "" {
		return nil, NewValidationError("address", "cannot be empty", nil)
	}
	return p, nil
}
