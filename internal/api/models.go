package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/service"
	"github.com/shopspring/decimal"
)

// RegisterRequest is the payload of POST /api/auth/register. Field rules are
// checked by the account service so that messages follow a fixed order.
type RegisterRequest struct {
	Login                string  `json:"login"`
	Password             string  `json:"password"`
	FullName             string  `json:"full_name"`
	PasswordConfirmation *string `json:"password_confirmation,omitempty"`

	// Role may only be set by an administrator.
	Role string `json:"role,omitempty" validate:"omitempty,max=64"`
}

// LoginRequest is the payload of POST /api/auth/login.
type LoginRequest struct {
	Login    string `json:"login"    validate:"required,max=255"`
	Password string `json:"password" validate:"required,max=255"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	AccountID uuid.UUID `json:"account_id"`
	Role      string    `json:"role"`
	RoleLabel string    `json:"role_label"`
	FullName  string    `json:"full_name"`
	Token     string    `json:"token"`

	// ExpiresAt is the RFC 3339 expiry of Token.
	ExpiresAt string `json:"expires_at"`
}

// CatalogItemRequest is the payload of catalog create and update calls.
type CatalogItemRequest struct {
	Article      string           `json:"article"      validate:"required,max=64"`
	Name         string           `json:"name"         validate:"required,max=255"`
	Unit         string           `json:"unit"         validate:"max=32"`
	Price        decimal.Decimal  `json:"price"`
	Discount     *decimal.Decimal `json:"discount,omitempty"`
	Count        int              `json:"count"        validate:"gte=0"`
	Provider     *string          `json:"provider,omitempty"     validate:"omitempty,max=255"`
	Manufacturer *string          `json:"manufacturer,omitempty" validate:"omitempty,max=255"`
	Category     *string          `json:"category,omitempty"     validate:"omitempty,max=255"`
	Description  *string          `json:"description,omitempty"`
	Image        *string          `json:"image,omitempty"        validate:"omitempty,max=1024"`
}

func (r CatalogItemRequest) toInput() service.CatalogItemInput {
	return service.CatalogItemInput{
		Article:      r.Article,
		Name:         r.Name,
		Unit:         r.Unit,
		Price:        r.Price,
		Discount:     r.Discount,
		Count:        r.Count,
		Provider:     r.Provider,
		Manufacturer: r.Manufacturer,
		Category:     r.Category,
		Description:  r.Description,
		Image:        r.Image,
	}
}

// CatalogItemResponse is a catalog item with its discounted price.
type CatalogItemResponse struct {
	*domain.CatalogItem
	FinalPrice decimal.Decimal `json:"final_price"`
}

// StockRequest is the payload of PUT /api/catalog/{id}/stock.
type StockRequest struct {
	Count *int `json:"count" validate:"required,gte=0"`
}

// FacetsResponse lists the distinct values used by the catalog filters.
type FacetsResponse struct {
	Providers     []string `json:"providers"`
	Categories    []string `json:"categories"`
	Manufacturers []string `json:"manufacturers"`
}

// CreateOrderRequest is the payload of POST /api/orders.
type CreateOrderRequest struct {
	PickupPointID *uuid.UUID           `json:"pickup_point_id,omitempty"`
	RecipientCode *string              `json:"recipient_code,omitempty" validate:"omitempty,max=64"`
	Lines         []domain.LineRequest `json:"lines"`
}

// AdminOrderRequest is the payload of POST /api/orders/admin.
type AdminOrderRequest struct {
	Status        string               `json:"status,omitempty"`
	AccountID     *uuid.UUID           `json:"account_id,omitempty"`
	PickupPointID *uuid.UUID           `json:"pickup_point_id,omitempty"`
	RecipientCode *string              `json:"recipient_code,omitempty" validate:"omitempty,max=64"`
	CreatedAt     *time.Time           `json:"created_at,omitempty"`
	DeliveredAt   *time.Time           `json:"delivered_at,omitempty"`
	Lines         []domain.LineRequest `json:"lines"`
}

// OrderPatchRequest is the payload of PATCH /api/orders/{id}. Absent fields
// are left untouched; a present "lines" array replaces every line.
type OrderPatchRequest struct {
	Status        *string              `json:"status,omitempty"`
	AccountID     *uuid.UUID           `json:"account_id,omitempty"`
	PickupPointID *uuid.UUID           `json:"pickup_point_id,omitempty"`
	RecipientCode *string              `json:"recipient_code,omitempty" validate:"omitempty,max=64"`
	CreatedAt     *time.Time           `json:"created_at,omitempty"`
	DeliveredAt   *time.Time           `json:"delivered_at,omitempty"`
	Lines         []domain.LineRequest `json:"lines"`
}

// StatusRequest is the payload of PUT /api/orders/{id}/status.
type StatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// QuoteRequest is the payload of POST /api/orders/quote.
type QuoteRequest struct {
	Lines []domain.LineRequest `json:"lines"`
}

// TotalResponse carries an order or cart total.
type TotalResponse struct {
	OrderID *uuid.UUID      `json:"order_id,omitempty"`
	Total   decimal.Decimal `json:"total"`
}
