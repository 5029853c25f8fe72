package domain

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
)

// CatalogItem is a sellable product with its price, optional discount and stock count.
type CatalogItem struct {
	ID           uuid.UUID        `json:"id"`
	Article      string           `json:"article"`
	Name         string           `json:"name"`
	Unit         string           `json:"unit"`
	Price        decimal.Decimal  `json:"price"`
	Discount     *decimal.Decimal `json:"discount,omitempty"`
	Count        int              `json:"count"`
	Provider     *string          `json:"provider,omitempty"`
	Manufacturer *string          `json:"manufacturer,omitempty"`
	Category     *string          `json:"category,omitempty"`
	Description  *string          `json:"description,omitempty"`
	Image        *string          `json:"image,omitempty"`
}

// NewCatalogItem creates an item with a fresh ID. Article, name and unit are trimmed.
func NewCatalogItem(article, name, unit string, price decimal.Decimal, count int) (*CatalogItem, error) {
	item := &CatalogItem{
		ID:      uuid.New(),
		Article: strings.TrimSpace(article),
		Name:    strings.TrimSpace(name),
		Unit:    strings.TrimSpace(unit),
		Price:   price,
		Count:   count,
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}

	return item, nil
}

// Validate checks the field invariants of an item. Article uniqueness is a
// store-level invariant and is not checked here.
func (i *CatalogItem) Validate() error {
	if i.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", nil)
	}
	if strings.TrimSpace(i.Article) == "" {
		return NewValidationError("article", "cannot be empty", nil)
	}
	if strings.TrimSpace(i.Name) == "" {
		return NewValidationError("name", "cannot be empty", nil)
	}
	if strings.TrimSpace(i.Unit) == "" {
		return NewValidationError("unit", "cannot be empty", nil)
	}
	if i.Price.IsNegative() {
		return NewValidationError("price", "cannot be negative", nil)
	}
	if i.Count < 0 {
		return NewValidationError("count", "cannot be negative", nil)
	}
	if i.Discount != nil && (i.Discount.IsNegative() || i.Discount.GreaterThan(hundred)) {
		return NewValidationError("discount", "must be between 0 and 100", nil)
	}
	return nil
}

// FinalPrice is the unit price after the item's discount.
func (i *CatalogItem) FinalPrice() decimal.Decimal {
	return PriceWithDiscount(i.Price, i.Discount)
}

// PriceWithDiscount returns price reduced by discount percent. A missing or
// non-positive discount leaves the price unchanged.
func PriceWithDiscount(price decimal.Decimal, discount *decimal.Decimal) decimal.Decimal {
	if discount == nil || !discount.IsPositive() {
		return price
	}
	factor := decimal.NewFromInt(1).Sub(discount.Div(hundred))
	return price.Mul(factor)
}

// StringValue dereferences an optional string, returning "" for nil.
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
