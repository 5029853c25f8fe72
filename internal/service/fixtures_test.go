package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func accountWithRole(t *testing.T, role domain.Role) *domain.Account {
	t.Helper()
	acct, err := domain.NewAccount(uuid.NewString()[:8]+"@example.com", "Test Account", "$2a$10$hash", role)
	require.NoError(t, err)
	return acct
}

func ptr[T any](v T) *T {
	return &v
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// itemA is the reference item: article A1, price 100.00, discount 20, stock 5.
func itemA() *domain.CatalogItem {
	return &domain.CatalogItem{
		ID:       uuid.MustParse("00000000-0000-0000-0000-0000000000a1"),
		Article:  "A1",
		Name:     "Item A",
		Unit:     "pcs",
		Price:    dec("100.00"),
		Discount: ptr(dec("20")),
		Count:    5,
	}
}

func newItem(name, category string, count int) *domain.CatalogItem {
	return &domain.CatalogItem{
		ID:       uuid.New(),
		Article:  "ART-" + uuid.NewString()[:6],
		Name:     name,
		Unit:     "pcs",
		Price:    dec("10"),
		Count:    count,
		Category: ptr(category),
	}
}
