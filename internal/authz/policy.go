// Package authz decides which account may perform which back-office action.
//
// Predicates are pure functions of an optional account. The Require* helpers
// turn a failed predicate into a classified domain error whose message names
// the attempted action.
package authz

import "github.com/phrazzld/storefront-api/internal/domain"

// CanViewCatalog is true for everyone, including guests.
func CanViewCatalog(_ *domain.Account) bool {
	return true
}

// CanSearchCatalog covers search, filter and sort of the catalog.
func CanSearchCatalog(acct *domain.Account) bool {
	return acct.HasRole(domain.RoleManager, domain.RoleAdmin)
}

// CanCreateItem reports whether acct may add catalog items.
func CanCreateItem(acct *domain.Account) bool {
	return acct.HasRole(domain.RoleAdmin)
}

// CanUpdateItem reports whether acct may edit catalog items.
func CanUpdateItem(acct *domain.Account) bool {
	return acct.HasRole(domain.RoleAdmin)
}

// CanDeleteItem reports whether acct may remove catalog items.
func CanDeleteItem(acct *domain.Account) bool {
	return acct.HasRole(domain.RoleAdmin)
}

// CanViewOwnOrders is true for any authenticated client, manager or admin.
func CanViewOwnOrders(acct *domain.Account) bool {
	return acct.HasRole(domain.RoleClient, domain.RoleManager, domain.RoleAdmin)
}

// CanViewAllOrders reports whether acct may list every order.
func CanViewAllOrders(acct *domain.Account) bool {
	return acct.HasRole(domain.RoleManager, domain.RoleAdmin)
}

// CanCreateOrder gates order creation for a present account. Only admins pass.
// The self-checkout path skips this check entirely for guests, so a guest may
// place an order while a signed-in client may not.
func CanCreateOrder(acct *domain.Account) bool {
	return acct.HasRole(domain.RoleAdmin)
}

// CanUpdateOrder reports whether acct may edit orders.
func CanUpdateOrder(acct *domain.Account) bool {
	return acct.HasRole(domain.RoleAdmin)
}

// CanDeleteOrder reports whether acct may remove orders.
func CanDeleteOrder(acct *domain.Account) bool {
	return acct.HasRole(domain.RoleAdmin)
}

// RequireAuthenticated returns acct, or an Unauthorized error when it is nil.
func RequireAuthenticated(acct *domain.Account, action string) (*domain.Account, error) {
	if acct == nil {
		return nil, domain.Unauthorized("authentication required to %s", action)
	}
	return acct, nil
}

// RequireAdmin returns acct when it is an admin.
func RequireAdmin(acct *domain.Account, action string) (*domain.Account, error) {
	return requireRole(acct, action, "only administrators may", domain.RoleAdmin)
}

// RequireManagerOrAdmin returns acct when it is a manager or an admin.
func RequireManagerOrAdmin(acct *domain.Account, action string) (*domain.Account, error) {
	return requireRole(acct, action, "only managers and administrators may", domain.RoleManager, domain.RoleAdmin)
}

func requireRole(acct *domain.Account, action, denial string, roles ...domain.Role) (*domain.Account, error) {
	if _, err := RequireAuthenticated(acct, action); err != nil {
		return nil, err
	}
	if !acct.HasRole(roles...) {
		return nil, domain.Forbidden("%s %s", denial, action)
	}
	return acct, nil
}

// Check converts a predicate result into an error. A nil account yields
// Unauthorized, a present account lacking permission yields Forbidden.
func Check(allowed func(*domain.Account) bool, acct *domain.Account, action string) error {
	if allowed(acct) {
		return nil
	}
	if acct == nil {
		return domain.Unauthorized("authentication required to %s", action)
	}
	return domain.Forbidden("not allowed to %s", action)
}
