// Package service holds the business rules of the storefront: the catalog,
// order and account services.
//
// Every operation that acts on behalf of someone takes the acting account as
// its last parameter; a nil account is a guest. Authorization and input
// validation run before any store call that mutates state. Store failures
// are returned as *domain.Error values classified by kind, so callers branch
// with errors.Is(err, domain.ErrConflict) and friends.
package service
