// Package store defines the persistence contracts of the storefront: one
// store per entity, plus the transaction helpers services use to group
// several store calls into a single unit of work.
//
// Single-entity lookups return an entity-specific not-found error
// (ErrAccountNotFound, ErrItemNotFound, ...). List lookups return an empty,
// non-nil slice when nothing matches.
package store
