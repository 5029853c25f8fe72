// Package domain contains the core business entities of the storefront back
// office: accounts and their roles, catalog items and pricing, orders with
// their lines and status lifecycle, and pickup points. It also defines the
// error kinds every other layer classifies failures with.
//
// The package has no knowledge of storage or transport.
package domain
