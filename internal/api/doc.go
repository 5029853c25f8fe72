// Package api exposes the storefront services over HTTP. Handlers decode and
// validate JSON requests, pass the account resolved by the auth middleware to
// the services as the acting account, and translate domain error kinds into
// status codes.
package api
