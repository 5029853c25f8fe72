package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	// Entity-specific variants wrap it.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would violate a uniqueness
	// constraint, such as a second item with the same article.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored. Check the wrapped error for specific validation details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrMissingReference is returned when a write points at a row that does
	// not exist. The entity-specific variants below wrap it.
	ErrMissingReference = fmt.Errorf("%w: referenced entity does not exist", ErrInvalidEntity)

	// ErrUnknownAccount marks a write referencing a missing account.
	ErrUnknownAccount = fmt.Errorf("%w: account", ErrMissingReference)

	// ErrUnknownPickupPoint marks a write referencing a missing pickup point.
	ErrUnknownPickupPoint = fmt.Errorf("%w: pickup point", ErrMissingReference)

	// ErrUnknownItem marks an order line referencing a missing catalog item.
	ErrUnknownItem = fmt.Errorf("%w: catalog item", ErrMissingReference)

	// ErrReferenced is returned when a delete is blocked because other rows
	// still point at the entity.
	ErrReferenced = errors.New("entity is referenced")

	// ErrInsufficientStock is returned by a conditional stock decrement when
	// the item does not hold enough units.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrTransactionFailed is returned when a database transaction fails
	// to begin or commit.
	ErrTransactionFailed = errors.New("transaction failed")

	// ErrAccountNotFound indicates that the requested account does not exist.
	ErrAccountNotFound = fmt.Errorf("%w: account", ErrNotFound)

	// ErrItemNotFound indicates that the requested catalog item does not exist.
	ErrItemNotFound = fmt.Errorf("%w: catalog item", ErrNotFound)

	// ErrOrderNotFound indicates that the requested order does not exist.
	ErrOrderNotFound = fmt.Errorf("%w: order", ErrNotFound)

	// ErrPickupPointNotFound indicates that the requested pickup point does not exist.
	ErrPickupPointNotFound = fmt.Errorf("%w: pickup point", ErrNotFound)

	// ErrLoginExists indicates that an account with the given login already exists.
	ErrLoginExists = fmt.Errorf("%w: login", ErrDuplicate)

	// ErrArticleExists indicates that a catalog item with the given article already exists.
	ErrArticleExists = fmt.Errorf("%w: article", ErrDuplicate)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// StoreError is a store failure with the entity and operation it happened in.
type StoreError struct {
	Entity    string // The entity type (e.g., "order", "catalog item")
	Operation string // The operation that failed (e.g., "create", "update")
	Message   string
	Err       error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf(
			"%s operation on %s failed: %s: %v",
			e.Operation,
			e.Entity,
			e.Message,
			e.Err,
		)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
