package service

import (
	"errors"
	"log/slog"

	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/redact"
	"github.com/phrazzld/storefront-api/internal/store"
)

// classifyStoreError turns a store failure into a domain error.
// A write pointing at a missing row becomes NotFound naming that entity.
// Not-found becomes NotFound with notFoundMsg; duplicates, references and
// stock failures become Conflict; other rejected rows become InvalidArgument.
// Anything else is logged and wrapped as a storage error. Errors that are
// already classified pass through.
func classifyStoreError(log *slog.Logger, op string, err error, notFoundMsg string) error {
	var de *domain.Error
	if errors.As(err, &de) {
		return de
	}

	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return domain.NewError(domain.ErrInvalidArgument, ve.Error(), ve)
	case errors.Is(err, store.ErrMissingReference):
		return domain.NewError(domain.ErrNotFound, missingReferenceMessage(err), err)
	case store.IsNotFoundError(err):
		return domain.NewError(domain.ErrNotFound, notFoundMsg, err)
	case errors.Is(err, store.ErrLoginExists):
		return domain.NewError(domain.ErrConflict, "login is already taken", err)
	case errors.Is(err, store.ErrArticleExists):
		return domain.NewError(domain.ErrConflict, "article is already in use", err)
	case errors.Is(err, store.ErrReferenced):
		return domain.NewError(domain.ErrConflict, "item referenced by an order cannot be deleted", err)
	case errors.Is(err, store.ErrInsufficientStock):
		return domain.NewError(domain.ErrConflict, "insufficient stock", err)
	case errors.Is(err, store.ErrInvalidEntity):
		return domain.NewError(domain.ErrInvalidArgument, "the data was rejected as invalid", err)
	}

	log.Error("store operation failed",
		slog.String("operation", op),
		redact.ErrorAttr(err))
	return domain.Storage("failed to "+op, err)
}

func missingReferenceMessage(err error) string {
	switch {
	case errors.Is(err, store.ErrUnknownItem):
		return "referenced catalog item not found"
	case errors.Is(err, store.ErrUnknownAccount):
		return "referenced account not found"
	case errors.Is(err, store.ErrUnknownPickupPoint):
		return "referenced pickup point not found"
	}
	return "referenced entity not found"
}

// invalidInput converts an entity validation failure into InvalidArgument.
func invalidInput(err error) error {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return domain.NewError(domain.ErrInvalidArgument, ve.Error(), ve)
	}
	return domain.NewError(domain.ErrInvalidArgument, err.Error(), err)
}
