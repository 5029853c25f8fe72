package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/storefront-api/internal/api/shared"
	"github.com/phrazzld/storefront-api/internal/domain"
)

// getPathUUID parses the chi path parameter paramName as a UUID.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	raw := chi.URLParam(r, paramName)
	if raw == "" {
		return uuid.Nil, domain.InvalidArgument("%s is required", paramName)
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, domain.InvalidArgument("%s has invalid format", paramName)
	}
	return id, nil
}

// actingAccount returns the account resolved by the auth middleware, or nil for a guest.
func actingAccount(r *http.Request) *domain.Account {
	return shared.AccountFromContext(r.Context())
}

// decodeAndValidate decodes the JSON body into v and validates it. On failure
// it writes a 400 and returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := shared.DecodeJSON(r, v); err != nil {
		respondBadRequest(w, r, "invalid request format", err)
		return false
	}
	if err := shared.ValidateRequest(v); err != nil {
		respondBadRequest(w, r, shared.ValidationMessage(err), err)
		return false
	}
	return true
}

// pathUUIDOrRespond parses the path parameter paramName, writing a 400 on failure.
func pathUUIDOrRespond(w http.ResponseWriter, r *http.Request, paramName string) (uuid.UUID, bool) {
	id, err := getPathUUID(r, paramName)
	if err != nil {
		HandleAPIError(w, r, err)
		return uuid.Nil, false
	}
	return id, true
}
