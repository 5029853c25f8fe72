package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/storefront-api/internal/api/shared"
	"github.com/phrazzld/storefront-api/internal/authz"
	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/platform/logger"
	"github.com/phrazzld/storefront-api/internal/service"
)

// CatalogHandler serves the catalog endpoints.
type CatalogHandler struct {
	catalog service.CatalogService
	logger  *slog.Logger
}

// NewCatalogHandler creates a CatalogHandler.
func NewCatalogHandler(catalog service.CatalogService, log *slog.Logger) *CatalogHandler {
	if catalog == nil {
		panic("catalog handler requires a catalog service")
	}
	if log == nil {
		log = slog.Default()
	}
	return &CatalogHandler{
		catalog: catalog,
		logger:  log.With(slog.String("component", "catalog_handler")),
	}
}

// Routes mounts the catalog endpoints on r.
func (h *CatalogHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/search", h.Search)
	r.Get("/filter", h.Filter)
	r.Get("/facets", h.Facets)
	r.Post("/", h.Create)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Put("/", h.Update)
		r.Delete("/", h.Delete)
		r.Put("/stock", h.AdjustStock)
	})
}

func (h *CatalogHandler) toResponse(item *domain.CatalogItem) CatalogItemResponse {
	return CatalogItemResponse{
		CatalogItem: item,
		FinalPrice:  h.catalog.PriceWithDiscount(item.Price, item.Discount),
	}
}

func (h *CatalogHandler) respondWithItems(w http.ResponseWriter, r *http.Request, items []*domain.CatalogItem) {
	out := make([]CatalogItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, h.toResponse(item))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, out)
}

// List handles GET /api/catalog.
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.catalog.GetAll(r.Context())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	h.respondWithItems(w, r, items)
}

// Get handles GET /api/catalog/{id}.
func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUIDOrRespond(w, r, "id")
	if !ok {
		return
	}

	item, err := h.catalog.GetByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, h.toResponse(item))
}

// Search handles GET /api/catalog/search?q=.
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	items, err := h.catalog.Search(r.Context(), r.URL.Query().Get("q"), actingAccount(r))
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	h.respondWithItems(w, r, items)
}

// Filter handles GET /api/catalog/filter?provider=&sort=&q=.
func (h *CatalogHandler) Filter(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := service.FilterOptions{
		Provider: q.Get("provider"),
		Sort:     q.Get("sort"),
		Query:    q.Get("q"),
	}

	items, err := h.catalog.FilterAndSort(r.Context(), opts, actingAccount(r))
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	h.respondWithItems(w, r, items)
}

// Facets handles GET /api/catalog/facets.
func (h *CatalogHandler) Facets(w http.ResponseWriter, r *http.Request) {
	var resp FacetsResponse
	var err error

	if resp.Providers, err = h.catalog.Providers(r.Context()); err != nil {
		HandleAPIError(w, r, err)
		return
	}
	if resp.Categories, err = h.catalog.Categories(r.Context()); err != nil {
		HandleAPIError(w, r, err)
		return
	}
	if resp.Manufacturers, err = h.catalog.Manufacturers(r.Context()); err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// Create handles POST /api/catalog.
func (h *CatalogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CatalogItemRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	item, err := h.catalog.Create(r.Context(), req.toInput(), actingAccount(r))
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, h.toResponse(item))
}

// Update handles PUT /api/catalog/{id}. An absent image keeps the stored one.
func (h *CatalogHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUIDOrRespond(w, r, "id")
	if !ok {
		return
	}
	var req CatalogItemRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	item, err := h.catalog.UpdateByID(r.Context(), id, req.toInput(), actingAccount(r))
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, h.toResponse(item))
}

// Delete handles DELETE /api/catalog/{id}.
func (h *CatalogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUIDOrRespond(w, r, "id")
	if !ok {
		return
	}

	if err := h.catalog.Delete(r.Context(), id, actingAccount(r)); err != nil {
		HandleAPIError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AdjustStock handles PUT /api/catalog/{id}/stock. Manager or Admin only.
func (h *CatalogHandler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	acct, err := authz.RequireManagerOrAdmin(actingAccount(r), "adjust stock")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	id, ok := pathUUIDOrRespond(w, r, "id")
	if !ok {
		return
	}
	var req StockRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	item, err := h.catalog.AdjustStock(r.Context(), id, *req.Count)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Info("stock adjusted",
		slog.String("item_id", id.String()),
		slog.String("account_id", acct.ID.String()),
		slog.Int("count", item.Count))
	shared.RespondWithJSON(w, r, http.StatusOK, h.toResponse(item))
}
