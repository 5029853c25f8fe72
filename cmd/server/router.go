package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/storefront-api/internal/api"
	apiMiddleware "github.com/phrazzld/storefront-api/internal/api/middleware"
	"github.com/phrazzld/storefront-api/internal/api/shared"
	"github.com/phrazzld/storefront-api/internal/platform/observability"
)

// setupRouter creates the router with its middleware and every API route.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger, observability.Tracer("storefront-api/http")))
	r.Use(middleware.Recoverer)

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService, app.accountService, app.logger)
	authHandler := api.NewAuthHandler(app.accountService, app.jwtService, app.logger)
	catalogHandler := api.NewCatalogHandler(app.catalogService, app.logger)
	orderHandler := api.NewOrderHandler(app.orderService, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Route("/auth", authHandler.Routes)
		r.Route("/catalog", catalogHandler.Routes)
		r.Route("/orders", orderHandler.Routes)
		r.Get("/pickup-points", orderHandler.PickupPoints)
	})

	r.Get("/health", app.health)

	return r
}

// health reports whether the database answers.
func (app *application) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := app.db.PingContext(ctx); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusServiceUnavailable, "database unavailable", err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
