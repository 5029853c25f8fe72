package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/storefront-api/internal/config"
	"github.com/phrazzld/storefront-api/internal/events"
	"github.com/phrazzld/storefront-api/internal/platform/kafka"
	"github.com/phrazzld/storefront-api/internal/platform/observability"
	"github.com/phrazzld/storefront-api/internal/platform/postgres"
	"github.com/phrazzld/storefront-api/internal/service"
	"github.com/phrazzld/storefront-api/internal/service/auth"
	"github.com/phrazzld/storefront-api/internal/store"
)

// application holds the shared dependencies of the server and releases them
// on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	accountStore store.AccountStore
	catalogStore store.CatalogStore
	orderStore   store.OrderStore
	pointStore   store.PickupPointStore

	jwtService     auth.JWTService
	accountService *service.AccountServiceImpl
	catalogService *service.CatalogServiceImpl
	orderService   *service.OrderServiceImpl

	eventEmitter *events.InMemoryEventEmitter
	publisher    *kafka.Publisher

	shutdownTracing observability.ShutdownFunc
}

// newApplication wires stores, services and the event pipeline over db.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes))

	app.accountStore = postgres.NewPostgresAccountStore(db, logger)
	app.catalogStore = postgres.NewPostgresCatalogStore(db, logger)
	app.orderStore = postgres.NewPostgresOrderStore(db, logger)
	app.pointStore = postgres.NewPostgresPickupPointStore(db, logger)

	app.eventEmitter = events.NewInMemoryEventEmitter(logger)
	if len(cfg.Events.KafkaBrokers) > 0 {
		app.publisher = kafka.NewPublisher(kafka.NewWriter(cfg.Events), cfg.Events.KafkaTopic, logger)
		app.eventEmitter.RegisterHandler(app.publisher)
		logger.Info("order events published to kafka",
			slog.Any("brokers", cfg.Events.KafkaBrokers),
			slog.String("topic", cfg.Events.KafkaTopic))
	}

	app.accountService = service.NewAccountService(
		app.accountStore,
		auth.NewBcryptHasher(cfg.Auth.BCryptCost),
		logger,
	)
	app.catalogService = service.NewCatalogService(app.catalogStore, app.orderStore, logger)
	app.orderService = service.NewOrderService(
		app.orderStore,
		app.catalogStore,
		app.pointStore,
		store.NewDBTransactor(db),
		app.eventEmitter,
		service.OrderServiceConfig{ReserveStock: cfg.Orders.ReserveStock},
		logger,
	)

	return app, nil
}

// cleanup releases the resources held by the application. It runs after the
// HTTP server has stopped accepting requests.
func (app *application) cleanup() {
	if app.publisher != nil {
		if err := app.publisher.Close(); err != nil {
			app.logger.Error("failed to close kafka publisher", slog.String("error", err.Error()))
		}
	}

	if app.shutdownTracing != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.shutdownTracing(ctx); err != nil {
			app.logger.Error("failed to shut down tracing", slog.String("error", err.Error()))
		}
	}

	if app.db != nil {
		closeDB(app.db, app.logger)
	}
}
