// Package orders boots the orders service process.
package orders

import (
	"context"
	"log/slog"

	"go.temporal.io/sdk/client"

	"github.com/Apurer/go-gin-microservices/internal/app/bootstrap"
	"github.com/Apurer/go-gin-microservices/internal/app/config"
	"github.com/Apurer/go-gin-microservices/internal/domains/orders/adapters/httpapi"
	ordersmemory "github.com/Apurer/go-gin-microservices/internal/domains/orders/adapters/memory"
	ordersobs "github.com/Apurer/go-gin-microservices/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/Apurer/go-gin-microservices/internal/domains/orders/adapters/persistence/postgres"
	"github.com/Apurer/go-gin-microservices/internal/domains/orders/adapters/remote"
	ordersworkflows "github.com/Apurer/go-gin-microservices/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/Apurer/go-gin-microservices/internal/domains/orders/application"
	"github.com/Apurer/go-gin-microservices/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-microservices/internal/platform/observability"
)

const serviceName = "orders-service"

// Run serves the orders API until ctx is cancelled. Order creation runs on
// Temporal when postgres is configured and a cluster is reachable, inline
// otherwise.
func Run(ctx context.Context) error {
	cfg, err := config.Load("orders", "5002")
	if err != nil {
		return err
	}
	instruments, shutdown, err := bootstrap.Observability(ctx, serviceName)
	if err != nil {
		return err
	}
	defer shutdown()
	logger := instruments.Logger

	db, cleanup := bootstrap.Store(ctx, cfg, logger)
	defer cleanup()
	var repo ports.Repository = ordersmemory.NewSeededRepository()
	if db != nil {
		repo = orderspostgres.NewRepository(db)
		logger.Info("order repository configured with postgres")
	}
	core := NewCoreService(cfg, repo, logger)
	service := ordersobs.New(
		core,
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)

	workflows, closeWorkflows := creationWorkflows(service, db != nil, func() (client.Client, error) {
		return bootstrap.TemporalClient(cfg, instruments, "temporal-client")
	}, logger,
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.workflows")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	defer closeWorkflows()

	router := bootstrap.Engine(serviceName, "orders", bootstrap.Probe(db))
	httpapi.NewAPI(service, workflows).Register(router)
	logger.Info("orders service starting", slog.String("addr", cfg.Addr()))
	return bootstrap.Serve(ctx, cfg.Addr(), router, logger)
}

// creationWorkflows picks the order creation path. Temporal requires the
// shared database since the worker persists orders there and this service
// reads them back. The Temporal path is wrapped so creations keep their spans
// and counters.
func creationWorkflows(service ports.Service, hasDB bool, dial func() (client.Client, error), logger *slog.Logger, opts ...ordersobs.Option) (ports.WorkflowOrchestrator, func()) {
	inline := ordersworkflows.NewInlineOrderWorkflows(service)
	if !hasDB {
		logger.Info("Temporal workflows require POSTGRES_DSN; creating orders inline")
		return inline, func() {}
	}
	temporalClient, err := dial()
	if err != nil {
		logger.Warn("Temporal workflows unavailable, creating orders inline", slog.String("error", err.Error()))
		return inline, func() {}
	}
	logger.Info("Temporal workflows enabled")
	return ordersobs.NewWorkflows(ordersworkflows.NewTemporalOrderWorkflows(temporalClient), opts...), temporalClient.Close
}

// NewCoreService wires the orders application against the users and inventory
// services named in cfg. The worker process uses it for activities.
func NewCoreService(cfg config.Config, repo ports.Repository, logger *slog.Logger) *ordersapp.Service {
	if logger == nil {
		logger = observability.Noop().Logger
	}
	caller := bootstrap.ServiceClient(cfg, logger)
	return ordersapp.NewService(
		repo,
		remote.NewUserDirectory(caller),
		remote.NewStockLedger(caller),
		ordersapp.WithLogger(logger),
	)
}
