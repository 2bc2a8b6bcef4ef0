// Package inventory boots the inventory service process.
package inventory

import (
	"context"
	"log/slog"

	"github.com/Apurer/go-gin-microservices/internal/app/bootstrap"
	"github.com/Apurer/go-gin-microservices/internal/app/config"
	"github.com/Apurer/go-gin-microservices/internal/domains/inventory/adapters/httpapi"
	inventorymemory "github.com/Apurer/go-gin-microservices/internal/domains/inventory/adapters/memory"
	inventoryobs "github.com/Apurer/go-gin-microservices/internal/domains/inventory/adapters/observability"
	inventorypostgres "github.com/Apurer/go-gin-microservices/internal/domains/inventory/adapters/persistence/postgres"
	inventoryapp "github.com/Apurer/go-gin-microservices/internal/domains/inventory/application"
	"github.com/Apurer/go-gin-microservices/internal/domains/inventory/ports"
)

const serviceName = "inventory-service"

// Run serves the inventory API until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load("inventory", "5003")
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
	var repo ports.Repository = inventorymemory.NewSeededRepository()
	if db != nil {
		repo = inventorypostgres.NewRepository(db)
		logger.Info("inventory repository configured with postgres")
	}
	service := inventoryobs.New(
		inventoryapp.NewService(repo),
		inventoryobs.WithLogger(logger),
		inventoryobs.WithTracer(instruments.Tracer("internal.inventory.application")),
		inventoryobs.WithMeter(instruments.Meter("internal.inventory.application")),
	)

	router := bootstrap.Engine(serviceName, "inventory", bootstrap.Probe(db))
	httpapi.NewAPI(service).Register(router)
	logger.Info("inventory service starting", slog.String("addr", cfg.Addr()))
	return bootstrap.Serve(ctx, cfg.Addr(), router, logger)
}
