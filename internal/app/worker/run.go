// Package worker boots the Temporal worker that executes order creation.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/go-gin-microservices/internal/app/bootstrap"
	"github.com/Apurer/go-gin-microservices/internal/app/config"
	ordersrun "github.com/Apurer/go-gin-microservices/internal/app/orders"
	orderspostgres "github.com/Apurer/go-gin-microservices/internal/domains/orders/adapters/persistence/postgres"
	orderactivities "github.com/Apurer/go-gin-microservices/internal/durable/temporal/activities/orders"
	orderworkflows "github.com/Apurer/go-gin-microservices/internal/durable/temporal/workflows/orders"
)

const serviceName = "orders-worker"

// Run polls the order creation task queue until interrupted.
func Run(ctx context.Context) error {
	cfg, err := config.Load("orders-worker", "5002")
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
	if db == nil {
		return errors.New("orders worker requires POSTGRES_DSN: orders it persists must be readable by the orders service")
	}
	repo := orderspostgres.NewRepository(db)
	logger.Info("worker order repository configured with postgres")
	acts := orderactivities.NewActivities(ordersrun.NewCoreService(cfg, repo, logger).Orchestrator())

	temporalClient, err := bootstrap.TemporalClient(cfg, instruments, "temporal-worker")
	if err != nil {
		return fmt.Errorf("failed to create Temporal client: %w", err)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, orderworkflows.OrderCreationTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(orderworkflows.OrderCreationWorkflow, workflow.RegisterOptions{Name: orderworkflows.OrderCreationWorkflowName})
	w.RegisterActivityWithOptions(acts.CheckUser, activity.RegisterOptions{Name: orderactivities.CheckUserActivityName})
	w.RegisterActivityWithOptions(acts.CheckStock, activity.RegisterOptions{Name: orderactivities.CheckStockActivityName})
	w.RegisterActivityWithOptions(acts.ReserveStock, activity.RegisterOptions{Name: orderactivities.ReserveStockActivityName})
	w.RegisterActivityWithOptions(acts.PersistOrder, activity.RegisterOptions{Name: orderactivities.PersistOrderActivityName})

	logger.Info("worker listening", slog.String("taskQueue", orderworkflows.OrderCreationTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return err
	}
	logger.Info("Temporal worker stopped")
	return nil
}
