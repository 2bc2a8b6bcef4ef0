// Package users boots the users service process.
package users

import (
	"context"
	"log/slog"

	"github.com/Apurer/go-gin-microservices/internal/app/bootstrap"
	"github.com/Apurer/go-gin-microservices/internal/app/config"
	"github.com/Apurer/go-gin-microservices/internal/domains/users/adapters/httpapi"
	usersmemory "github.com/Apurer/go-gin-microservices/internal/domains/users/adapters/memory"
	userspostgres "github.com/Apurer/go-gin-microservices/internal/domains/users/adapters/persistence/postgres"
	usersapp "github.com/Apurer/go-gin-microservices/internal/domains/users/application"
	"github.com/Apurer/go-gin-microservices/internal/domains/users/ports"
)

const serviceName = "users-service"

// Run serves the users API until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load("users", "5001")
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
	var repo ports.Repository = usersmemory.NewSeededRepository()
	if db != nil {
		repo = userspostgres.NewRepository(db)
		logger.Info("user repository configured with postgres")
	}

	router := bootstrap.Engine(serviceName, "users", bootstrap.Probe(db))
	httpapi.NewAPI(usersapp.NewService(repo)).Register(router)
	logger.Info("users service starting", slog.String("addr", cfg.Addr()))
	return bootstrap.Serve(ctx, cfg.Addr(), router, logger)
}
