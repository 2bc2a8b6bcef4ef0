// Package bootstrap holds the process wiring shared by every service binary.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"gorm.io/gorm"

	"github.com/Apurer/go-gin-microservices/internal/app/config"
	"github.com/Apurer/go-gin-microservices/internal/platform/health"
	"github.com/Apurer/go-gin-microservices/internal/platform/migrations"
	platformobservability "github.com/Apurer/go-gin-microservices/internal/platform/observability"
	platformpostgres "github.com/Apurer/go-gin-microservices/internal/platform/postgres"
	"github.com/Apurer/go-gin-microservices/internal/platform/serviceclient"
)

const shutdownTimeout = 5 * time.Second

// Observability initializes instruments for serviceName. The returned func
// flushes exporters and must be deferred.
func Observability(ctx context.Context, serviceName string) (*platformobservability.Instruments, func(), error) {
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize observability: %w", err)
	}
	return instruments, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}, nil
}

// Store connects to postgres and applies the schema. A nil DB means the
// caller should use in-memory repositories.
func Store(ctx context.Context, cfg config.Config, logger *slog.Logger) (*gorm.DB, func()) {
	db, cleanup := platformpostgres.ConnectDSN(ctx, cfg.PostgresDSN, logger)
	if db == nil {
		return nil, cleanup
	}
	if err := migrations.Run(db.WithContext(ctx)); err != nil {
		logger.Warn("failed to migrate postgres schema, falling back to in-memory repositories", slog.String("error", err.Error()))
		cleanup()
		return nil, func() {}
	}
	return db, cleanup
}

// Probe returns the health probe for db; nil reports an in-memory store.
func Probe(db *gorm.DB) health.Probe {
	if db == nil {
		return nil
	}
	return platformpostgres.NewPinger(db)
}

// Engine builds a gin engine with recovery, tracing and the /health route.
func Engine(serviceName, healthName string, probe health.Probe) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), otelgin.Middleware(serviceName))
	router.GET("/health", health.Handler(healthName, probe))
	return router
}

// ServiceClient builds the outbound client from cfg.
func ServiceClient(cfg config.Config, logger *slog.Logger) *serviceclient.Client {
	return serviceclient.New(cfg.Endpoints,
		serviceclient.WithTimeout(cfg.ServiceTimeout),
		serviceclient.WithLogger(logger),
	)
}

// Serve runs handler on addr until ctx is cancelled or SIGINT/SIGTERM arrives,
// then drains in-flight requests.
func Serve(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", slog.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("HTTP server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down HTTP server", slog.String("addr", addr))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// TemporalClient dials Temporal with tracing and structured logging, unless
// disabled in cfg.
func TemporalClient(cfg config.Config, instruments *platformobservability.Instruments, component string) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(temporalotel.TracerOptions{
		Tracer: instruments.Tracer(component),
	})
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(instruments.Logger),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}
