// Package gateway boots the API gateway process.
package gateway

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/Apurer/go-gin-microservices/internal/app/bootstrap"
	"github.com/Apurer/go-gin-microservices/internal/app/config"
	"github.com/Apurer/go-gin-microservices/internal/gateway"
)

const serviceName = "api-gateway"

// Run serves the gateway until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load("gateway", "8080")
	if err != nil {
		return err
	}
	instruments, shutdown, err := bootstrap.Observability(ctx, serviceName)
	if err != nil {
		return err
	}
	defer shutdown()
	logger := instruments.Logger

	caller := bootstrap.ServiceClient(cfg, logger)
	metrics := gateway.NewMetrics()
	routes := gateway.Router{
		Proxy:   gateway.NewProxy(caller, metrics),
		Health:  gateway.NewHealthAggregator(caller, cfg.Endpoints.Names()),
		Metrics: metrics,
	}
	if cfg.RateLimit != "" {
		var rdb *redis.Client
		if cfg.RedisAddr != "" {
			rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
			defer rdb.Close()
			if err := rdb.Ping(ctx).Err(); err != nil {
				logger.Warn("redis unreachable, rate limiting in memory", slog.String("addr", cfg.RedisAddr), slog.String("error", err.Error()))
				rdb = nil
			}
		}
		limit, err := gateway.NewRateLimiter(cfg.RateLimit, rdb)
		if err != nil {
			return fmt.Errorf("configure rate limiting: %w", err)
		}
		routes.RateLimit = limit
		logger.Info("rate limiting enabled", slog.String("rate", cfg.RateLimit), slog.Bool("redis", rdb != nil))
	}

	router := gin.New()
	router.Use(gin.Recovery(), otelgin.Middleware(serviceName))
	routes.Register(router)
	logger.Info("API gateway starting", slog.String("addr", cfg.Addr()))
	return bootstrap.Serve(ctx, cfg.Addr(), router, logger)
}
