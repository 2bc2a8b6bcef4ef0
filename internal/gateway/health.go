package gateway

import (
	"context"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/Apurer/go-gin-microservices/internal/platform/health"
	"github.com/Apurer/go-gin-microservices/internal/platform/serviceclient"
)

// Per-service health states.
const (
	StatusHealthy     = "healthy"
	StatusDegraded    = "degraded"
	StatusUnhealthy   = "unhealthy"
	StatusUnreachable = "unreachable"
)

const gatewayComponent = "gateway"

// HealthReport is the aggregated /health body.
type HealthReport struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services"`
}

// HealthAggregator polls every configured service's /health concurrently.
type HealthAggregator struct {
	caller   serviceclient.Caller
	services []serviceclient.Name
}

// NewHealthAggregator polls the given services through caller.
func NewHealthAggregator(caller serviceclient.Caller, services []serviceclient.Name) *HealthAggregator {
	return &HealthAggregator{caller: caller, services: append([]serviceclient.Name(nil), services...)}
}

// Aggregate returns the report and 200 when everything is healthy, 503 otherwise.
func (a *HealthAggregator) Aggregate(ctx context.Context) (HealthReport, int) {
	report := HealthReport{
		Status:   StatusHealthy,
		Services: map[string]string{gatewayComponent: StatusHealthy},
	}
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, name := range a.services {
		g.Go(func() error {
			state := a.check(gctx, name)
			mu.Lock()
			report.Services[string(name)] = state
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	for _, state := range report.Services {
		if state != StatusHealthy {
			report.Status = StatusDegraded
			return report, http.StatusServiceUnavailable
		}
	}
	return report, http.StatusOK
}

// Handler serves Aggregate on gin.
func (a *HealthAggregator) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		report, status := a.Aggregate(c.Request.Context())
		c.JSON(status, report)
	}
}

func (a *HealthAggregator) check(ctx context.Context, name serviceclient.Name) string {
	outcome := a.caller.Call(ctx, name, http.MethodGet, "/health", nil)
	switch {
	case outcome.IsUnavailable():
		return StatusUnreachable
	case outcome.IsRejected():
		return StatusUnhealthy
	}
	var body health.Report
	if err := outcome.Decode(&body); err != nil {
		return StatusDegraded
	}
	switch body.Database {
	case health.DatabaseConnected, health.DatabaseInMemory:
		return StatusHealthy
	default:
		return StatusDegraded
	}
}
