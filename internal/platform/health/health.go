// Package health serves the per-service /health endpoint polled by the gateway.
package health

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Database states reported in the health body.
const (
	DatabaseConnected    = "connected"
	DatabaseDisconnected = "disconnected"
	DatabaseInMemory     = "in-memory"
)

// Report is the JSON body returned by GET /health.
type Report struct {
	Service  string `json:"service"`
	Status   string `json:"status"`
	Database string `json:"database"`
	Error    string `json:"error,omitempty"`
}

// Probe checks the backing store. A nil Probe means the service runs on
// in-memory repositories.
type Probe interface {
	Ping(ctx context.Context) error
}

// Handler returns a gin handler reporting the health of service.
func Handler(service string, probe Probe) gin.HandlerFunc {
	return func(c *gin.Context) {
		report, status := Check(c.Request.Context(), service, probe)
		c.JSON(status, report)
	}
}

// Check evaluates probe and returns the report with its HTTP status.
func Check(ctx context.Context, service string, probe Probe) (Report, int) {
	if probe == nil {
		return Report{Service: service, Status: "healthy", Database: DatabaseInMemory}, http.StatusOK
	}
	if err := probe.Ping(ctx); err != nil {
		return Report{
			Service:  service,
			Status:   "unhealthy",
			Database: DatabaseDisconnected,
			Error:    err.Error(),
		}, http.StatusServiceUnavailable
	}
	return Report{Service: service, Status: "healthy", Database: DatabaseConnected}, http.StatusOK
}
