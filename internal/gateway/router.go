package gateway

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/go-gin-microservices/internal/platform/serviceclient"
)

// Version is reported by the banner route.
const Version = "2.0"

// Router bundles everything the gateway routes need.
type Router struct {
	Proxy     *Proxy
	Health    *HealthAggregator
	Metrics   *Metrics
	RateLimit gin.HandlerFunc
}

// Register mounts the banner, health, metrics and proxy routes. The rate
// limiter, when set, applies only to proxied routes.
func (rt Router) Register(r gin.IRouter) {
	r.Use(allowAnyOrigin)
	r.GET("/", banner)
	r.GET("/health", rt.Health.Handler())
	if rt.Metrics != nil {
		r.GET("/metrics", rt.Metrics.Handler())
	}

	proxied := r.Group("/")
	if rt.RateLimit != nil {
		proxied.Use(rt.RateLimit)
	}

	users := rt.Proxy.Handler(serviceclient.Users)
	proxied.GET("/users", users)
	proxied.GET("/users/:id", users)
	proxied.POST("/users", users)
	proxied.DELETE("/users/:id", users)

	orders := rt.Proxy.Handler(serviceclient.Orders)
	proxied.GET("/orders", orders)
	proxied.GET("/orders/:id", orders)
	proxied.POST("/orders", orders)
	proxied.PUT("/orders/:id/status", orders)
	proxied.DELETE("/orders/:id", orders)

	inventory := rt.Proxy.Handler(serviceclient.Inventory)
	proxied.GET("/inventory", inventory)
	proxied.GET("/inventory/:id", inventory)
	proxied.POST("/inventory", inventory)
	proxied.PUT("/inventory/:id", inventory)
	proxied.POST("/inventory/:id/reserve", inventory)
	proxied.POST("/inventory/:id/restock", inventory)
	proxied.DELETE("/inventory/:id", inventory)
}

func banner(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service":   "API Gateway",
		"version":   Version,
		"endpoints": []string{"/users", "/orders", "/inventory", "/health"},
		"message":   "Welcome to the Microservices Demo with PostgreSQL Persistence!",
	})
}

// allowAnyOrigin lets the browser frontend call the gateway from another origin.
func allowAnyOrigin(c *gin.Context) {
	header := c.Writer.Header()
	header.Set("Access-Control-Allow-Origin", "*")
	header.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	header.Set("Access-Control-Allow-Headers", "*")
	if c.Request.Method == http.MethodOptions {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}
	c.Next()
}
