// Package config loads the environment-driven settings shared by every process.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"

	"github.com/Apurer/go-gin-microservices/internal/platform/serviceclient"
)

// Config carries environment-driven settings for one service process.
type Config struct {
	Service           string
	Port              string
	PostgresDSN       string
	Endpoints         serviceclient.Endpoints
	ServiceTimeout    time.Duration
	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool
	RateLimit         string
	RedisAddr         string
}

// Load reads an optional .env file, then the environment, applies defaults and
// validates numeric settings.
func Load(service, defaultPort string) (Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := Config{
		Service:           service,
		Port:              envDefault("PORT", defaultPort),
		PostgresDSN:       strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		Endpoints:         serviceclient.EndpointsFromEnv(),
		ServiceTimeout:    serviceclient.DefaultTimeout,
		TemporalAddress:   envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace: envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:  isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		RateLimit:         strings.TrimSpace(os.Getenv("GATEWAY_RATE_LIMIT")),
		RedisAddr:         strings.TrimSpace(os.Getenv("REDIS_ADDR")),
	}
	if raw := strings.TrimSpace(os.Getenv("SERVICE_TIMEOUT_SECONDS")); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds <= 0 {
			return Config{}, fmt.Errorf("SERVICE_TIMEOUT_SECONDS must be a positive integer")
		}
		cfg.ServiceTimeout = time.Duration(seconds) * time.Second
	}
	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return Config{}, fmt.Errorf("PORT must be numeric, got %q", cfg.Port)
	}
	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
