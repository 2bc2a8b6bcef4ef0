package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-microservices/internal/platform/serviceclient"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "POSTGRES_DSN", "USERS_SERVICE_URL", "ORDERS_SERVICE_URL", "INVENTORY_SERVICE_URL",
		"SERVICE_TIMEOUT_SECONDS", "TEMPORAL_ADDRESS", "TEMPORAL_NAMESPACE", "TEMPORAL_DISABLED",
		"GATEWAY_RATE_LIMIT", "REDIS_ADDR",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("gateway", "8080")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr())
	assert.Empty(t, cfg.PostgresDSN)
	assert.Equal(t, 5*time.Second, cfg.ServiceTimeout)
	assert.False(t, cfg.TemporalDisabled)
	url, ok := cfg.Endpoints.URL(serviceclient.Users)
	require.True(t, ok)
	assert.Equal(t, "http://users-service:5001", url)
	url, _ = cfg.Endpoints.URL(serviceclient.Orders)
	assert.Equal(t, "http://orders-service:5002", url)
	url, _ = cfg.Endpoints.URL(serviceclient.Inventory)
	assert.Equal(t, "http://inventory-service:5003", url)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "5002")
	t.Setenv("INVENTORY_SERVICE_URL", "http://localhost:6003/")
	t.Setenv("SERVICE_TIMEOUT_SECONDS", "2")
	t.Setenv("TEMPORAL_DISABLED", "true")
	t.Setenv("GATEWAY_RATE_LIMIT", "100-S")

	cfg, err := Load("orders", "5002")
	require.NoError(t, err)

	url, _ := cfg.Endpoints.URL(serviceclient.Inventory)
	assert.Equal(t, "http://localhost:6003", url)
	assert.Equal(t, 2*time.Second, cfg.ServiceTimeout)
	assert.True(t, cfg.TemporalDisabled)
	assert.Equal(t, "100-S", cfg.RateLimit)
}

func TestLoad_InvalidNumbers(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVICE_TIMEOUT_SECONDS", "soon")
	_, err := Load("users", "5001")
	assert.Error(t, err)

	clearEnv(t)
	t.Setenv("PORT", "http")
	_, err = Load("users", "5001")
	assert.Error(t, err)
}
