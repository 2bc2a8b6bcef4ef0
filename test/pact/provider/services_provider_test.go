//go:build pact
// +build pact

package provider_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/stretchr/testify/require"

	inventoryhttp "github.com/Apurer/go-gin-microservices/internal/domains/inventory/adapters/httpapi"
	inventorymemory "github.com/Apurer/go-gin-microservices/internal/domains/inventory/adapters/memory"
	inventoryobs "github.com/Apurer/go-gin-microservices/internal/domains/inventory/adapters/observability"
	inventoryapp "github.com/Apurer/go-gin-microservices/internal/domains/inventory/application"
	usershttp "github.com/Apurer/go-gin-microservices/internal/domains/users/adapters/httpapi"
	usersmemory "github.com/Apurer/go-gin-microservices/internal/domains/users/adapters/memory"
	usersapp "github.com/Apurer/go-gin-microservices/internal/domains/users/application"
	"github.com/Apurer/go-gin-microservices/internal/platform/health"
	pacttest "github.com/Apurer/go-gin-microservices/test/pact"
)

// resettable rebuilds the provider router from fresh seeded repositories.
type resettable struct {
	mu      sync.RWMutex
	build   func() http.Handler
	handler http.Handler
}

func newResettable(build func() http.Handler) *resettable {
	return &resettable{build: build, handler: build()}
}

func (r *resettable) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handler = r.build()
}

func (r *resettable) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mu.RLock()
	handler := r.handler
	r.mu.RUnlock()
	handler.ServeHTTP(w, req)
}

func verify(t *testing.T, provider, state string, app *resettable) {
	t.Helper()
	pactFile := filepath.ToSlash(pacttest.PactFile(t, provider))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}
	server := httptest.NewServer(app)
	t.Cleanup(server.Close)

	err := pactprovider.NewVerifier().VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: server.URL,
		Provider:        provider,
		PactFiles:       []string{pactFile},
		StateHandlers: models.StateHandlers{
			state: func(bool, models.ProviderState) (models.ProviderStateResponse, error) {
				app.reset()
				return nil, nil
			},
		},
		BeforeEach: func() error {
			app.reset()
			return nil
		},
	})
	require.NoError(t, err)
}

func TestUsersProviderPact(t *testing.T) {
	gin.SetMode(gin.TestMode)
	app := newResettable(func() http.Handler {
		router := gin.New()
		router.Use(gin.Recovery())
		router.GET("/health", health.Handler("users", nil))
		usershttp.NewAPI(usersapp.NewService(usersmemory.NewSeededRepository())).Register(router)
		return router
	})
	verify(t, pacttest.UsersProvider, pacttest.StateUsersSeeded, app)
}

func TestInventoryProviderPact(t *testing.T) {
	gin.SetMode(gin.TestMode)
	app := newResettable(func() http.Handler {
		router := gin.New()
		router.Use(gin.Recovery())
		router.GET("/health", health.Handler("inventory", nil))
		service := inventoryobs.New(inventoryapp.NewService(inventorymemory.NewSeededRepository()))
		inventoryhttp.NewAPI(service).Register(router)
		return router
	})
	verify(t, pacttest.InventoryProvider, pacttest.StateInventorySeeded, app)
}
