package serviceclient

import (
	"os"
	"sort"
	"strings"
)

// Name is the logical name of a downstream service.
type Name string

const (
	Users     Name = "users"
	Orders    Name = "orders"
	Inventory Name = "inventory"
)

// Default in-cluster base URLs used when the environment does not override them.
const (
	DefaultUsersURL     = "http://users-service:5001"
	DefaultOrdersURL    = "http://orders-service:5002"
	DefaultInventoryURL = "http://inventory-service:5003"
)

// Endpoints maps logical service names to base URLs. It is built once at startup
// and never mutated, so it can be shared between goroutines without locking.
type Endpoints struct {
	urls map[Name]string
}

// NewEndpoints copies the given mapping, trimming trailing slashes from each URL.
func NewEndpoints(urls map[Name]string) Endpoints {
	copied := make(map[Name]string, len(urls))
	for name, url := range urls {
		copied[name] = strings.TrimRight(strings.TrimSpace(url), "/")
	}
	return Endpoints{urls: copied}
}

// EndpointsFromEnv resolves USERS_SERVICE_URL, ORDERS_SERVICE_URL and
// INVENTORY_SERVICE_URL, falling back to the in-cluster defaults.
func EndpointsFromEnv() Endpoints {
	return NewEndpoints(map[Name]string{
		Users:     envDefault("USERS_SERVICE_URL", DefaultUsersURL),
		Orders:    envDefault("ORDERS_SERVICE_URL", DefaultOrdersURL),
		Inventory: envDefault("INVENTORY_SERVICE_URL", DefaultInventoryURL),
	})
}

// URL returns the base URL registered for name.
func (e Endpoints) URL(name Name) (string, bool) {
	url, ok := e.urls[name]
	return url, ok
}

// Names lists the configured services in a stable order.
func (e Endpoints) Names() []Name {
	names := make([]Name, 0, len(e.urls))
	for name := range e.urls {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}
