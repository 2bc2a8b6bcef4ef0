package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	inventoryhttp "github.com/Apurer/go-gin-microservices/internal/domains/inventory/adapters/httpapi"
	inventorymemory "github.com/Apurer/go-gin-microservices/internal/domains/inventory/adapters/memory"
	inventoryapp "github.com/Apurer/go-gin-microservices/internal/domains/inventory/application"
	ordersmemory "github.com/Apurer/go-gin-microservices/internal/domains/orders/adapters/memory"
	ordersapp "github.com/Apurer/go-gin-microservices/internal/domains/orders/application"
	"github.com/Apurer/go-gin-microservices/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-microservices/internal/domains/orders/ports"
	usershttp "github.com/Apurer/go-gin-microservices/internal/domains/users/adapters/httpapi"
	usersmemory "github.com/Apurer/go-gin-microservices/internal/domains/users/adapters/memory"
	usersapp "github.com/Apurer/go-gin-microservices/internal/domains/users/application"
	"github.com/Apurer/go-gin-microservices/internal/platform/serviceclient"
)

type downstream struct {
	users     *httptest.Server
	inventory *httptest.Server
	stock     *inventoryapp.Service
}

func startDownstream(t *testing.T) *downstream {
	t.Helper()
	gin.SetMode(gin.TestMode)

	usersRouter := gin.New()
	usershttp.NewAPI(usersapp.NewService(usersmemory.NewSeededRepository())).Register(usersRouter)

	stock := inventoryapp.NewService(inventorymemory.NewSeededRepository())
	inventoryRouter := gin.New()
	inventoryhttp.NewAPI(stock).Register(inventoryRouter)

	d := &downstream{
		users:     httptest.NewServer(usersRouter),
		inventory: httptest.NewServer(inventoryRouter),
		stock:     stock,
	}
	t.Cleanup(d.users.Close)
	t.Cleanup(d.inventory.Close)
	return d
}

func (d *downstream) client() *serviceclient.Client {
	return serviceclient.New(serviceclient.NewEndpoints(map[serviceclient.Name]string{
		serviceclient.Users:     d.users.URL,
		serviceclient.Inventory: d.inventory.URL,
	}))
}

func closedURL() string {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	return srv.URL
}

func TestUserDirectory(t *testing.T) {
	d := startDownstream(t)
	directory := NewUserDirectory(d.client())
	ctx := context.Background()

	assert.Equal(t, ports.UserFound, directory.CheckUser(ctx, "1"))
	assert.Equal(t, ports.UserMissing, directory.CheckUser(ctx, "404"))
	assert.Equal(t, ports.UserMissing, directory.CheckUser(ctx, "no such user"))

	user, ok := directory.FetchUser(ctx, "2")
	require.True(t, ok)
	assert.Contains(t, string(user), `"name":"Bob"`)

	_, ok = directory.FetchUser(ctx, "404")
	assert.False(t, ok)
}

func TestUserDirectory_Unavailable(t *testing.T) {
	client := serviceclient.New(serviceclient.NewEndpoints(map[serviceclient.Name]string{
		serviceclient.Users: closedURL(),
	}))
	directory := NewUserDirectory(client)

	assert.Equal(t, ports.UserUnavailable, directory.CheckUser(context.Background(), "1"))
}

func TestStockLedger(t *testing.T) {
	d := startDownstream(t)
	ledger := NewStockLedger(d.client())
	ctx := context.Background()

	assert.Equal(t, ports.StockSufficient, ledger.CheckStock(ctx, "ITEM003", 25))
	assert.Equal(t, ports.StockInsufficient, ledger.CheckStock(ctx, "ITEM003", 26))
	assert.Equal(t, ports.StockInsufficient, ledger.CheckStock(ctx, "NOPE", 1))

	require.NoError(t, ledger.Reserve(ctx, "ITEM003", 5))
	item, err := d.stock.GetItem(ctx, "ITEM003")
	require.NoError(t, err)
	assert.Equal(t, 20, item.Quantity)

	err = ledger.Reserve(ctx, "ITEM003", 500)
	assert.ErrorIs(t, err, ErrReservationRejected)
}

func TestStockLedger_Unavailable(t *testing.T) {
	client := serviceclient.New(serviceclient.NewEndpoints(map[serviceclient.Name]string{
		serviceclient.Inventory: closedURL(),
	}))
	ledger := NewStockLedger(client)

	assert.Equal(t, ports.StockUnknown, ledger.CheckStock(context.Background(), "ITEM001", 1))
	assert.Error(t, ledger.Reserve(context.Background(), "ITEM001", 1))
}

func TestStockLedger_UnreadableBodyIsUnknown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"quantity":"lots"}`))
	}))
	t.Cleanup(srv.Close)
	client := serviceclient.New(serviceclient.NewEndpoints(map[serviceclient.Name]string{
		serviceclient.Inventory: srv.URL,
	}))

	assert.Equal(t, ports.StockUnknown, NewStockLedger(client).CheckStock(context.Background(), "ITEM001", 1))
}

func TestOrchestrator_AgainstLiveServices(t *testing.T) {
	d := startDownstream(t)
	client := d.client()
	repo := ordersmemory.NewRepository()
	orch := ordersapp.NewOrchestrator(NewUserDirectory(client), NewStockLedger(client), repo)
	ctx := context.Background()

	order, err := orch.Run(ctx, ports.CreateOrderInput{
		UserID: "1",
		Items:  []domain.Item{{ItemID: "ITEM001", Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Regexp(t, `^ORD[A-Z0-9]{6}$`, order.ID)
	assert.Equal(t, domain.StatusPending, order.Status)

	item, err := d.stock.GetItem(ctx, "ITEM001")
	require.NoError(t, err)
	assert.Equal(t, 49, item.Quantity)

	_, err = orch.Run(ctx, ports.CreateOrderInput{
		UserID: "1",
		Items:  []domain.Item{{ItemID: "ITEM001", Quantity: 2}, {ItemID: "ITEM003", Quantity: 100}},
	})
	failure, ok := ordersapp.AsFailure(err)
	require.True(t, ok)
	assert.Equal(t, "Insufficient stock for ITEM003", failure.Reason)
	item, err = d.stock.GetItem(ctx, "ITEM001")
	require.NoError(t, err)
	assert.Equal(t, 49, item.Quantity)
}
