package application

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-microservices/internal/domains/orders/adapters/memory"
	"github.com/Apurer/go-gin-microservices/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-microservices/internal/domains/orders/ports"
)

type fakeUsers struct {
	result ports.UserCheck
	calls  int
}

func (f *fakeUsers) CheckUser(_ context.Context, _ string) ports.UserCheck {
	f.calls++
	return f.result
}

func (f *fakeUsers) FetchUser(_ context.Context, userID string) (json.RawMessage, bool) {
	if f.result != ports.UserFound {
		return nil, false
	}
	return json.RawMessage(`{"id":"` + userID + `","name":"Alice"}`), true
}

type fakeStock struct {
	stock       map[string]int
	unreachable map[string]bool
	failReserve map[string]bool
	checks      []string
	reserves    []string
}

func newFakeStock(stock map[string]int) *fakeStock {
	if stock == nil {
		stock = map[string]int{}
	}
	return &fakeStock{stock: stock, unreachable: map[string]bool{}, failReserve: map[string]bool{}}
}

func (f *fakeStock) CheckStock(_ context.Context, itemID string, quantity int) ports.StockCheck {
	f.checks = append(f.checks, itemID)
	if f.unreachable[itemID] {
		return ports.StockUnknown
	}
	available, ok := f.stock[itemID]
	if !ok || available < quantity {
		return ports.StockInsufficient
	}
	return ports.StockSufficient
}

func (f *fakeStock) Reserve(_ context.Context, itemID string, quantity int) error {
	f.reserves = append(f.reserves, itemID)
	if f.failReserve[itemID] {
		return errors.New("reserve rejected")
	}
	f.stock[itemID] -= quantity
	return nil
}

type failingRepo struct {
	*memory.Repository
}

func (failingRepo) Save(context.Context, *domain.Order) (*domain.Order, error) {
	return nil, errors.New("disk full")
}

func requireFailure(t *testing.T, err error, kind FailureKind, reason string) {
	t.Helper()
	failure, ok := AsFailure(err)
	require.True(t, ok, "expected *Failure, got %v", err)
	assert.Equal(t, kind, failure.Kind)
	assert.Equal(t, reason, failure.Reason)
}

func TestRun_ValidationMakesNoRemoteCalls(t *testing.T) {
	cases := map[string]ports.CreateOrderInput{
		"missing user":  {Items: []domain.Item{{ItemID: "ITEM001", Quantity: 1}}},
		"no items":      {UserID: "1"},
		"empty item id": {UserID: "1", Items: []domain.Item{{Quantity: 1}}},
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			users := &fakeUsers{result: ports.UserFound}
			stock := newFakeStock(map[string]int{"ITEM001": 50})
			orch := NewOrchestrator(users, stock, memory.NewRepository())

			_, err := orch.Run(context.Background(), input)

			requireFailure(t, err, KindValidation, ReasonMissingFields)
			assert.Zero(t, users.calls)
			assert.Empty(t, stock.checks)
			assert.Empty(t, stock.reserves)
		})
	}
}

func TestRun_RejectsNonPositiveQuantity(t *testing.T) {
	users := &fakeUsers{result: ports.UserFound}
	orch := NewOrchestrator(users, newFakeStock(nil), memory.NewRepository())

	_, err := orch.Run(context.Background(), ports.CreateOrderInput{UserID: "1", Items: []domain.Item{{ItemID: "ITEM001"}}})

	failure, ok := AsFailure(err)
	require.True(t, ok)
	assert.Equal(t, KindValidation, failure.Kind)
	assert.Equal(t, http.StatusBadRequest, failure.HTTPStatus())
	assert.Zero(t, users.calls)
}

func TestRun_UserNotFoundSkipsStockChecks(t *testing.T) {
	stock := newFakeStock(map[string]int{"ITEM001": 50})
	orch := NewOrchestrator(&fakeUsers{result: ports.UserMissing}, stock, memory.NewRepository())

	_, err := orch.Run(context.Background(), ports.CreateOrderInput{UserID: "42", Items: []domain.Item{{ItemID: "ITEM001", Quantity: 1}}})

	requireFailure(t, err, KindBusinessRule, ReasonUserNotFound)
	assert.Empty(t, stock.checks)
}

func TestRun_UsersUnavailableSkipsStockChecks(t *testing.T) {
	stock := newFakeStock(map[string]int{"ITEM001": 50})
	orch := NewOrchestrator(&fakeUsers{result: ports.UserUnavailable}, stock, memory.NewRepository())

	_, err := orch.Run(context.Background(), ports.CreateOrderInput{UserID: "1", Items: []domain.Item{{ItemID: "ITEM001", Quantity: 1}}})

	requireFailure(t, err, KindDependencyUnavailable, ReasonUsersUnavailable)
	failure, _ := AsFailure(err)
	assert.Equal(t, http.StatusServiceUnavailable, failure.HTTPStatus())
	assert.Empty(t, stock.checks)
}

func TestRun_InsufficientStockStopsBeforeAnyReservation(t *testing.T) {
	stock := newFakeStock(map[string]int{"A": 10, "B": 5, "C": 10})
	repo := memory.NewRepository()
	orch := NewOrchestrator(&fakeUsers{result: ports.UserFound}, stock, repo)

	_, err := orch.Run(context.Background(), ports.CreateOrderInput{
		UserID: "1",
		Items: []domain.Item{
			{ItemID: "A", Quantity: 2},
			{ItemID: "B", Quantity: 100},
			{ItemID: "C", Quantity: 1},
		},
	})

	requireFailure(t, err, KindBusinessRule, "Insufficient stock for B")
	assert.Equal(t, []string{"A", "B"}, stock.checks)
	assert.Empty(t, stock.reserves)
	assert.Equal(t, 10, stock.stock["A"])
	orders, _ := repo.List(context.Background())
	assert.Empty(t, orders)
}

func TestRun_InventoryUnavailableStopsImmediately(t *testing.T) {
	stock := newFakeStock(map[string]int{"A": 10, "B": 10})
	stock.unreachable["A"] = true
	orch := NewOrchestrator(&fakeUsers{result: ports.UserFound}, stock, memory.NewRepository())

	_, err := orch.Run(context.Background(), ports.CreateOrderInput{
		UserID: "1",
		Items:  []domain.Item{{ItemID: "A", Quantity: 1}, {ItemID: "B", Quantity: 1}},
	})

	requireFailure(t, err, KindDependencyUnavailable, ReasonInventoryUnavailable)
	assert.Equal(t, []string{"A"}, stock.checks)
	assert.Empty(t, stock.reserves)
}

func TestRun_CreatesPendingOrderAndDecrementsStock(t *testing.T) {
	stock := newFakeStock(map[string]int{"ITEM001": 50})
	repo := memory.NewRepository()
	orch := NewOrchestrator(&fakeUsers{result: ports.UserFound}, stock, repo)

	order, err := orch.Run(context.Background(), ports.CreateOrderInput{
		UserID: "1",
		Items:  []domain.Item{{ItemID: "ITEM001", Quantity: 1}},
	})

	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^ORD[A-Z0-9]{6}$`), order.ID)
	assert.Equal(t, domain.StatusPending, order.Status)
	assert.Equal(t, 49, stock.stock["ITEM001"])

	stored, err := repo.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, "1", stored.UserID)
	assert.Equal(t, []domain.Item{{ItemID: "ITEM001", Quantity: 1}}, stored.Items)
}

func TestRun_ReservationFailureDoesNotAbort(t *testing.T) {
	stock := newFakeStock(map[string]int{"A": 10, "B": 10})
	stock.failReserve["A"] = true
	repo := memory.NewRepository()
	orch := NewOrchestrator(&fakeUsers{result: ports.UserFound}, stock, repo)

	order, err := orch.Run(context.Background(), ports.CreateOrderInput{
		UserID: "1",
		Items:  []domain.Item{{ItemID: "A", Quantity: 1}, {ItemID: "B", Quantity: 3}},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, stock.reserves)
	assert.Equal(t, 7, stock.stock["B"])
	_, err = repo.GetByID(context.Background(), order.ID)
	assert.NoError(t, err)
}

func TestRun_PersistFailureKeepsReservations(t *testing.T) {
	stock := newFakeStock(map[string]int{"A": 10})
	orch := NewOrchestrator(&fakeUsers{result: ports.UserFound}, stock, failingRepo{memory.NewRepository()})

	_, err := orch.Run(context.Background(), ports.CreateOrderInput{
		UserID: "1",
		Items:  []domain.Item{{ItemID: "A", Quantity: 4}},
	})

	require.Error(t, err)
	_, isFailure := AsFailure(err)
	assert.False(t, isFailure)
	assert.Equal(t, 6, stock.stock["A"])
}
