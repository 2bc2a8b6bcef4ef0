package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Apurer/go-gin-microservices/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-microservices/internal/platform/serviceclient"
)

var _ ports.StockLedger = (*StockLedger)(nil)

// ErrReservationRejected is returned when the inventory service refuses a reservation.
var ErrReservationRejected = errors.New("reservation rejected")

// StockLedger checks and reserves stock through the inventory service.
type StockLedger struct {
	caller serviceclient.Caller
}

func NewStockLedger(caller serviceclient.Caller) *StockLedger {
	return &StockLedger{caller: caller}
}

type stockLevel struct {
	Quantity *int `json:"quantity"`
}

type reserveRequest struct {
	Quantity int `json:"quantity"`
}

// CheckStock reads GET /inventory/{id}. A non-2xx answer (unknown item
// included) counts as insufficient; an unreachable service or an unreadable
// body counts as unknown.
func (l *StockLedger) CheckStock(ctx context.Context, itemID string, quantity int) ports.StockCheck {
	path, err := resourcePath("/inventory", "id", itemID)
	if err != nil {
		return ports.StockInsufficient
	}
	outcome := l.caller.Call(ctx, serviceclient.Inventory, http.MethodGet, path, nil)
	switch outcome.Kind {
	case serviceclient.KindRejected:
		return ports.StockInsufficient
	case serviceclient.KindUnavailable:
		return ports.StockUnknown
	}
	var level stockLevel
	if err := outcome.Decode(&level); err != nil || level.Quantity == nil {
		return ports.StockUnknown
	}
	if *level.Quantity < quantity {
		return ports.StockInsufficient
	}
	return ports.StockSufficient
}

// Reserve calls POST /inventory/{id}/reserve.
func (l *StockLedger) Reserve(ctx context.Context, itemID string, quantity int) error {
	path, err := resourcePath("/inventory", "id", itemID, "reserve")
	if err != nil {
		return fmt.Errorf("build reserve path: %w", err)
	}
	outcome := l.caller.Call(ctx, serviceclient.Inventory, http.MethodPost, path, reserveRequest{Quantity: quantity})
	switch outcome.Kind {
	case serviceclient.KindSuccess:
		return nil
	case serviceclient.KindRejected:
		return fmt.Errorf("%w: %s status %d: %s", ErrReservationRejected, itemID, outcome.Status, outcome.Body)
	default:
		return fmt.Errorf("reserve %s: %w", itemID, outcome.Err)
	}
}
