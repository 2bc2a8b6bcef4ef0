package ports

import (
	"context"
	"encoding/json"

	"github.com/Apurer/go-gin-microservices/internal/domains/orders/domain"
)

// CreateOrderInput is the order creation request.
type CreateOrderInput struct {
	UserID string
	Items  []domain.Item
}

// OrderDetails is an order with the owning user's document. User is nil when
// the users service could not provide it.
type OrderDetails struct {
	Order *domain.Order
	User  json.RawMessage
}

// Service exposes order use cases to adapters.
type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*domain.Order, error)
	GetOrder(ctx context.Context, id string) (*OrderDetails, error)
	ListOrders(ctx context.Context) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, id, status string) (domain.Status, error)
	DeleteOrder(ctx context.Context, id string) error
}

// WorkflowOrchestrator runs order creation, inline or on a durable engine.
type WorkflowOrchestrator interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*domain.Order, error)
}
