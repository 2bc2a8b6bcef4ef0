package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-microservices/internal/domains/orders/domain"
)

var ErrNotFound = errors.New("order not found")

// Repository persists orders together with their item lines.
type Repository interface {
	Save(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	// List returns orders newest first.
	List(ctx context.Context) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.Status) error
	// Delete removes the order and its item lines.
	Delete(ctx context.Context, id string) error
}
