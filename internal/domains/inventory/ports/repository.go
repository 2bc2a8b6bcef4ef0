package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-microservices/internal/domains/inventory/domain"
)

var (
	ErrNotFound      = errors.New("item not found")
	ErrAlreadyExists = errors.New("item id already exists")
	ErrInUse         = errors.New("item appears in orders")
)

// Repository persists inventory items.
type Repository interface {
	// Create inserts a new item; it returns ErrAlreadyExists on a duplicate id.
	Create(ctx context.Context, item *domain.Item) (*domain.Item, error)
	Update(ctx context.Context, item *domain.Item) (*domain.Item, error)
	GetByID(ctx context.Context, id string) (*domain.Item, error)
	// List returns items ordered by name.
	List(ctx context.Context) ([]*domain.Item, error)
	// Delete returns ErrInUse when an order references the item.
	Delete(ctx context.Context, id string) error
	// Reserve decrements stock in a single atomic step and returns the item
	// after the decrement, or a *domain.InsufficientStockError.
	Reserve(ctx context.Context, id string, quantity int) (*domain.Item, error)
	// Restock increments stock atomically and returns the updated item.
	Restock(ctx context.Context, id string, quantity int) (*domain.Item, error)
}
