package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-microservices/internal/domains/users/domain"
)

var (
	ErrNotFound  = errors.New("user not found")
	ErrHasOrders = errors.New("user has existing orders")
)

// Repository persists users.
type Repository interface {
	Save(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// Delete removes the user; it returns ErrHasOrders when orders reference it.
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*domain.User, error)
}
