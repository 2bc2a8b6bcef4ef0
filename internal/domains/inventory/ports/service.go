package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Apurer/go-gin-microservices/internal/domains/inventory/domain"
)

// CreateItemInput carries the fields of a new item.
type CreateItemInput struct {
	ID       string
	Name     string
	Quantity int
	Price    decimal.Decimal
}

// UpdateItemInput is a partial update; nil fields are left unchanged.
type UpdateItemInput struct {
	Quantity *int
	Price    *decimal.Decimal
}

// Service exposes inventory use cases to adapters.
type Service interface {
	ListItems(ctx context.Context) ([]*domain.Item, error)
	GetItem(ctx context.Context, id string) (*domain.Item, error)
	CreateItem(ctx context.Context, input CreateItemInput) (*domain.Item, error)
	UpdateItem(ctx context.Context, id string, input UpdateItemInput) (*domain.Item, error)
	ReserveItem(ctx context.Context, id string, quantity int) (*domain.Item, error)
	RestockItem(ctx context.Context, id string, quantity int) (*domain.Item, error)
	DeleteItem(ctx context.Context, id string) error
}
