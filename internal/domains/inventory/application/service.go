package application

import (
	"context"

	"github.com/Apurer/go-gin-microservices/internal/domains/inventory/domain"
	"github.com/Apurer/go-gin-microservices/internal/domains/inventory/ports"
)

// Service implements the inventory use cases.
type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListItems(ctx context.Context) ([]*domain.Item, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetItem(ctx context.Context, id string) (*domain.Item, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) CreateItem(ctx context.Context, input ports.CreateItemInput) (*domain.Item, error) {
	item, err := domain.NewItem(input.ID, input.Name, input.Quantity, input.Price)
	if err != nil {
		return nil, mapError(err)
	}
	return s.repo.Create(ctx, item)
}

func (s *Service) UpdateItem(ctx context.Context, id string, input ports.UpdateItemInput) (*domain.Item, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := item.Adjust(input.Quantity, input.Price); err != nil {
		return nil, mapError(err)
	}
	return s.repo.Update(ctx, item)
}

// ReserveItem decrements stock. The repository performs the check and the
// decrement as one step, so concurrent reservations cannot oversell.
func (s *Service) ReserveItem(ctx context.Context, id string, quantity int) (*domain.Item, error) {
	if quantity <= 0 {
		return nil, mapError(domain.ErrNonPositiveQuantity)
	}
	return s.repo.Reserve(ctx, id, quantity)
}

func (s *Service) RestockItem(ctx context.Context, id string, quantity int) (*domain.Item, error) {
	if quantity <= 0 {
		return nil, mapError(domain.ErrNonPositiveQuantity)
	}
	return s.repo.Restock(ctx, id, quantity)
}

func (s *Service) DeleteItem(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

var _ ports.Service = (*Service)(nil)
