package application

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-microservices/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-microservices/internal/domains/orders/ports"
)

// Service implements the orders use cases.
type Service struct {
	repo         ports.Repository
	users        ports.UserDirectory
	orchestrator *Orchestrator
}

// NewService wires the order store, the remote collaborators, and the creation orchestrator.
func NewService(repo ports.Repository, users ports.UserDirectory, stock ports.StockLedger, opts ...OrchestratorOption) *Service {
	return &Service{
		repo:         repo,
		users:        users,
		orchestrator: NewOrchestrator(users, stock, repo, opts...),
	}
}

// Orchestrator exposes the creation steps for durable execution.
func (s *Service) Orchestrator() *Orchestrator {
	return s.orchestrator
}

func (s *Service) CreateOrder(ctx context.Context, input ports.CreateOrderInput) (*domain.Order, error) {
	return s.orchestrator.Run(ctx, input)
}

// GetOrder loads the order and attaches the user document when available.
func (s *Service) GetOrder(ctx context.Context, id string) (*ports.OrderDetails, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	details := &ports.OrderDetails{Order: order}
	if s.users != nil {
		if user, ok := s.users.FetchUser(ctx, order.UserID); ok {
			details.User = user
		}
	}
	return details, nil
}

func (s *Service) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	return s.repo.List(ctx)
}

// UpdateStatus accepts any casing and returns the normalized status.
func (s *Service) UpdateStatus(ctx context.Context, id, raw string) (domain.Status, error) {
	status, err := domain.ParseStatus(raw)
	if err != nil {
		return "", mapError(err)
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return "", err
	}
	return status, nil
}

func (s *Service) DeleteOrder(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("order id is required")
	}
	return s.repo.Delete(ctx, id)
}

var _ ports.Service = (*Service)(nil)
