package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Apurer/go-gin-microservices/internal/domains/inventory/domain"
	"github.com/Apurer/go-gin-microservices/internal/domains/inventory/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory inventory adapter. It has no view of orders, so
// Delete never reports ports.ErrInUse.
type Repository struct {
	mu    sync.RWMutex
	items map[string]*domain.Item
}

func NewRepository() *Repository {
	return &Repository{items: map[string]*domain.Item{}}
}

// NewSeededRepository returns a repository holding the demo catalogue.
func NewSeededRepository() *Repository {
	repo := NewRepository()
	now := time.Now().UTC()
	for _, seed := range []struct {
		id, name, price string
		quantity        int
	}{
		{"ITEM001", "Docker Handbook", "29.99", 50},
		{"ITEM002", "Container Stickers", "4.99", 200},
		{"ITEM003", "Kubernetes Mug", "14.99", 25},
		{"ITEM004", "DevOps T-Shirt", "24.99", 75},
	} {
		repo.items[seed.id] = &domain.Item{
			ID:        seed.id,
			Name:      seed.name,
			Quantity:  seed.quantity,
			Price:     decimal.RequireFromString(seed.price),
			CreatedAt: now,
			UpdatedAt: now,
		}
	}
	return repo
}

func (r *Repository) Create(_ context.Context, item *domain.Item) (*domain.Item, error) {
	if item == nil {
		return nil, errors.New("item is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.items[item.ID]; exists {
		return nil, ports.ErrAlreadyExists
	}
	clone := *item
	r.items[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *Repository) Update(_ context.Context, item *domain.Item) (*domain.Item, error) {
	if item == nil {
		return nil, errors.New("item is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.items[item.ID]; !exists {
		return nil, ports.ErrNotFound
	}
	clone := *item
	r.items[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*domain.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *item
	return &clone, nil
}

func (r *Repository) List(_ context.Context) ([]*domain.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Item, 0, len(r.items))
	for _, item := range r.items {
		clone := *item
		list = append(list, &clone)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (r *Repository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *Repository) Reserve(_ context.Context, id string, quantity int) (*domain.Item, error) {
	return r.mutate(id, func(item *domain.Item) error { return item.Reserve(quantity) })
}

func (r *Repository) Restock(_ context.Context, id string, quantity int) (*domain.Item, error) {
	return r.mutate(id, func(item *domain.Item) error { return item.Restock(quantity) })
}

func (r *Repository) mutate(id string, fn func(*domain.Item) error) (*domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	next := *item
	if err := fn(&next); err != nil {
		return nil, err
	}
	r.items[id] = &next
	out := next
	return &out, nil
}
