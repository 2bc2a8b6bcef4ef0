//go:build integration

package postgres

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-microservices/internal/domains/inventory/domain"
	"github.com/Apurer/go-gin-microservices/internal/domains/inventory/ports"
	"github.com/Apurer/go-gin-microservices/internal/platform/postgres/postgrestest"
)

func seedItem(t *testing.T, repo *Repository, id, name string, quantity int) *domain.Item {
	t.Helper()
	item, err := domain.NewItem(id, name, quantity, decimal.RequireFromString("14.99"))
	require.NoError(t, err)
	saved, err := repo.Create(context.Background(), item)
	require.NoError(t, err)
	return saved
}

func TestRepository_CreateListAndDuplicate(t *testing.T) {
	db := postgrestest.Start(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seedItem(t, repo, "ITEM003", "Kubernetes Mug", 25)
	seedItem(t, repo, "ITEM002", "Container Stickers", 200)

	dup, err := domain.NewItem("ITEM003", "Other", 1, decimal.Zero)
	require.NoError(t, err)
	_, err = repo.Create(ctx, dup)
	assert.ErrorIs(t, err, ports.ErrAlreadyExists)

	items, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Container Stickers", items[0].Name)
	assert.True(t, items[1].Price.Equal(decimal.RequireFromString("14.99")))
}

func TestRepository_ReserveIsGuarded(t *testing.T) {
	db := postgrestest.Start(t)
	repo := NewRepository(db)
	ctx := context.Background()
	seedItem(t, repo, "ITEM001", "Docker Handbook", 5)

	item, err := repo.Reserve(ctx, "ITEM001", 2)
	require.NoError(t, err)
	assert.Equal(t, 3, item.Quantity)

	_, err = repo.Reserve(ctx, "ITEM001", 4)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, err = repo.Reserve(ctx, "missing", 1)
	assert.ErrorIs(t, err, ports.ErrNotFound)

	item, err = repo.Restock(ctx, "ITEM001", 10)
	require.NoError(t, err)
	assert.Equal(t, 13, item.Quantity)
}

func TestRepository_DeleteGuardsOrders(t *testing.T) {
	db := postgrestest.Start(t)
	repo := NewRepository(db)
	ctx := context.Background()
	seedItem(t, repo, "ITEM004", "DevOps T-Shirt", 75)

	require.NoError(t, db.Exec("INSERT INTO orders (id, user_id, status, item_ids, created_at) VALUES ('ORDTEST1', '1', 'pending', ARRAY['ITEM004'], NOW())").Error)
	assert.ErrorIs(t, repo.Delete(ctx, "ITEM004"), ports.ErrInUse)

	require.NoError(t, db.Exec("DELETE FROM orders").Error)
	require.NoError(t, repo.Delete(ctx, "ITEM004"))
	assert.ErrorIs(t, repo.Delete(ctx, "ITEM004"), ports.ErrNotFound)
}
