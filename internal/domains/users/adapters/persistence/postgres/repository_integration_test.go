//go:build integration

package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-microservices/internal/domains/users/domain"
	"github.com/Apurer/go-gin-microservices/internal/domains/users/ports"
	"github.com/Apurer/go-gin-microservices/internal/platform/postgres/postgrestest"
)

func TestRepository_SaveAndGetByID(t *testing.T) {
	db := postgrestest.Start(t)
	repo := NewRepository(db)
	ctx := context.Background()

	user, err := domain.NewUser("Alice Doe", "")
	require.NoError(t, err)

	saved, err := repo.Save(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, user.ID, saved.ID)
	assert.Equal(t, "alice.doe@example.com", saved.Email)

	fetched, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice Doe", fetched.Name)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestRepository_DeleteGuardsOrders(t *testing.T) {
	db := postgrestest.Start(t)
	repo := NewRepository(db)
	ctx := context.Background()

	user, err := domain.NewUser("Bob", "bob@example.com")
	require.NoError(t, err)
	_, err = repo.Save(ctx, user)
	require.NoError(t, err)

	require.NoError(t, db.Exec("INSERT INTO orders (id, user_id, status, created_at) VALUES ('ORDTEST1', ?, 'pending', NOW())", user.ID).Error)
	assert.ErrorIs(t, repo.Delete(ctx, user.ID), ports.ErrHasOrders)

	require.NoError(t, db.Exec("DELETE FROM orders WHERE id = 'ORDTEST1'").Error)
	require.NoError(t, repo.Delete(ctx, user.ID))
	assert.ErrorIs(t, repo.Delete(ctx, user.ID), ports.ErrNotFound)
}
