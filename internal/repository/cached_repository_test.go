package repository

import (
	"context"
	"testing"

	"github.com/Dhoini/crm-service/internal/domain"
	"github.com/Dhoini/crm-service/pkg/logger"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCache(t *testing.T) (*RedisCacheRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	cache, err := NewRedisCacheRepository(mr.Addr(), "", 0, 0, logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })
	return cache, mr
}

func TestNewRedisCacheRepository_Unreachable(t *testing.T) {
	_, err := NewRedisCacheRepository("127.0.0.1:1", "", 0, 0, logger.NewNop())
	assert.Error(t, err)
}

func TestCachedCustomerRepository(t *testing.T) {
	ctx := context.Background()
	cache, mr := newCache(t)
	base := newStore().Customers()
	repo := NewCachedCustomerRepository(base, cache, logger.NewNop())

	alice, err := repo.Create(ctx, domain.Customer{Name: "Alice", Email: "alice@example.com", Phone: "+1234567890"})
	require.NoError(t, err)
	assert.True(t, mr.Exists(customerKeyPrefix+alice.ID.String()))

	got, err := repo.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.Email, got.Email)
	assert.Equal(t, alice.Phone, got.Phone)

	_, err = repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	n, err := repo.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.False(t, mr.Exists(customerKeyPrefix+alice.ID.String()))

	_, err = repo.GetByID(ctx, alice.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCachedProductRepository_GetByIDsMixesCacheAndStore(t *testing.T) {
	ctx := context.Background()
	cache, mr := newCache(t)
	base := newStore().Products()
	repo := NewCachedProductRepository(base, cache, logger.NewNop())

	// создан мимо кеша
	laptop, err := base.Create(ctx, domain.Product{Name: "Laptop", Price: decimal.RequireFromString("999.99"), Stock: 10})
	require.NoError(t, err)
	phone, err := repo.Create(ctx, domain.Product{Name: "Phone", Price: decimal.RequireFromString("499.50"), Stock: 15})
	require.NoError(t, err)
	assert.False(t, mr.Exists(productKeyPrefix+laptop.ID.String()))

	got, err := repo.GetByIDs(ctx, []uuid.UUID{laptop.ID, uuid.New(), phone.ID, laptop.ID})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, laptop.ID, got[0].ID)
	assert.True(t, got[0].Price.Equal(decimal.RequireFromString("999.99")))
	assert.Equal(t, phone.ID, got[1].ID)
	assert.True(t, mr.Exists(productKeyPrefix+laptop.ID.String()), "misses are cached after lookup")

	_, err = repo.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, mr.Keys())
}
