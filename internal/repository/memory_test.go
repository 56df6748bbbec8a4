package repository

import (
	"context"
	"testing"
	"time"

	"github.com/Dhoini/crm-service/internal/domain"
	"github.com/Dhoini/crm-service/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore() *InMemoryStore {
	return NewInMemoryStore(logger.NewNop())
}

func TestInMemoryCustomers_CreateAndUniqueness(t *testing.T) {
	ctx := context.Background()
	repo := newStore().Customers()

	alice, err := repo.Create(ctx, domain.Customer{Name: "Alice", Email: "alice@example.com"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, alice.ID)
	assert.False(t, alice.CreatedAt.IsZero())

	_, err = repo.Create(ctx, domain.Customer{Name: "Alice 2", Email: "alice@example.com"})
	assert.ErrorIs(t, err, ErrDuplicate)

	exists, err := repo.ExistsByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByEmail(ctx, "ALICE@example.com")
	require.NoError(t, err)
	assert.False(t, exists, "email match is exact")

	got, err := repo.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, alice, got)

	_, err = repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInMemoryCustomers_FilterSortPage(t *testing.T) {
	ctx := context.Background()
	repo := newStore().Customers()

	for _, c := range []domain.Customer{
		{Name: "Charlie", Email: "charlie@corp.io", Phone: "+4912345678"},
		{Name: "Alice", Email: "alice@example.com", Phone: "+1234567890"},
		{Name: "Bob", Email: "bob@example.com", Phone: "123-456-7890"},
	} {
		_, err := repo.Create(ctx, c)
		require.NoError(t, err)
	}

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Charlie", all[0].Name, "list keeps creation order")

	got, err := repo.Filter(ctx, domain.CustomerFilter{Email: "example"}, domain.Page{OrderBy: "name"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Alice", got[0].Name)
	assert.Equal(t, "Bob", got[1].Name)

	got, err = repo.Filter(ctx, domain.CustomerFilter{}, domain.Page{OrderBy: "-name", Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Bob", got[0].Name)

	got, err = repo.Filter(ctx, domain.CustomerFilter{}, domain.Page{OrderBy: "-email"})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"charlie@corp.io", "bob@example.com", "alice@example.com"},
		[]string{got[0].Email, got[1].Email, got[2].Email})

	got, err = repo.Filter(ctx, domain.CustomerFilter{PhonePattern: "+"}, domain.Page{})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = repo.Filter(ctx, domain.CustomerFilter{}, domain.Page{OrderBy: "phone"})
	assert.True(t, domain.IsValidation(err))
}

func TestInMemoryProducts_GetByIDsSkipsMissing(t *testing.T) {
	ctx := context.Background()
	repo := newStore().Products()

	laptop, err := repo.Create(ctx, domain.Product{Name: "Laptop", Price: decimal.RequireFromString("999.99"), Stock: 10})
	require.NoError(t, err)
	phone, err := repo.Create(ctx, domain.Product{Name: "Phone", Price: decimal.RequireFromString("499.50"), Stock: 15})
	require.NoError(t, err)

	got, err := repo.GetByIDs(ctx, []uuid.UUID{phone.ID, uuid.New(), laptop.ID})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, phone.ID, got[0].ID)
	assert.Equal(t, laptop.ID, got[1].ID)

	minPrice := decimal.RequireFromString("500")
	filtered, err := repo.Filter(ctx, domain.ProductFilter{PriceGte: &minPrice}, domain.Page{})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Laptop", filtered[0].Name)

	sorted, err := repo.Filter(ctx, domain.ProductFilter{}, domain.Page{OrderBy: "price"})
	require.NoError(t, err)
	assert.Equal(t, "Phone", sorted[0].Name)
}

func TestInMemoryOrders_CreateHydratesAndCascades(t *testing.T) {
	ctx := context.Background()
	store := newStore()
	customers, products, orders := store.Customers(), store.Products(), store.Orders()

	bob, err := customers.Create(ctx, domain.Customer{Name: "Bob", Email: "bob@example.com"})
	require.NoError(t, err)
	laptop, err := products.Create(ctx, domain.Product{Name: "Laptop", Price: decimal.RequireFromString("999.99")})
	require.NoError(t, err)

	date := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	order, err := orders.Create(ctx, domain.Order{
		CustomerID:  bob.ID,
		Products:    []domain.Product{laptop},
		OrderDate:   date,
		TotalAmount: laptop.Price,
	})
	require.NoError(t, err)
	assert.Equal(t, "Bob", order.Customer.Name)
	require.Len(t, order.Products, 1)
	assert.Equal(t, date, order.OrderDate)

	byCustomer, err := orders.Filter(ctx, domain.OrderFilter{CustomerName: "bob", ProductName: "lap"}, domain.Page{})
	require.NoError(t, err)
	assert.Len(t, byCustomer, 1)

	_, err = orders.Create(ctx, domain.Order{CustomerID: uuid.New(), Products: []domain.Product{laptop}})
	assert.ErrorIs(t, err, ErrInvalidData)

	_, err = products.DeleteAll(ctx)
	require.NoError(t, err)
	got, err := orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Products)
	assert.True(t, got.TotalAmount.Equal(decimal.RequireFromString("999.99")), "total is a snapshot")

	n, err := customers.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	all, err := orders.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
