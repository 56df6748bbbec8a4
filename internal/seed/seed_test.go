package seed

import (
	"context"
	"testing"

	"github.com/Dhoini/crm-service/internal/domain"
	"github.com/Dhoini/crm-service/internal/repository"
	"github.com/Dhoini/crm-service/internal/service"
	"github.com/Dhoini/crm-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunIsIdempotent(t *testing.T) {
	ctx := context.Background()
	log := logger.NewNop()
	store := repository.NewInMemoryStore(log)

	customers := service.NewCustomerService(store.Customers(), nil, nil, log)
	products := service.NewProductService(store.Products(), nil, nil, log)
	orders := service.NewOrderService(store.Orders(), store.Customers(), store.Products(), nil, nil, service.OrderOptions{}, log)

	first, err := Run(ctx, customers, products, log)
	require.NoError(t, err)
	assert.Zero(t, first.DeletedCustomers)

	_, err = orders.Create(ctx, domain.OrderRequest{
		CustomerID: first.Customers[0].ID.String(),
		ProductIDs: []string{first.Products[0].ID.String()},
	})
	require.NoError(t, err)

	second, err := Run(ctx, customers, products, log)
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.DeletedCustomers)
	assert.Equal(t, int64(2), second.DeletedProducts)

	allCustomers, err := customers.List(ctx)
	require.NoError(t, err)
	assert.Len(t, allCustomers, 2)

	allProducts, err := products.List(ctx)
	require.NoError(t, err)
	require.Len(t, allProducts, 2)
	assert.Equal(t, "999.99", allProducts[0].Price.StringFixed(2))
	assert.Equal(t, 15, allProducts[1].Stock)

	allOrders, err := orders.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, allOrders)
}
