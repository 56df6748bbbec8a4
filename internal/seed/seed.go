// Package seed заполняет хранилище тестовыми данными для ручной проверки API.
package seed

import (
	"context"
	"fmt"

	"github.com/Dhoini/crm-service/internal/domain"
	"github.com/Dhoini/crm-service/pkg/logger"
	"github.com/shopspring/decimal"
)

// CustomerStore часть сервиса клиентов, нужная для заполнения
type CustomerStore interface {
	Create(ctx context.Context, req domain.CustomerRequest) (domain.Customer, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// ProductStore часть сервиса товаров, нужная для заполнения
type ProductStore interface {
	Create(ctx context.Context, req domain.ProductRequest) (domain.Product, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// Result итог заполнения
type Result struct {
	DeletedCustomers int64
	DeletedProducts  int64
	Customers        []domain.Customer
	Products         []domain.Product
}

func intPtr(n int) *int { return &n }

// Customers фиксированный набор клиентов
func Customers() []domain.CustomerRequest {
	return []domain.CustomerRequest{
		{Name: "Alice", Email: "alice@example.com", Phone: "+1234567890"},
		{Name: "Bob", Email: "bob@example.com", Phone: "123-456-7890"},
	}
}

// Products фиксированный набор товаров
func Products() []domain.ProductRequest {
	return []domain.ProductRequest{
		{Name: "Laptop", Price: decimal.RequireFromString("999.99"), Stock: intPtr(10)},
		{Name: "Phone", Price: decimal.RequireFromString("499.50"), Stock: intPtr(15)},
	}
}

// Run удаляет всех клиентов и товары (заказы удаляются вместе с клиентами)
// и создает фиксированный набор записей. Повторный запуск дает тот же набор.
func Run(ctx context.Context, customers CustomerStore, products ProductStore, log *logger.Logger) (Result, error) {
	var res Result
	var err error

	if res.DeletedCustomers, err = customers.DeleteAll(ctx); err != nil {
		return res, fmt.Errorf("failed to clear customers: %w", err)
	}
	if res.DeletedProducts, err = products.DeleteAll(ctx); err != nil {
		return res, fmt.Errorf("failed to clear products: %w", err)
	}

	for _, req := range Customers() {
		c, err := customers.Create(ctx, req)
		if err != nil {
			return res, fmt.Errorf("failed to seed customer %s: %w", req.Name, err)
		}
		res.Customers = append(res.Customers, c)
	}

	for _, req := range Products() {
		p, err := products.Create(ctx, req)
		if err != nil {
			return res, fmt.Errorf("failed to seed product %s: %w", req.Name, err)
		}
		res.Products = append(res.Products, p)
	}

	log.Infow("Database seeded successfully",
		"deletedCustomers", res.DeletedCustomers,
		"deletedProducts", res.DeletedProducts,
		"customers", len(res.Customers),
		"products", len(res.Products),
	)
	return res, nil
}
