package repository

import (
	"context"

	"github.com/Dhoini/crm-service/internal/domain"
	"github.com/google/uuid"
)

// CustomerRepository интерфейс для работы с клиентами
type CustomerRepository interface {
	Create(ctx context.Context, customer domain.Customer) (domain.Customer, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Customer, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context) ([]domain.Customer, error)
	Filter(ctx context.Context, filter domain.CustomerFilter, page domain.Page) ([]domain.Customer, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// ProductRepository интерфейс для работы с товарами
type ProductRepository interface {
	Create(ctx context.Context, product domain.Product) (domain.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Product, error)
	// GetByIDs возвращает найденные товары; отсутствующие идентификаторы пропускаются
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	Filter(ctx context.Context, filter domain.ProductFilter, page domain.Page) ([]domain.Product, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// OrderRepository интерфейс для работы с заказами.
// Create сохраняет заказ вместе со связями на товары как одну операцию.
type OrderRepository interface {
	Create(ctx context.Context, order domain.Order) (domain.Order, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	Filter(ctx context.Context, filter domain.OrderFilter, page domain.Page) ([]domain.Order, error)
}

// Поля, по которым разрешена сортировка
var (
	CustomerSortFields = []string{"name", "email", "createdAt"}
	ProductSortFields  = []string{"name", "price", "stock", "createdAt"}
	OrderSortFields    = []string{"orderDate", "totalAmount"}
)
