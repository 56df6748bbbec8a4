package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Dhoini/crm-service/internal/domain"
	"github.com/Dhoini/crm-service/pkg/logger"
	"github.com/google/uuid"
)

// InMemoryStore хранилище всех трех видов записей в памяти.
// Используется для локальной разработки (database.driver=memory) и в тестах.
// Удаление клиента каскадно удаляет его заказы, удаление товара удаляет его из заказов,
// так же как ON DELETE CASCADE в схеме PostgreSQL.
type InMemoryStore struct {
	mutex sync.RWMutex
	log   *logger.Logger

	customers     map[uuid.UUID]domain.Customer
	customerOrder []uuid.UUID

	products     map[uuid.UUID]domain.Product
	productOrder []uuid.UUID

	orders     map[uuid.UUID]storedOrder
	orderOrder []uuid.UUID
}

type storedOrder struct {
	order      domain.Order
	productIDs []uuid.UUID
}

// NewInMemoryStore создает пустое хранилище в памяти
func NewInMemoryStore(log *logger.Logger) *InMemoryStore {
	return &InMemoryStore{
		log:       log,
		customers: make(map[uuid.UUID]domain.Customer),
		products:  make(map[uuid.UUID]domain.Product),
		orders:    make(map[uuid.UUID]storedOrder),
	}
}

// Customers возвращает репозиторий клиентов поверх хранилища
func (s *InMemoryStore) Customers() CustomerRepository { return &InMemoryCustomerRepository{s: s} }

// Products возвращает репозиторий товаров поверх хранилища
func (s *InMemoryStore) Products() ProductRepository { return &InMemoryProductRepository{s: s} }

// Orders возвращает репозиторий заказов поверх хранилища
func (s *InMemoryStore) Orders() OrderRepository { return &InMemoryOrderRepository{s: s} }

// InMemoryCustomerRepository реализация репозитория клиентов в памяти
type InMemoryCustomerRepository struct {
	s *InMemoryStore
}

// Create создает нового клиента
func (r *InMemoryCustomerRepository) Create(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	r.s.mutex.Lock()
	defer r.s.mutex.Unlock()

	// Проверка на уникальность email
	for _, c := range r.s.customers {
		if c.Email == customer.Email {
			return domain.Customer{}, ErrDuplicate
		}
	}

	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	if customer.CreatedAt.IsZero() {
		customer.CreatedAt = time.Now().UTC()
	}

	r.s.customers[customer.ID] = customer
	r.s.customerOrder = append(r.s.customerOrder, customer.ID)

	return customer, nil
}

// GetByID возвращает клиента по ID
func (r *InMemoryCustomerRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Customer, error) {
	r.s.mutex.RLock()
	defer r.s.mutex.RUnlock()

	customer, exists := r.s.customers[id]
	if !exists {
		return domain.Customer{}, ErrNotFound
	}
	return customer, nil
}

// ExistsByEmail проверяет наличие клиента с таким email (точное совпадение)
func (r *InMemoryCustomerRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	r.s.mutex.RLock()
	defer r.s.mutex.RUnlock()

	for _, c := range r.s.customers {
		if c.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// List возвращает всех клиентов в порядке создания
func (r *InMemoryCustomerRepository) List(ctx context.Context) ([]domain.Customer, error) {
	return r.Filter(ctx, domain.CustomerFilter{}, domain.Page{})
}

// Filter возвращает клиентов, удовлетворяющих фильтру
func (r *InMemoryCustomerRepository) Filter(ctx context.Context, filter domain.CustomerFilter, page domain.Page) ([]domain.Customer, error) {
	field, desc, err := page.SortField(CustomerSortFields...)
	if err != nil {
		return nil, err
	}

	r.s.mutex.RLock()
	customers := make([]domain.Customer, 0, len(r.s.customerOrder))
	for _, id := range r.s.customerOrder {
		if c := r.s.customers[id]; filter.Matches(c) {
			customers = append(customers, c)
		}
	}
	r.s.mutex.RUnlock()

	if field != "" {
		sort.SliceStable(customers, func(i, j int) bool {
			a, b := customers[i], customers[j]
			var cmp int
			switch field {
			case "name":
				cmp = strings.Compare(a.Name, b.Name)
			case "email":
				cmp = strings.Compare(a.Email, b.Email)
			default:
				cmp = a.CreatedAt.Compare(b.CreatedAt)
			}
			if desc {
				return cmp > 0
			}
			return cmp < 0
		})
	}

	return domain.Apply(customers, page), nil
}

// DeleteAll удаляет всех клиентов и их заказы
func (r *InMemoryCustomerRepository) DeleteAll(ctx context.Context) (int64, error) {
	r.s.mutex.Lock()
	defer r.s.mutex.Unlock()

	n := int64(len(r.s.customers))
	r.s.customers = make(map[uuid.UUID]domain.Customer)
	r.s.customerOrder = nil
	r.s.orders = make(map[uuid.UUID]storedOrder)
	r.s.orderOrder = nil

	r.s.log.Debugw("In-memory customers cleared", "count", n)
	return n, nil
}

// InMemoryProductRepository реализация репозитория товаров в памяти
type InMemoryProductRepository struct {
	s *InMemoryStore
}

// Create создает новый товар
func (r *InMemoryProductRepository) Create(ctx context.Context, product domain.Product) (domain.Product, error) {
	r.s.mutex.Lock()
	defer r.s.mutex.Unlock()

	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	if _, exists := r.s.products[product.ID]; exists {
		return domain.Product{}, ErrDuplicate
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now().UTC()
	}

	r.s.products[product.ID] = product
	r.s.productOrder = append(r.s.productOrder, product.ID)

	return product, nil
}

// GetByID возвращает товар по ID
func (r *InMemoryProductRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Product, error) {
	r.s.mutex.RLock()
	defer r.s.mutex.RUnlock()

	product, exists := r.s.products[id]
	if !exists {
		return domain.Product{}, ErrNotFound
	}
	return product, nil
}

// GetByIDs возвращает найденные товары в порядке переданных идентификаторов
func (r *InMemoryProductRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Product, error) {
	r.s.mutex.RLock()
	defer r.s.mutex.RUnlock()

	products := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.s.products[id]; ok {
			products = append(products, p)
		}
	}
	return products, nil
}

// List возвращает все товары в порядке создания
func (r *InMemoryProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	return r.Filter(ctx, domain.ProductFilter{}, domain.Page{})
}

// Filter возвращает товары, удовлетворяющие фильтру
func (r *InMemoryProductRepository) Filter(ctx context.Context, filter domain.ProductFilter, page domain.Page) ([]domain.Product, error) {
	field, desc, err := page.SortField(ProductSortFields...)
	if err != nil {
		return nil, err
	}

	r.s.mutex.RLock()
	products := make([]domain.Product, 0, len(r.s.productOrder))
	for _, id := range r.s.productOrder {
		if p := r.s.products[id]; filter.Matches(p) {
			products = append(products, p)
		}
	}
	r.s.mutex.RUnlock()

	if field != "" {
		sort.SliceStable(products, func(i, j int) bool {
			a, b := products[i], products[j]
			var cmp int
			switch field {
			case "name":
				cmp = strings.Compare(a.Name, b.Name)
			case "price":
				cmp = a.Price.Cmp(b.Price)
			case "stock":
				cmp = a.Stock - b.Stock
			default:
				cmp = a.CreatedAt.Compare(b.CreatedAt)
			}
			if desc {
				return cmp > 0
			}
			return cmp < 0
		})
	}

	return domain.Apply(products, page), nil
}

// DeleteAll удаляет все товары и их связи с заказами
func (r *InMemoryProductRepository) DeleteAll(ctx context.Context) (int64, error) {
	r.s.mutex.Lock()
	defer r.s.mutex.Unlock()

	n := int64(len(r.s.products))
	r.s.products = make(map[uuid.UUID]domain.Product)
	r.s.productOrder = nil
	for id, so := range r.s.orders {
		so.productIDs = nil
		r.s.orders[id] = so
	}

	r.s.log.Debugw("In-memory products cleared", "count", n)
	return n, nil
}

// InMemoryOrderRepository реализация репозитория заказов в памяти
type InMemoryOrderRepository struct {
	s *InMemoryStore
}

// Create сохраняет заказ и связи с товарами. Клиент и все товары должны существовать.
func (r *InMemoryOrderRepository) Create(ctx context.Context, order domain.Order) (domain.Order, error) {
	r.s.mutex.Lock()
	defer r.s.mutex.Unlock()

	customerID := order.CustomerID
	if customerID == uuid.Nil {
		customerID = order.Customer.ID
	}
	if _, ok := r.s.customers[customerID]; !ok {
		return domain.Order{}, ErrInvalidData
	}

	productIDs := order.ProductIDs()
	for _, id := range productIDs {
		if _, ok := r.s.products[id]; !ok {
			return domain.Order{}, ErrInvalidData
		}
	}

	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	if order.OrderDate.IsZero() {
		order.OrderDate = time.Now().UTC()
	}
	order.CustomerID = customerID

	r.s.orders[order.ID] = storedOrder{
		order:      domain.Order{ID: order.ID, CustomerID: customerID, OrderDate: order.OrderDate, TotalAmount: order.TotalAmount},
		productIDs: productIDs,
	}
	r.s.orderOrder = append(r.s.orderOrder, order.ID)

	return r.hydrate(r.s.orders[order.ID]), nil
}

// hydrate заполняет клиента и товары заказа. Вызывается под блокировкой.
func (r *InMemoryOrderRepository) hydrate(so storedOrder) domain.Order {
	o := so.order
	o.Customer = r.s.customers[o.CustomerID]
	o.Products = make([]domain.Product, 0, len(so.productIDs))
	for _, id := range so.productIDs {
		if p, ok := r.s.products[id]; ok {
			o.Products = append(o.Products, p)
		}
	}
	return o
}

// GetByID возвращает заказ по ID
func (r *InMemoryOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Order, error) {
	r.s.mutex.RLock()
	defer r.s.mutex.RUnlock()

	so, exists := r.s.orders[id]
	if !exists {
		return domain.Order{}, ErrNotFound
	}
	return r.hydrate(so), nil
}

// List возвращает все заказы в порядке создания
func (r *InMemoryOrderRepository) List(ctx context.Context) ([]domain.Order, error) {
	return r.Filter(ctx, domain.OrderFilter{}, domain.Page{})
}

// Filter возвращает заказы, удовлетворяющие фильтру
func (r *InMemoryOrderRepository) Filter(ctx context.Context, filter domain.OrderFilter, page domain.Page) ([]domain.Order, error) {
	field, desc, err := page.SortField(OrderSortFields...)
	if err != nil {
		return nil, err
	}

	r.s.mutex.RLock()
	orders := make([]domain.Order, 0, len(r.s.orderOrder))
	for _, id := range r.s.orderOrder {
		if o := r.hydrate(r.s.orders[id]); filter.Matches(o) {
			orders = append(orders, o)
		}
	}
	r.s.mutex.RUnlock()

	if field != "" {
		sort.SliceStable(orders, func(i, j int) bool {
			a, b := orders[i], orders[j]
			var cmp int
			if field == "totalAmount" {
				cmp = a.TotalAmount.Cmp(b.TotalAmount)
			} else {
				cmp = a.OrderDate.Compare(b.OrderDate)
			}
			if desc {
				return cmp > 0
			}
			return cmp < 0
		})
	}

	return domain.Apply(orders, page), nil
}
