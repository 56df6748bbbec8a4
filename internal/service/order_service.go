package service

import (
	"context"
	"errors"
	"time"

	"github.com/Dhoini/crm-service/internal/domain"
	"github.com/Dhoini/crm-service/internal/metrics"
	"github.com/Dhoini/crm-service/internal/repository"
	"github.com/Dhoini/crm-service/internal/validation"
	"github.com/Dhoini/crm-service/pkg/logger"
	"github.com/google/uuid"
)

// OrderService интерфейс сервиса для работы с заказами
type OrderService interface {
	Create(ctx context.Context, req domain.OrderRequest) (domain.Order, error)
	GetByID(ctx context.Context, id string) (domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	Filter(ctx context.Context, filter domain.OrderFilter, page domain.Page) ([]domain.Order, error)
}

// OrderOptions настройки сервиса заказов
type OrderOptions struct {
	// StrictProductRefs: любой ненайденный товар отклоняет заказ целиком
	StrictProductRefs bool
	// Now источник текущего времени для даты заказа по умолчанию
	Now func() time.Time
}

type orderService struct {
	repo      repository.OrderRepository
	customers repository.CustomerRepository
	products  repository.ProductRepository
	events    EventPublisher
	metrics   metrics.CRMMetrics
	opts      OrderOptions
	log       *logger.Logger
}

// NewOrderService создает новый сервис для работы с заказами
func NewOrderService(
	repo repository.OrderRepository,
	customers repository.CustomerRepository,
	products repository.ProductRepository,
	events EventPublisher,
	m metrics.CRMMetrics,
	opts OrderOptions,
	log *logger.Logger,
) OrderService {
	if events == nil {
		events = NoopPublisher{}
	}
	if m == nil {
		m = metrics.NewNopCRMMetrics()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &orderService{
		repo:      repo,
		customers: customers,
		products:  products,
		events:    events,
		metrics:   m,
		opts:      opts,
		log:       log,
	}
}

// Create разрешает клиента и товары, считает сумму по текущим ценам и сохраняет заказ.
// Сумма фиксируется в момент создания.
func (s *orderService) Create(ctx context.Context, req domain.OrderRequest) (domain.Order, error) {
	s.log.Debug("Creating order for customer: %s", req.CustomerID)

	customer, products, err := validation.ValidateOrderReferences(
		ctx, s.customers, s.products, req.CustomerID, req.ProductIDs, s.opts.StrictProductRefs,
	)
	if err != nil {
		if domain.IsReference(err) {
			s.log.Warnw("Order references rejected", "customerID", req.CustomerID, "reason", err.Error())
		} else {
			s.log.Errorw("Failed to resolve order references", "error", err)
		}
		return domain.Order{}, err
	}

	orderDate := s.opts.Now().UTC()
	if req.OrderDate != nil && !req.OrderDate.IsZero() {
		orderDate = req.OrderDate.UTC()
	}

	order, err := s.repo.Create(ctx, domain.Order{
		ID:          uuid.New(),
		CustomerID:  customer.ID,
		Customer:    customer,
		Products:    products,
		OrderDate:   orderDate,
		TotalAmount: domain.SumPrices(products),
	})
	if err != nil {
		// клиент или товар удален между проверкой и вставкой
		if errors.Is(err, repository.ErrInvalidData) {
			return domain.Order{}, domain.ReferenceError(err, "Order references a missing customer or product")
		}
		s.log.Errorw("Failed to create order", "error", err, "customerID", customer.ID)
		return domain.Order{}, err
	}

	s.log.Infow("Order created",
		"orderID", order.ID,
		"customerID", order.CustomerID,
		"products", len(order.Products),
		"total", order.TotalAmount.StringFixed(2),
	)
	s.metrics.ObserveOrderCreated(order.TotalAmount.InexactFloat64())
	if err := s.events.OrderCreated(ctx, order); err != nil {
		s.log.Warnw("Failed to publish order event", "error", err, "orderID", order.ID)
	}
	return order, nil
}

func (s *orderService) GetByID(ctx context.Context, id string) (domain.Order, error) {
	s.log.Debug("Getting order by ID: %s", id)

	uuidID, err := uuid.Parse(id)
	if err != nil {
		s.log.Warn("Invalid UUID format: %s", id)
		return domain.Order{}, domain.ValidationError(err, "Invalid order ID")
	}

	order, err := s.repo.GetByID(ctx, uuidID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Order{}, domain.NotFoundError(err, "Order not found")
		}
		return domain.Order{}, err
	}
	return order, nil
}

func (s *orderService) List(ctx context.Context) ([]domain.Order, error) {
	s.log.Debug("Getting all orders")
	return s.repo.List(ctx)
}

func (s *orderService) Filter(ctx context.Context, filter domain.OrderFilter, page domain.Page) ([]domain.Order, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Filter(ctx, filter, page)
}
