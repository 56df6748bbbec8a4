package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Dhoini/crm-service/internal/domain"
	"github.com/Dhoini/crm-service/internal/metrics"
	"github.com/Dhoini/crm-service/internal/repository"
	"github.com/Dhoini/crm-service/internal/validation"
	"github.com/Dhoini/crm-service/pkg/logger"
	"github.com/google/uuid"
)

// ProductService интерфейс сервиса для работы с товарами
type ProductService interface {
	Create(ctx context.Context, req domain.ProductRequest) (domain.Product, error)
	GetByID(ctx context.Context, id string) (domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	Filter(ctx context.Context, filter domain.ProductFilter, page domain.Page) ([]domain.Product, error)
	DeleteAll(ctx context.Context) (int64, error)
}

type productService struct {
	repo    repository.ProductRepository
	events  EventPublisher
	metrics metrics.CRMMetrics
	log     *logger.Logger
}

// NewProductService создает новый сервис для работы с товарами
func NewProductService(repo repository.ProductRepository, events EventPublisher, m metrics.CRMMetrics, log *logger.Logger) ProductService {
	if events == nil {
		events = NoopPublisher{}
	}
	if m == nil {
		m = metrics.NewNopCRMMetrics()
	}
	return &productService{
		repo:    repo,
		events:  events,
		metrics: m,
		log:     log,
	}
}

// Create проверяет цену и остаток и сохраняет товар. Все нарушения возвращаются одним сообщением.
func (s *productService) Create(ctx context.Context, req domain.ProductRequest) (domain.Product, error) {
	s.log.Debug("Creating product: %s", req.Name)

	req.Name = strings.TrimSpace(req.Name)
	if err := validation.Struct(req); err != nil {
		return domain.Product{}, err
	}
	if violations := validation.ValidateProductPricing(req.Price, req.Stock); len(violations) > 0 {
		return domain.Product{}, domain.ValidationError(domain.ErrInvalidPricing, "%s", strings.Join(violations, "; "))
	}

	product, err := s.repo.Create(ctx, domain.Product{
		ID:    uuid.New(),
		Name:  req.Name,
		Price: req.Price,
		Stock: req.StockOrDefault(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrInvalidData) {
			return domain.Product{}, domain.ValidationError(domain.ErrInvalidPricing, "Invalid product pricing")
		}
		s.log.Errorw("Failed to create product", "error", err, "name", req.Name)
		return domain.Product{}, err
	}

	s.log.Infow("Product created", "productID", product.ID, "price", product.Price.String())
	s.metrics.IncProductCreated()
	if err := s.events.ProductCreated(ctx, product); err != nil {
		s.log.Warnw("Failed to publish product event", "error", err, "productID", product.ID)
	}
	return product, nil
}

func (s *productService) GetByID(ctx context.Context, id string) (domain.Product, error) {
	s.log.Debug("Getting product by ID: %s", id)

	uuidID, err := uuid.Parse(id)
	if err != nil {
		s.log.Warn("Invalid UUID format: %s", id)
		return domain.Product{}, domain.ValidationError(err, "Invalid product ID")
	}

	product, err := s.repo.GetByID(ctx, uuidID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Product{}, domain.NotFoundError(err, "Product not found")
		}
		return domain.Product{}, err
	}
	return product, nil
}

func (s *productService) List(ctx context.Context) ([]domain.Product, error) {
	s.log.Debug("Getting all products")
	return s.repo.List(ctx)
}

func (s *productService) Filter(ctx context.Context, filter domain.ProductFilter, page domain.Page) ([]domain.Product, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Filter(ctx, filter, page)
}

func (s *productService) DeleteAll(ctx context.Context) (int64, error) {
	s.log.Warn("Deleting all products")
	return s.repo.DeleteAll(ctx)
}
