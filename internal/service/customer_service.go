package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Dhoini/crm-service/internal/domain"
	"github.com/Dhoini/crm-service/internal/metrics"
	"github.com/Dhoini/crm-service/internal/repository"
	"github.com/Dhoini/crm-service/internal/validation"
	"github.com/Dhoini/crm-service/pkg/logger"
	"github.com/google/uuid"
)

// BulkResult результат пакетного создания клиентов.
// Частичный успех - обычный исход: созданные записи и ошибки возвращаются вместе.
type BulkResult struct {
	Customers []domain.Customer `json:"customers"`
	Errors    []string          `json:"errors"`
}

// CustomerService интерфейс сервиса для работы с клиентами
type CustomerService interface {
	Create(ctx context.Context, req domain.CustomerRequest) (domain.Customer, error)
	BulkCreate(ctx context.Context, reqs []domain.CustomerRequest) (BulkResult, error)
	GetByID(ctx context.Context, id string) (domain.Customer, error)
	List(ctx context.Context) ([]domain.Customer, error)
	Filter(ctx context.Context, filter domain.CustomerFilter, page domain.Page) ([]domain.Customer, error)
	DeleteAll(ctx context.Context) (int64, error)
}

type customerService struct {
	repo    repository.CustomerRepository
	events  EventPublisher
	metrics metrics.CRMMetrics
	log     *logger.Logger
}

// NewCustomerService создает новый сервис для работы с клиентами
func NewCustomerService(repo repository.CustomerRepository, events EventPublisher, m metrics.CRMMetrics, log *logger.Logger) CustomerService {
	if events == nil {
		events = NoopPublisher{}
	}
	if m == nil {
		m = metrics.NewNopCRMMetrics()
	}
	return &customerService{
		repo:    repo,
		events:  events,
		metrics: m,
		log:     log,
	}
}

// Create проверяет запрос и сохраняет клиента. Возвращается первое найденное нарушение.
func (s *customerService) Create(ctx context.Context, req domain.CustomerRequest) (domain.Customer, error) {
	s.log.Debug("Creating customer with email: %s", req.Email)

	customer, err := s.create(ctx, req)
	if err != nil {
		return domain.Customer{}, err
	}

	s.metrics.IncCustomerCreated()
	if err := s.events.CustomerCreated(ctx, customer); err != nil {
		s.log.Warnw("Failed to publish customer event", "error", err, "customerID", customer.ID)
	}
	return customer, nil
}

func (s *customerService) create(ctx context.Context, req domain.CustomerRequest) (domain.Customer, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)

	if err := validation.Struct(req); err != nil {
		return domain.Customer{}, err
	}

	unique, err := validation.ValidateCustomerUniqueness(ctx, s.repo, req.Email)
	if err != nil {
		s.log.Errorw("Failed to check email uniqueness", "error", err)
		return domain.Customer{}, err
	}
	if !unique {
		return domain.Customer{}, domain.ValidationError(domain.ErrDuplicateEmail, "Email already exists")
	}

	customer, err := s.repo.Create(ctx, domain.Customer{
		ID:    uuid.New(),
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		// email мог занять параллельный запрос между проверкой и вставкой
		if errors.Is(err, repository.ErrDuplicate) {
			return domain.Customer{}, domain.ValidationError(domain.ErrDuplicateEmail, "Email already exists")
		}
		s.log.Errorw("Failed to create customer", "error", err, "email", req.Email)
		return domain.Customer{}, err
	}

	s.log.Infow("Customer created", "customerID", customer.ID)
	return customer, nil
}

// BulkCreate создает клиентов по одному. Ошибка записи попадает в Errors
// в виде "<name>: <message>" и не прерывает обработку остальных.
func (s *customerService) BulkCreate(ctx context.Context, reqs []domain.CustomerRequest) (BulkResult, error) {
	s.log.Debug("Bulk creating %d customers", len(reqs))

	result := BulkResult{
		Customers: make([]domain.Customer, 0, len(reqs)),
		Errors:    []string{},
	}

	for _, req := range reqs {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		customer, err := s.Create(ctx, req)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", req.Name, errorMessage(err)))
			continue
		}
		result.Customers = append(result.Customers, customer)
	}

	s.metrics.AddBulkErrors(len(result.Errors))
	s.log.Infow("Bulk customer creation finished", "created", len(result.Customers), "failed", len(result.Errors))
	return result, nil
}

func (s *customerService) GetByID(ctx context.Context, id string) (domain.Customer, error) {
	s.log.Debug("Getting customer by ID: %s", id)

	uuidID, err := uuid.Parse(id)
	if err != nil {
		s.log.Warn("Invalid UUID format: %s", id)
		return domain.Customer{}, domain.ValidationError(err, "Invalid customer ID")
	}

	customer, err := s.repo.GetByID(ctx, uuidID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Customer{}, domain.NotFoundError(err, "Customer not found")
		}
		return domain.Customer{}, err
	}
	return customer, nil
}

func (s *customerService) List(ctx context.Context) ([]domain.Customer, error) {
	s.log.Debug("Getting all customers")
	return s.repo.List(ctx)
}

func (s *customerService) Filter(ctx context.Context, filter domain.CustomerFilter, page domain.Page) ([]domain.Customer, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Filter(ctx, filter, page)
}

func (s *customerService) DeleteAll(ctx context.Context) (int64, error) {
	s.log.Warn("Deleting all customers")
	return s.repo.DeleteAll(ctx)
}

// errorMessage текст ошибки для клиента API. Внутренние ошибки не раскрываются.
func errorMessage(err error) string {
	var e *domain.Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal error"
}
