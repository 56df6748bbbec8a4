package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dhoini/crm-service/internal/domain"
	"github.com/Dhoini/crm-service/internal/repository"
	"github.com/Dhoini/crm-service/pkg/logger"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const customerColumns = `id, name, email, phone, created_at`

var customerSortColumns = map[string]string{
	"name":      "name",
	"email":     "email",
	"createdAt": "created_at",
}

// PostgresCustomerRepository реализация репозитория клиентов через PostgreSQL
type PostgresCustomerRepository struct {
	db  *sqlx.DB
	log *logger.Logger
}

// NewPostgresCustomerRepository создает новый репозиторий клиентов через PostgreSQL
func NewPostgresCustomerRepository(db *sqlx.DB, log *logger.Logger) *PostgresCustomerRepository {
	return &PostgresCustomerRepository{
		db:  db,
		log: log,
	}
}

// Create создает нового клиента
func (r *PostgresCustomerRepository) Create(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	if customer.CreatedAt.IsZero() {
		customer.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO customers (id, name, email, phone, created_at) VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.ExecContext(ctx, query,
		customer.ID,
		customer.Name,
		customer.Email,
		customer.Phone,
		customer.CreatedAt,
	)
	if err != nil {
		if mapped := mapError(err); mapped != err {
			return domain.Customer{}, mapped
		}
		r.log.Errorw("Failed to create customer", "error", err, "email", customer.Email)
		return domain.Customer{}, fmt.Errorf("failed to create customer: %w", err)
	}

	return customer, nil
}

// GetByID возвращает клиента по ID
func (r *PostgresCustomerRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Customer, error) {
	var customer domain.Customer

	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`

	if err := r.db.GetContext(ctx, &customer, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Customer{}, repository.ErrNotFound
		}
		return domain.Customer{}, fmt.Errorf("failed to get customer: %w", err)
	}

	return customer, nil
}

// ExistsByEmail проверяет наличие клиента с таким email
func (r *PostgresCustomerRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool

	query := `SELECT EXISTS (SELECT 1 FROM customers WHERE email = $1)`

	if err := r.db.GetContext(ctx, &exists, query, email); err != nil {
		return false, fmt.Errorf("failed to check customer email: %w", err)
	}
	return exists, nil
}

// List возвращает всех клиентов
func (r *PostgresCustomerRepository) List(ctx context.Context) ([]domain.Customer, error) {
	return r.Filter(ctx, domain.CustomerFilter{}, domain.Page{})
}

// Filter возвращает клиентов, удовлетворяющих фильтру
func (r *PostgresCustomerRepository) Filter(ctx context.Context, filter domain.CustomerFilter, page domain.Page) ([]domain.Customer, error) {
	if _, _, err := page.SortField(repository.CustomerSortFields...); err != nil {
		return nil, err
	}

	var w whereBuilder
	if filter.Name != "" {
		w.add("name ILIKE $%d", likePattern(filter.Name))
	}
	if filter.Email != "" {
		w.add("email ILIKE $%d", likePattern(filter.Email))
	}
	if filter.PhonePattern != "" {
		w.add("phone LIKE $%d", prefixPattern(filter.PhonePattern))
	}

	query := `SELECT ` + customerColumns + ` FROM customers` + w.sql()
	query += w.orderAndPage(page, customerSortColumns, "created_at ASC, id ASC")

	customers := []domain.Customer{}
	if err := r.db.SelectContext(ctx, &customers, query, w.args...); err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	return customers, nil
}

// DeleteAll удаляет всех клиентов (заказы удаляются каскадно)
func (r *PostgresCustomerRepository) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM customers`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete customers: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	r.log.Infow("Customers deleted", "count", n)
	return n, nil
}
