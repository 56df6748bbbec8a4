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

const productColumns = `id, name, price, stock, created_at`

var productSortColumns = map[string]string{
	"name":      "name",
	"price":     "price",
	"stock":     "stock",
	"createdAt": "created_at",
}

// PostgresProductRepository реализация репозитория товаров через PostgreSQL
type PostgresProductRepository struct {
	db  *sqlx.DB
	log *logger.Logger
}

// NewPostgresProductRepository создает новый репозиторий товаров
func NewPostgresProductRepository(db *sqlx.DB, log *logger.Logger) *PostgresProductRepository {
	return &PostgresProductRepository{db: db, log: log}
}

// Create создает новый товар
func (r *PostgresProductRepository) Create(ctx context.Context, product domain.Product) (domain.Product, error) {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO products (id, name, price, stock, created_at) VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.ExecContext(ctx, query,
		product.ID,
		product.Name,
		product.Price,
		product.Stock,
		product.CreatedAt,
	)
	if err != nil {
		if mapped := mapError(err); mapped != err {
			return domain.Product{}, mapped
		}
		r.log.Errorw("Failed to create product", "error", err, "name", product.Name)
		return domain.Product{}, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

// GetByID возвращает товар по ID
func (r *PostgresProductRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Product, error) {
	var product domain.Product

	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	if err := r.db.GetContext(ctx, &product, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, repository.ErrNotFound
		}
		return domain.Product{}, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

// GetByIDs возвращает найденные товары в порядке переданных идентификаторов
func (r *PostgresProductRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Product, error) {
	if len(ids) == 0 {
		return []domain.Product{}, nil
	}

	strIDs := make([]string, 0, len(ids))
	for _, id := range ids {
		strIDs = append(strIDs, id.String())
	}

	query, args, err := sqlx.In(`SELECT `+productColumns+` FROM products WHERE id IN (?)`, strIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to build products query: %w", err)
	}
	query = sqlx.Rebind(sqlx.DOLLAR, query)

	var rows []domain.Product
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}

	byID := make(map[uuid.UUID]domain.Product, len(rows))
	for _, p := range rows {
		byID[p.ID] = p
	}

	products := make([]domain.Product, 0, len(rows))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			products = append(products, p)
		}
	}
	return products, nil
}

// List возвращает все товары
func (r *PostgresProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	return r.Filter(ctx, domain.ProductFilter{}, domain.Page{})
}

// Filter возвращает товары, удовлетворяющие фильтру
func (r *PostgresProductRepository) Filter(ctx context.Context, filter domain.ProductFilter, page domain.Page) ([]domain.Product, error) {
	if _, _, err := page.SortField(repository.ProductSortFields...); err != nil {
		return nil, err
	}

	var w whereBuilder
	if filter.Name != "" {
		w.add("name ILIKE $%d", likePattern(filter.Name))
	}
	if filter.PriceGte != nil {
		w.add("price >= $%d", *filter.PriceGte)
	}
	if filter.PriceLte != nil {
		w.add("price <= $%d", *filter.PriceLte)
	}
	if filter.StockGte != nil {
		w.add("stock >= $%d", *filter.StockGte)
	}
	if filter.StockLte != nil {
		w.add("stock <= $%d", *filter.StockLte)
	}

	query := `SELECT ` + productColumns + ` FROM products` + w.sql()
	query += w.orderAndPage(page, productSortColumns, "created_at ASC, id ASC")

	products := []domain.Product{}
	if err := r.db.SelectContext(ctx, &products, query, w.args...); err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	return products, nil
}

// DeleteAll удаляет все товары (связи с заказами удаляются каскадно)
func (r *PostgresProductRepository) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete products: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	r.log.Infow("Products deleted", "count", n)
	return n, nil
}
