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
	"github.com/shopspring/decimal"
)

const orderSelect = `SELECT o.id, o.customer_id, o.order_date, o.total_amount,
	c.name AS customer_name, c.email AS customer_email, c.phone AS customer_phone, c.created_at AS customer_created_at
	FROM orders o JOIN customers c ON c.id = o.customer_id`

var orderSortColumns = map[string]string{
	"orderDate":   "o.order_date",
	"totalAmount": "o.total_amount",
}

// orderRow строка выборки заказа вместе с данными клиента
type orderRow struct {
	ID                uuid.UUID       `db:"id"`
	CustomerID        uuid.UUID       `db:"customer_id"`
	OrderDate         time.Time       `db:"order_date"`
	TotalAmount       decimal.Decimal `db:"total_amount"`
	CustomerName      string          `db:"customer_name"`
	CustomerEmail     string          `db:"customer_email"`
	CustomerPhone     string          `db:"customer_phone"`
	CustomerCreatedAt time.Time       `db:"customer_created_at"`
}

func (row orderRow) toDomain() domain.Order {
	return domain.Order{
		ID:          row.ID,
		CustomerID:  row.CustomerID,
		OrderDate:   row.OrderDate,
		TotalAmount: row.TotalAmount,
		Customer: domain.Customer{
			ID:        row.CustomerID,
			Name:      row.CustomerName,
			Email:     row.CustomerEmail,
			Phone:     row.CustomerPhone,
			CreatedAt: row.CustomerCreatedAt,
		},
		Products: []domain.Product{},
	}
}

// orderProductRow строка связи заказа с товаром
type orderProductRow struct {
	OrderID uuid.UUID `db:"order_id"`
	domain.Product
}

// PostgresOrderRepository реализация репозитория заказов через PostgreSQL
type PostgresOrderRepository struct {
	db  *sqlx.DB
	log *logger.Logger
}

// NewPostgresOrderRepository создает новый репозиторий заказов
func NewPostgresOrderRepository(db *sqlx.DB, log *logger.Logger) *PostgresOrderRepository {
	return &PostgresOrderRepository{db: db, log: log}
}

// Create сохраняет заказ и его товары в одной транзакции
func (r *PostgresOrderRepository) Create(ctx context.Context, order domain.Order) (created domain.Order, err error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	if order.CustomerID == uuid.Nil {
		order.CustomerID = order.Customer.ID
	}
	if order.OrderDate.IsZero() {
		order.OrderDate = time.Now().UTC()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.Order{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				r.log.Errorw("Failed to rollback transaction", "error", rbErr, "orderID", order.ID)
			}
		}
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO orders (id, customer_id, order_date, total_amount) VALUES ($1, $2, $3, $4)`,
		order.ID, order.CustomerID, order.OrderDate, order.TotalAmount,
	)
	if err != nil {
		return domain.Order{}, r.wrapCreateErr(err)
	}

	for i, p := range order.Products {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO order_products (order_id, product_id, position) VALUES ($1, $2, $3)`,
			order.ID, p.ID, i,
		)
		if err != nil {
			return domain.Order{}, r.wrapCreateErr(err)
		}
	}

	if err = tx.Commit(); err != nil {
		return domain.Order{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.log.Debugw("Order stored", "orderID", order.ID, "products", len(order.Products))
	return order, nil
}

func (r *PostgresOrderRepository) wrapCreateErr(err error) error {
	if mapped := mapError(err); mapped != err {
		return mapped
	}
	return fmt.Errorf("failed to create order: %w", err)
}

// GetByID возвращает заказ по ID
func (r *PostgresOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Order, error) {
	var row orderRow
	if err := r.db.GetContext(ctx, &row, orderSelect+` WHERE o.id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, repository.ErrNotFound
		}
		return domain.Order{}, fmt.Errorf("failed to get order: %w", err)
	}

	orders := []domain.Order{row.toDomain()}
	if err := r.attachProducts(ctx, orders); err != nil {
		return domain.Order{}, err
	}
	return orders[0], nil
}

// List возвращает все заказы
func (r *PostgresOrderRepository) List(ctx context.Context) ([]domain.Order, error) {
	return r.Filter(ctx, domain.OrderFilter{}, domain.Page{})
}

// Filter возвращает заказы, удовлетворяющие фильтру
func (r *PostgresOrderRepository) Filter(ctx context.Context, filter domain.OrderFilter, page domain.Page) ([]domain.Order, error) {
	if _, _, err := page.SortField(repository.OrderSortFields...); err != nil {
		return nil, err
	}

	var w whereBuilder
	if filter.CustomerName != "" {
		w.add("c.name ILIKE $%d", likePattern(filter.CustomerName))
	}
	if filter.ProductName != "" {
		w.add(`EXISTS (SELECT 1 FROM order_products op JOIN products p ON p.id = op.product_id
			WHERE op.order_id = o.id AND p.name ILIKE $%d)`, likePattern(filter.ProductName))
	}
	if filter.OrderDateGte != nil {
		w.add("o.order_date >= $%d", *filter.OrderDateGte)
	}
	if filter.OrderDateLte != nil {
		w.add("o.order_date <= $%d", *filter.OrderDateLte)
	}

	query := orderSelect + w.sql()
	query += w.orderAndPage(page, orderSortColumns, "o.order_date ASC, o.id ASC")

	var rows []orderRow
	if err := r.db.SelectContext(ctx, &rows, query, w.args...); err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}

	orders := make([]domain.Order, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, row.toDomain())
	}
	if err := r.attachProducts(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// attachProducts загружает товары для всех заказов одним запросом
func (r *PostgresOrderRepository) attachProducts(ctx context.Context, orders []domain.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]string, 0, len(orders))
	index := make(map[uuid.UUID]int, len(orders))
	for i, o := range orders {
		ids = append(ids, o.ID.String())
		index[o.ID] = i
	}

	query, args, err := sqlx.In(`SELECT op.order_id, p.id, p.name, p.price, p.stock, p.created_at
		FROM order_products op JOIN products p ON p.id = op.product_id
		WHERE op.order_id IN (?) ORDER BY op.order_id, op.position`, ids)
	if err != nil {
		return fmt.Errorf("failed to build order products query: %w", err)
	}
	query = sqlx.Rebind(sqlx.DOLLAR, query)

	var rows []orderProductRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return fmt.Errorf("failed to query order products: %w", err)
	}

	for _, row := range rows {
		if i, ok := index[row.OrderID]; ok {
			orders[i].Products = append(orders[i].Products, row.Product)
		}
	}
	return nil
}
