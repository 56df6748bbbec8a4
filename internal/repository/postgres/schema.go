package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// schemaStatements создают таблицы, если их еще нет.
// Удаление клиента удаляет его заказы, удаление товара удаляет только связи с заказами.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS customers (
		id         UUID PRIMARY KEY,
		name       TEXT NOT NULL,
		email      TEXT NOT NULL UNIQUE,
		phone      TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id         UUID PRIMARY KEY,
		name       TEXT NOT NULL,
		price      NUMERIC(10, 2) NOT NULL CHECK (price > 0),
		stock      INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id           UUID PRIMARY KEY,
		customer_id  UUID NOT NULL REFERENCES customers (id) ON DELETE CASCADE,
		order_date   TIMESTAMPTZ NOT NULL DEFAULT now(),
		total_amount NUMERIC(12, 2) NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS order_products (
		order_id   UUID NOT NULL REFERENCES orders (id) ON DELETE CASCADE,
		product_id UUID NOT NULL REFERENCES products (id) ON DELETE CASCADE,
		position   INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (order_id, product_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_customer_id ON orders (customer_id)`,
	`CREATE INDEX IF NOT EXISTS idx_order_products_product_id ON order_products (product_id)`,
}

// Migrate создает схему базы данных
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for i, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
