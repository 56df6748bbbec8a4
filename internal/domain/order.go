package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order представляет заказ клиента.
// TotalAmount фиксируется при создании и не пересчитывается при изменении цен товаров.
type Order struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	CustomerID  uuid.UUID       `json:"customer_id" db:"customer_id"`
	Customer    Customer        `json:"customer" db:"-"`
	Products    []Product       `json:"products" db:"-"`
	OrderDate   time.Time       `json:"order_date" db:"order_date"`
	TotalAmount decimal.Decimal `json:"total_amount" db:"total_amount"`
}

// ProductIDs возвращает идентификаторы товаров заказа
func (o Order) ProductIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(o.Products))
	for _, p := range o.Products {
		ids = append(ids, p.ID)
	}
	return ids
}

// OrderRequest запрос на создание заказа.
// Идентификаторы передаются строками так, как они приходят из API,
// и проверяются при разрешении ссылок, а не тегами validate.
type OrderRequest struct {
	CustomerID string     `json:"customer_id"`
	ProductIDs []string   `json:"product_ids"`
	OrderDate  *time.Time `json:"order_date,omitempty"`
}

// OrderFilter фильтр для выборки заказов
type OrderFilter struct {
	CustomerName string     `json:"customer_name,omitempty"`
	ProductName  string     `json:"product_name,omitempty"`
	OrderDateGte *time.Time `json:"order_date_gte,omitempty"`
	OrderDateLte *time.Time `json:"order_date_lte,omitempty"`
}

// Matches проверяет, удовлетворяет ли заказ фильтру
func (f OrderFilter) Matches(o Order) bool {
	if f.CustomerName != "" && !containsFold(o.Customer.Name, f.CustomerName) {
		return false
	}
	if f.ProductName != "" {
		found := false
		for _, p := range o.Products {
			if containsFold(p.Name, f.ProductName) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.OrderDateGte != nil && o.OrderDate.Before(*f.OrderDateGte) {
		return false
	}
	if f.OrderDateLte != nil && o.OrderDate.After(*f.OrderDateLte) {
		return false
	}
	return true
}

// SumPrices возвращает сумму цен товаров
func SumPrices(products []Product) decimal.Decimal {
	total := decimal.Zero
	for _, p := range products {
		total = total.Add(p.Price)
	}
	return total
}
