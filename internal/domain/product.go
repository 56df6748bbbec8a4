package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product представляет товар
type Product struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	Name      string          `json:"name" db:"name"`
	Price     decimal.Decimal `json:"price" db:"price"`
	Stock     int             `json:"stock" db:"stock"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

// ProductRequest представляет запрос на создание товара.
// Stock необязателен, по умолчанию 0.
type ProductRequest struct {
	Name  string          `json:"name" validate:"required"`
	Price decimal.Decimal `json:"price"`
	Stock *int            `json:"stock,omitempty"`
}

// StockOrDefault возвращает остаток из запроса или 0
func (r ProductRequest) StockOrDefault() int {
	if r.Stock == nil {
		return 0
	}
	return *r.Stock
}

// ProductFilter фильтр для выборки товаров
type ProductFilter struct {
	Name     string           `json:"name,omitempty"`
	PriceGte *decimal.Decimal `json:"price_gte,omitempty"`
	PriceLte *decimal.Decimal `json:"price_lte,omitempty"`
	StockGte *int             `json:"stock_gte,omitempty"`
	StockLte *int             `json:"stock_lte,omitempty"`
}

// Matches проверяет, удовлетворяет ли товар фильтру
func (f ProductFilter) Matches(p Product) bool {
	if f.Name != "" && !containsFold(p.Name, f.Name) {
		return false
	}
	if f.PriceGte != nil && p.Price.LessThan(*f.PriceGte) {
		return false
	}
	if f.PriceLte != nil && p.Price.GreaterThan(*f.PriceLte) {
		return false
	}
	if f.StockGte != nil && p.Stock < *f.StockGte {
		return false
	}
	if f.StockLte != nil && p.Stock > *f.StockLte {
		return false
	}
	return true
}
