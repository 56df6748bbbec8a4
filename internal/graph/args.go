package graph

import (
	"fmt"
	"time"

	"github.com/Dhoini/crm-service/internal/domain"
	"github.com/shopspring/decimal"
)

// Разбор аргументов резолверов. graphql-go уже привел значения к типам схемы:
// String/ID -> string, Int -> int, Float -> float64, DateTime -> time.Time.

func stringArg(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func intArg(m map[string]interface{}, key string) *int {
	if v, ok := m[key].(int); ok {
		return &v
	}
	return nil
}

func decimalArg(m map[string]interface{}, key string) *decimal.Decimal {
	switch v := m[key].(type) {
	case float64:
		d := decimal.NewFromFloat(v)
		return &d
	case int:
		d := decimal.NewFromInt(int64(v))
		return &d
	}
	return nil
}

func timeArg(m map[string]interface{}, key string) *time.Time {
	switch v := m[key].(type) {
	case time.Time:
		return &v
	case *time.Time:
		return v
	}
	return nil
}

func objectArg(m map[string]interface{}, key string) map[string]interface{} {
	if v, ok := m[key].(map[string]interface{}); ok {
		return v
	}
	return map[string]interface{}{}
}

func stringListArg(m map[string]interface{}, key string) []string {
	raw, _ := m[key].([]interface{})
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		out = append(out, fmt.Sprint(v))
	}
	return out
}

func pageArgs(args map[string]interface{}) domain.Page {
	var page domain.Page
	if v := intArg(args, "limit"); v != nil {
		page.Limit = *v
	}
	if v := intArg(args, "offset"); v != nil {
		page.Offset = *v
	}
	page.OrderBy = stringArg(args, "orderBy")
	return page
}

func customerRequest(m map[string]interface{}) domain.CustomerRequest {
	return domain.CustomerRequest{
		Name:  stringArg(m, "name"),
		Email: stringArg(m, "email"),
		Phone: stringArg(m, "phone"),
	}
}

func productRequest(m map[string]interface{}) domain.ProductRequest {
	req := domain.ProductRequest{
		Name:  stringArg(m, "name"),
		Stock: intArg(m, "stock"),
	}
	if price := decimalArg(m, "price"); price != nil {
		req.Price = *price
	}
	return req
}

func orderRequest(m map[string]interface{}) domain.OrderRequest {
	return domain.OrderRequest{
		CustomerID: stringArg(m, "customerId"),
		ProductIDs: stringListArg(m, "productIds"),
		OrderDate:  timeArg(m, "orderDate"),
	}
}

func customerFilter(m map[string]interface{}) domain.CustomerFilter {
	return domain.CustomerFilter{
		Name:         stringArg(m, "name"),
		Email:        stringArg(m, "email"),
		PhonePattern: stringArg(m, "phonePattern"),
	}
}

func productFilter(m map[string]interface{}) domain.ProductFilter {
	return domain.ProductFilter{
		Name:     stringArg(m, "name"),
		PriceGte: decimalArg(m, "priceGte"),
		PriceLte: decimalArg(m, "priceLte"),
		StockGte: intArg(m, "stockGte"),
		StockLte: intArg(m, "stockLte"),
	}
}

func orderFilter(m map[string]interface{}) domain.OrderFilter {
	return domain.OrderFilter{
		CustomerName: stringArg(m, "customerName"),
		ProductName:  stringArg(m, "productName"),
		OrderDateGte: timeArg(m, "orderDateGte"),
		OrderDateLte: timeArg(m, "orderDateLte"),
	}
}
