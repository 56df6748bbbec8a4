package domain

import "strings"

// MaxPageSize верхняя граница размера страницы
const MaxPageSize = 100

// Page параметры постраничной выборки и сортировки.
// Limit == 0 означает "без ограничения". OrderBy - имя поля, префикс "-" для сортировки по убыванию.
type Page struct {
	Limit   int    `json:"limit,omitempty"`
	Offset  int    `json:"offset,omitempty"`
	OrderBy string `json:"order_by,omitempty"`
}

// Validate проверяет параметры страницы
func (p Page) Validate() error {
	if p.Limit < 0 {
		return ValidationError(nil, "limit cannot be negative")
	}
	if p.Limit > MaxPageSize {
		return ValidationError(nil, "limit cannot exceed %d", MaxPageSize)
	}
	if p.Offset < 0 {
		return ValidationError(nil, "offset cannot be negative")
	}
	return nil
}

// SortField разбирает OrderBy по списку допустимых полей.
// Возвращает пустое имя, если сортировка не задана.
func (p Page) SortField(allowed ...string) (field string, desc bool, err error) {
	if p.OrderBy == "" {
		return "", false, nil
	}
	field = p.OrderBy
	if strings.HasPrefix(field, "-") {
		desc = true
		field = field[1:]
	}
	for _, a := range allowed {
		if a == field {
			return field, desc, nil
		}
	}
	return "", false, ValidationError(nil, "cannot order by %q", p.OrderBy)
}

// Apply применяет Offset и Limit к уже отсортированному срезу
func Apply[T any](items []T, p Page) []T {
	if p.Offset >= len(items) {
		return []T{}
	}
	items = items[p.Offset:]
	if p.Limit > 0 && p.Limit < len(items) {
		items = items[:p.Limit]
	}
	return items
}
