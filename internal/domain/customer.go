package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Customer представляет собой модель клиента CRM
type Customer struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Phone     string    `json:"phone,omitempty" db:"phone"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CustomerRequest представляет запрос на создание клиента
type CustomerRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required"`
	Phone string `json:"phone,omitempty" validate:"omitempty,crmphone"`
}

// CustomerFilter фильтр для выборки клиентов. Пустые поля не ограничивают выборку.
type CustomerFilter struct {
	// Name подстрока имени без учета регистра
	Name string `json:"name,omitempty"`
	// Email подстрока email без учета регистра
	Email string `json:"email,omitempty"`
	// PhonePattern префикс номера телефона, например "+1"
	PhonePattern string `json:"phone_pattern,omitempty"`
}

// Matches проверяет, удовлетворяет ли клиент фильтру
func (f CustomerFilter) Matches(c Customer) bool {
	if f.Name != "" && !containsFold(c.Name, f.Name) {
		return false
	}
	if f.Email != "" && !containsFold(c.Email, f.Email) {
		return false
	}
	if f.PhonePattern != "" && !strings.HasPrefix(c.Phone, f.PhonePattern) {
		return false
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
