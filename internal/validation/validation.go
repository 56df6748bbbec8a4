// Package validation содержит проверки входных данных, выполняемые до сохранения записей.
package validation

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/Dhoini/crm-service/internal/domain"
	"github.com/Dhoini/crm-service/internal/repository"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Цена хранится как NUMERIC(10, 2)
const priceScale = 2

var maxPrice = decimal.RequireFromString("99999999.99")

var (
	internationalPhone = regexp.MustCompile(`^\+\d{7,15}$`)
	dashedPhone        = regexp.MustCompile(`^\d{3}-\d{3}-\d{4}$`)
)

// ValidatePhone принимает пустой телефон, "+" и 7-15 цифр, либо формат NNN-NNN-NNNN
func ValidatePhone(phone string) bool {
	if phone == "" {
		return true
	}
	return internationalPhone.MatchString(phone) || dashedPhone.MatchString(phone)
}

// EmailChecker источник данных для проверки уникальности email
type EmailChecker interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// ValidateCustomerUniqueness возвращает false, если клиент с таким email уже есть
func ValidateCustomerUniqueness(ctx context.Context, checker EmailChecker, email string) (bool, error) {
	exists, err := checker.ExistsByEmail(ctx, email)
	if err != nil {
		return false, fmt.Errorf("failed to check email uniqueness: %w", err)
	}
	return !exists, nil
}

// ValidateProductPricing возвращает список нарушений: цена должна быть > 0, не точнее копейки
// и не больше 99999999.99, остаток (если задан) >= 0
func ValidateProductPricing(price decimal.Decimal, stock *int) []string {
	var violations []string
	switch {
	case !price.IsPositive():
		violations = append(violations, "Price must be positive")
	case !price.Equal(price.Round(priceScale)):
		violations = append(violations, "Price cannot have more than 2 decimal places")
	case price.GreaterThan(maxPrice):
		violations = append(violations, "Price cannot exceed "+maxPrice.StringFixed(priceScale))
	}
	if stock != nil && *stock < 0 {
		violations = append(violations, "Stock cannot be negative")
	}
	return violations
}

// CustomerLookup источник клиентов для проверки ссылок заказа
type CustomerLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.Customer, error)
}

// ProductLookup источник товаров для проверки ссылок заказа
type ProductLookup interface {
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Product, error)
}

// ValidateOrderReferences разрешает клиента и товары заказа.
// Клиент должен существовать. Должен найтись хотя бы один товар.
// Ненайденные и некорректные идентификаторы товаров пропускаются, если strict == false;
// в строгом режиме любой ненайденный идентификатор - ошибка ссылки.
// Повторяющиеся идентификаторы учитываются один раз, порядок сохраняется.
func ValidateOrderReferences(
	ctx context.Context,
	customers CustomerLookup,
	products ProductLookup,
	customerID string,
	productIDs []string,
	strict bool,
) (domain.Customer, []domain.Product, error) {
	cid, err := uuid.Parse(strings.TrimSpace(customerID))
	if err != nil {
		return domain.Customer{}, nil, domain.ReferenceError(domain.ErrCustomerNotFound, "Invalid customer ID")
	}
	customer, err := customers.GetByID(ctx, cid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Customer{}, nil, domain.ReferenceError(domain.ErrCustomerNotFound, "Invalid customer ID")
		}
		return domain.Customer{}, nil, fmt.Errorf("failed to resolve customer: %w", err)
	}

	var (
		ids        []uuid.UUID
		seen       = make(map[uuid.UUID]bool, len(productIDs))
		unresolved []string
	)
	for _, raw := range productIDs {
		id, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			unresolved = append(unresolved, raw)
			continue
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	var resolved []domain.Product
	if len(ids) > 0 {
		resolved, err = products.GetByIDs(ctx, ids)
		if err != nil {
			return domain.Customer{}, nil, fmt.Errorf("failed to resolve products: %w", err)
		}
	}

	if strict {
		found := make(map[uuid.UUID]bool, len(resolved))
		for _, p := range resolved {
			found[p.ID] = true
		}
		for _, id := range ids {
			if !found[id] {
				unresolved = append(unresolved, id.String())
			}
		}
		if len(unresolved) > 0 {
			return domain.Customer{}, nil, domain.ReferenceError(domain.ErrUnresolvedProducts,
				"Invalid product ID(s): %s", strings.Join(unresolved, ", "))
		}
	}

	if len(resolved) == 0 {
		return domain.Customer{}, nil, domain.ReferenceError(domain.ErrNoProducts, "No valid products found")
	}
	return customer, resolved, nil
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func instance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = validate.RegisterValidation("crmphone", func(fl validator.FieldLevel) bool {
			return ValidatePhone(fl.Field().String())
		})
	})
	return validate
}

// Struct проверяет структуру запроса по тегам validate.
// Первая найденная ошибка возвращается как domain.Error вида KindValidation.
func Struct(v any) error {
	err := instance().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return domain.ValidationError(err, "Invalid input")
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return domain.ValidationError(err, "%s is required", fieldName(fe))
	case "crmphone":
		return domain.ValidationError(domain.ErrInvalidPhone, "Invalid phone format")
	case "min":
		return domain.ValidationError(err, "%s must contain at least %s item(s)", fieldName(fe), fe.Param())
	default:
		return domain.ValidationError(err, "%s is invalid", fieldName(fe))
	}
}

func fieldName(fe validator.FieldError) string {
	name := fe.Field()
	if name == "" {
		return "field"
	}
	return name
}
