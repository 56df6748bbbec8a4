package domain

import (
	"errors"
	"fmt"
)

// ErrorKind классифицирует ошибки прикладного уровня
type ErrorKind string

const (
	// KindValidation неверные входные данные: телефон, цена, остаток, дубликат email
	KindValidation ErrorKind = "VALIDATION_ERROR"
	// KindReference идентификатор не ссылается на существующую запись
	KindReference ErrorKind = "REFERENCE_ERROR"
	// KindNotFound запись не найдена
	KindNotFound ErrorKind = "NOT_FOUND"
	// KindInternal все остальное
	KindInternal ErrorKind = "INTERNAL"
)

// Application errors
var (
	// ErrDuplicateEmail клиент с таким email уже существует
	ErrDuplicateEmail = errors.New("email already exists")

	// ErrInvalidPhone телефон не соответствует допустимым форматам
	ErrInvalidPhone = errors.New("invalid phone format")

	// ErrInvalidPricing цена или остаток товара недопустимы
	ErrInvalidPricing = errors.New("invalid product pricing")

	// ErrCustomerNotFound клиент не найден
	ErrCustomerNotFound = errors.New("customer not found")

	// ErrNoProducts ни один товар не найден
	ErrNoProducts = errors.New("no valid products")

	// ErrUnresolvedProducts часть товаров не найдена (строгий режим)
	ErrUnresolvedProducts = errors.New("unresolved product ids")
)

// Error ошибка с типом и сообщением для клиента API
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

// Error реализует интерфейс error
func (e *Error) Error() string {
	return e.Message
}

// Unwrap возвращает исходную ошибку
func (e *Error) Unwrap() error {
	return e.Err
}

// ValidationError создает ошибку валидации
func ValidationError(cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...), Err: cause}
}

// ReferenceError создает ошибку ссылки на несуществующую запись
func ReferenceError(cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: KindReference, Message: fmt.Sprintf(format, args...), Err: cause}
}

// NotFoundError создает ошибку отсутствия записи
func NotFoundError(cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...), Err: cause}
}

// KindOf возвращает тип ошибки. Ошибки не из этого пакета считаются внутренними.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsValidation сокращение для KindOf(err) == KindValidation
func IsValidation(err error) bool {
	return KindOf(err) == KindValidation
}

// IsReference сокращение для KindOf(err) == KindReference
func IsReference(err error) bool {
	return KindOf(err) == KindReference
}
