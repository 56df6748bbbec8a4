package service

import (
	"context"

	"github.com/Dhoini/crm-service/internal/domain"
)

// EventPublisher получатель событий о созданных записях.
// Ошибка публикации не отменяет уже сохраненную запись.
type EventPublisher interface {
	CustomerCreated(ctx context.Context, customer domain.Customer) error
	ProductCreated(ctx context.Context, product domain.Product) error
	OrderCreated(ctx context.Context, order domain.Order) error
}

// NoopPublisher EventPublisher без побочных эффектов
type NoopPublisher struct{}

func (NoopPublisher) CustomerCreated(context.Context, domain.Customer) error { return nil }
func (NoopPublisher) ProductCreated(context.Context, domain.Product) error   { return nil }
func (NoopPublisher) OrderCreated(context.Context, domain.Order) error       { return nil }
