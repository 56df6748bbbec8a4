package repository

import (
	"context"

	"github.com/Dhoini/crm-service/internal/domain"
	"github.com/Dhoini/crm-service/pkg/logger"
	"github.com/google/uuid"
)

// CachedCustomerRepository реализует CustomerRepository с кешированием GetByID
type CachedCustomerRepository struct {
	CustomerRepository
	cache *RedisCacheRepository
	log   *logger.Logger
}

// NewCachedCustomerRepository создает новый репозиторий клиентов с кешированием
func NewCachedCustomerRepository(repo CustomerRepository, cache *RedisCacheRepository, log *logger.Logger) CustomerRepository {
	return &CachedCustomerRepository{
		CustomerRepository: repo,
		cache:              cache,
		log:                log,
	}
}

// Create сохраняет клиента в БД и кеширует его
func (r *CachedCustomerRepository) Create(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	created, err := r.CustomerRepository.Create(ctx, customer)
	if err != nil {
		return domain.Customer{}, err
	}

	if err := r.cache.CacheCustomer(ctx, created); err != nil {
		// Продолжаем выполнение, несмотря на ошибку кеширования
		r.log.Warnw("Failed to cache customer after creation", "error", err, "customerID", created.ID)
	}
	return created, nil
}

// GetByID получает клиента по ID (сначала из кеша, потом из БД)
func (r *CachedCustomerRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Customer, error) {
	cached, err := r.cache.GetCachedCustomer(ctx, id)
	if err != nil {
		r.log.Warnw("Error getting customer from cache", "error", err, "customerID", id)
	}
	if cached != nil {
		return *cached, nil
	}

	customer, err := r.CustomerRepository.GetByID(ctx, id)
	if err != nil {
		return domain.Customer{}, err
	}

	if err := r.cache.CacheCustomer(ctx, customer); err != nil {
		r.log.Warnw("Failed to cache customer", "error", err, "customerID", id)
	}
	return customer, nil
}

// DeleteAll удаляет клиентов из БД и сбрасывает кеш
func (r *CachedCustomerRepository) DeleteAll(ctx context.Context) (int64, error) {
	n, err := r.CustomerRepository.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	if err := r.cache.InvalidateCustomers(ctx); err != nil {
		r.log.Warnw("Failed to invalidate customers cache", "error", err)
	}
	return n, nil
}

// CachedProductRepository реализует ProductRepository с кешированием выборок по ID
type CachedProductRepository struct {
	ProductRepository
	cache *RedisCacheRepository
	log   *logger.Logger
}

// NewCachedProductRepository создает новый репозиторий товаров с кешированием
func NewCachedProductRepository(repo ProductRepository, cache *RedisCacheRepository, log *logger.Logger) ProductRepository {
	return &CachedProductRepository{
		ProductRepository: repo,
		cache:             cache,
		log:               log,
	}
}

// Create сохраняет товар в БД и кеширует его
func (r *CachedProductRepository) Create(ctx context.Context, product domain.Product) (domain.Product, error) {
	created, err := r.ProductRepository.Create(ctx, product)
	if err != nil {
		return domain.Product{}, err
	}

	if err := r.cache.CacheProduct(ctx, created); err != nil {
		r.log.Warnw("Failed to cache product after creation", "error", err, "productID", created.ID)
	}
	return created, nil
}

// GetByID получает товар по ID (сначала из кеша, потом из БД)
func (r *CachedProductRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Product, error) {
	cached, err := r.cache.GetCachedProduct(ctx, id)
	if err != nil {
		r.log.Warnw("Error getting product from cache", "error", err, "productID", id)
	}
	if cached != nil {
		return *cached, nil
	}

	product, err := r.ProductRepository.GetByID(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}

	if err := r.cache.CacheProduct(ctx, product); err != nil {
		r.log.Warnw("Failed to cache product", "error", err, "productID", id)
	}
	return product, nil
}

// GetByIDs берет из кеша то, что есть, а недостающие товары запрашивает в БД одним запросом
func (r *CachedProductRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Product, error) {
	found := make(map[uuid.UUID]domain.Product, len(ids))
	var missing []uuid.UUID
	for _, id := range ids {
		cached, err := r.cache.GetCachedProduct(ctx, id)
		if err != nil {
			r.log.Warnw("Error getting product from cache", "error", err, "productID", id)
		}
		if cached != nil {
			found[id] = *cached
			continue
		}
		missing = append(missing, id)
	}

	if len(missing) > 0 {
		fetched, err := r.ProductRepository.GetByIDs(ctx, missing)
		if err != nil {
			return nil, err
		}
		for _, p := range fetched {
			found[p.ID] = p
			if err := r.cache.CacheProduct(ctx, p); err != nil {
				r.log.Warnw("Failed to cache product", "error", err, "productID", p.ID)
			}
		}
	}

	products := make([]domain.Product, 0, len(found))
	seen := make(map[uuid.UUID]bool, len(found))
	for _, id := range ids {
		if p, ok := found[id]; ok && !seen[id] {
			products = append(products, p)
			seen[id] = true
		}
	}
	return products, nil
}

// DeleteAll удаляет товары из БД и сбрасывает кеш
func (r *CachedProductRepository) DeleteAll(ctx context.Context) (int64, error) {
	n, err := r.ProductRepository.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	if err := r.cache.InvalidateProducts(ctx); err != nil {
		r.log.Warnw("Failed to invalidate products cache", "error", err)
	}
	return n, nil
}
