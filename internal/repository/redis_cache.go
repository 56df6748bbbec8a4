package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Dhoini/crm-service/internal/domain"
	"github.com/Dhoini/crm-service/pkg/logger"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// Префиксы ключей для различных типов данных
	customerKeyPrefix = "crm:customer:"
	productKeyPrefix  = "crm:product:"

	// TTL для кэша
	defaultCacheTTL = 15 * time.Minute
)

// RedisCacheRepository кеширует клиентов и товары по ID.
// В рамках сервиса записи не изменяются после создания, поэтому кеш инвалидируется только при очистке таблиц.
type RedisCacheRepository struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

// NewRedisCacheRepository создает новый экземпляр Redis репозитория
func NewRedisCacheRepository(redisAddr, redisPassword string, redisDB int, ttl time.Duration, log *logger.Logger) (*RedisCacheRepository, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       redisDB,
	})

	// Проверяем соединение с Redis
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Errorw("Failed to connect to Redis", "error", err)
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	log.Infow("Connected to Redis successfully", "addr", redisAddr)
	return &RedisCacheRepository{
		client: client,
		ttl:    ttl,
		log:    log,
	}, nil
}

// Close закрывает соединение с Redis
func (r *RedisCacheRepository) Close() error {
	return r.client.Close()
}

func (r *RedisCacheRepository) set(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache %s: %w", key, err)
	}
	return nil
}

// get возвращает false без ошибки, если ключа нет в кеше
func (r *RedisCacheRepository) get(ctx context.Context, key string, v any) (bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get %s from cache: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to unmarshal cached %s: %w", key, err)
	}
	return true, nil
}

// CacheCustomer кеширует клиента
func (r *RedisCacheRepository) CacheCustomer(ctx context.Context, c domain.Customer) error {
	if err := r.set(ctx, customerKeyPrefix+c.ID.String(), c); err != nil {
		return err
	}
	r.log.Debugw("Customer cached", "customerID", c.ID)
	return nil
}

// GetCachedCustomer получает клиента из кеша. Возвращает nil, если в кеше его нет.
func (r *RedisCacheRepository) GetCachedCustomer(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	var c domain.Customer
	found, err := r.get(ctx, customerKeyPrefix+id.String(), &c)
	if err != nil || !found {
		return nil, err
	}
	return &c, nil
}

// CacheProduct кеширует товар
func (r *RedisCacheRepository) CacheProduct(ctx context.Context, p domain.Product) error {
	if err := r.set(ctx, productKeyPrefix+p.ID.String(), p); err != nil {
		return err
	}
	r.log.Debugw("Product cached", "productID", p.ID)
	return nil
}

// GetCachedProduct получает товар из кеша. Возвращает nil, если в кеше его нет.
func (r *RedisCacheRepository) GetCachedProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	var p domain.Product
	found, err := r.get(ctx, productKeyPrefix+id.String(), &p)
	if err != nil || !found {
		return nil, err
	}
	return &p, nil
}

// InvalidateCustomers удаляет всех клиентов из кеша
func (r *RedisCacheRepository) InvalidateCustomers(ctx context.Context) error {
	return r.deleteByPrefix(ctx, customerKeyPrefix)
}

// InvalidateProducts удаляет все товары из кеша
func (r *RedisCacheRepository) InvalidateProducts(ctx context.Context) error {
	return r.deleteByPrefix(ctx, productKeyPrefix)
}

func (r *RedisCacheRepository) deleteByPrefix(ctx context.Context, prefix string) error {
	var deleted int64
	iter := r.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete %s from cache: %w", iter.Val(), err)
		}
		deleted++
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cache keys: %w", err)
	}
	r.log.Debugw("Cache invalidated", "prefix", prefix, "keys", deleted)
	return nil
}
