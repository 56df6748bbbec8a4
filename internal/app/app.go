// Package app собирает компоненты сервиса в единое приложение.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dhoini/crm-service/internal/api/rest"
	"github.com/Dhoini/crm-service/internal/config"
	"github.com/Dhoini/crm-service/internal/graph"
	"github.com/Dhoini/crm-service/internal/kafka"
	"github.com/Dhoini/crm-service/internal/metrics"
	"github.com/Dhoini/crm-service/internal/repository"
	"github.com/Dhoini/crm-service/internal/repository/postgres"
	"github.com/Dhoini/crm-service/internal/service"
	"github.com/Dhoini/crm-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

const systemMetricsInterval = 15 * time.Second

// App представляет собой контейнер для всех компонентов приложения
type App struct {
	Config   *config.Config
	Log      *logger.Logger
	Registry *prometheus.Registry

	Customers service.CustomerService
	Products  service.ProductService
	Orders    service.OrderService

	Router *gin.Engine
	Server *rest.Server

	systemMetrics metrics.SystemMetrics
	closers       []func() error
}

// Storage репозитории выбранного хранилища
type Storage struct {
	Customers repository.CustomerRepository
	Products  repository.ProductRepository
	Orders    repository.OrderRepository
	closers   []func() error
}

// NewStorage создает репозитории по настройкам database и redis
func NewStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Storage, error) {
	s := &Storage{}

	switch cfg.Database.Driver {
	case config.DriverPostgres:
		opts := postgres.DefaultPoolOptions()
		if cfg.Database.MaxConns > 0 {
			opts.MaxConns = cfg.Database.MaxConns
		}
		if cfg.Database.MinConns > 0 {
			opts.MinConns = cfg.Database.MinConns
		}
		if cfg.Database.MaxConnLifetime > 0 {
			opts.MaxConnLifetime = cfg.Database.MaxConnLifetime
		}

		pool, err := postgres.NewConnection(ctx, cfg.Database.DSN, opts, log)
		if err != nil {
			return nil, err
		}
		db := postgres.NewDB(pool)
		s.closers = append(s.closers, func() error {
			err := db.Close()
			pool.Close()
			return err
		})

		if cfg.Database.Migrate {
			if err := postgres.Migrate(ctx, db); err != nil {
				s.Close()
				return nil, err
			}
			log.Info("Database schema is up to date")
		}

		s.Customers = postgres.NewPostgresCustomerRepository(db, log)
		s.Products = postgres.NewPostgresProductRepository(db, log)
		s.Orders = postgres.NewPostgresOrderRepository(db, log)

	case config.DriverMemory:
		log.Warn("Using in-memory storage, data is lost on restart")
		store := repository.NewInMemoryStore(log)
		s.Customers = store.Customers()
		s.Products = store.Products()
		s.Orders = store.Orders()

	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}

	if cfg.Redis.Enabled {
		cache, err := repository.NewRedisCacheRepository(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTL, log)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.closers = append(s.closers, cache.Close)
		s.Customers = repository.NewCachedCustomerRepository(s.Customers, cache, log)
		s.Products = repository.NewCachedProductRepository(s.Products, cache, log)
	}

	return s, nil
}

// Close освобождает соединения хранилища
func (s *Storage) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}

// New создает и инициализирует новый экземпляр приложения
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	a := &App{
		Config:   cfg,
		Log:      log,
		Registry: prometheus.NewRegistry(),
	}

	storage, err := NewStorage(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, storage.Close)

	events, err := a.newEventPublisher(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	crmMetrics := metrics.NewCRMMetrics(a.Registry, log)
	a.systemMetrics = metrics.NewSystemMetrics(a.Registry, log)

	a.Customers = service.NewCustomerService(storage.Customers, events, crmMetrics, log.Named("customers"))
	a.Products = service.NewProductService(storage.Products, events, crmMetrics, log.Named("products"))
	a.Orders = service.NewOrderService(storage.Orders, storage.Customers, storage.Products, events, crmMetrics,
		service.OrderOptions{StrictProductRefs: cfg.Orders.StrictProductRefs}, log.Named("orders"))

	schema, err := graph.NewSchema(graph.NewResolver(a.Customers, a.Products, a.Orders, log.Named("graphql")))
	if err != nil {
		a.Close()
		return nil, err
	}

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	a.Router = rest.SetupRouter(rest.RouterDeps{
		Customers: a.Customers,
		Products:  a.Products,
		Orders:    a.Orders,
		GraphQL:   graph.NewHandler(schema, crmMetrics, log.Named("graphql")),
		Registry:  a.Registry,
		Log:       log.Named("http"),
	})
	a.Server = rest.NewServer(a.Router, cfg.App, log)

	return a, nil
}

func (a *App) newEventPublisher(ctx context.Context) (service.EventPublisher, error) {
	if !a.Config.Kafka.Enabled {
		return service.NoopPublisher{}, nil
	}

	kafkaCfg := kafka.NewConfig(a.Config.Kafka.Brokers, a.Config.Kafka.TopicPrefix)
	if a.Config.Kafka.EnsureTopics {
		if err := kafka.EnsureTopics(ctx, kafkaCfg, a.Log); err != nil {
			return nil, err
		}
	}

	producer, err := kafka.NewProducer(kafkaCfg, a.Log.Named("kafka"))
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, producer.Close)
	return producer, nil
}

// Run запускает HTTP сервер и блокируется до отмены ctx, затем выполняет graceful shutdown
func (a *App) Run(ctx context.Context) error {
	a.systemMetrics.StartRecording(systemMetricsInterval)
	defer a.systemMetrics.Stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.Server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.App.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	if err := <-errCh; err != nil {
		return err
	}

	a.Log.Info("Server stopped gracefully")
	return nil
}

// Close освобождает ресурсы приложения в обратном порядке создания
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
