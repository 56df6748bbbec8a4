package rest

import (
	"github.com/Dhoini/crm-service/internal/api/rest/handlers"
	"github.com/Dhoini/crm-service/internal/api/rest/middleware"
	"github.com/Dhoini/crm-service/internal/graph"
	"github.com/Dhoini/crm-service/internal/service"
	"github.com/Dhoini/crm-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterDeps зависимости HTTP маршрутов
type RouterDeps struct {
	Customers service.CustomerService
	Products  service.ProductService
	Orders    service.OrderService
	GraphQL   *graph.Handler
	Registry  *prometheus.Registry
	Log       *logger.Logger
}

// SetupRouter настраивает маршрутизатор Gin с маршрутами и middleware
func SetupRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	r.Use(middleware.LoggerMiddleware(deps.Log))
	r.Use(gin.Recovery())

	// Endpoint для проверки работоспособности сервиса
	r.GET("/health", handlers.HealthCheck)

	// Prometheus метрики
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))

	// GraphQL
	r.POST("/graphql", deps.GraphQL.Serve)
	r.GET("/graphql", deps.GraphQL.Serve)

	customerHandler := handlers.NewCustomerHandler(deps.Customers, deps.Log)
	productHandler := handlers.NewProductHandler(deps.Products, deps.Log)
	orderHandler := handlers.NewOrderHandler(deps.Orders, deps.Log)

	v1 := r.Group("/api/v1")
	{
		customers := v1.Group("/customers")
		{
			customers.GET("", customerHandler.GetCustomers)
			customers.GET("/:id", customerHandler.GetCustomer)
			customers.POST("", customerHandler.CreateCustomer)
			customers.POST("/bulk", customerHandler.BulkCreateCustomers)
		}

		products := v1.Group("/products")
		{
			products.GET("", productHandler.GetProducts)
			products.GET("/:id", productHandler.GetProduct)
			products.POST("", productHandler.CreateProduct)
		}

		orders := v1.Group("/orders")
		{
			orders.GET("", orderHandler.GetOrders)
			orders.GET("/:id", orderHandler.GetOrder)
			orders.POST("", orderHandler.CreateOrder)
		}
	}

	return r
}
