package metrics

import (
	"time"

	"github.com/Dhoini/crm-service/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "crm"

// CRMMetrics интерфейс для метрик CRM
type CRMMetrics interface {
	IncCustomerCreated()
	AddBulkErrors(n int)
	IncProductCreated()
	ObserveOrderCreated(totalAmount float64)
	ObserveGraphQLRequest(operation, status string, duration time.Duration)
}

type crmMetrics struct {
	log              *logger.Logger
	customersCreated prometheus.Counter
	bulkErrors       prometheus.Counter
	productsCreated  prometheus.Counter
	ordersCreated    prometheus.Counter
	orderAmount      prometheus.Histogram
	graphqlRequests  *prometheus.CounterVec
	graphqlDuration  *prometheus.HistogramVec
}

// NewCRMMetrics создает метрики CRM в указанном реестре
func NewCRMMetrics(registry *prometheus.Registry, log *logger.Logger) CRMMetrics {
	factory := promauto.With(registry)

	m := &crmMetrics{
		log: log,
		customersCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "customers_created_total",
			Help:      "The total number of created customers",
		}),
		bulkErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "customers_bulk_errors_total",
			Help:      "The total number of rejected entries in bulk customer creation",
		}),
		productsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "products_created_total",
			Help:      "The total number of created products",
		}),
		ordersCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_created_total",
			Help:      "The total number of created orders",
		}),
		orderAmount: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "order_total_amount",
			Help:      "Order total amount distribution",
			Buckets:   prometheus.ExponentialBuckets(10, 10, 5), // 10, 100, 1000, 10000, 100000
		}),
		graphqlRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "graphql_requests_total",
			Help:      "The total number of GraphQL requests by operation and status",
		}, []string{"operation", "status"}),
		graphqlDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "graphql_request_duration_seconds",
			Help:      "GraphQL request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}

	log.Debug("CRM metrics registered")
	return m
}

// IncCustomerCreated увеличивает счетчик созданных клиентов
func (m *crmMetrics) IncCustomerCreated() {
	m.customersCreated.Inc()
}

// AddBulkErrors учитывает отклоненные записи пакетного создания
func (m *crmMetrics) AddBulkErrors(n int) {
	if n > 0 {
		m.bulkErrors.Add(float64(n))
	}
}

// IncProductCreated увеличивает счетчик созданных товаров
func (m *crmMetrics) IncProductCreated() {
	m.productsCreated.Inc()
}

// ObserveOrderCreated учитывает созданный заказ и его сумму
func (m *crmMetrics) ObserveOrderCreated(totalAmount float64) {
	m.ordersCreated.Inc()
	m.orderAmount.Observe(totalAmount)
}

// ObserveGraphQLRequest записывает результат и длительность GraphQL запроса
func (m *crmMetrics) ObserveGraphQLRequest(operation, status string, duration time.Duration) {
	if operation == "" {
		operation = "anonymous"
	}
	m.graphqlRequests.WithLabelValues(operation, status).Inc()
	m.graphqlDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

type nopMetrics struct{}

// NewNopCRMMetrics возвращает метрики, которые ничего не записывают
func NewNopCRMMetrics() CRMMetrics { return nopMetrics{} }

func (nopMetrics) IncCustomerCreated()                                 {}
func (nopMetrics) AddBulkErrors(int)                                   {}
func (nopMetrics) IncProductCreated()                                  {}
func (nopMetrics) ObserveOrderCreated(float64)                         {}
func (nopMetrics) ObserveGraphQLRequest(string, string, time.Duration) {}
