package handlers

import (
	"net/http"
	"time"

	"github.com/Dhoini/crm-service/internal/domain"
	"github.com/Dhoini/crm-service/internal/service"
	"github.com/Dhoini/crm-service/pkg/logger"
	"github.com/Dhoini/crm-service/pkg/req"
	"github.com/Dhoini/crm-service/pkg/res"
	"github.com/gin-gonic/gin"
)

// OrderHandler обработчик для заказов
type OrderHandler struct {
	service service.OrderService
	log     *logger.Logger
}

// NewOrderHandler создает новый обработчик заказов
func NewOrderHandler(svc service.OrderService, log *logger.Logger) *OrderHandler {
	return &OrderHandler{
		service: svc,
		log:     log,
	}
}

type orderQuery struct {
	pageQuery
	CustomerName string     `form:"customer_name"`
	ProductName  string     `form:"product_name"`
	OrderDateGte *time.Time `form:"order_date_gte" time_format:"2006-01-02T15:04:05Z07:00"`
	OrderDateLte *time.Time `form:"order_date_lte" time_format:"2006-01-02T15:04:05Z07:00"`
}

// GetOrders возвращает заказы с учетом фильтра и пагинации
func (h *OrderHandler) GetOrders(c *gin.Context) {
	var q orderQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badQuery(c, err)
		return
	}

	orders, err := h.service.Filter(c.Request.Context(), domain.OrderFilter{
		CustomerName: q.CustomerName,
		ProductName:  q.ProductName,
		OrderDateGte: q.OrderDateGte,
		OrderDateLte: q.OrderDateLte,
	}, q.page())
	if err != nil {
		respondError(c, err, h.log)
		return
	}
	res.JsonResponse(c, orders, http.StatusOK)
}

// GetOrder возвращает заказ по ID
func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, h.log)
		return
	}
	res.JsonResponse(c, order, http.StatusOK)
}

// CreateOrder создает новый заказ
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	body, err := req.HandleBody[domain.OrderRequest](c, h.log.Zap())
	if err != nil {
		return
	}

	order, err := h.service.Create(c.Request.Context(), *body)
	if err != nil {
		respondError(c, err, h.log)
		return
	}

	h.log.Info("Created order with ID: %s", order.ID)
	res.JsonResponse(c, order, http.StatusCreated)
}
