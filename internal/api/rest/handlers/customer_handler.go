package handlers

import (
	"net/http"

	"github.com/Dhoini/crm-service/internal/domain"
	"github.com/Dhoini/crm-service/internal/service"
	"github.com/Dhoini/crm-service/pkg/logger"
	"github.com/Dhoini/crm-service/pkg/req"
	"github.com/Dhoini/crm-service/pkg/res"
	"github.com/gin-gonic/gin"
)

// CustomerHandler обработчик для клиентов
type CustomerHandler struct {
	service service.CustomerService
	log     *logger.Logger
}

// NewCustomerHandler создает новый обработчик клиентов
func NewCustomerHandler(svc service.CustomerService, log *logger.Logger) *CustomerHandler {
	return &CustomerHandler{
		service: svc,
		log:     log,
	}
}

type customerQuery struct {
	pageQuery
	Name  string `form:"name"`
	Email string `form:"email"`
	Phone string `form:"phone"`
}

// GetCustomers возвращает клиентов с учетом фильтра и пагинации из query string
func (h *CustomerHandler) GetCustomers(c *gin.Context) {
	var q customerQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badQuery(c, err)
		return
	}

	customers, err := h.service.Filter(c.Request.Context(), domain.CustomerFilter{
		Name:         q.Name,
		Email:        q.Email,
		PhonePattern: q.Phone,
	}, q.page())
	if err != nil {
		respondError(c, err, h.log)
		return
	}

	h.log.Debug("Returned %d customers", len(customers))
	res.JsonResponse(c, customers, http.StatusOK)
}

// GetCustomer возвращает клиента по ID
func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	customer, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, h.log)
		return
	}
	res.JsonResponse(c, customer, http.StatusOK)
}

// CreateCustomer создает нового клиента
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	body, err := req.HandleBody[domain.CustomerRequest](c, h.log.Zap())
	if err != nil {
		return
	}

	customer, err := h.service.Create(c.Request.Context(), *body)
	if err != nil {
		respondError(c, err, h.log)
		return
	}

	h.log.Info("Created customer with ID: %s", customer.ID)
	res.JsonResponse(c, gin.H{
		"customer": customer,
		"message":  "Customer created successfully",
	}, http.StatusCreated)
}

// BulkCreateCustomers создает клиентов пакетом. Ответ всегда 200 с созданными записями и ошибками.
func (h *CustomerHandler) BulkCreateCustomers(c *gin.Context) {
	body, err := req.HandleBody[[]domain.CustomerRequest](c, h.log.Zap())
	if err != nil {
		return
	}

	result, err := h.service.BulkCreate(c.Request.Context(), *body)
	if err != nil {
		respondError(c, err, h.log)
		return
	}
	res.JsonResponse(c, result, http.StatusOK)
}
