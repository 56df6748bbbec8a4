package handlers

import (
	"net/http"

	"github.com/Dhoini/crm-service/internal/domain"
	"github.com/Dhoini/crm-service/internal/service"
	"github.com/Dhoini/crm-service/pkg/logger"
	"github.com/Dhoini/crm-service/pkg/req"
	"github.com/Dhoini/crm-service/pkg/res"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ProductHandler обработчик для товаров
type ProductHandler struct {
	service service.ProductService
	log     *logger.Logger
}

// NewProductHandler создает новый обработчик товаров
func NewProductHandler(svc service.ProductService, log *logger.Logger) *ProductHandler {
	return &ProductHandler{
		service: svc,
		log:     log,
	}
}

type productQuery struct {
	pageQuery
	Name     string `form:"name"`
	PriceGte string `form:"price_gte"`
	PriceLte string `form:"price_lte"`
	StockGte *int   `form:"stock_gte"`
	StockLte *int   `form:"stock_lte"`
}

func (q productQuery) filter() (domain.ProductFilter, error) {
	f := domain.ProductFilter{Name: q.Name, StockGte: q.StockGte, StockLte: q.StockLte}
	var err error
	if f.PriceGte, err = parseDecimal(q.PriceGte); err != nil {
		return f, err
	}
	if f.PriceLte, err = parseDecimal(q.PriceLte); err != nil {
		return f, err
	}
	return f, nil
}

func parseDecimal(s string) (*decimal.Decimal, error) {
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// GetProducts возвращает товары с учетом фильтра и пагинации
func (h *ProductHandler) GetProducts(c *gin.Context) {
	var q productQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badQuery(c, err)
		return
	}
	filter, err := q.filter()
	if err != nil {
		badQuery(c, err)
		return
	}

	products, err := h.service.Filter(c.Request.Context(), filter, q.page())
	if err != nil {
		respondError(c, err, h.log)
		return
	}
	res.JsonResponse(c, products, http.StatusOK)
}

// GetProduct возвращает товар по ID
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, h.log)
		return
	}
	res.JsonResponse(c, product, http.StatusOK)
}

// CreateProduct создает новый товар
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	body, err := req.HandleBody[domain.ProductRequest](c, h.log.Zap())
	if err != nil {
		return
	}

	product, err := h.service.Create(c.Request.Context(), *body)
	if err != nil {
		respondError(c, err, h.log)
		return
	}

	h.log.Info("Created product with ID: %s", product.ID)
	res.JsonResponse(c, product, http.StatusCreated)
}
