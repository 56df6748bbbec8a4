package handlers

import (
	"net/http"

	"github.com/Dhoini/crm-service/internal/domain"
	"github.com/Dhoini/crm-service/pkg/res"
	"github.com/gin-gonic/gin"
)

// pageQuery общие параметры пагинации списков
type pageQuery struct {
	Limit   int    `form:"limit"`
	Offset  int    `form:"offset"`
	OrderBy string `form:"order_by"`
}

func (q pageQuery) page() domain.Page {
	return domain.Page{Limit: q.Limit, Offset: q.Offset, OrderBy: q.OrderBy}
}

func badQuery(c *gin.Context, err error) {
	res.JsonResponse(c, res.ErrorResponse{
		Error:   "invalid query parameters",
		Code:    string(domain.KindValidation),
		Details: err.Error(),
	}, http.StatusBadRequest)
}
