package handlers

import (
	"errors"
	"net/http"

	"github.com/Dhoini/crm-service/internal/domain"
	"github.com/Dhoini/crm-service/pkg/logger"
	"github.com/Dhoini/crm-service/pkg/res"
	"github.com/gin-gonic/gin"
)

// statusFor возвращает HTTP статус для ошибки сервиса
func statusFor(err error) int {
	switch domain.KindOf(err) {
	case domain.KindValidation:
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return http.StatusConflict
		}
		return http.StatusBadRequest
	case domain.KindReference:
		return http.StatusUnprocessableEntity
	case domain.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError отправляет ошибку сервиса клиенту.
// Внутренние ошибки логируются, клиенту уходит общее сообщение.
func respondError(c *gin.Context, err error, log *logger.Logger) {
	status := statusFor(err)
	kind := string(domain.KindOf(err))

	var de *domain.Error
	if !errors.As(err, &de) {
		log.Errorw("Request failed", "error", err, "path", c.FullPath())
		res.JsonErrorResponse(c, status, kind, "internal error")
		return
	}

	log.Debugw("Request rejected", "code", kind, "error", de.Message)
	res.JsonErrorResponse(c, status, kind, de.Message)
}
