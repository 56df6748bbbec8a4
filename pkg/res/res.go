package res

import (
	"github.com/gin-gonic/gin"
)

// ErrorResponse представляет формат JSON-ответа для ошибок.
type ErrorResponse struct {
	Error   string `json:"error"`             // Сообщение об ошибке (для пользователя)
	Code    string `json:"code,omitempty"`    // Тип ошибки (для программной обработки)
	Details any    `json:"details,omitempty"` // Детали ошибки
}

// JsonResponse отправляет JSON-ответ с заданным статусом.
func JsonResponse(c *gin.Context, data any, status int) {
	c.JSON(status, data)
}

// JsonErrorResponse отправляет JSON-ответ ошибки с кодом для программной обработки.
func JsonErrorResponse(c *gin.Context, status int, code, message string) {
	JsonResponse(c, ErrorResponse{Error: message, Code: code}, status)
}
