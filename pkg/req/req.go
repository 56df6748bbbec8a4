package req

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/Dhoini/crm-service/pkg/res"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Decode декодирует JSON из io.ReadCloser в структуру типа T.
func Decode[T any](body io.ReadCloser) (T, error) {
	var payload T
	if body == nil {
		return payload, fmt.Errorf("empty body")
	}
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return payload, err
	}
	return payload, nil
}

// HandleBody декодирует тело запроса. При ошибке сам отвечает 400.
// Проверка содержимого выполняется сервисами.
func HandleBody[T any](c *gin.Context, log *zap.Logger) (*T, error) {
	body, err := Decode[T](c.Request.Body)
	if err != nil {
		log.Warn("Failed to decode request body", zap.Error(err))
		res.JsonResponse(c, res.ErrorResponse{Error: "invalid request body", Details: err.Error()}, http.StatusBadRequest)
		return nil, err
	}
	return &body, nil
}
