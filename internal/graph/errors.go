package graph

import (
	"errors"

	"github.com/Dhoini/crm-service/internal/domain"
	"github.com/Dhoini/crm-service/pkg/logger"
)

// resolverError ошибка резолвера с кодом в extensions ответа GraphQL
type resolverError struct {
	kind    domain.ErrorKind
	message string
	cause   error
}

func (e *resolverError) Error() string { return e.message }

func (e *resolverError) Unwrap() error { return e.cause }

// Extensions реализует gqlerrors.ExtendedError
func (e *resolverError) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": string(e.kind)}
}

// toResolverError переводит ошибку сервиса в ошибку GraphQL.
// Текст внутренних ошибок клиенту не возвращается.
func toResolverError(err error, log *logger.Logger, operation string) error {
	if err == nil {
		return nil
	}

	var de *domain.Error
	if errors.As(err, &de) {
		return &resolverError{kind: de.Kind, message: de.Message, cause: err}
	}

	log.Errorw("GraphQL resolver failed", "operation", operation, "error", err)
	return &resolverError{kind: domain.KindInternal, message: "internal error", cause: err}
}
