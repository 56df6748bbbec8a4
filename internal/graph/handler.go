package graph

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Dhoini/crm-service/internal/metrics"
	"github.com/Dhoini/crm-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/parser"
)

// unknownOperation метка запросов, операцию которых не удалось сопоставить со схемой
const unknownOperation = "unknown"

// Request тело GraphQL запроса
type Request struct {
	Query         string                 `json:"query" form:"query"`
	Variables     map[string]interface{} `json:"variables" form:"-"`
	OperationName string                 `json:"operationName" form:"operationName"`
}

// Handler выполняет GraphQL запросы к схеме CRM
type Handler struct {
	schema  graphql.Schema
	metrics metrics.CRMMetrics
	log     *logger.Logger
}

// NewHandler создает обработчик GraphQL
func NewHandler(schema graphql.Schema, m metrics.CRMMetrics, log *logger.Logger) *Handler {
	if m == nil {
		m = metrics.NewNopCRMMetrics()
	}
	return &Handler{schema: schema, metrics: m, log: log}
}

// Execute выполняет запрос и записывает метрики
func (h *Handler) Execute(ctx context.Context, req Request) *graphql.Result {
	start := time.Now()

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        ctx,
	})

	status := "ok"
	if result.HasErrors() {
		status = "error"
		h.log.Debugw("GraphQL request finished with errors", "operation", req.OperationName, "errors", len(result.Errors))
	}
	h.metrics.ObserveGraphQLRequest(h.operationLabel(req), status, time.Since(start))
	return result
}

// operationLabel возвращает имя корневого поля выбранной операции.
// Метка ограничена полями схемы: имена операций из запроса в нее не попадают.
func (h *Handler) operationLabel(req Request) string {
	doc, err := parser.Parse(parser.ParseParams{Source: req.Query})
	if err != nil {
		return unknownOperation
	}

	var op *ast.OperationDefinition
	for _, def := range doc.Definitions {
		candidate, ok := def.(*ast.OperationDefinition)
		if !ok {
			continue
		}
		if req.OperationName == "" {
			if op != nil {
				return unknownOperation
			}
			op = candidate
			continue
		}
		if candidate.Name != nil && candidate.Name.Value == req.OperationName {
			op = candidate
			break
		}
	}
	if op == nil || op.SelectionSet == nil || len(op.SelectionSet.Selections) == 0 {
		return unknownOperation
	}

	field, ok := op.SelectionSet.Selections[0].(*ast.Field)
	if !ok || field.Name == nil {
		return unknownOperation
	}

	var root *graphql.Object
	switch op.Operation {
	case ast.OperationTypeQuery:
		root = h.schema.QueryType()
	case ast.OperationTypeMutation:
		root = h.schema.MutationType()
	}
	if root == nil {
		return unknownOperation
	}
	if _, ok := root.Fields()[field.Name.Value]; !ok {
		return unknownOperation
	}
	return field.Name.Value
}

// Serve обрабатывает POST /graphql (JSON тело) и GET /graphql?query=...
func (h *Handler) Serve(c *gin.Context) {
	var req Request

	if c.Request.Method == http.MethodGet {
		if err := c.ShouldBindQuery(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if raw := c.Query("variables"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &req.Variables); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "variables must be a JSON object"})
				return
			}
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid GraphQL request: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}

	c.JSON(http.StatusOK, h.Execute(c.Request.Context(), req))
}
