package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Dhoini/crm-service/internal/domain"
	"github.com/Dhoini/crm-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", domain.ValidationError(domain.ErrInvalidPhone, "Invalid phone format"), http.StatusBadRequest},
		{"duplicate email", domain.ValidationError(domain.ErrDuplicateEmail, "Email already exists"), http.StatusConflict},
		{"reference", domain.ReferenceError(domain.ErrCustomerNotFound, "Customer not found"), http.StatusUnprocessableEntity},
		{"not found", domain.NotFoundError(nil, "Order not found"), http.StatusNotFound},
		{"wrapped validation", fmt.Errorf("create: %w", domain.ValidationError(nil, "bad")), http.StatusBadRequest},
		{"internal", errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

func TestRespondErrorHidesInternalErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	respondError(c, errors.New("pq: password authentication failed"), logger.NewNop())

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal error","code":"INTERNAL"}`, w.Body.String())

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	respondError(c, domain.ReferenceError(domain.ErrCustomerNotFound, "Customer not found"), logger.NewNop())

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.JSONEq(t, `{"error":"Customer not found","code":"REFERENCE_ERROR"}`, w.Body.String())
}
