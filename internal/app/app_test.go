package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Dhoini/crm-service/internal/config"
	"github.com/Dhoini/crm-service/internal/domain"
	"github.com/Dhoini/crm-service/pkg/logger"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Port:            "0",
			Env:             "test",
			ReadTimeout:     time.Second,
			WriteTimeout:    time.Second,
			ShutdownTimeout: time.Second,
		},
		Database: config.DatabaseConfig{Driver: config.DriverMemory},
		Log:      config.LogConfig{Level: "error"},
	}
}

func TestNewWithMemoryStorage(t *testing.T) {
	gin.SetMode(gin.TestMode)

	a, err := New(context.Background(), testConfig(), logger.NewNop())
	require.NoError(t, err)
	defer a.Close()

	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	c, err := a.Customers.Create(context.Background(), domain.CustomerRequest{Name: "Alice", Email: "alice@example.com"})
	require.NoError(t, err)

	got, err := a.Customers.GetByID(context.Background(), c.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", got.Email)
}

func TestNewWithRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := testConfig()
	cfg.Redis = config.RedisConfig{Enabled: true, Addr: mr.Addr(), TTL: time.Minute}

	a, err := New(context.Background(), cfg, logger.NewNop())
	require.NoError(t, err)
	defer a.Close()

	stock := 10
	p, err := a.Products.Create(context.Background(), domain.ProductRequest{Name: "Laptop", Price: decimal.RequireFromString("999.99"), Stock: &stock})
	require.NoError(t, err)

	_, err = a.Products.GetByID(context.Background(), p.ID.String())
	require.NoError(t, err)
	assert.NotEmpty(t, mr.Keys())
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	cfg := testConfig()
	cfg.Database.Driver = "sqlite"

	_, err := New(context.Background(), cfg, logger.NewNop())
	assert.Error(t, err)
}

func TestRunStopsOnCancel(t *testing.T) {
	a, err := New(context.Background(), testConfig(), logger.NewNop())
	require.NoError(t, err)
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.NoError(t, a.Close())
}
