package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/Dhoini/crm-service/internal/metrics"
	"github.com/Dhoini/crm-service/internal/repository"
	"github.com/Dhoini/crm-service/internal/service"
	"github.com/Dhoini/crm-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/graphql-go/graphql"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)

func newTestHandler(t *testing.T, strict bool) *Handler {
	t.Helper()
	return newTestHandlerWithMetrics(t, strict, metrics.NewNopCRMMetrics())
}

func newTestHandlerWithMetrics(t *testing.T, strict bool, m metrics.CRMMetrics) *Handler {
	t.Helper()
	log := logger.NewNop()
	store := repository.NewInMemoryStore(log)

	customers := service.NewCustomerService(store.Customers(), nil, m, log)
	products := service.NewProductService(store.Products(), nil, m, log)
	orders := service.NewOrderService(store.Orders(), store.Customers(), store.Products(), nil, m,
		service.OrderOptions{StrictProductRefs: strict, Now: func() time.Time { return fixedNow }}, log)

	schema, err := NewSchema(NewResolver(customers, products, orders, log))
	require.NoError(t, err)
	return NewHandler(schema, m, log)
}

// exec выполняет запрос и декодирует data в out
func exec(t *testing.T, h *Handler, query string, vars map[string]interface{}, out interface{}) *graphql.Result {
	t.Helper()
	result := h.Execute(context.Background(), Request{Query: query, Variables: vars})
	if out != nil && result.Data != nil {
		raw, err := json.Marshal(result.Data)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, out))
	}
	return result
}

func errorCode(t *testing.T, result *graphql.Result) string {
	t.Helper()
	require.NotEmpty(t, result.Errors)
	code, _ := result.Errors[0].Extensions["code"].(string)
	return code
}

const createCustomerMutation = `mutation($input: CustomerInput!) {
	createCustomer(input: $input) { customer { id name email phone } message }
}`

const createProductMutation = `mutation($input: ProductInput!) {
	createProduct(input: $input) { product { id name price stock } }
}`

const createOrderMutation = `mutation($input: OrderInput!) {
	createOrder(input: $input) {
		order { id customer { id name } products { id name price } orderDate totalAmount }
	}
}`

type customerData struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone *string `json:"phone"`
}

type productData struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}

type orderData struct {
	ID          string        `json:"id"`
	Customer    customerData  `json:"customer"`
	Products    []productData `json:"products"`
	OrderDate   string        `json:"orderDate"`
	TotalAmount float64       `json:"totalAmount"`
}

func createCustomer(t *testing.T, h *Handler, name, email, phone string) customerData {
	t.Helper()
	input := map[string]interface{}{"name": name, "email": email}
	if phone != "" {
		input["phone"] = phone
	}
	var out struct {
		CreateCustomer struct {
			Customer customerData `json:"customer"`
			Message  string       `json:"message"`
		} `json:"createCustomer"`
	}
	result := exec(t, h, createCustomerMutation, map[string]interface{}{"input": input}, &out)
	require.Empty(t, result.Errors)
	assert.Equal(t, "Customer created successfully", out.CreateCustomer.Message)
	return out.CreateCustomer.Customer
}

func createProduct(t *testing.T, h *Handler, name string, price float64) productData {
	t.Helper()
	var out struct {
		CreateProduct struct {
			Product productData `json:"product"`
		} `json:"createProduct"`
	}
	result := exec(t, h, createProductMutation, map[string]interface{}{
		"input": map[string]interface{}{"name": name, "price": price, "stock": 5},
	}, &out)
	require.Empty(t, result.Errors)
	return out.CreateProduct.Product
}

func TestHello(t *testing.T) {
	h := newTestHandler(t, false)

	var out struct {
		Hello string `json:"hello"`
	}
	result := exec(t, h, `{ hello }`, nil, &out)
	require.Empty(t, result.Errors)
	assert.Equal(t, "Hello from ALX GraphQL CRM!", out.Hello)
}

func TestCreateCustomer(t *testing.T) {
	h := newTestHandler(t, false)

	c := createCustomer(t, h, "Alice", "alice@example.com", "+1234567890")
	assert.NotEmpty(t, c.ID)
	require.NotNil(t, c.Phone)
	assert.Equal(t, "+1234567890", *c.Phone)

	result := exec(t, h, createCustomerMutation, map[string]interface{}{
		"input": map[string]interface{}{"name": "Alice again", "email": "alice@example.com"},
	}, nil)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, result))
	assert.Equal(t, "Email already exists", result.Errors[0].Message)

	result = exec(t, h, createCustomerMutation, map[string]interface{}{
		"input": map[string]interface{}{"name": "Carol", "email": "carol@example.com", "phone": "12-34"},
	}, nil)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, result))
	assert.Equal(t, "Invalid phone format", result.Errors[0].Message)

	var list struct {
		ListCustomers []customerData `json:"listCustomers"`
	}
	exec(t, h, `{ listCustomers { id name phone } }`, nil, &list)
	require.Len(t, list.ListCustomers, 1)
	assert.Equal(t, "Alice", list.ListCustomers[0].Name)
}

func TestBulkCreateCustomers(t *testing.T) {
	h := newTestHandler(t, false)
	createCustomer(t, h, "Existing", "dup@example.com", "")

	var out struct {
		BulkCreateCustomers struct {
			Customers []customerData `json:"customers"`
			Errors    []string       `json:"errors"`
		} `json:"bulkCreateCustomers"`
	}
	result := exec(t, h, `mutation($input: [CustomerInput!]!) {
		bulkCreateCustomers(input: $input) { customers { name } errors }
	}`, map[string]interface{}{
		"input": []interface{}{
			map[string]interface{}{"name": "One", "email": "one@example.com"},
			map[string]interface{}{"name": "Two", "email": "dup@example.com"},
			map[string]interface{}{"name": "Three", "email": "three@example.com"},
		},
	}, &out)

	require.Empty(t, result.Errors)
	assert.Len(t, out.BulkCreateCustomers.Customers, 2)
	require.Len(t, out.BulkCreateCustomers.Errors, 1)
	assert.Contains(t, out.BulkCreateCustomers.Errors[0], "Two")
}

func TestCreateProduct(t *testing.T) {
	h := newTestHandler(t, false)

	p := createProduct(t, h, "Laptop", 999.99)
	assert.Equal(t, 999.99, p.Price)
	assert.Equal(t, 5, p.Stock)

	result := exec(t, h, createProductMutation, map[string]interface{}{
		"input": map[string]interface{}{"name": "Free", "price": 0.0},
	}, nil)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, result))

	var out struct {
		CreateProduct struct {
			Product productData `json:"product"`
		} `json:"createProduct"`
	}
	result = exec(t, h, createProductMutation, map[string]interface{}{
		"input": map[string]interface{}{"name": "Sticker", "price": 0.01},
	}, &out)
	require.Empty(t, result.Errors)
	assert.Equal(t, 0, out.CreateProduct.Product.Stock)
}

func TestCreateOrder(t *testing.T) {
	h := newTestHandler(t, false)
	alice := createCustomer(t, h, "Alice", "alice@example.com", "")
	laptop := createProduct(t, h, "Laptop", 999.99)
	phone := createProduct(t, h, "Phone", 499.50)

	var out struct {
		CreateOrder struct {
			Order orderData `json:"order"`
		} `json:"createOrder"`
	}
	result := exec(t, h, createOrderMutation, map[string]interface{}{
		"input": map[string]interface{}{
			"customerId": alice.ID,
			"productIds": []interface{}{laptop.ID, phone.ID},
		},
	}, &out)
	require.Empty(t, result.Errors)

	order := out.CreateOrder.Order
	assert.Equal(t, 1499.49, order.TotalAmount)
	assert.Equal(t, alice.ID, order.Customer.ID)
	require.Len(t, order.Products, 2)
	assert.Equal(t, "Laptop", order.Products[0].Name)
	assert.Equal(t, fixedNow.Format(time.RFC3339), order.OrderDate)
}

func TestCreateOrderReferenceErrors(t *testing.T) {
	h := newTestHandler(t, false)
	alice := createCustomer(t, h, "Alice", "alice@example.com", "")
	laptop := createProduct(t, h, "Laptop", 999.99)

	result := exec(t, h, createOrderMutation, map[string]interface{}{
		"input": map[string]interface{}{
			"customerId": "00000000-0000-0000-0000-000000000001",
			"productIds": []interface{}{laptop.ID},
		},
	}, nil)
	assert.Equal(t, "REFERENCE_ERROR", errorCode(t, result))
	assert.Equal(t, "Invalid customer ID", result.Errors[0].Message)

	result = exec(t, h, createOrderMutation, map[string]interface{}{
		"input": map[string]interface{}{
			"customerId": alice.ID,
			"productIds": []interface{}{"00000000-0000-0000-0000-000000000002"},
		},
	}, nil)
	assert.Equal(t, "REFERENCE_ERROR", errorCode(t, result))

	var list struct {
		ListOrders []orderData `json:"listOrders"`
	}
	exec(t, h, `{ listOrders { id } }`, nil, &list)
	assert.Empty(t, list.ListOrders)
}

func TestCreateOrderStrict(t *testing.T) {
	h := newTestHandler(t, true)
	alice := createCustomer(t, h, "Alice", "alice@example.com", "")
	laptop := createProduct(t, h, "Laptop", 999.99)

	result := exec(t, h, createOrderMutation, map[string]interface{}{
		"input": map[string]interface{}{
			"customerId": alice.ID,
			"productIds": []interface{}{laptop.ID, "00000000-0000-0000-0000-000000000002"},
		},
	}, nil)
	assert.Equal(t, "REFERENCE_ERROR", errorCode(t, result))
}

func TestFilteredQueries(t *testing.T) {
	h := newTestHandler(t, false)
	alice := createCustomer(t, h, "Alice", "alice@example.com", "+1234567890")
	bob := createCustomer(t, h, "Bob", "bob@example.com", "123-456-7890")
	laptop := createProduct(t, h, "Laptop", 999.99)
	phone := createProduct(t, h, "Phone", 499.50)

	for _, o := range []struct{ customer, product string }{{alice.ID, laptop.ID}, {bob.ID, phone.ID}} {
		result := exec(t, h, createOrderMutation, map[string]interface{}{
			"input": map[string]interface{}{"customerId": o.customer, "productIds": []interface{}{o.product}},
		}, nil)
		require.Empty(t, result.Errors)
	}

	var customers struct {
		AllCustomers []customerData `json:"allCustomers"`
	}
	exec(t, h, `{ allCustomers(filter: {phonePattern: "+1"}) { name } }`, nil, &customers)
	require.Len(t, customers.AllCustomers, 1)
	assert.Equal(t, "Alice", customers.AllCustomers[0].Name)

	var products struct {
		AllProducts []productData `json:"allProducts"`
	}
	exec(t, h, `{ allProducts(filter: {priceLte: 500}, orderBy: "-price") { name } }`, nil, &products)
	require.Len(t, products.AllProducts, 1)
	assert.Equal(t, "Phone", products.AllProducts[0].Name)

	var orders struct {
		AllOrders []orderData `json:"allOrders"`
	}
	exec(t, h, `{ allOrders(filter: {productName: "lap"}) { customer { name } totalAmount } }`, nil, &orders)
	require.Len(t, orders.AllOrders, 1)
	assert.Equal(t, "Alice", orders.AllOrders[0].Customer.Name)

	exec(t, h, `{ allCustomers(limit: 1, offset: 1) { name } }`, nil, &customers)
	require.Len(t, customers.AllCustomers, 1)
	assert.Equal(t, "Bob", customers.AllCustomers[0].Name)

	result := exec(t, h, `{ allCustomers(orderBy: "password") { name } }`, nil, nil)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, result))
}

func TestGetByID(t *testing.T) {
	h := newTestHandler(t, false)
	alice := createCustomer(t, h, "Alice", "alice@example.com", "")

	var out struct {
		Customer *customerData `json:"customer"`
	}
	result := exec(t, h, `query($id: ID!) { customer(id: $id) { name } }`,
		map[string]interface{}{"id": alice.ID}, &out)
	require.Empty(t, result.Errors)
	require.NotNil(t, out.Customer)
	assert.Equal(t, "Alice", out.Customer.Name)

	result = exec(t, h, `{ product(id: "00000000-0000-0000-0000-000000000009") { name } }`, nil, nil)
	assert.Equal(t, "NOT_FOUND", errorCode(t, result))
}

func TestServeHTTP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newTestHandler(t, false)

	router := gin.New()
	router.POST("/graphql", h.Serve)
	router.GET("/graphql", h.Serve)

	body, err := json.Marshal(Request{Query: `{ hello }`})
	require.NoError(t, err)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":{"hello":"Hello from ALX GraphQL CRM!"}}`, w.Body.String())

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/graphql?query="+url.QueryEscape(`{ hello }`), nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Hello from ALX GraphQL CRM!")

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/graphql", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOperationLabel(t *testing.T) {
	h := newTestHandler(t, false)

	tests := []struct {
		name string
		req  Request
		want string
	}{
		{"anonymous query", Request{Query: `{ hello }`}, "hello"},
		{"named mutation", Request{Query: `mutation Add { createProduct(input: {name: "X", price: 1}) { product { id } } }`}, "createProduct"},
		{"selected by name", Request{
			Query:         `query A { listCustomers { id } } query B { listOrders { id } }`,
			OperationName: "B",
		}, "listOrders"},
		{"client name ignored", Request{Query: `{ hello }`, OperationName: "junk1"}, unknownOperation},
		{"ambiguous document", Request{Query: `query A { hello } query B { hello }`}, unknownOperation},
		{"unknown root field", Request{Query: `{ nothing }`}, unknownOperation},
		{"introspection", Request{Query: `{ __typename }`}, unknownOperation},
		{"syntax error", Request{Query: `{ hello`}, unknownOperation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, h.operationLabel(tt.req))
		})
	}
}

func TestGraphQLMetricsLabelsAreBounded(t *testing.T) {
	registry := prometheus.NewRegistry()
	h := newTestHandlerWithMetrics(t, false, metrics.NewCRMMetrics(registry, logger.NewNop()))

	for i := 0; i < 50; i++ {
		h.Execute(context.Background(), Request{Query: `{ hello }`, OperationName: fmt.Sprintf("junk%d", i)})
	}
	h.Execute(context.Background(), Request{Query: `{ hello }`})

	count, err := testutil.GatherAndCount(registry, "crm_graphql_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
