// Package graph описывает GraphQL схему CRM поверх сервисов.
package graph

import (
	"fmt"

	"github.com/Dhoini/crm-service/internal/domain"
	"github.com/Dhoini/crm-service/internal/service"
	"github.com/Dhoini/crm-service/pkg/logger"
	"github.com/graphql-go/graphql"
)

const (
	helloMessage           = "Hello from ALX GraphQL CRM!"
	customerCreatedMessage = "Customer created successfully"
)

// Resolver связывает поля схемы с сервисами
type Resolver struct {
	customers service.CustomerService
	products  service.ProductService
	orders    service.OrderService
	log       *logger.Logger
}

// NewResolver создает набор резолверов
func NewResolver(
	customers service.CustomerService,
	products service.ProductService,
	orders service.OrderService,
	log *logger.Logger,
) *Resolver {
	return &Resolver{
		customers: customers,
		products:  products,
		orders:    orders,
		log:       log,
	}
}

// NewSchema строит схему с запросами и мутациями CRM
func NewSchema(r *Resolver) (graphql.Schema, error) {
	schema, err := graphql.NewSchema(graphql.SchemaConfig{
		Query:    r.queryType(),
		Mutation: r.mutationType(),
	})
	if err != nil {
		return graphql.Schema{}, fmt.Errorf("failed to build graphql schema: %w", err)
	}
	return schema, nil
}

func listArgs(filter *graphql.InputObject) graphql.FieldConfigArgument {
	return graphql.FieldConfigArgument{
		"filter":  &graphql.ArgumentConfig{Type: filter},
		"limit":   &graphql.ArgumentConfig{Type: graphql.Int},
		"offset":  &graphql.ArgumentConfig{Type: graphql.Int},
		"orderBy": &graphql.ArgumentConfig{Type: graphql.String},
	}
}

var idArgs = graphql.FieldConfigArgument{
	"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
}

func (r *Resolver) queryType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"hello": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return helloMessage, nil
				},
			},
			"listCustomers": &graphql.Field{
				Type: graphql.NewList(graphql.NewNonNull(customerType)),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					customers, err := r.customers.List(p.Context)
					return customers, toResolverError(err, r.log, "listCustomers")
				},
			},
			"listProducts": &graphql.Field{
				Type: graphql.NewList(graphql.NewNonNull(productType)),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					products, err := r.products.List(p.Context)
					return products, toResolverError(err, r.log, "listProducts")
				},
			},
			"listOrders": &graphql.Field{
				Type: graphql.NewList(graphql.NewNonNull(orderType)),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					orders, err := r.orders.List(p.Context)
					return orders, toResolverError(err, r.log, "listOrders")
				},
			},
			"allCustomers": &graphql.Field{
				Type: graphql.NewList(graphql.NewNonNull(customerType)),
				Args: listArgs(customerFilterInput),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					filter := customerFilter(objectArg(p.Args, "filter"))
					customers, err := r.customers.Filter(p.Context, filter, pageArgs(p.Args))
					return customers, toResolverError(err, r.log, "allCustomers")
				},
			},
			"allProducts": &graphql.Field{
				Type: graphql.NewList(graphql.NewNonNull(productType)),
				Args: listArgs(productFilterInput),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					filter := productFilter(objectArg(p.Args, "filter"))
					products, err := r.products.Filter(p.Context, filter, pageArgs(p.Args))
					return products, toResolverError(err, r.log, "allProducts")
				},
			},
			"allOrders": &graphql.Field{
				Type: graphql.NewList(graphql.NewNonNull(orderType)),
				Args: listArgs(orderFilterInput),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					filter := orderFilter(objectArg(p.Args, "filter"))
					orders, err := r.orders.Filter(p.Context, filter, pageArgs(p.Args))
					return orders, toResolverError(err, r.log, "allOrders")
				},
			},
			"customer": &graphql.Field{
				Type: customerType,
				Args: idArgs,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					customer, err := r.customers.GetByID(p.Context, stringArg(p.Args, "id"))
					if err != nil {
						return nil, toResolverError(err, r.log, "customer")
					}
					return customer, nil
				},
			},
			"product": &graphql.Field{
				Type: productType,
				Args: idArgs,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					product, err := r.products.GetByID(p.Context, stringArg(p.Args, "id"))
					if err != nil {
						return nil, toResolverError(err, r.log, "product")
					}
					return product, nil
				},
			},
			"order": &graphql.Field{
				Type: orderType,
				Args: idArgs,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					order, err := r.orders.GetByID(p.Context, stringArg(p.Args, "id"))
					if err != nil {
						return nil, toResolverError(err, r.log, "order")
					}
					return order, nil
				},
			},
		},
	})
}

func (r *Resolver) mutationType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createCustomer": &graphql.Field{
				Type: createCustomerPayload,
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(customerInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					customer, err := r.customers.Create(p.Context, customerRequest(objectArg(p.Args, "input")))
					if err != nil {
						return nil, toResolverError(err, r.log, "createCustomer")
					}
					return createCustomerResult{Customer: customer, Message: customerCreatedMessage}, nil
				},
			},
			"bulkCreateCustomers": &graphql.Field{
				Type: bulkCreateCustomersPayload,
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{
						Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(customerInput))),
					},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					raw, _ := p.Args["input"].([]interface{})
					reqs := make([]domain.CustomerRequest, 0, len(raw))
					for _, item := range raw {
						m, _ := item.(map[string]interface{})
						reqs = append(reqs, customerRequest(m))
					}
					result, err := r.customers.BulkCreate(p.Context, reqs)
					if err != nil {
						return nil, toResolverError(err, r.log, "bulkCreateCustomers")
					}
					return result, nil
				},
			},
			"createProduct": &graphql.Field{
				Type: createProductPayload,
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(productInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					product, err := r.products.Create(p.Context, productRequest(objectArg(p.Args, "input")))
					if err != nil {
						return nil, toResolverError(err, r.log, "createProduct")
					}
					return product, nil
				},
			},
			"createOrder": &graphql.Field{
				Type: createOrderPayload,
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(orderInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					order, err := r.orders.Create(p.Context, orderRequest(objectArg(p.Args, "input")))
					if err != nil {
						return nil, toResolverError(err, r.log, "createOrder")
					}
					return order, nil
				},
			},
		},
	})
}
