package graph

import (
	"github.com/Dhoini/crm-service/internal/domain"
	"github.com/Dhoini/crm-service/internal/service"
	"github.com/graphql-go/graphql"
)

// Типы GraphQL. Поля разрешаются явно, без reflection-резолвера по умолчанию.

var customerType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Customer",
	Fields: graphql.Fields{
		"id": &graphql.Field{
			Type: graphql.NewNonNull(graphql.ID),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(domain.Customer).ID.String(), nil
			},
		},
		"name": &graphql.Field{
			Type: graphql.NewNonNull(graphql.String),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(domain.Customer).Name, nil
			},
		},
		"email": &graphql.Field{
			Type: graphql.NewNonNull(graphql.String),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(domain.Customer).Email, nil
			},
		},
		"phone": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if phone := p.Source.(domain.Customer).Phone; phone != "" {
					return phone, nil
				}
				return nil, nil
			},
		},
		"createdAt": &graphql.Field{
			Type: graphql.NewNonNull(graphql.DateTime),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(domain.Customer).CreatedAt, nil
			},
		},
	},
})

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		"id": &graphql.Field{
			Type: graphql.NewNonNull(graphql.ID),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(domain.Product).ID.String(), nil
			},
		},
		"name": &graphql.Field{
			Type: graphql.NewNonNull(graphql.String),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(domain.Product).Name, nil
			},
		},
		"price": &graphql.Field{
			Type: graphql.NewNonNull(graphql.Float),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(domain.Product).Price.InexactFloat64(), nil
			},
		},
		"stock": &graphql.Field{
			Type: graphql.NewNonNull(graphql.Int),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(domain.Product).Stock, nil
			},
		},
		"createdAt": &graphql.Field{
			Type: graphql.NewNonNull(graphql.DateTime),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(domain.Product).CreatedAt, nil
			},
		},
	},
})

var orderType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Order",
	Fields: graphql.Fields{
		"id": &graphql.Field{
			Type: graphql.NewNonNull(graphql.ID),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(domain.Order).ID.String(), nil
			},
		},
		"customer": &graphql.Field{
			Type: graphql.NewNonNull(customerType),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(domain.Order).Customer, nil
			},
		},
		"products": &graphql.Field{
			Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(productType))),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(domain.Order).Products, nil
			},
		},
		"orderDate": &graphql.Field{
			Type: graphql.NewNonNull(graphql.DateTime),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(domain.Order).OrderDate, nil
			},
		},
		"totalAmount": &graphql.Field{
			Type: graphql.NewNonNull(graphql.Float),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(domain.Order).TotalAmount.InexactFloat64(), nil
			},
		},
	},
})

// Результаты мутаций

// createCustomerResult источник CreateCustomerPayload
type createCustomerResult struct {
	Customer domain.Customer
	Message  string
}

var createCustomerPayload = graphql.NewObject(graphql.ObjectConfig{
	Name: "CreateCustomerPayload",
	Fields: graphql.Fields{
		"customer": &graphql.Field{
			Type: graphql.NewNonNull(customerType),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(createCustomerResult).Customer, nil
			},
		},
		"message": &graphql.Field{
			Type: graphql.NewNonNull(graphql.String),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(createCustomerResult).Message, nil
			},
		},
	},
})

var bulkCreateCustomersPayload = graphql.NewObject(graphql.ObjectConfig{
	Name: "BulkCreateCustomersPayload",
	Fields: graphql.Fields{
		"customers": &graphql.Field{
			Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(customerType))),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(service.BulkResult).Customers, nil
			},
		},
		"errors": &graphql.Field{
			Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.String))),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(service.BulkResult).Errors, nil
			},
		},
	},
})

var createProductPayload = graphql.NewObject(graphql.ObjectConfig{
	Name: "CreateProductPayload",
	Fields: graphql.Fields{
		"product": &graphql.Field{
			Type: graphql.NewNonNull(productType),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(domain.Product), nil
			},
		},
	},
})

var createOrderPayload = graphql.NewObject(graphql.ObjectConfig{
	Name: "CreateOrderPayload",
	Fields: graphql.Fields{
		"order": &graphql.Field{
			Type: graphql.NewNonNull(orderType),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(domain.Order), nil
			},
		},
	},
})

// Входные типы

var customerInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "CustomerInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"name":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"email": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"phone": &graphql.InputObjectFieldConfig{Type: graphql.String},
	},
})

var productInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "ProductInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"name":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"price": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Float)},
		"stock": &graphql.InputObjectFieldConfig{Type: graphql.Int},
	},
})

var orderInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "OrderInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"customerId": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.ID)},
		"productIds": &graphql.InputObjectFieldConfig{
			Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.ID))),
		},
		"orderDate": &graphql.InputObjectFieldConfig{Type: graphql.DateTime},
	},
})

var customerFilterInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "CustomerFilterInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"name":         &graphql.InputObjectFieldConfig{Type: graphql.String},
		"email":        &graphql.InputObjectFieldConfig{Type: graphql.String},
		"phonePattern": &graphql.InputObjectFieldConfig{Type: graphql.String},
	},
})

var productFilterInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "ProductFilterInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"name":     &graphql.InputObjectFieldConfig{Type: graphql.String},
		"priceGte": &graphql.InputObjectFieldConfig{Type: graphql.Float},
		"priceLte": &graphql.InputObjectFieldConfig{Type: graphql.Float},
		"stockGte": &graphql.InputObjectFieldConfig{Type: graphql.Int},
		"stockLte": &graphql.InputObjectFieldConfig{Type: graphql.Int},
	},
})

var orderFilterInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "OrderFilterInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"customerName": &graphql.InputObjectFieldConfig{Type: graphql.String},
		"productName":  &graphql.InputObjectFieldConfig{Type: graphql.String},
		"orderDateGte": &graphql.InputObjectFieldConfig{Type: graphql.DateTime},
		"orderDateLte": &graphql.InputObjectFieldConfig{Type: graphql.DateTime},
	},
})
