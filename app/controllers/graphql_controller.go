package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/tailorcraft/app/models"
	"github.com/shashiranjanraj/tailorcraft/app/services"
	"github.com/shashiranjanraj/tailorcraft/pkg/auth"
	"github.com/shashiranjanraj/tailorcraft/pkg/bind"
	gql "github.com/shashiranjanraj/tailorcraft/pkg/graphql"
	"github.com/shashiranjanraj/tailorcraft/pkg/logger"
	"github.com/shashiranjanraj/tailorcraft/pkg/response"
)

// GraphQLController serves a read-only query surface over the same service
// layer the REST routes use. Mutations stay on REST.
type GraphQLController struct {
	service *services.CustomerService
	schema  graphql.Schema
}

func NewGraphQLController(service *services.CustomerService) (*GraphQLController, error) {
	c := &GraphQLController{service: service}
	schema, err := gql.NewSchema(c.rootQuery())
	if err != nil {
		return nil, err
	}
	c.schema = schema
	return c, nil
}

var customerType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Customer",
	Fields: graphql.Fields{
		"id": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(models.Customer).ID.Hex(), nil
			},
		},
		"name":           &graphql.Field{Type: graphql.String},
		"phone":          &graphql.Field{Type: graphql.String},
		"email":          &graphql.Field{Type: graphql.String},
		"address":        &graphql.Field{Type: graphql.String},
		"orderDate":      &graphql.Field{Type: graphql.String},
		"collectionDate": &graphql.Field{Type: graphql.String},
		"amount":         &graphql.Field{Type: graphql.Float},
		"advanceAmount":  &graphql.Field{Type: graphql.Float},
		"status": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return string(p.Source.(models.Customer).Status), nil
			},
		},
		"paymentState": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return string(p.Source.(models.Customer).PaymentState()), nil
			},
		},
		"urgency": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return string(p.Source.(models.Customer).Urgency(time.Now())), nil
			},
		},
	},
})

var statsType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Stats",
	Fields: graphql.Fields{
		"totalCustomers":  &graphql.Field{Type: graphql.Int},
		"pendingOrders":   &graphql.Field{Type: graphql.Int},
		"totalRevenue":    &graphql.Field{Type: graphql.Float},
		"advancePayments": &graphql.Field{Type: graphql.Float},
	},
})

var reminderCountsType = graphql.NewObject(graphql.ObjectConfig{
	Name: "ReminderCounts",
	Fields: graphql.Fields{
		"overdue":  &graphql.Field{Type: graphql.Int},
		"today":    &graphql.Field{Type: graphql.Int},
		"tomorrow": &graphql.Field{Type: graphql.Int},
		"upcoming": &graphql.Field{Type: graphql.Int},
	},
})

var errUnauthenticated = errors.New("unauthenticated")

func requestTailorID(p graphql.ResolveParams) (string, error) {
	claims, ok := auth.ClaimsFromCtx(p.Context)
	if !ok {
		return "", errUnauthenticated
	}
	return claims.UserID, nil
}

func (c *GraphQLController) rootQuery() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "RootQuery",
		Fields: graphql.Fields{
			"customers": &graphql.Field{
				Type: graphql.NewList(customerType),
				Args: graphql.FieldConfigArgument{
					"search": &graphql.ArgumentConfig{Type: graphql.String},
					"status": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					tailorID, err := requestTailorID(p)
					if err != nil {
						return nil, err
					}
					spec := services.FilterSpec{}
					if s, ok := p.Args["search"].(string); ok {
						spec.Search = s
					}
					if s, ok := p.Args["status"].(string); ok {
						spec.Status = s
					}
					result, _, err := c.service.List(p.Context, tailorID, spec, time.Now())
					if err != nil {
						return nil, err
					}
					return result.Customers, nil
				},
			},
			"stats": &graphql.Field{
				Type: statsType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					tailorID, err := requestTailorID(p)
					if err != nil {
						return nil, err
					}
					_, stats, err := c.service.List(p.Context, tailorID, services.FilterSpec{}, time.Now())
					if err != nil {
						return nil, err
					}
					return stats, nil
				},
			},
			"reminderCounts": &graphql.Field{
				Type: reminderCountsType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					tailorID, err := requestTailorID(p)
					if err != nil {
						return nil, err
					}
					buckets, err := c.service.Reminders(p.Context, tailorID, time.Now())
					if err != nil {
						return nil, err
					}
					return buckets.Counts(), nil
				},
			},
		},
	})
}

type graphqlInput struct {
	Query         string                 `json:"query" validate:"required"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// Query executes a GraphQL query against the root schema.
func (c *GraphQLController) Query(w http.ResponseWriter, r *http.Request) {
	var in graphqlInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         c.schema,
		RequestString:  in.Query,
		OperationName:  in.OperationName,
		VariableValues: in.Variables,
		Context:        r.Context(),
	})
	if len(result.Errors) > 0 {
		logger.WithCtx(r.Context()).Warn("graphql query errors",
			"count", len(result.Errors), "first", result.Errors[0].Message)
	}

	response.Success(w, result)
}
