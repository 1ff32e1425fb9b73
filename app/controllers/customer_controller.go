package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/tailorcraft/app/models"
	"github.com/shashiranjanraj/tailorcraft/app/repositories"
	"github.com/shashiranjanraj/tailorcraft/app/services"
	"github.com/shashiranjanraj/tailorcraft/pkg/auth"
	"github.com/shashiranjanraj/tailorcraft/pkg/bind"
	"github.com/shashiranjanraj/tailorcraft/pkg/logger"
	"github.com/shashiranjanraj/tailorcraft/pkg/response"
)

type CustomerController struct {
	service *services.CustomerService
}

func NewCustomerController(service *services.CustomerService) *CustomerController {
	return &CustomerController{service: service}
}

// CustomerInput is the create/update payload. Dates travel as strings so a
// record with a hand-typed date is stored as-is and surfaced as skipped by
// the date-aware views instead of being rejected here.
type CustomerInput struct {
	Name             string             `json:"name" validate:"required,min=2,max=100"`
	Phone            string             `json:"phone" validate:"required"`
	Email            string             `json:"email" validate:"nullable,email"`
	Address          string             `json:"address" validate:"nullable,max=500"`
	OrderDate        string             `json:"orderDate" validate:"nullable"`
	CollectionDate   string             `json:"collectionDate" validate:"nullable"`
	Amount           float64            `json:"amount" validate:"nullable,gte=0"`
	AdvanceAmount    float64            `json:"advanceAmount" validate:"nullable,gte=0"`
	Status           string             `json:"status" validate:"nullable"`
	Measurements     map[string]float64 `json:"measurements"`
	MeasurementNotes string             `json:"measurementNotes" validate:"nullable,max=1000"`
}

func (in CustomerInput) toModel() models.Customer {
	return models.Customer{
		Name:    in.Name,
		Phone:   in.Phone,
		Email:   in.Email,
		Address: in.Address,
		Order: models.Order{
			OrderDate:      in.OrderDate,
			CollectionDate: in.CollectionDate,
			Amount:         in.Amount,
			AdvanceAmount:  in.AdvanceAmount,
			Status:         models.OrderStatus(in.Status),
		},
		Measurements:     in.Measurements,
		MeasurementNotes: in.MeasurementNotes,
	}
}

func tailorID(r *http.Request) (string, bool) {
	claims, ok := auth.ClaimsFromCtx(r.Context())
	if !ok {
		return "", false
	}
	return claims.UserID, true
}

// List returns the tailor's customers through the filter engine, with the
// dashboard stats computed over the full set.
func (c *CustomerController) List(w http.ResponseWriter, r *http.Request) {
	id, ok := tailorID(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	q := r.URL.Query()
	spec := services.FilterSpec{
		Search:    q.Get("search"),
		Status:    q.Get("status"),
		DateField: q.Get("date_field"),
		From:      q.Get("from"),
		To:        q.Get("to"),
	}

	result, stats, err := c.service.List(r.Context(), id, spec, time.Now())
	if err != nil {
		logger.WithCtx(r.Context()).Error("list customers failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Could not load customers")
		return
	}

	response.Success(w, map[string]interface{}{
		"customers": result.Customers,
		"skipped":   result.Skipped,
		"stats":     stats,
	})
}

// Create stores a new customer under the authenticated tailor.
func (c *CustomerController) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := tailorID(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	var in CustomerInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	customer := in.toModel()
	if err := c.service.Create(r.Context(), id, &customer); err != nil {
		logger.WithCtx(r.Context()).Error("create customer failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Could not create customer")
		return
	}

	logger.WithCtx(r.Context()).Info("customer created",
		"customer_id", customer.ID.Hex(), "tailor_id", id)
	response.Created(w, map[string]interface{}{"customer": customer})
}

// Show returns one customer, scoped to the authenticated tailor.
func (c *CustomerController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := tailorID(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	customer, err := c.service.Get(r.Context(), id, chi.URLParam(r, "id"))
	if errors.Is(err, repositories.ErrNotFound) {
		response.NotFound(w)
		return
	}
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not load customer")
		return
	}

	response.Success(w, map[string]interface{}{"customer": customer})
}

// Update replaces the customer's mutable fields.
func (c *CustomerController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := tailorID(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	var in CustomerInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	customer := in.toModel()
	updated, err := c.service.Update(r.Context(), id, chi.URLParam(r, "id"), &customer)
	if errors.Is(err, repositories.ErrNotFound) {
		response.NotFound(w)
		return
	}
	if err != nil {
		logger.WithCtx(r.Context()).Error("update customer failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Could not update customer")
		return
	}

	response.Success(w, map[string]interface{}{"customer": updated})
}

// Delete removes the customer.
func (c *CustomerController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := tailorID(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	err := c.service.Delete(r.Context(), id, chi.URLParam(r, "id"))
	if errors.Is(err, repositories.ErrNotFound) {
		response.NotFound(w)
		return
	}
	if err != nil {
		logger.WithCtx(r.Context()).Error("delete customer failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Could not delete customer")
		return
	}

	response.Message(w, "Customer deleted")
}
