package controllers

import (
	"net/http"
	"time"

	"github.com/shashiranjanraj/tailorcraft/app/services"
	"github.com/shashiranjanraj/tailorcraft/pkg/bind"
	"github.com/shashiranjanraj/tailorcraft/pkg/logger"
	"github.com/shashiranjanraj/tailorcraft/pkg/response"
	"github.com/shashiranjanraj/tailorcraft/pkg/ws"
)

type ReminderController struct {
	service *services.CustomerService
	hub     *ws.Hub
}

func NewReminderController(service *services.CustomerService, hub *ws.Hub) *ReminderController {
	return &ReminderController{service: service, hub: hub}
}

// Reminders returns the tailor's collection reminders grouped by urgency.
func (c *ReminderController) Reminders(w http.ResponseWriter, r *http.Request) {
	id, ok := tailorID(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	buckets, err := c.service.Reminders(r.Context(), id, time.Now())
	if err != nil {
		logger.WithCtx(r.Context()).Error("reminders failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Could not load reminders")
		return
	}

	response.Success(w, map[string]interface{}{
		"buckets": buckets,
		"counts":  buckets.Counts(),
		"total":   buckets.Total(),
	})
}

type dismissInput struct {
	IDs []string `json:"ids" validate:"required"`
}

// Dismiss hides the given orders from future reminder responses. Repeating
// an ID is a no-op, so the endpoint always answers 200.
func (c *ReminderController) Dismiss(w http.ResponseWriter, r *http.Request) {
	id, ok := tailorID(r)
	if !ok {
		response.Unauthorized(w)
		return
	}

	var in dismissInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	c.service.Dismiss(id, in.IDs...)
	response.Message(w, "Reminders dismissed")
}

// WS upgrades the connection so the dashboard receives sweep pushes live.
func (c *ReminderController) WS(w http.ResponseWriter, r *http.Request) {
	id, ok := tailorID(r)
	if !ok {
		response.Unauthorized(w)
		return
	}
	ws.Upgrade(w, r, c.hub, id)
}
