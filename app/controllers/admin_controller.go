package controllers

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/tailorcraft/app/repositories"
	"github.com/shashiranjanraj/tailorcraft/app/services"
	"github.com/shashiranjanraj/tailorcraft/pkg/bind"
	"github.com/shashiranjanraj/tailorcraft/pkg/logger"
	"github.com/shashiranjanraj/tailorcraft/pkg/response"
)

type AdminController struct {
	service *services.AuthService
}

func NewAdminController(service *services.AuthService) *AdminController {
	return &AdminController{service: service}
}

// Tailors lists every tailor account with its approval status.
func (c *AdminController) Tailors(w http.ResponseWriter, r *http.Request) {
	tailors, err := c.service.Tailors(r.Context())
	if err != nil {
		logger.WithCtx(r.Context()).Error("list tailors failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Could not load tailors")
		return
	}
	response.Success(w, map[string]interface{}{"tailors": tailors})
}

type statusInput struct {
	TailorID string `json:"tailorId" validate:"required"`
	Status   string `json:"status" validate:"required,in=approved,rejected"`
}

// UpdateStatus approves or rejects a tailor account.
func (c *AdminController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var in statusInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	user, err := c.service.SetTailorStatus(r.Context(), in.TailorID, in.Status)
	if errors.Is(err, repositories.ErrNotFound) {
		response.NotFound(w)
		return
	}
	if err != nil {
		logger.WithCtx(r.Context()).Error("status update failed",
			"tailor_id", in.TailorID, "error", err)
		response.Error(w, http.StatusInternalServerError, "Could not update status")
		return
	}

	logger.WithCtx(r.Context()).Info("tailor status updated",
		"tailor_id", in.TailorID, "status", in.Status)
	response.Success(w, map[string]interface{}{"user": user})
}
