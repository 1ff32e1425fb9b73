// Package controllers translates HTTP requests into service calls and
// service results into the JSON envelope.
package controllers

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/tailorcraft/app/models"
	"github.com/shashiranjanraj/tailorcraft/app/repositories"
	"github.com/shashiranjanraj/tailorcraft/app/services"
	"github.com/shashiranjanraj/tailorcraft/pkg/auth"
	"github.com/shashiranjanraj/tailorcraft/pkg/bind"
	"github.com/shashiranjanraj/tailorcraft/pkg/logger"
	"github.com/shashiranjanraj/tailorcraft/pkg/response"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{service: service}
}

// Register creates a pending tailor account.
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	user, err := c.service.Register(r.Context(), in)
	if errors.Is(err, repositories.ErrEmailTaken) {
		response.Error(w, http.StatusConflict, "Email already registered")
		return
	}
	if err != nil {
		logger.WithCtx(r.Context()).Error("register failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	logger.WithCtx(r.Context()).Info("tailor registered", "user_id", user.ID.Hex())
	response.Created(w, map[string]interface{}{
		"user":    user,
		"message": "Registration submitted. An admin will review your account.",
	})
}

type loginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login verifies credentials and returns a session token.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	token, user, err := c.service.Login(r.Context(), in.Email, in.Password)
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		response.Error(w, http.StatusUnauthorized, "Invalid email or password")
		return
	case errors.Is(err, services.ErrPendingApproval):
		response.Error(w, http.StatusForbidden, "Account pending approval")
		return
	case err != nil:
		logger.WithCtx(r.Context()).Error("login failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Login failed")
		return
	}

	response.Success(w, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

// Verify returns the account behind the presented token.
func (c *AuthController) Verify(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w)
		return
	}

	user, err := c.service.Verify(r.Context(), claims.UserID)
	if errors.Is(err, repositories.ErrNotFound) {
		response.Unauthorized(w)
		return
	}
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Verification failed")
		return
	}

	response.Success(w, map[string]interface{}{
		"user":              user,
		"measurementFields": models.MeasurementFields(user.Gender),
	})
}
