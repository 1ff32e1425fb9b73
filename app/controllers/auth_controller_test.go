package controllers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/tailorcraft/app/controllers"
	"github.com/shashiranjanraj/tailorcraft/app/models"
	"github.com/shashiranjanraj/tailorcraft/app/services"
	"github.com/shashiranjanraj/tailorcraft/pkg/auth"
)

func registerBody() map[string]interface{} {
	return map[string]interface{}{
		"name":     "Meera Tailors",
		"email":    "meera@example.com",
		"phone":    "9876543210",
		"password": "sew-secure",
		"gender":   "female",
	}
}

func TestRegisterCreatesPendingTailor(t *testing.T) {
	store := newMemUserStore()
	ctrl := controllers.NewAuthController(services.NewAuthService(store))

	rec := do(http.HandlerFunc(ctrl.Register),
		jsonRequest(t, http.MethodPost, "/api/auth/register", registerBody()))

	require.Equal(t, http.StatusCreated, rec.Code)
	env := decode(t, rec)
	user := env.Data["user"].(map[string]interface{})
	assert.Equal(t, models.StatusPending, user["status"])
	assert.Equal(t, models.RoleTailor, user["role"])
	// Password hash must never leave the API.
	assert.NotContains(t, user, "password")
}

func TestRegisterValidation(t *testing.T) {
	ctrl := controllers.NewAuthController(services.NewAuthService(newMemUserStore()))

	body := registerBody()
	body["email"] = "not-an-email"
	delete(body, "name")

	rec := do(http.HandlerFunc(ctrl.Register),
		jsonRequest(t, http.MethodPost, "/api/auth/register", body))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	env := decode(t, rec)
	assert.Contains(t, env.Errors, "email")
	assert.Contains(t, env.Errors, "name")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctrl := controllers.NewAuthController(services.NewAuthService(newMemUserStore()))

	first := do(http.HandlerFunc(ctrl.Register),
		jsonRequest(t, http.MethodPost, "/api/auth/register", registerBody()))
	require.Equal(t, http.StatusCreated, first.Code)

	second := do(http.HandlerFunc(ctrl.Register),
		jsonRequest(t, http.MethodPost, "/api/auth/register", registerBody()))
	assert.Equal(t, http.StatusConflict, second.Code)
}

func TestLoginPendingTailorRejected(t *testing.T) {
	store := newMemUserStore()
	service := services.NewAuthService(store)
	ctrl := controllers.NewAuthController(service)

	_, err := service.Register(context.Background(), services.RegisterInput{
		Name: "Meera Tailors", Email: "meera@example.com",
		Password: "sew-secure", Gender: "female",
	})
	require.NoError(t, err)

	rec := do(http.HandlerFunc(ctrl.Login),
		jsonRequest(t, http.MethodPost, "/api/auth/login", map[string]string{
			"email": "meera@example.com", "password": "sew-secure",
		}))

	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Account pending approval", decode(t, rec).Message)
}

func TestLoginApprovedTailorGetsValidToken(t *testing.T) {
	store := newMemUserStore()
	service := services.NewAuthService(store)
	ctrl := controllers.NewAuthController(service)

	user, err := service.Register(context.Background(), services.RegisterInput{
		Name: "Meera Tailors", Email: "meera@example.com",
		Password: "sew-secure", Gender: "female",
	})
	require.NoError(t, err)
	_, err = store.UpdateStatus(context.Background(), user.ID.Hex(), models.StatusApproved)
	require.NoError(t, err)

	rec := do(http.HandlerFunc(ctrl.Login),
		jsonRequest(t, http.MethodPost, "/api/auth/login", map[string]string{
			"email":    "Meera@Example.com", // login is case-insensitive on email
			"password": "sew-secure",
		}))

	require.Equal(t, http.StatusOK, rec.Code)
	env := decode(t, rec)
	token := env.Data["token"].(string)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), claims.UserID)
	assert.Equal(t, models.RoleTailor, claims.Role)
	assert.Equal(t, models.StatusApproved, claims.Status)
}

func TestLoginWrongPassword(t *testing.T) {
	store := newMemUserStore()
	service := services.NewAuthService(store)
	ctrl := controllers.NewAuthController(service)

	user, err := service.Register(context.Background(), services.RegisterInput{
		Name: "Meera Tailors", Email: "meera@example.com",
		Password: "sew-secure", Gender: "female",
	})
	require.NoError(t, err)
	_, err = store.UpdateStatus(context.Background(), user.ID.Hex(), models.StatusApproved)
	require.NoError(t, err)

	rec := do(http.HandlerFunc(ctrl.Login),
		jsonRequest(t, http.MethodPost, "/api/auth/login", map[string]string{
			"email": "meera@example.com", "password": "wrong",
		}))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	// Unknown email answers identically to a wrong password.
	rec = do(http.HandlerFunc(ctrl.Login),
		jsonRequest(t, http.MethodPost, "/api/auth/login", map[string]string{
			"email": "nobody@example.com", "password": "wrong",
		}))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestVerifyReturnsMeasurementFields(t *testing.T) {
	store := newMemUserStore()
	service := services.NewAuthService(store)
	ctrl := controllers.NewAuthController(service)

	user, err := service.Register(context.Background(), services.RegisterInput{
		Name: "Ravi Tailors", Email: "ravi@example.com",
		Password: "sew-secure", Gender: "male",
	})
	require.NoError(t, err)

	req := authed(jsonRequest(t, http.MethodGet, "/api/auth/verify", nil),
		user.ID.Hex(), models.RoleTailor, models.StatusPending)
	rec := do(http.HandlerFunc(ctrl.Verify), req)

	require.Equal(t, http.StatusOK, rec.Code)
	env := decode(t, rec)
	fields := env.Data["measurementFields"].([]interface{})
	assert.Len(t, fields, len(models.MeasurementFields("male")))
	assert.Contains(t, fields, "wrist")
}

func TestVerifyWithoutClaims(t *testing.T) {
	ctrl := controllers.NewAuthController(services.NewAuthService(newMemUserStore()))
	rec := do(http.HandlerFunc(ctrl.Verify),
		jsonRequest(t, http.MethodGet, "/api/auth/verify", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
