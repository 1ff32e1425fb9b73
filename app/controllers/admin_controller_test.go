package controllers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/tailorcraft/app/controllers"
	"github.com/shashiranjanraj/tailorcraft/app/models"
	"github.com/shashiranjanraj/tailorcraft/app/services"
)

func adminFixture(t *testing.T) (*controllers.AdminController, *services.AuthService, models.User) {
	t.Helper()
	store := newMemUserStore()
	service := services.NewAuthService(store)
	tailor, err := service.Register(context.Background(), services.RegisterInput{
		Name: "Meera Tailors", Email: "meera@example.com",
		Password: "sew-secure", Gender: "female",
	})
	require.NoError(t, err)
	return controllers.NewAdminController(service), service, tailor
}

func TestAdminTailorsList(t *testing.T) {
	ctrl, _, tailor := adminFixture(t)

	rec := do(http.HandlerFunc(ctrl.Tailors),
		jsonRequest(t, http.MethodGet, "/api/admin/tailors", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	env := decode(t, rec)
	tailors := env.Data["tailors"].([]interface{})
	require.Len(t, tailors, 1)
	first := tailors[0].(map[string]interface{})
	assert.Equal(t, tailor.Email, first["email"])
	assert.Equal(t, models.StatusPending, first["status"])
}

func TestAdminApproveTailor(t *testing.T) {
	ctrl, service, tailor := adminFixture(t)

	rec := do(http.HandlerFunc(ctrl.UpdateStatus),
		jsonRequest(t, http.MethodPost, "/api/admin/tailors/status", map[string]string{
			"tailorId": tailor.ID.Hex(),
			"status":   models.StatusApproved,
		}))

	require.Equal(t, http.StatusOK, rec.Code)
	env := decode(t, rec)
	user := env.Data["user"].(map[string]interface{})
	assert.Equal(t, models.StatusApproved, user["status"])

	// The approved tailor can log in now.
	_, _, err := service.Login(context.Background(), "meera@example.com", "sew-secure")
	assert.NoError(t, err)
}

func TestAdminRejectTailor(t *testing.T) {
	ctrl, service, tailor := adminFixture(t)

	rec := do(http.HandlerFunc(ctrl.UpdateStatus),
		jsonRequest(t, http.MethodPost, "/api/admin/tailors/status", map[string]string{
			"tailorId": tailor.ID.Hex(),
			"status":   models.StatusRejected,
		}))

	require.Equal(t, http.StatusOK, rec.Code)
	_, _, err := service.Login(context.Background(), "meera@example.com", "sew-secure")
	assert.ErrorIs(t, err, services.ErrPendingApproval)
}

func TestAdminUpdateStatusValidation(t *testing.T) {
	ctrl, _, tailor := adminFixture(t)

	rec := do(http.HandlerFunc(ctrl.UpdateStatus),
		jsonRequest(t, http.MethodPost, "/api/admin/tailors/status", map[string]string{
			"tailorId": tailor.ID.Hex(),
			"status":   "maybe",
		}))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decode(t, rec).Errors, "status")
}

func TestAdminUpdateStatusUnknownTailor(t *testing.T) {
	ctrl, _, _ := adminFixture(t)

	rec := do(http.HandlerFunc(ctrl.UpdateStatus),
		jsonRequest(t, http.MethodPost, "/api/admin/tailors/status", map[string]string{
			"tailorId": primitive.NewObjectID().Hex(),
			"status":   models.StatusApproved,
		}))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
