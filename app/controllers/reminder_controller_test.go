package controllers_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/tailorcraft/app/controllers"
	"github.com/shashiranjanraj/tailorcraft/app/models"
	"github.com/shashiranjanraj/tailorcraft/app/services"
)

func reminderStack(t *testing.T) (*controllers.ReminderController, *services.CustomerService, string) {
	t.Helper()
	store := newMemCustomerStore()
	service := services.NewCustomerService(store, models.DefaultLookaheadDays)
	ctrl := controllers.NewReminderController(service, nil)
	tailor := primitive.NewObjectID().Hex()

	today := time.Now().UTC().Format("2006-01-02")
	overdue := time.Now().UTC().AddDate(0, 0, -3).Format("2006-01-02")
	for _, c := range []models.Customer{
		{Name: "Today Tara", Phone: "91111", Order: models.Order{
			CollectionDate: today, Status: models.OrderReady}},
		{Name: "Overdue Olive", Phone: "92222", Order: models.Order{
			CollectionDate: overdue, Status: models.OrderInProgress}},
	} {
		c := c
		require.NoError(t, service.Create(context.Background(), tailor, &c))
	}
	return ctrl, service, tailor
}

func TestRemindersEndpoint(t *testing.T) {
	ctrl, _, tailor := reminderStack(t)

	req := authed(jsonRequest(t, http.MethodGet, "/api/tailor/reminders", nil),
		tailor, models.RoleTailor, models.StatusApproved)
	rec := do(http.HandlerFunc(ctrl.Reminders), req)

	require.Equal(t, http.StatusOK, rec.Code)
	env := decode(t, rec)
	assert.Equal(t, 2.0, env.Data["total"])
	counts := env.Data["counts"].(map[string]interface{})
	assert.Equal(t, 1.0, counts["today"])
	assert.Equal(t, 1.0, counts["overdue"])
}

func TestDismissHidesReminder(t *testing.T) {
	ctrl, service, tailor := reminderStack(t)

	buckets, err := service.Reminders(context.Background(), tailor, time.Now())
	require.NoError(t, err)
	require.NotEmpty(t, buckets.Overdue)
	id := buckets.Overdue[0].Customer.ID.Hex()

	req := authed(jsonRequest(t, http.MethodPost, "/api/tailor/reminders/dismiss",
		map[string]interface{}{"ids": []string{id}}),
		tailor, models.RoleTailor, models.StatusApproved)
	rec := do(http.HandlerFunc(ctrl.Dismiss), req)
	require.Equal(t, http.StatusOK, rec.Code)

	after, err := service.Reminders(context.Background(), tailor, time.Now())
	require.NoError(t, err)
	assert.Empty(t, after.Overdue)
	assert.Equal(t, buckets.Total()-1, after.Total())

	// Dismissing the same ID again still answers 200.
	req = authed(jsonRequest(t, http.MethodPost, "/api/tailor/reminders/dismiss",
		map[string]interface{}{"ids": []string{id}}),
		tailor, models.RoleTailor, models.StatusApproved)
	rec = do(http.HandlerFunc(ctrl.Dismiss), req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDismissValidation(t *testing.T) {
	ctrl, _, tailor := reminderStack(t)

	req := authed(jsonRequest(t, http.MethodPost, "/api/tailor/reminders/dismiss",
		map[string]interface{}{}),
		tailor, models.RoleTailor, models.StatusApproved)
	rec := do(http.HandlerFunc(ctrl.Dismiss), req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decode(t, rec).Errors, "ids")
}

func TestDismissalsScopedPerTailor(t *testing.T) {
	ctrl, service, tailor := reminderStack(t)
	other := primitive.NewObjectID().Hex()

	overdue := time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")
	c := models.Customer{Name: "Olive Other", Phone: "93333", Order: models.Order{
		CollectionDate: overdue, Status: models.OrderPending}}
	require.NoError(t, service.Create(context.Background(), other, &c))

	req := authed(jsonRequest(t, http.MethodPost, "/api/tailor/reminders/dismiss",
		map[string]interface{}{"ids": []string{c.ID.Hex()}}),
		tailor, models.RoleTailor, models.StatusApproved)
	rec := do(http.HandlerFunc(ctrl.Dismiss), req)
	require.Equal(t, http.StatusOK, rec.Code)

	// The other tailor still sees their reminder.
	buckets, err := service.Reminders(context.Background(), other, time.Now())
	require.NoError(t, err)
	assert.Len(t, buckets.Overdue, 1)
}
