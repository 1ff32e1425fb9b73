// Package routes wires every HTTP endpoint to its controller.
package routes

import (
	"github.com/shashiranjanraj/tailorcraft/app/controllers"
	"github.com/shashiranjanraj/tailorcraft/app/models"
	"github.com/shashiranjanraj/tailorcraft/app/services"
	"github.com/shashiranjanraj/tailorcraft/pkg/metrics"
	"github.com/shashiranjanraj/tailorcraft/pkg/middleware"
	"github.com/shashiranjanraj/tailorcraft/pkg/router"
	"github.com/shashiranjanraj/tailorcraft/pkg/ws"
)

// Deps carries the booted services the routes need.
type Deps struct {
	Auth      *services.AuthService
	Customers *services.CustomerService
	Hub       *ws.Hub
}

// RegisterAPI mounts the full route table.
func RegisterAPI(r *router.Router, deps Deps) error {
	authController := controllers.NewAuthController(deps.Auth)
	adminController := controllers.NewAdminController(deps.Auth)
	customerController := controllers.NewCustomerController(deps.Customers)
	reminderController := controllers.NewReminderController(deps.Customers, deps.Hub)
	photoController := controllers.NewPhotoController(deps.Customers)

	graphqlController, err := controllers.NewGraphQLController(deps.Customers)
	if err != nil {
		return err
	}

	api := r.Group("/api")

	// Public.
	api.Post("/auth/register", "auth.register", authController.Register)
	api.Post("/auth/login", "auth.login", authController.Login)

	// Any authenticated account.
	authed := api.Group("", middleware.RequireAuth)
	authed.Get("/auth/verify", "auth.verify", authController.Verify)
	authed.Post("/graphql", "graphql.query", graphqlController.Query)

	// Admin only.
	admin := authed.Group("/admin", middleware.RequireRole(models.RoleAdmin))
	admin.Get("/tailors", "admin.tailors", adminController.Tailors)
	admin.Post("/tailors/status", "admin.tailors.status", adminController.UpdateStatus)

	// Approved tailors.
	tailor := authed.Group("/tailor", middleware.RequireApprovedTailor)
	tailor.Get("/customers", "customers.index", customerController.List)
	tailor.Post("/customers", "customers.store", customerController.Create)
	tailor.Get("/customers/{id}", "customers.show", customerController.Show)
	tailor.Put("/customers/{id}", "customers.update", customerController.Update)
	tailor.Delete("/customers/{id}", "customers.destroy", customerController.Delete)
	tailor.Get("/customers/{id}/photos", "customers.photos.index", photoController.List)
	tailor.Post("/customers/{id}/photos", "customers.photos.store", photoController.Upload)
	tailor.Get("/reminders", "reminders.index", reminderController.Reminders)
	tailor.Post("/reminders/dismiss", "reminders.dismiss", reminderController.Dismiss)
	tailor.Get("/reminders/ws", "reminders.ws", reminderController.WS)

	// Prometheus scrape endpoint.
	r.Mount("/metrics", metrics.Handler())

	return nil
}
