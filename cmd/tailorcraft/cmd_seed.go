package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/tailorcraft/app/models"
	"github.com/shashiranjanraj/tailorcraft/app/repositories"
	"github.com/shashiranjanraj/tailorcraft/pkg/auth"
	"github.com/shashiranjanraj/tailorcraft/pkg/database"
)

// tailorcraft seed — create a demo tailor with a spread of customers.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed a demo tailor and sample customers",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := bootDB(ctx); err != nil {
			return err
		}
		defer database.Disconnect(context.Background()) //nolint:errcheck

		hash, err := auth.HashPassword("password")
		if err != nil {
			return err
		}

		users := repositories.NewUserRepository()
		tailor := models.User{
			Name:     "Demo Tailor",
			Email:    "demo@tailorcraft.local",
			Phone:    "9876543210",
			Password: hash,
			Role:     models.RoleTailor,
			Status:   models.StatusApproved,
			Gender:   "female",
		}
		if err := users.Create(ctx, &tailor); err != nil {
			return fmt.Errorf("seed: create tailor: %w", err)
		}

		day := func(offset int) string {
			return time.Now().UTC().AddDate(0, 0, offset).Format("2006-01-02")
		}

		samples := []models.Customer{
			{Name: "Jane Doe", Phone: "9111111111", Order: models.Order{
				OrderDate: day(-10), CollectionDate: day(-2),
				Amount: 1200, AdvanceAmount: 400, Status: models.OrderReady,
			}, Measurements: map[string]float64{"length": 42, "chest": 36, "waist": 30}},
			{Name: "Asha Patel", Phone: "9222222222", Order: models.Order{
				OrderDate: day(-5), CollectionDate: day(0),
				Amount: 800, AdvanceAmount: 800, Status: models.OrderInProgress,
			}},
			{Name: "John Smith", Phone: "9333333333", Order: models.Order{
				OrderDate: day(-3), CollectionDate: day(1),
				Amount: 2500, AdvanceAmount: 0, Status: models.OrderPending,
			}},
			{Name: "Meena Rao", Phone: "9444444444", Order: models.Order{
				OrderDate: day(-2), CollectionDate: day(5),
				Amount: 1500, AdvanceAmount: 500, Status: models.OrderInProgress,
			}},
			{Name: "Collected Cara", Phone: "9555555555", Order: models.Order{
				OrderDate: day(-30), CollectionDate: day(-20),
				Amount: 900, AdvanceAmount: 900, Status: models.OrderCollected,
			}},
		}

		customers := repositories.NewCustomerRepository()
		for i := range samples {
			if err := customers.Create(ctx, tailor.ID.Hex(), &samples[i]); err != nil {
				return fmt.Errorf("seed: create customer %q: %w", samples[i].Name, err)
			}
		}

		fmt.Printf("Seeded tailor demo@tailorcraft.local (password: password) with %d customers\n", len(samples))
		return nil
	},
}
