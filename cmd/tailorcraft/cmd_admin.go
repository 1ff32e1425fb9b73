package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/tailorcraft/app/models"
	"github.com/shashiranjanraj/tailorcraft/app/repositories"
	"github.com/shashiranjanraj/tailorcraft/config"
	"github.com/shashiranjanraj/tailorcraft/pkg/auth"
	"github.com/shashiranjanraj/tailorcraft/pkg/database"
)

var (
	adminNameFlag     string
	adminEmailFlag    string
	adminPasswordFlag string
)

// bootDB loads config and opens the database connection.
func bootDB(ctx context.Context) error {
	if err := config.Load(); err != nil {
		return err
	}
	return database.Connect(ctx)
}

// tailorcraft admin:create — create an approved admin account.
var adminCreateCmd = &cobra.Command{
	Use:   "admin:create",
	Short: "Create an admin account",
	RunE: func(cmd *cobra.Command, args []string) error {
		if adminEmailFlag == "" || adminPasswordFlag == "" {
			return errors.New("--email and --password are required")
		}

		ctx := cmd.Context()
		if err := bootDB(ctx); err != nil {
			return err
		}
		defer database.Disconnect(context.Background()) //nolint:errcheck

		hash, err := auth.HashPassword(adminPasswordFlag)
		if err != nil {
			return err
		}

		user := models.User{
			Name:     adminNameFlag,
			Email:    adminEmailFlag,
			Password: hash,
			Role:     models.RoleAdmin,
			Status:   models.StatusApproved,
		}
		if err := repositories.NewUserRepository().Create(ctx, &user); err != nil {
			if errors.Is(err, repositories.ErrEmailTaken) {
				return fmt.Errorf("admin:create: %s already exists", adminEmailFlag)
			}
			return err
		}

		fmt.Printf("Admin created: %s (%s)\n", user.Email, user.ID.Hex())
		return nil
	},
}

func init() {
	adminCreateCmd.Flags().StringVar(&adminNameFlag, "name", "Admin", "Display name")
	adminCreateCmd.Flags().StringVar(&adminEmailFlag, "email", "", "Login email (required)")
	adminCreateCmd.Flags().StringVar(&adminPasswordFlag, "password", "", "Login password (required)")
}
