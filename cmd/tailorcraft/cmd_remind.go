package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/tailorcraft/internal/server"
)

// tailorcraft remind:run — perform one reminder sweep and exit.
var remindRunCmd = &cobra.Command{
	Use:   "remind:run",
	Short: "Run one reminder sweep (gauges, pushes and digest notifications)",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("Running reminder sweep…")
		if err := server.RunSweepOnce(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Sweep complete.")
		return nil
	},
}
