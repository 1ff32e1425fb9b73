package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tailorcraft",
	Short: "TailorCraft — tailoring business management server",
	Long:  "TailorCraft manages tailor accounts, customer orders, measurements and collection reminders.",
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)
	rootCmd.AddCommand(adminCreateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(remindRunCmd)
}
