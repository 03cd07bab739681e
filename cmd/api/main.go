package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/brooklinpub/admin-api/cmd/api/commands"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "brooklinpub-admin",
		Short: "Brooklin Pub admin API server",
		Long:  `Backend for the Brooklin Pub admin dashboard: menu, specials, events, opening hours, staff reminders and user management.`,
	}

	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewMigrateCommand())
	rootCmd.AddCommand(commands.NewUserCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
