// Command hci-admin talks to the database directly: it applies migrations
// and creates users before anyone can log in to the API.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/crucial707/hci-inventory/internal/auth"
	"github.com/crucial707/hci-inventory/internal/config"
	"github.com/crucial707/hci-inventory/internal/db"
	"github.com/crucial707/hci-inventory/internal/models"
	"github.com/crucial707/hci-inventory/internal/service"
)

// operator is the actor recorded for users created from the command line.
var operator = models.Principal{Username: "hci-admin", Role: models.RoleAdmin}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "hci-admin",
		Short:         "HCI Inventory administration",
		Long:          "Database-side administration for HCI Inventory. Reads the same configuration as the API (CONFIG_FILE and DB_* variables).",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users without going through the API",
	}
	userCmd.AddCommand(createUserCmd())

	rootCmd.AddCommand(migrateCmd(), userCmd)
	return rootCmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			version, err := db.Run(cfg.DatabaseURL())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Schema at version %d\n", version)
			return nil
		},
	}
}

func createUserCmd() *cobra.Command {
	var in service.PrincipalInput

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user (use --role Admin to bootstrap the first administrator)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if in.Password == "" {
				in.Password = os.Getenv("HCI_ADMIN_PASSWORD")
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			database, err := db.Connect(ctx, cfg.DatabaseURL(), db.Pool{MaxOpen: 1, MaxIdle: 1})
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}
			defer database.Close()

			svc := service.New(database, auth.DefaultPolicy(), auth.BcryptHasher{})
			u, err := svc.Principals.Create(ctx, operator, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created user %d (%s, %s)\n", u.ID, u.Username, u.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Username, "username", "", "username")
	cmd.Flags().StringVar(&in.Password, "password", "", "password (or HCI_ADMIN_PASSWORD)")
	cmd.Flags().StringVar(&in.Role, "role", string(models.RoleAdmin), "Admin, Editor or Reader")
	return cmd
}
