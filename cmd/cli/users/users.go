package users

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crucial707/hci-inventory/cmd/cli/client"
	"github.com/crucial707/hci-inventory/cmd/cli/output"
	"github.com/crucial707/hci-inventory/internal/models"
)

// ==========================
// CLI Command Init
// ==========================
func InitUsers(rootCmd *cobra.Command) {
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Manage users (admins only)",
	}

	usersCmd.AddCommand(listUsersCmd(), createUserCmd())
	rootCmd.AddCommand(usersCmd)
}

// ==========================
// List Users
// ==========================
func listUsersCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			var list []models.Principal
			if err := client.Do("GET", "/users", nil, &list); err != nil {
				return err
			}
			if asJSON {
				return output.PrintJSON(list)
			}

			rows := make([][]interface{}, 0, len(list))
			for _, u := range list {
				rows = append(rows, []interface{}{u.ID, u.Username, u.Role, u.CreatedAt.Local().Format("2006-01-02")})
			}
			output.RenderTable([]string{"ID", "Username", "Role", "Created"}, rows)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print raw JSON")
	return cmd
}

// ==========================
// Create User
// ==========================
func createUserCmd() *cobra.Command {
	var username, password, role string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			var u models.Principal
			payload := map[string]string{"username": username, "password": password, "role": role}
			if err := client.Do("POST", "/users", payload, &u); err != nil {
				return err
			}
			fmt.Printf("Created user %d (%s, %s)\n", u.ID, u.Username, u.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "username")
	cmd.Flags().StringVar(&password, "password", "", "password (at least 6 characters)")
	cmd.Flags().StringVar(&role, "role", "Reader", "Admin, Editor or Reader")
	return cmd
}
