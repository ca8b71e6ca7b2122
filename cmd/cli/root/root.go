// Package root holds the hci command tree that the subcommand packages
// attach to.
package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/crucial707/hci-inventory/cmd/cli/config"
)

// RootCmd is the top of the hci command tree.
var RootCmd = &cobra.Command{
	Use:   "hci",
	Short: "Browse the asset registry and check loaners in and out",
	Long: `hci talks to the HCI Inventory API.

Log in once with "hci login --username <name>"; the token is kept in
~/.hci_token (or HCI_TOKEN_FILE) and sent with every later command.
Point the CLI at another server with HCI_API_URL.

What you may do depends on your role: readers list and view assets,
editors also add and edit them and handle loans, admins also delete
assets, manage users and read the audit log.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	RootCmd.AddCommand(&cobra.Command{
		Use:   "whereami",
		Short: "Print the API URL and token file in use",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.TokenPath()
			if err != nil {
				return err
			}
			_, tokenErr := os.Stat(path)
			fmt.Fprintf(cmd.OutOrStdout(), "api:   %s\ntoken: %s (logged in: %t)\n", config.APIURL(), path, tokenErr == nil)
			return nil
		},
	})
}

// Execute runs the command tree and exits non-zero on failure. API errors
// carry the server's message, e.g. "asset is already checked out (409)".
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// GetRoot returns RootCmd for subcommand registration.
func GetRoot() *cobra.Command {
	return RootCmd
}
