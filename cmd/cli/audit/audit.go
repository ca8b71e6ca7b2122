package audit

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/crucial707/hci-inventory/cmd/cli/client"
	"github.com/crucial707/hci-inventory/cmd/cli/output"
	"github.com/crucial707/hci-inventory/internal/models"
)

// InitAudit registers the audit command (admins only on the server side).
func InitAudit(rootCmd *cobra.Command) {
	auditCmd := &cobra.Command{
		Use:   "audit",
		Short: "Read the audit log",
	}
	auditCmd.AddCommand(listAuditCmd())
	rootCmd.AddCommand(auditCmd)
}

func listAuditCmd() *cobra.Command {
	var (
		limit, offset int
		asJSON        bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent audit entries, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			params := url.Values{}
			params.Set("limit", strconv.Itoa(limit))
			params.Set("offset", strconv.Itoa(offset))

			var entries []models.AuditEntry
			if err := client.Do("GET", "/audit?"+params.Encode(), nil, &entries); err != nil {
				return err
			}
			if asJSON {
				return output.PrintJSON(entries)
			}

			rows := make([][]interface{}, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []interface{}{e.CreatedAt.Local().Format("2006-01-02 15:04:05"), e.Action, e.ActorName, e.Subject})
			}
			output.RenderTable([]string{"When", "Action", "Actor", "Subject"}, rows)
			if len(entries) == 0 {
				fmt.Println("No audit entries.")
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "number of entries (max 200)")
	cmd.Flags().IntVar(&offset, "offset", 0, "entries to skip")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print raw JSON")
	return cmd
}
