package loans

import (
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/cobra"

	"github.com/crucial707/hci-inventory/cmd/cli/client"
	"github.com/crucial707/hci-inventory/cmd/cli/output"
	"github.com/crucial707/hci-inventory/internal/models"
)

// ==========================
// Init Loans
// ==========================
func InitLoans(rootCmd *cobra.Command) {
	loansCmd := &cobra.Command{
		Use:   "loans",
		Short: "Check loaner assets out and back in",
	}

	loansCmd.AddCommand(
		checkoutCmd(),
		returnCmd(),
		activeCmd(),
		historyCmd(),
	)

	rootCmd.AddCommand(loansCmd)
}

func stamp(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}

// ==========================
// CHECKOUT
// ==========================
func checkoutCmd() *cobra.Command {
	var borrower string

	cmd := &cobra.Command{
		Use:   "checkout [asset-id]",
		Short: "Check a loaner asset out to a borrower",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var c models.Checkout
			path := "/assets/" + url.PathEscape(args[0]) + "/checkout"
			if err := client.Do("POST", path, map[string]string{"borrower_name": borrower}, &c); err != nil {
				return err
			}
			fmt.Printf("Checked out %s to %s (checkout %d)\n", c.AssetTag, c.BorrowerName, c.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&borrower, "borrower", "", "name of the borrower")
	return cmd
}

// ==========================
// RETURN
// ==========================
func returnCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "return [checkout-id]",
		Short: "Return a checked out asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var c models.Checkout
			if err := client.Do("POST", "/checkouts/"+url.PathEscape(args[0])+"/return", nil, &c); err != nil {
				return err
			}
			fmt.Printf("Returned %s from %s\n", c.AssetTag, c.BorrowerName)
			return nil
		},
	}
}

// ==========================
// ACTIVE
// ==========================
func activeCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "active [asset-id]",
		Short: "Show the open checkout of an asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var out struct {
				Checkout *models.Checkout `json:"checkout"`
			}
			if err := client.Do("GET", "/assets/"+url.PathEscape(args[0])+"/checkout", nil, &out); err != nil {
				return err
			}
			if asJSON {
				return output.PrintJSON(out)
			}
			if out.Checkout == nil {
				fmt.Println("Available")
				return nil
			}
			c := out.Checkout
			output.RenderTable(
				[]string{"Checkout", "Asset", "Borrower", "Checked Out", "By"},
				[][]interface{}{{c.ID, c.AssetTag, c.BorrowerName, stamp(c.CheckedOutAt), c.CheckedOutByName}},
			)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print raw JSON")
	return cmd
}

// ==========================
// HISTORY
// ==========================
func historyCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "history [asset-id]",
		Short: "List every checkout of an asset, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var list []models.Checkout
			if err := client.Do("GET", "/assets/"+url.PathEscape(args[0])+"/checkouts", nil, &list); err != nil {
				return err
			}
			if asJSON {
				return output.PrintJSON(list)
			}
			rows := make([][]interface{}, 0, len(list))
			for _, c := range list {
				returned := "-"
				if c.ReturnedAt.Valid {
					returned = stamp(c.ReturnedAt.Time)
				}
				rows = append(rows, []interface{}{
					c.ID, c.BorrowerName, stamp(c.CheckedOutAt), c.CheckedOutByName, returned, output.Str(c.ReturnedByName),
				})
			}
			output.RenderTable([]string{"Checkout", "Borrower", "Checked Out", "By", "Returned", "Returned By"}, rows)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print raw JSON")
	return cmd
}
