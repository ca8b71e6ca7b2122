package assets

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/crucial707/hci-inventory/cmd/cli/client"
	"github.com/crucial707/hci-inventory/cmd/cli/output"
	"github.com/crucial707/hci-inventory/internal/models"
)

// ==========================
// Init Assets
// ==========================
func InitAssets(rootCmd *cobra.Command) {

	assetsCmd := &cobra.Command{
		Use:   "assets",
		Short: "Manage assets",
	}

	assetsCmd.AddCommand(
		listAssetsCmd(),
		getAssetCmd(),
		createAssetCmd(),
		deleteAssetCmd(),
	)

	rootCmd.AddCommand(assetsCmd)
}

func assetRow(a models.Asset) []interface{} {
	loaner := ""
	if a.IsLoaner {
		loaner = "yes"
	}
	return []interface{}{
		a.ID, a.AssetTag, a.AssetType, a.SiteName, output.Str(a.RoomName),
		output.Str(a.SerialNumber), output.Str(a.AssignedTo), output.Date(a.DateAssigned), loaner,
	}
}

var assetHeaders = []string{"ID", "Tag", "Type", "Site", "Room", "Serial", "Assigned To", "Assigned", "Loaner"}

// ==========================
// LIST
// ==========================
func listAssetsCmd() *cobra.Command {
	var (
		query, assetType, site, assignedTo, sort string
		page                                    int
		asJSON                                  bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List assets (25 per page)",
		RunE: func(cmd *cobra.Command, args []string) error {
			params := url.Values{}
			for k, v := range map[string]string{
				"q": query, "asset_type": assetType, "site_name": site, "assigned_to": assignedTo, "sort": sort,
			} {
				if v != "" {
					params.Set(k, v)
				}
			}
			if page > 1 {
				params.Set("page", strconv.Itoa(page))
			}
			path := "/assets"
			if len(params) > 0 {
				path += "?" + params.Encode()
			}

			var out models.AssetPage
			if err := client.Do("GET", path, nil, &out); err != nil {
				return err
			}
			if asJSON {
				return output.PrintJSON(out)
			}

			rows := make([][]interface{}, 0, len(out.Items))
			for _, a := range out.Items {
				rows = append(rows, assetRow(a))
			}
			output.RenderTable(assetHeaders, rows)
			fmt.Printf("Page %d of %d (%d assets)\n", out.Page, out.Pages, out.Total)
			return nil
		},
	}

	cmd.Flags().StringVar(&query, "q", "", "search tag, type, site and assignee")
	cmd.Flags().StringVar(&assetType, "type", "", "filter by asset type")
	cmd.Flags().StringVar(&site, "site", "", "filter by site name")
	cmd.Flags().StringVar(&assignedTo, "assigned-to", "", "filter by assignee")
	cmd.Flags().StringVar(&sort, "sort", "", "asset_tag (default), site_name or assigned_to")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print raw JSON")

	return cmd
}

// ==========================
// GET
// ==========================
func getAssetCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "get [id]",
		Short: "Show one asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var a models.Asset
			if err := client.Do("GET", "/assets/"+url.PathEscape(args[0]), nil, &a); err != nil {
				return err
			}
			if asJSON {
				return output.PrintJSON(a)
			}
			output.RenderTable(assetHeaders, [][]interface{}{assetRow(a)})
			if a.Notes.Valid && a.Notes.String != "" {
				fmt.Println("Notes:", a.Notes.String)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print raw JSON")
	return cmd
}

// ==========================
// CREATE
// ==========================
func createAssetCmd() *cobra.Command {
	var in models.AssetInput

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create asset",
		RunE: func(cmd *cobra.Command, args []string) error {
			var a models.Asset
			if err := client.Do("POST", "/assets", in, &a); err != nil {
				return err
			}
			fmt.Printf("Created asset %d (%s)\n", a.ID, a.AssetTag)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.SiteName, "site", "", "site name (required)")
	cmd.Flags().StringVar(&in.AssetTag, "tag", "", "asset tag (required)")
	cmd.Flags().StringVar(&in.AssetType, "type", "", "asset type (required)")
	cmd.Flags().StringVar(&in.RoomNumber, "room-number", "", "room number")
	cmd.Flags().StringVar(&in.RoomName, "room-name", "", "room name")
	cmd.Flags().StringVar(&in.Category, "category", "", "category")
	cmd.Flags().StringVar(&in.Model, "model", "", "model")
	cmd.Flags().StringVar(&in.SerialNumber, "serial", "", "serial number")
	cmd.Flags().StringVar(&in.Notes, "notes", "", "notes")
	cmd.Flags().StringVar(&in.AssignedTo, "assigned-to", "", "assignee")
	cmd.Flags().StringVar(&in.DateAssigned, "date-assigned", "", "date assigned (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&in.IsLoaner, "loaner", false, "mark as a loaner")

	return cmd
}

// ==========================
// DELETE
// ==========================
func deleteAssetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Do("DELETE", "/assets/"+url.PathEscape(args[0]), nil, nil); err != nil {
				return err
			}
			fmt.Println("Asset deleted")
			return nil
		},
	}
}
