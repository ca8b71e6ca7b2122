package main

import (
	"github.com/crucial707/hci-inventory/cmd/cli/assets"
	"github.com/crucial707/hci-inventory/cmd/cli/audit"
	"github.com/crucial707/hci-inventory/cmd/cli/auth"
	"github.com/crucial707/hci-inventory/cmd/cli/loans"
	"github.com/crucial707/hci-inventory/cmd/cli/root"
	"github.com/crucial707/hci-inventory/cmd/cli/users"
)

func main() {
	rootCmd := root.GetRoot()
	auth.InitAuth(rootCmd)
	assets.InitAssets(rootCmd)
	loans.InitLoans(rootCmd)
	audit.InitAudit(rootCmd)
	users.InitUsers(rootCmd)

	root.Execute()
}
