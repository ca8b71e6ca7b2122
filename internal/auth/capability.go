// Package auth holds the role/capability matrix that gates every core
// operation, and the credential hasher used for principals.
package auth

import (
	"github.com/cockroachdb/errors"

	"github.com/crucial707/hci-inventory/internal/models"
)

// Capability is an operation a role may be allowed to perform.
type Capability string

const (
	ViewAssets       Capability = "view_assets"
	AddAsset         Capability = "add_asset"
	EditAsset        Capability = "edit_asset"
	DeleteAsset      Capability = "delete_asset"
	LoanAsset        Capability = "loan_asset"
	ManagePrincipals Capability = "manage_principals"
	ViewAudit        Capability = "view_audit"
)

// Capabilities lists the closed set of capabilities.
var Capabilities = []Capability{
	ViewAssets, AddAsset, EditAsset, DeleteAsset, LoanAsset, ManagePrincipals, ViewAudit,
}

// Policy carries the configurable parts of the matrix.
type Policy struct {
	// EditorsCanLoan lets editors check loaners out and back in.
	EditorsCanLoan bool
}

func DefaultPolicy() Policy {
	return Policy{EditorsCanLoan: true}
}

// Allows reports whether role holds capability c. Unknown roles hold nothing.
func (p Policy) Allows(role models.Role, c Capability) bool {
	switch role {
	case models.RoleAdmin:
		return known(c)
	case models.RoleEditor:
		switch c {
		case ViewAssets, AddAsset, EditAsset:
			return true
		case LoanAsset:
			return p.EditorsCanLoan
		}
	case models.RoleReader:
		return c == ViewAssets
	}
	return false
}

// Require returns an error matching models.ErrPermissionDenied when the
// principal lacks c. Callers check it before touching the store.
func (p Policy) Require(principal models.Principal, c Capability) error {
	if p.Allows(principal.Role, c) {
		return nil
	}
	return errors.Wrapf(models.ErrPermissionDenied, "%s %q cannot %s", principal.Role, principal.Username, c)
}

// CapabilitiesFor lists what role may do, in matrix order.
func (p Policy) CapabilitiesFor(role models.Role) []Capability {
	var out []Capability
	for _, c := range Capabilities {
		if p.Allows(role, c) {
			out = append(out, c)
		}
	}
	return out
}

func known(c Capability) bool {
	for _, k := range Capabilities {
		if k == c {
			return true
		}
	}
	return false
}
