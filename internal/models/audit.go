package models

import (
	"time"

	"github.com/guregu/null/v5"
)

// Audit actions.
const (
	ActionItemAdded      = "Item Added"
	ActionItemDeleted    = "Item Deleted"
	ActionDeviceCheckout = "Device Checkout"
	ActionDeviceReturn   = "Device Return"
)

// AuditEntry represents one audit log row. Actor and subject are snapshots
// taken when the row was written.
type AuditEntry struct {
	ID        int       `json:"id"`
	Action    string    `json:"action"`
	ActorName string    `json:"actor_name"`
	Subject   string    `json:"subject"`
	CreatedAt time.Time `json:"created_at"`
}

// ChangeLogEntry describes one edit of an asset.
type ChangeLogEntry struct {
	ID            int       `json:"id"`
	AssetID       int       `json:"asset_id"`
	PrincipalID   null.Int  `json:"principal_id"`
	PrincipalName string    `json:"principal_name"`
	Description   string    `json:"description"`
	CreatedAt     time.Time `json:"created_at"`
}
