package models

import (
	"time"

	"github.com/guregu/null/v5"
)

// Checkout is one borrowing episode of a loaner asset. It is open while
// ReturnedAt is null.
type Checkout struct {
	ID               int         `json:"id"`
	AssetID          int         `json:"asset_id"`
	AssetTag         string      `json:"asset_tag,omitempty"`
	AssetType        string      `json:"asset_type,omitempty"`
	BorrowerName     string      `json:"borrower_name"`
	CheckedOutBy     null.Int    `json:"checked_out_by"`
	CheckedOutByName string      `json:"checked_out_by_name"`
	CheckedOutAt     time.Time   `json:"checked_out_at"`
	ReturnedAt       null.Time   `json:"returned_at"`
	ReturnedByName   null.String `json:"returned_by_name"`
}

func (c Checkout) Open() bool {
	return !c.ReturnedAt.Valid
}
