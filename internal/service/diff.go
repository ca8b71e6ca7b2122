package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/guregu/null/v5"

	"github.com/crucial707/hci-inventory/internal/models"
)

const noChanges = "No changes"

type fieldValue struct {
	name  string
	value string
}

func nullText(s null.String) string {
	if !s.Valid {
		return ""
	}
	return s.String
}

func nullDate(t null.Time) string {
	if !t.Valid {
		return ""
	}
	return t.Time.Format(models.DateLayout)
}

// editableFields lists the user-editable fields of a in canonical order.
func editableFields(a models.Asset) []fieldValue {
	return []fieldValue{
		{"site_name", a.SiteName},
		{"room_number", nullText(a.RoomNumber)},
		{"room_name", nullText(a.RoomName)},
		{"asset_tag", a.AssetTag},
		{"asset_type", a.AssetType},
		{"category", nullText(a.Category)},
		{"model", nullText(a.Model)},
		{"serial_number", nullText(a.SerialNumber)},
		{"notes", nullText(a.Notes)},
		{"assigned_to", nullText(a.AssignedTo)},
		{"date_assigned", nullDate(a.DateAssigned)},
		{"date_decommissioned", nullDate(a.DateDecommissioned)},
		{"is_loaner", strconv.FormatBool(a.IsLoaner)},
	}
}

// describeChanges renders the edit from before to after as
// "field: 'old' -> 'new'" items joined by "; ".
func describeChanges(before, after models.Asset) string {
	b, a := editableFields(before), editableFields(after)
	var parts []string
	for i := range b {
		if b[i].value != a[i].value {
			parts = append(parts, fmt.Sprintf("%s: '%s' -> '%s'", b[i].name, b[i].value, a[i].value))
		}
	}
	if len(parts) == 0 {
		return noChanges
	}
	return strings.Join(parts, "; ")
}

func assetSubject(a models.Asset) string {
	return fmt.Sprintf("%s (%s)", a.AssetTag, a.AssetType)
}
