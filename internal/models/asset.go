package models

import (
	"strings"
	"time"

	"github.com/guregu/null/v5"
)

// PageSize is the fixed number of assets per listing page.
const PageSize = 25

// DateLayout is the format of date_assigned and date_decommissioned.
const DateLayout = "2006-01-02"

type Asset struct {
	ID                 int         `json:"id"`
	SiteName           string      `json:"site_name"`
	RoomNumber         null.String `json:"room_number"`
	RoomName           null.String `json:"room_name"`
	AssetTag           string      `json:"asset_tag"`
	AssetType          string      `json:"asset_type"`
	Category           null.String `json:"category"`
	Model              null.String `json:"model"`
	SerialNumber       null.String `json:"serial_number"`
	Notes              null.String `json:"notes"`
	AssignedTo         null.String `json:"assigned_to"`
	DateAssigned       null.Time   `json:"date_assigned"`
	DateDecommissioned null.Time   `json:"date_decommissioned"`
	IsLoaner           bool        `json:"is_loaner"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

// AssetInput is the canonical field set accepted by create and edit.
// Empty optional strings are stored as NULL.
type AssetInput struct {
	SiteName           string `json:"site_name" validate:"required,max=100"`
	RoomNumber         string `json:"room_number" validate:"max=20"`
	RoomName           string `json:"room_name" validate:"max=100"`
	AssetTag           string `json:"asset_tag" validate:"required,max=50"`
	AssetType          string `json:"asset_type" validate:"required,max=50"`
	Category           string `json:"category" validate:"max=100"`
	Model              string `json:"model" validate:"max=100"`
	SerialNumber       string `json:"serial_number" validate:"max=100"`
	Notes              string `json:"notes"`
	AssignedTo         string `json:"assigned_to" validate:"max=100"`
	DateAssigned       string `json:"date_assigned" validate:"omitempty,datetime=2006-01-02"`
	DateDecommissioned string `json:"date_decommissioned" validate:"omitempty,datetime=2006-01-02"`
	IsLoaner           bool   `json:"is_loaner"`
}

// Trimmed returns a copy with surrounding whitespace removed from every field.
func (in AssetInput) Trimmed() AssetInput {
	out := in
	for _, s := range []*string{
		&out.SiteName, &out.RoomNumber, &out.RoomName, &out.AssetTag, &out.AssetType,
		&out.Category, &out.Model, &out.SerialNumber, &out.Notes, &out.AssignedTo,
		&out.DateAssigned, &out.DateDecommissioned,
	} {
		*s = strings.TrimSpace(*s)
	}
	return out
}

// AssetFilter is a conjunction of optional case-insensitive substring predicates.
type AssetFilter struct {
	Query      string
	AssetType  string
	SiteName   string
	AssignedTo string
}

type AssetSort string

const (
	SortByAssetTag   AssetSort = "asset_tag"
	SortBySiteName   AssetSort = "site_name"
	SortByAssignedTo AssetSort = "assigned_to"
)

// ParseAssetSort falls back to asset_tag for unknown values.
func ParseAssetSort(s string) AssetSort {
	switch AssetSort(s) {
	case SortBySiteName, SortByAssignedTo:
		return AssetSort(s)
	}
	return SortByAssetTag
}

type AssetPage struct {
	Items   []Asset `json:"items"`
	Total   int     `json:"total"`
	Page    int     `json:"page"`
	PerPage int     `json:"per_page"`
	Pages   int     `json:"pages"`
}
