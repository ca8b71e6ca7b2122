package handlers

import (
	"net/http"

	"github.com/crucial707/hci-inventory/internal/models"
	"github.com/crucial707/hci-inventory/internal/service"
)

type AssetHandler struct {
	Registry *service.Registry
	Changes  *service.ChangeLog
}

//
// ==========================
// Create Asset
// ==========================
//

func (h *AssetHandler) CreateAsset(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	var input models.AssetInput
	if !decodeJSON(w, r, &input) {
		return
	}

	asset, err := h.Registry.Create(r.Context(), p, input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, asset)
}

//
// ==========================
// List Assets
// ==========================
//

// ListAssets serves GET /assets?q=&asset_type=&site_name=&assigned_to=&sort=&page=.
func (h *AssetHandler) ListAssets(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	filter := models.AssetFilter{
		Query:      q.Get("q"),
		AssetType:  q.Get("asset_type"),
		SiteName:   q.Get("site_name"),
		AssignedTo: q.Get("assigned_to"),
	}

	page, err := h.Registry.List(r.Context(), p, filter, models.ParseAssetSort(q.Get("sort")), queryInt(r, "page", 1))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

//
// ==========================
// Get Asset
// ==========================
//

func (h *AssetHandler) GetAsset(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id", "asset")
	if !ok {
		return
	}

	asset, err := h.Registry.Get(r.Context(), p, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, asset)
}

//
// ==========================
// Update Asset
// ==========================
//

func (h *AssetHandler) UpdateAsset(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id", "asset")
	if !ok {
		return
	}
	var input models.AssetInput
	if !decodeJSON(w, r, &input) {
		return
	}

	asset, err := h.Registry.Update(r.Context(), p, id, input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, asset)
}

//
// ==========================
// Delete Asset
// ==========================
//

func (h *AssetHandler) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id", "asset")
	if !ok {
		return
	}

	if err := h.Registry.Delete(r.Context(), p, id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

//
// ==========================
// Change Log
// ==========================
//

// ListChanges serves the edit history of one asset, newest first.
func (h *AssetHandler) ListChanges(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id", "asset")
	if !ok {
		return
	}

	entries, err := h.Changes.ListForAsset(r.Context(), p, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
