package handlers

import (
	"net/http"

	"github.com/crucial707/hci-inventory/internal/service"
)

// AuditHandler serves audit log endpoints.
type AuditHandler struct {
	Audit *service.AuditTrail
}

// ListAudit returns recent audit log entries. Query: limit (default 50, max 200), offset (default 0).
func (h *AuditHandler) ListAudit(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	entries, err := h.Audit.ListRecent(r.Context(), p, queryInt(r, "limit", 0), queryInt(r, "offset", 0))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
