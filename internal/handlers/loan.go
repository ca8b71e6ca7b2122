package handlers

import (
	"net/http"

	"github.com/crucial707/hci-inventory/internal/service"
)

// LoanHandler serves checkout and return of loaner assets.
type LoanHandler struct {
	Ledger *service.Ledger
}

// Checkout serves POST /assets/{id}/checkout with body {"borrower_name": "..."}.
func (h *LoanHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id", "asset")
	if !ok {
		return
	}
	var input struct {
		BorrowerName string `json:"borrower_name"`
	}
	if !decodeJSON(w, r, &input) {
		return
	}

	c, err := h.Ledger.Checkout(r.Context(), p, id, input.BorrowerName)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// Return serves POST /checkouts/{id}/return. Returning twice answers 409.
func (h *LoanHandler) Return(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id", "checkout")
	if !ok {
		return
	}

	c, err := h.Ledger.Return(r.Context(), p, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Active serves GET /assets/{id}/checkout: the open checkout, or null.
func (h *LoanHandler) Active(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id", "asset")
	if !ok {
		return
	}

	c, err := h.Ledger.ActiveCheckout(r.Context(), p, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"checkout": c})
}

// History serves GET /assets/{id}/checkouts, newest first.
func (h *LoanHandler) History(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id", "asset")
	if !ok {
		return
	}

	list, err := h.Ledger.History(r.Context(), p, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}
