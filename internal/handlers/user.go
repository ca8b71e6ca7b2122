package handlers

import (
	"net/http"

	"github.com/crucial707/hci-inventory/internal/service"
)

// ==========================
// UserHandler
// ==========================
type UserHandler struct {
	Principals *service.Principals
}

// ==========================
// Create User
// ==========================
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	var input service.PrincipalInput
	if !decodeJSON(w, r, &input) {
		return
	}

	user, err := h.Principals.Create(r.Context(), p, input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// ==========================
// List Users
// ==========================
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	users, err := h.Principals.List(r.Context(), p)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// ==========================
// Update User (empty password keeps the current one)
// ==========================
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id", "user")
	if !ok {
		return
	}
	var input service.PrincipalInput
	if !decodeJSON(w, r, &input) {
		return
	}

	user, err := h.Principals.Update(r.Context(), p, id, input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// ==========================
// Delete User
// ==========================
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id", "user")
	if !ok {
		return
	}

	if err := h.Principals.Delete(r.Context(), p, id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
