package handlers

import (
	"net/http"

	"github.com/crucial707/hci-inventory/internal/auth"
	"github.com/crucial707/hci-inventory/internal/service"
)

// ==========================
// Auth Handler
// ==========================
type AuthHandler struct {
	Principals *service.Principals
	Tokens     auth.Tokens
	Policy     auth.Policy
}

// ==========================
// Login (username and password verified against the stored bcrypt hash)
// ==========================
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &input) {
		return
	}

	user, err := h.Principals.Authenticate(r.Context(), input.Username, input.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	token, expires, err := h.Tokens.Issue(user)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"token":        token,
		"expires_at":   expires,
		"user":         user,
		"capabilities": h.Policy.CapabilitiesFor(user.Role),
	})
}
