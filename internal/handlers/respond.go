package handlers

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5"

	"github.com/crucial707/hci-inventory/internal/middleware"
	"github.com/crucial707/hci-inventory/internal/models"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// decodeJSON decodes the request body into v, answering 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return false
	}
	return true
}

// pathID parses the {name} URL parameter as a positive integer, answering 400 on failure.
// Ids beyond the int4 key range cannot exist and answer 404.
func pathID(w http.ResponseWriter, r *http.Request, name, what string) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if errors.Is(err, strconv.ErrRange) || (err == nil && id > math.MaxInt32) {
		JSONError(w, what+" not found", http.StatusNotFound)
		return 0, false
	}
	if err != nil || id <= 0 {
		JSONError(w, "invalid "+what+" id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// principal returns the caller resolved by middleware.Authenticate.
func principal(w http.ResponseWriter, r *http.Request) (models.Principal, bool) {
	p, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		JSONError(w, "unauthorized", http.StatusUnauthorized)
	}
	return p, ok
}

func queryInt(r *http.Request, key string, fallback int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
