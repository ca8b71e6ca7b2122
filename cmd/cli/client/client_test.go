package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"

	"github.com/crucial707/hci-inventory/cmd/cli/config"
)

func useServer(t *testing.T, h http.HandlerFunc) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	t.Setenv("HCI_API_URL", srv.URL)
	t.Setenv("HCI_TOKEN_FILE", filepath.Join(t.TempDir(), "token"))
}

func TestDo_NotLoggedIn(t *testing.T) {
	useServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("request should not be sent")
	})
	if err := Do("GET", "/assets", nil, nil); !errors.Is(err, ErrNotLoggedIn) {
		t.Fatalf("expected ErrNotLoggedIn, got %v", err)
	}
}

func TestDo_SendsToken(t *testing.T) {
	useServer(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization: got %q", got)
		}
		json.NewEncoder(w).Encode(map[string]int{"id": 7})
	})
	if err := config.SaveToken("tok\n"); err != nil {
		t.Fatalf("SaveToken: %v", err)
	}

	var out struct{ ID int }
	if err := Do("GET", "/assets/7", nil, &out); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if out.ID != 7 {
		t.Errorf("got id %d, want 7", out.ID)
	}
}

func TestDo_APIError(t *testing.T) {
	useServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"error":  "validation failed",
			"fields": map[string]string{"asset_tag": "required"},
		})
	})

	err := DoAnonymous("POST", "/assets", map[string]string{}, nil)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Status != http.StatusBadRequest || apiErr.Fields["asset_tag"] != "required" {
		t.Errorf("unexpected error: %+v", apiErr)
	}
}
