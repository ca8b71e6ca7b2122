package loans

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/crucial707/hci-inventory/cmd/cli/config"
	"github.com/crucial707/hci-inventory/internal/models"
)

func captureOutput(t *testing.T, fn func()) string {
	t.Helper()

	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	return buf.String()
}

func serve(t *testing.T, h http.HandlerFunc) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	t.Setenv("HCI_API_URL", srv.URL)
	t.Setenv("HCI_TOKEN_FILE", filepath.Join(t.TempDir(), "token"))
	if err := config.SaveToken("test-token"); err != nil {
		t.Fatalf("SaveToken: %v", err)
	}
}

func TestCheckout(t *testing.T) {
	serve(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/assets/1/checkout" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(models.Checkout{ID: 5, AssetID: 1, AssetTag: "A-100", BorrowerName: in["borrower_name"]})
	})

	cmd := checkoutCmd()
	_ = cmd.Flags().Set("borrower", "Jane")
	out := captureOutput(t, func() {
		if err := cmd.RunE(cmd, []string{"1"}); err != nil {
			t.Errorf("RunE: %v", err)
		}
	})
	if !strings.Contains(out, "Checked out A-100 to Jane (checkout 5)") {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestActive_Available(t *testing.T) {
	serve(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"checkout":null}`))
	})

	cmd := activeCmd()
	out := captureOutput(t, func() {
		if err := cmd.RunE(cmd, []string{"1"}); err != nil {
			t.Errorf("RunE: %v", err)
		}
	})
	if strings.TrimSpace(out) != "Available" {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestHistory_Table(t *testing.T) {
	now := time.Now()
	serve(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/assets/1/checkouts" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode([]models.Checkout{
			{ID: 2, BorrowerName: "Bob", CheckedOutAt: now},
			{ID: 1, BorrowerName: "Jane", CheckedOutAt: now.Add(-time.Hour)},
		})
	})

	cmd := historyCmd()
	out := captureOutput(t, func() {
		if err := cmd.RunE(cmd, []string{"1"}); err != nil {
			t.Errorf("RunE: %v", err)
		}
	})
	if strings.Index(out, "Bob") > strings.Index(out, "Jane") {
		t.Errorf("expected newest first, got: %s", out)
	}
}

func TestReturn_AlreadyReturned(t *testing.T) {
	serve(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "checkout already returned"})
	})

	cmd := returnCmd()
	err := cmd.RunE(cmd, []string{"5"})
	if err == nil || !strings.Contains(err.Error(), "already returned") {
		t.Fatalf("expected conflict error, got %v", err)
	}
}
