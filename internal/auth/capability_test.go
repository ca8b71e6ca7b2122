package auth

import (
	"testing"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/crucial707/hci-inventory/internal/models"
)

func TestPolicy_Matrix(t *testing.T) {
	want := map[models.Role]map[Capability]bool{
		models.RoleAdmin: {
			ViewAssets: true, AddAsset: true, EditAsset: true, DeleteAsset: true,
			LoanAsset: true, ManagePrincipals: true, ViewAudit: true,
		},
		models.RoleEditor: {
			ViewAssets: true, AddAsset: true, EditAsset: true, DeleteAsset: false,
			LoanAsset: true, ManagePrincipals: false, ViewAudit: false,
		},
		models.RoleReader: {
			ViewAssets: true, AddAsset: false, EditAsset: false, DeleteAsset: false,
			LoanAsset: false, ManagePrincipals: false, ViewAudit: false,
		},
	}

	p := DefaultPolicy()
	for role, caps := range want {
		for _, c := range Capabilities {
			if got := p.Allows(role, c); got != caps[c] {
				t.Errorf("Allows(%s, %s) = %v, want %v", role, c, got, caps[c])
			}
		}
	}
}

func TestPolicy_EditorsCanLoanDisabled(t *testing.T) {
	p := Policy{EditorsCanLoan: false}
	if p.Allows(models.RoleEditor, LoanAsset) {
		t.Error("editor should not loan when EditorsCanLoan is false")
	}
	if !p.Allows(models.RoleAdmin, LoanAsset) {
		t.Error("admin must always loan")
	}
}

func TestPolicy_Require(t *testing.T) {
	p := DefaultPolicy()
	reader := models.Principal{ID: 3, Username: "rita", Role: models.RoleReader}

	if err := p.Require(reader, ViewAssets); err != nil {
		t.Fatalf("Require view: %v", err)
	}
	err := p.Require(reader, AddAsset)
	if !errors.Is(err, models.ErrPermissionDenied) {
		t.Fatalf("Require add: got %v, want permission denied", err)
	}
	if models.IsDomainError(err) != true {
		t.Error("permission denied should be a domain error")
	}
}

func TestPolicy_UnknownRole(t *testing.T) {
	p := DefaultPolicy()
	for _, c := range Capabilities {
		if p.Allows(models.Role("Owner"), c) {
			t.Errorf("unknown role allowed %s", c)
		}
	}
	if p.Allows(models.RoleAdmin, Capability("launch_rockets")) {
		t.Error("unknown capability allowed for admin")
	}
}

func TestPolicy_CapabilitiesFor(t *testing.T) {
	got := DefaultPolicy().CapabilitiesFor(models.RoleReader)
	if len(got) != 1 || got[0] != ViewAssets {
		t.Errorf("reader capabilities: %v", got)
	}
}

func TestBcryptHasher(t *testing.T) {
	h := BcryptHasher{Cost: 4}
	hash, err := h.Hash("s3cret!")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if err := h.Compare(hash, "s3cret!"); err != nil {
		t.Errorf("Compare match: %v", err)
	}
	if err := h.Compare(hash, "wrong"); !errors.Is(err, models.ErrInvalidCredentials) {
		t.Errorf("Compare mismatch: got %v", err)
	}
}

func TestBcryptHasher_TooLong(t *testing.T) {
	_, err := BcryptHasher{Cost: 4}.Hash(string(make([]byte, MaxPasswordBytes+1)))
	if !errors.Is(err, models.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestTokens_IssueAndParse(t *testing.T) {
	tokens := Tokens{Secret: []byte("test-secret"), TTL: time.Hour}
	signed, exp, err := tokens.Issue(models.Principal{ID: 7, Username: "alice"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if time.Until(exp) <= 0 {
		t.Errorf("expiry in the past: %v", exp)
	}
	id, err := tokens.Parse(signed)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if id != 7 {
		t.Errorf("expected id 7, got %d", id)
	}
}

func TestTokens_Parse_Rejects(t *testing.T) {
	tokens := Tokens{Secret: []byte("test-secret"), TTL: time.Hour}
	other := Tokens{Secret: []byte("other-secret"), TTL: time.Hour}
	foreign, _, err := other.Issue(models.Principal{ID: 7, Username: "alice"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	expired, _, err := Tokens{Secret: []byte("test-secret"), TTL: -time.Hour}.Issue(models.Principal{ID: 7})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	for name, tok := range map[string]string{"garbage": "not-a-token", "foreign": foreign, "expired": expired} {
		if _, err := tokens.Parse(tok); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("%s: expected ErrInvalidToken, got %v", name, err)
		}
	}
}
