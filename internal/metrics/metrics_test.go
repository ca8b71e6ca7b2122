package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNormalizePath(t *testing.T) {
	tests := map[string]string{
		"/assets":             "/assets",
		"/assets/42":          "/assets/{id}",
		"/assets/42/checkout": "/assets/{id}/checkout",
		"/checkouts/7/return": "/checkouts/{id}/return",
		"/users/abc":          "/users/abc",
	}
	for in, want := range tests {
		if got := NormalizePath(in); got != want {
			t.Errorf("NormalizePath(%q): got %q, want %q", in, got, want)
		}
	}
}

func TestIncLoanOperation(t *testing.T) {
	before := testutil.ToFloat64(LoanOperations.WithLabelValues("checkout", "conflict"))
	IncLoanOperation("checkout", "conflict")
	if got := testutil.ToFloat64(LoanOperations.WithLabelValues("checkout", "conflict")); got != before+1 {
		t.Errorf("counter: got %v, want %v", got, before+1)
	}
}
