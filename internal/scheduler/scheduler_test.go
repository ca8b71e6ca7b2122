package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/crucial707/hci-inventory/internal/metrics"
)

type fakeCounter struct {
	n     int
	err   error
	calls int
}

func (f *fakeCounter) CountOpen(ctx context.Context) (int, error) {
	f.calls++
	return f.n, f.err
}

func TestNew_InvalidCronExpr(t *testing.T) {
	if _, err := New("not a cron expression", &fakeCounter{}); err == nil {
		t.Fatal("expected error for invalid cron expression")
	}
}

func TestRefreshOpenCheckouts(t *testing.T) {
	c := &fakeCounter{n: 4}
	s, err := New("@every 1h", c)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	s.RefreshOpenCheckouts()
	if c.calls != 1 {
		t.Errorf("CountOpen calls: got %d, want 1", c.calls)
	}
	if got := testutil.ToFloat64(metrics.OpenCheckouts); got != 4 {
		t.Errorf("gauge: got %v, want 4", got)
	}

	// A failed count leaves the last value in place.
	c.err = errors.New("db down")
	s.RefreshOpenCheckouts()
	if got := testutil.ToFloat64(metrics.OpenCheckouts); got != 4 {
		t.Errorf("gauge after error: got %v, want 4", got)
	}
}

func TestStartStop(t *testing.T) {
	c := &fakeCounter{n: 1}
	s, err := New("@every 1h", c)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s.Start()
	s.Stop(context.Background())
	if c.calls != 1 {
		t.Errorf("CountOpen calls: got %d, want 1", c.calls)
	}
}
