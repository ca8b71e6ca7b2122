package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/robfig/cron/v3"

	"github.com/crucial707/hci-inventory/internal/metrics"
)

// OpenCounter reports how many checkouts are currently open.
type OpenCounter interface {
	CountOpen(ctx context.Context) (int, error)
}

// Scheduler runs the periodic gauge refresh.
type Scheduler struct {
	cron    *cron.Cron
	counter OpenCounter
	timeout time.Duration
}

// New registers the open-checkout refresh on expr (a robfig cron expression
// such as "@every 1m" or "*/5 * * * *").
func New(expr string, counter OpenCounter) (*Scheduler, error) {
	s := &Scheduler{
		cron:    cron.New(),
		counter: counter,
		timeout: 10 * time.Second,
	}
	if _, err := s.cron.AddFunc(expr, s.RefreshOpenCheckouts); err != nil {
		return nil, errors.Wrapf(err, "scheduler: invalid cron expression %q", expr)
	}
	return s, nil
}

// Start refreshes once and then runs on schedule in the background.
func (s *Scheduler) Start() {
	s.RefreshOpenCheckouts()
	s.cron.Start()
	slog.Info("scheduler started", "entries", len(s.cron.Entries()))
}

// Stop waits for a running job to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// RefreshOpenCheckouts sets the loaner_open_checkouts gauge from storage.
func (s *Scheduler) RefreshOpenCheckouts() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	n, err := s.counter.CountOpen(ctx)
	if err != nil {
		slog.Error("scheduler: count open checkouts", "error", err)
		return
	}
	metrics.SetOpenCheckouts(n)
	slog.Debug("scheduler: open checkouts refreshed", "open", n)
}
