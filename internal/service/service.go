// Package service implements the asset registry, the loaner ledger and the
// read side of the audit trail and change log. Every call takes the acting
// principal explicitly; capabilities are checked before any query runs and
// every check-then-act sequence runs inside one short transaction.
package service

import (
	"database/sql"

	"github.com/cockroachdb/errors"

	"github.com/crucial707/hci-inventory/internal/auth"
	"github.com/crucial707/hci-inventory/internal/models"
)

// Services groups the core entry points around one database handle.
type Services struct {
	Registry   *Registry
	Ledger     *Ledger
	Audit      *AuditTrail
	Changes    *ChangeLog
	Principals *Principals
}

func New(db *sql.DB, policy auth.Policy, hasher auth.Hasher) *Services {
	return &Services{
		Registry:   &Registry{db: db, policy: policy},
		Ledger:     &Ledger{db: db, policy: policy},
		Audit:      &AuditTrail{db: db, policy: policy},
		Changes:    &ChangeLog{db: db, policy: policy},
		Principals: &Principals{db: db, policy: policy, hasher: hasher},
	}
}

// storageErr passes domain errors through and marks everything else as
// ErrInternalStorage. The transaction has already been rolled back.
func storageErr(err error) error {
	if err == nil || models.IsDomainError(err) {
		return err
	}
	return errors.Mark(errors.Wrap(err, "storage"), models.ErrInternalStorage)
}

// outcome is the metrics result label of an operation.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, models.ErrPermissionDenied):
		return "denied"
	case errors.Is(err, models.ErrNotFound):
		return "not_found"
	case errors.Is(err, models.ErrValidation), errors.Is(err, models.ErrNotLoanerAsset):
		return "invalid"
	case models.IsDomainError(err):
		return "conflict"
	}
	return "error"
}
