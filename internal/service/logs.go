package service

import (
	"context"
	"database/sql"

	"github.com/crucial707/hci-inventory/internal/auth"
	"github.com/crucial707/hci-inventory/internal/db"
	"github.com/crucial707/hci-inventory/internal/models"
	"github.com/crucial707/hci-inventory/internal/repo"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 200
)

// AuditTrail is the read side of the audit log. Entries are written by the
// Registry and the Ledger inside their own transactions.
type AuditTrail struct {
	db     *sql.DB
	policy auth.Policy
}

// ListRecent returns audit entries newest first. limit defaults to 50 and is
// capped at 200.
func (s *AuditTrail) ListRecent(ctx context.Context, p models.Principal, limit, offset int) ([]models.AuditEntry, error) {
	if err := s.policy.Require(p, auth.ViewAudit); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	if limit > maxAuditLimit {
		limit = maxAuditLimit
	}
	if offset < 0 {
		offset = 0
	}
	entries, err := repo.NewAuditRepo(s.db).List(ctx, limit, offset)
	if err != nil {
		return nil, storageErr(err)
	}
	return entries, nil
}

// ChangeLog is the read side of the per-asset edit history.
type ChangeLog struct {
	db     *sql.DB
	policy auth.Policy
}

func (s *ChangeLog) ListForAsset(ctx context.Context, p models.Principal, assetID int) ([]models.ChangeLogEntry, error) {
	if err := s.policy.Require(p, auth.ViewAssets); err != nil {
		return nil, err
	}
	var entries []models.ChangeLogEntry
	err := db.WithTx(ctx, s.db, db.ReadSnapshot, func(tx *sql.Tx) error {
		if _, err := repo.NewAssetRepo(tx).Get(ctx, assetID); err != nil {
			return err
		}
		var err error
		entries, err = repo.NewChangeLogRepo(tx).ListForAsset(ctx, assetID)
		return err
	})
	if err != nil {
		return nil, storageErr(err)
	}
	return entries, nil
}
