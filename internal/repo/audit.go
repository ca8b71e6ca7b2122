package repo

import (
	"context"

	"github.com/crucial707/hci-inventory/internal/models"
)

// AuditRepo persists audit log entries. The table is append-only: there is no
// update or delete.
type AuditRepo struct {
	db Querier
}

// NewAuditRepo returns a new AuditRepo.
func NewAuditRepo(db Querier) *AuditRepo {
	return &AuditRepo{db: db}
}

// Log records an audit entry. actor and subject are stored as text snapshots.
func (r *AuditRepo) Log(ctx context.Context, action, actor, subject string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_log (action, actor_name, subject) VALUES ($1, $2, $3)`,
		action, actor, subject,
	)
	return err
}

// List returns recent audit entries, newest first.
func (r *AuditRepo) List(ctx context.Context, limit, offset int) ([]models.AuditEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, action, actor_name, subject, created_at FROM audit_log ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []models.AuditEntry{}
	for rows.Next() {
		var e models.AuditEntry
		if err := rows.Scan(&e.ID, &e.Action, &e.ActorName, &e.Subject, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
