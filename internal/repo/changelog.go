package repo

import (
	"context"

	"github.com/crucial707/hci-inventory/internal/models"
)

// ChangeLogRepo persists per-asset edit descriptions.
type ChangeLogRepo struct {
	db Querier
}

func NewChangeLogRepo(db Querier) *ChangeLogRepo {
	return &ChangeLogRepo{db: db}
}

func (r *ChangeLogRepo) Log(ctx context.Context, e models.ChangeLogEntry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO change_log (asset_id, principal_id, principal_name, description) VALUES ($1, $2, $3, $4)`,
		e.AssetID, e.PrincipalID, e.PrincipalName, e.Description,
	)
	return err
}

// ListForAsset returns the edits of one asset, newest first.
func (r *ChangeLogRepo) ListForAsset(ctx context.Context, assetID int) ([]models.ChangeLogEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, asset_id, principal_id, principal_name, description, created_at
		 FROM change_log WHERE asset_id = $1 ORDER BY created_at DESC, id DESC`,
		assetID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []models.ChangeLogEntry{}
	for rows.Next() {
		var e models.ChangeLogEntry
		if err := rows.Scan(&e.ID, &e.AssetID, &e.PrincipalID, &e.PrincipalName, &e.Description, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
