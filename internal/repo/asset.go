package repo

import (
	"context"
	"database/sql"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/cockroachdb/errors"
	"github.com/guregu/null/v5"

	"github.com/crucial707/hci-inventory/internal/models"
)

// ========================
// REPOSITORY STRUCT
// ========================

type AssetRepo struct {
	DB Querier
}

func NewAssetRepo(db Querier) *AssetRepo {
	return &AssetRepo{DB: db}
}

var assetColumnList = []string{
	"id", "site_name", "room_number", "room_name", "asset_tag", "asset_type",
	"category", "model", "serial_number", "notes", "assigned_to",
	"date_assigned", "date_decommissioned", "is_loaner", "created_at", "updated_at",
}

var assetColumns = strings.Join(assetColumnList, ", ")

func scanAsset(row rowScanner) (models.Asset, error) {
	var a models.Asset
	err := row.Scan(
		&a.ID, &a.SiteName, &a.RoomNumber, &a.RoomName, &a.AssetTag, &a.AssetType,
		&a.Category, &a.Model, &a.SerialNumber, &a.Notes, &a.AssignedTo,
		&a.DateAssigned, &a.DateDecommissioned, &a.IsLoaner, &a.CreatedAt, &a.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return a, models.ErrAssetNotFound
	}
	return a, err
}

// assetWriteError turns unique violations raised by a concurrent writer into
// the matching duplicate error.
func assetWriteError(err error) error {
	if c, ok := uniqueViolation(err); ok {
		switch c {
		case constraintAssetTag:
			return errors.WithSecondaryError(models.ErrDuplicateAssetTag, err)
		case constraintSerialNumber:
			return errors.WithSecondaryError(models.ErrDuplicateSerialNumber, err)
		}
	}
	return err
}

// ========================
// CREATE ASSET
// ========================

func (r *AssetRepo) Create(ctx context.Context, a models.Asset) (models.Asset, error) {
	row := r.DB.QueryRowContext(ctx,
		`INSERT INTO assets (site_name, room_number, room_name, asset_tag, asset_type,
		 category, model, serial_number, notes, assigned_to, date_assigned, date_decommissioned, is_loaner)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 RETURNING `+assetColumns,
		a.SiteName, a.RoomNumber, a.RoomName, a.AssetTag, a.AssetType,
		a.Category, a.Model, a.SerialNumber, a.Notes, a.AssignedTo,
		a.DateAssigned, a.DateDecommissioned, a.IsLoaner,
	)
	created, err := scanAsset(row)
	if err != nil {
		return models.Asset{}, assetWriteError(err)
	}
	return created, nil
}

// ========================
// GET ASSET
// ========================

func (r *AssetRepo) Get(ctx context.Context, id int) (models.Asset, error) {
	return scanAsset(r.DB.QueryRowContext(ctx,
		`SELECT `+assetColumns+` FROM assets WHERE id = $1`, id))
}

// GetForUpdate reads the asset and locks its row until the transaction ends.
func (r *AssetRepo) GetForUpdate(ctx context.Context, id int) (models.Asset, error) {
	return scanAsset(r.DB.QueryRowContext(ctx,
		`SELECT `+assetColumns+` FROM assets WHERE id = $1 FOR UPDATE`, id))
}

func (r *AssetRepo) GetByTag(ctx context.Context, tag string) (models.Asset, error) {
	return scanAsset(r.DB.QueryRowContext(ctx,
		`SELECT `+assetColumns+` FROM assets WHERE asset_tag = $1`, tag))
}

// TagExists reports whether another asset (id != excludeID) uses tag.
func (r *AssetRepo) TagExists(ctx context.Context, tag string, excludeID int) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM assets WHERE asset_tag = $1 AND id <> $2)`,
		tag, excludeID,
	).Scan(&exists)
	return exists, err
}

// SerialExists reports whether another asset (id != excludeID) uses serial.
func (r *AssetRepo) SerialExists(ctx context.Context, serial string, excludeID int) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM assets WHERE serial_number = $1 AND id <> $2)`,
		serial, excludeID,
	).Scan(&exists)
	return exists, err
}

// ========================
// UPDATE ASSET
// ========================

func (r *AssetRepo) Update(ctx context.Context, a models.Asset) (models.Asset, error) {
	row := r.DB.QueryRowContext(ctx,
		`UPDATE assets SET site_name = $1, room_number = $2, room_name = $3, asset_tag = $4,
		 asset_type = $5, category = $6, model = $7, serial_number = $8, notes = $9,
		 assigned_to = $10, date_assigned = $11, date_decommissioned = $12, is_loaner = $13,
		 updated_at = NOW()
		 WHERE id = $14
		 RETURNING `+assetColumns,
		a.SiteName, a.RoomNumber, a.RoomName, a.AssetTag, a.AssetType,
		a.Category, a.Model, a.SerialNumber, a.Notes, a.AssignedTo,
		a.DateAssigned, a.DateDecommissioned, a.IsLoaner, a.ID,
	)
	updated, err := scanAsset(row)
	if err != nil {
		return models.Asset{}, assetWriteError(err)
	}
	return updated, nil
}

// SetHolder records who currently holds the asset. Invalid values clear it.
func (r *AssetRepo) SetHolder(ctx context.Context, id int, holder null.String, since null.Time) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE assets SET assigned_to = $1, date_assigned = $2, updated_at = NOW() WHERE id = $3`,
		holder, since, id,
	)
	if err != nil {
		return err
	}
	return expectOneRow(res, models.ErrAssetNotFound)
}

// ========================
// DELETE ASSET
// ========================

func (r *AssetRepo) Delete(ctx context.Context, id int) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM assets WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectOneRow(res, models.ErrAssetNotFound)
}

// ========================
// LIST / COUNT WITH FILTERS
// ========================

func applyAssetFilter(b sq.SelectBuilder, f models.AssetFilter) sq.SelectBuilder {
	if f.Query != "" {
		p := likePattern(f.Query)
		b = b.Where(sq.Or{
			sq.ILike{"asset_tag": p},
			sq.ILike{"asset_type": p},
			sq.ILike{"site_name": p},
			sq.ILike{"assigned_to": p},
		})
	}
	if f.AssetType != "" {
		b = b.Where(sq.ILike{"asset_type": likePattern(f.AssetType)})
	}
	if f.SiteName != "" {
		b = b.Where(sq.ILike{"site_name": likePattern(f.SiteName)})
	}
	if f.AssignedTo != "" {
		b = b.Where(sq.ILike{"assigned_to": likePattern(f.AssignedTo)})
	}
	return b
}

// List returns one page of assets in a total order: the sort column, then id.
func (r *AssetRepo) List(ctx context.Context, f models.AssetFilter, sort models.AssetSort, limit, offset int) ([]models.Asset, error) {
	order := string(models.ParseAssetSort(string(sort))) + " ASC NULLS LAST"
	b := applyAssetFilter(psql.Select(assetColumnList...).From("assets"), f).
		OrderBy(order, "id ASC").
		Limit(uint64(limit)).
		Offset(uint64(offset))

	query, args, err := b.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "can't build sql query")
	}
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assets := []models.Asset{}
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

func (r *AssetRepo) Count(ctx context.Context, f models.AssetFilter) (int, error) {
	query, args, err := applyAssetFilter(psql.Select("COUNT(*)").From("assets"), f).ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "can't build sql query")
	}
	var n int
	err = r.DB.QueryRowContext(ctx, query, args...).Scan(&n)
	return n, err
}

func expectOneRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
