package service

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/guregu/null/v5"

	"github.com/crucial707/hci-inventory/internal/auth"
	"github.com/crucial707/hci-inventory/internal/db"
	"github.com/crucial707/hci-inventory/internal/metrics"
	"github.com/crucial707/hci-inventory/internal/models"
	"github.com/crucial707/hci-inventory/internal/repo"
)

// Registry owns the asset lifecycle.
type Registry struct {
	db     *sql.DB
	policy auth.Policy
}

// ==========================
// Create
// ==========================

// Create validates in, rejects duplicate tags and serials and stores the
// asset together with its "Item Added" audit entry.
func (s *Registry) Create(ctx context.Context, p models.Principal, in models.AssetInput) (models.Asset, error) {
	created, err := s.create(ctx, p, in)
	metrics.IncAssetOperation("create", outcome(err))
	return created, err
}

func (s *Registry) create(ctx context.Context, p models.Principal, in models.AssetInput) (models.Asset, error) {
	if err := s.policy.Require(p, auth.AddAsset); err != nil {
		return models.Asset{}, err
	}
	a, err := assetFromInput(in.Trimmed())
	if err != nil {
		return models.Asset{}, err
	}

	var created models.Asset
	err = db.WithTx(ctx, s.db, nil, func(tx *sql.Tx) error {
		assets := repo.NewAssetRepo(tx)
		if err := checkUnique(ctx, assets, a, 0); err != nil {
			return err
		}
		var err error
		created, err = assets.Create(ctx, a)
		if err != nil {
			return err
		}
		return repo.NewAuditRepo(tx).Log(ctx, models.ActionItemAdded, p.Username, assetSubject(created))
	})
	if err != nil {
		return models.Asset{}, storageErr(err)
	}

	slog.InfoContext(ctx, "asset created", "asset_id", created.ID, "asset_tag", created.AssetTag, "actor", p.Username)
	return created, nil
}

// checkUnique looks for another asset (id != excludeID) holding a's tag or
// serial number.
func checkUnique(ctx context.Context, assets *repo.AssetRepo, a models.Asset, excludeID int) error {
	if err := checkTag(ctx, assets, a.AssetTag, excludeID); err != nil {
		return err
	}
	if !a.SerialNumber.Valid {
		return nil
	}
	return checkSerial(ctx, assets, a.SerialNumber.String, excludeID)
}

func checkTag(ctx context.Context, assets *repo.AssetRepo, tag string, excludeID int) error {
	exists, err := assets.TagExists(ctx, tag, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return errors.Wrapf(models.ErrDuplicateAssetTag, "asset tag %q", tag)
	}
	return nil
}

func checkSerial(ctx context.Context, assets *repo.AssetRepo, serial string, excludeID int) error {
	exists, err := assets.SerialExists(ctx, serial, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return errors.Wrapf(models.ErrDuplicateSerialNumber, "serial number %q", serial)
	}
	return nil
}

// ==========================
// Update
// ==========================

// Update replaces the editable fields of asset id and appends a change log
// entry describing the edit.
func (s *Registry) Update(ctx context.Context, p models.Principal, id int, in models.AssetInput) (models.Asset, error) {
	updated, err := s.update(ctx, p, id, in)
	metrics.IncAssetOperation("update", outcome(err))
	return updated, err
}

func (s *Registry) update(ctx context.Context, p models.Principal, id int, in models.AssetInput) (models.Asset, error) {
	if err := s.policy.Require(p, auth.EditAsset); err != nil {
		return models.Asset{}, err
	}
	next, err := assetFromInput(in.Trimmed())
	if err != nil {
		return models.Asset{}, err
	}

	var updated models.Asset
	var description string
	err = db.WithTx(ctx, s.db, nil, func(tx *sql.Tx) error {
		assets := repo.NewAssetRepo(tx)
		cur, err := assets.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}

		if next.AssetTag != cur.AssetTag {
			if err := checkTag(ctx, assets, next.AssetTag, id); err != nil {
				return err
			}
		}
		if next.SerialNumber.Valid && next.SerialNumber != cur.SerialNumber {
			if err := checkSerial(ctx, assets, next.SerialNumber.String, id); err != nil {
				return err
			}
		}

		if cur.IsLoaner && !next.IsLoaner {
			open, err := repo.NewCheckoutRepo(tx).OpenForAsset(ctx, id)
			if err != nil {
				return err
			}
			if open != nil {
				return invalidField("is_loaner", "cannot be cleared while the asset is checked out")
			}
		}

		next.ID = id
		updated, err = assets.Update(ctx, next)
		if err != nil {
			return err
		}
		description = describeChanges(cur, updated)
		return repo.NewChangeLogRepo(tx).Log(ctx, models.ChangeLogEntry{
			AssetID:       id,
			PrincipalID:   null.IntFrom(int64(p.ID)),
			PrincipalName: p.Username,
			Description:   description,
		})
	})
	if err != nil {
		return models.Asset{}, storageErr(err)
	}

	slog.InfoContext(ctx, "asset updated", "asset_id", id, "changes", description, "actor", p.Username)
	return updated, nil
}

// ==========================
// Delete
// ==========================

// Delete removes an asset with its closed checkouts and change log. It is
// refused while the asset is checked out.
func (s *Registry) Delete(ctx context.Context, p models.Principal, id int) error {
	err := s.delete(ctx, p, id)
	metrics.IncAssetOperation("delete", outcome(err))
	return err
}

func (s *Registry) delete(ctx context.Context, p models.Principal, id int) error {
	if err := s.policy.Require(p, auth.DeleteAsset); err != nil {
		return err
	}

	var deleted models.Asset
	err := db.WithTx(ctx, s.db, nil, func(tx *sql.Tx) error {
		assets := repo.NewAssetRepo(tx)
		var err error
		deleted, err = assets.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		open, err := repo.NewCheckoutRepo(tx).OpenForAsset(ctx, id)
		if err != nil {
			return err
		}
		if open != nil {
			return errors.Wrapf(models.ErrAlreadyCheckedOut, "asset %s is with %s", deleted.AssetTag, open.BorrowerName)
		}
		if err := assets.Delete(ctx, id); err != nil {
			return err
		}
		return repo.NewAuditRepo(tx).Log(ctx, models.ActionItemDeleted, p.Username, assetSubject(deleted))
	})
	if err != nil {
		return storageErr(err)
	}

	slog.InfoContext(ctx, "asset deleted", "asset_id", id, "asset_tag", deleted.AssetTag, "actor", p.Username)
	return nil
}

// ==========================
// Read
// ==========================

func (s *Registry) Get(ctx context.Context, p models.Principal, id int) (models.Asset, error) {
	if err := s.policy.Require(p, auth.ViewAssets); err != nil {
		return models.Asset{}, err
	}
	a, err := repo.NewAssetRepo(s.db).Get(ctx, id)
	return a, storageErr(err)
}

// List returns page (clamped to 1) of the filtered, sorted assets. The page
// and its total are read from one snapshot. Pages past the last one are empty.
func (s *Registry) List(ctx context.Context, p models.Principal, f models.AssetFilter, sort models.AssetSort, page int) (models.AssetPage, error) {
	if err := s.policy.Require(p, auth.ViewAssets); err != nil {
		return models.AssetPage{}, err
	}
	if page < 1 {
		page = 1
	}

	out := models.AssetPage{Page: page, PerPage: models.PageSize}
	err := db.WithTx(ctx, s.db, db.ReadSnapshot, func(tx *sql.Tx) error {
		assets := repo.NewAssetRepo(tx)
		var err error
		if out.Total, err = assets.Count(ctx, f); err != nil {
			return err
		}
		// Past the last page: empty, and no offset that could overflow.
		if page > 1 && page > pageCount(out.Total) {
			out.Items = []models.Asset{}
			return nil
		}
		out.Items, err = assets.List(ctx, f, sort, models.PageSize, (page-1)*models.PageSize)
		return err
	})
	if err != nil {
		return models.AssetPage{}, storageErr(err)
	}
	out.Pages = pageCount(out.Total)
	return out, nil
}

func pageCount(total int) int {
	return (total + models.PageSize - 1) / models.PageSize
}
