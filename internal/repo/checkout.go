package repo

import (
	"context"
	"database/sql"

	"github.com/cockroachdb/errors"
	"github.com/guregu/null/v5"

	"github.com/crucial707/hci-inventory/internal/models"
)

// CheckoutRepo persists loaner checkouts.
type CheckoutRepo struct {
	DB Querier
}

// NewCheckoutRepo returns a new CheckoutRepo.
func NewCheckoutRepo(db Querier) *CheckoutRepo {
	return &CheckoutRepo{DB: db}
}

const checkoutColumns = `c.id, c.asset_id, a.asset_tag, a.asset_type, c.borrower_name, c.checked_out_by,
	c.checked_out_by_name, c.checked_out_at, c.returned_at, c.returned_by_name`

func scanCheckout(row rowScanner) (models.Checkout, error) {
	var c models.Checkout
	err := row.Scan(&c.ID, &c.AssetID, &c.AssetTag, &c.AssetType, &c.BorrowerName, &c.CheckedOutBy,
		&c.CheckedOutByName, &c.CheckedOutAt, &c.ReturnedAt, &c.ReturnedByName)
	if errors.Is(err, sql.ErrNoRows) {
		return c, models.ErrCheckoutNotFound
	}
	return c, err
}

// Create inserts an open checkout. A second open checkout for the same asset
// violates checkouts_one_open_per_asset and is reported as ErrAlreadyCheckedOut.
func (r *CheckoutRepo) Create(ctx context.Context, c models.Checkout) (models.Checkout, error) {
	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO checkouts (asset_id, borrower_name, checked_out_by, checked_out_by_name)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, checked_out_at`,
		c.AssetID, c.BorrowerName, c.CheckedOutBy, c.CheckedOutByName,
	).Scan(&c.ID, &c.CheckedOutAt)
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok && constraint == constraintOpenCheckout {
			return models.Checkout{}, errors.WithSecondaryError(models.ErrAlreadyCheckedOut, err)
		}
		return models.Checkout{}, err
	}
	c.ReturnedAt = null.Time{}
	c.ReturnedByName = null.String{}
	return c, nil
}

// OpenForAsset returns the open checkout of an asset, or nil when there is none.
func (r *CheckoutRepo) OpenForAsset(ctx context.Context, assetID int) (*models.Checkout, error) {
	c, err := scanCheckout(r.DB.QueryRowContext(ctx,
		`SELECT `+checkoutColumns+`
		 FROM checkouts c JOIN assets a ON a.id = c.asset_id
		 WHERE c.asset_id = $1 AND c.returned_at IS NULL`,
		assetID,
	))
	if errors.Is(err, models.ErrCheckoutNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetForUpdate reads a checkout with its asset tag/type and locks the checkout row.
func (r *CheckoutRepo) GetForUpdate(ctx context.Context, id int) (models.Checkout, error) {
	return scanCheckout(r.DB.QueryRowContext(ctx,
		`SELECT `+checkoutColumns+`
		 FROM checkouts c JOIN assets a ON a.id = c.asset_id
		 WHERE c.id = $1
		 FOR UPDATE OF c`,
		id,
	))
}

// MarkReturned closes an open checkout. It returns ErrAlreadyReturned when the
// row was closed in the meantime.
func (r *CheckoutRepo) MarkReturned(ctx context.Context, id int, returnedBy string) (models.Checkout, error) {
	var c models.Checkout
	err := r.DB.QueryRowContext(ctx,
		`UPDATE checkouts SET returned_at = NOW(), returned_by_name = $1
		 WHERE id = $2 AND returned_at IS NULL
		 RETURNING returned_at, returned_by_name`,
		returnedBy, id,
	).Scan(&c.ReturnedAt, &c.ReturnedByName)
	if errors.Is(err, sql.ErrNoRows) {
		return c, models.ErrAlreadyReturned
	}
	return c, err
}

// ListForAsset returns every checkout of an asset, newest first.
func (r *CheckoutRepo) ListForAsset(ctx context.Context, assetID int) ([]models.Checkout, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+checkoutColumns+`
		 FROM checkouts c JOIN assets a ON a.id = c.asset_id
		 WHERE c.asset_id = $1
		 ORDER BY c.checked_out_at DESC, c.id DESC`,
		assetID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []models.Checkout{}
	for rows.Next() {
		c, err := scanCheckout(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// CountOpen returns the number of open checkouts across all assets.
func (r *CheckoutRepo) CountOpen(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM checkouts WHERE returned_at IS NULL`).Scan(&n)
	return n, err
}
