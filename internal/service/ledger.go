package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/guregu/null/v5"

	"github.com/crucial707/hci-inventory/internal/auth"
	"github.com/crucial707/hci-inventory/internal/db"
	"github.com/crucial707/hci-inventory/internal/metrics"
	"github.com/crucial707/hci-inventory/internal/models"
	"github.com/crucial707/hci-inventory/internal/repo"
)

// Ledger runs loaner assets through checkout and return. An asset is
// checked out while it has a checkout with no return time.
type Ledger struct {
	db     *sql.DB
	policy auth.Policy
	now    func() time.Time
}

func (s *Ledger) today() null.Time {
	now := time.Now
	if s.now != nil {
		now = s.now
	}
	y, m, d := now().Date()
	return null.TimeFrom(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

// ==========================
// Checkout
// ==========================

// Checkout lends asset assetID to borrower. The asset row stays locked from
// the open-checkout check until the new checkout commits.
func (s *Ledger) Checkout(ctx context.Context, p models.Principal, assetID int, borrower string) (models.Checkout, error) {
	c, err := s.checkout(ctx, p, assetID, borrower)
	metrics.IncLoanOperation("checkout", outcome(err))
	return c, err
}

func (s *Ledger) checkout(ctx context.Context, p models.Principal, assetID int, borrower string) (models.Checkout, error) {
	if err := s.policy.Require(p, auth.LoanAsset); err != nil {
		return models.Checkout{}, err
	}
	borrower = strings.TrimSpace(borrower)
	if borrower == "" {
		return models.Checkout{}, invalidField("borrower_name", "required")
	}
	if utf8.RuneCountInString(borrower) > 100 {
		return models.Checkout{}, invalidField("borrower_name", "must be at most 100 characters")
	}

	var created models.Checkout
	err := db.WithTx(ctx, s.db, nil, func(tx *sql.Tx) error {
		assets := repo.NewAssetRepo(tx)
		checkouts := repo.NewCheckoutRepo(tx)

		a, err := assets.GetForUpdate(ctx, assetID)
		if err != nil {
			return err
		}
		if !a.IsLoaner {
			return errors.Wrapf(models.ErrNotLoanerAsset, "asset %s", a.AssetTag)
		}
		open, err := checkouts.OpenForAsset(ctx, assetID)
		if err != nil {
			return err
		}
		if open != nil {
			return errors.Wrapf(models.ErrAlreadyCheckedOut, "asset %s is with %s", a.AssetTag, open.BorrowerName)
		}

		created, err = checkouts.Create(ctx, models.Checkout{
			AssetID:          assetID,
			AssetTag:         a.AssetTag,
			AssetType:        a.AssetType,
			BorrowerName:     borrower,
			CheckedOutBy:     null.IntFrom(int64(p.ID)),
			CheckedOutByName: p.Username,
		})
		if err != nil {
			return err
		}
		if err := assets.SetHolder(ctx, assetID, null.StringFrom(borrower), s.today()); err != nil {
			return err
		}
		subject := fmt.Sprintf("%s to %s", assetSubject(a), borrower)
		return repo.NewAuditRepo(tx).Log(ctx, models.ActionDeviceCheckout, p.Username, subject)
	})
	if err != nil {
		return models.Checkout{}, storageErr(err)
	}

	slog.InfoContext(ctx, "asset checked out",
		"checkout_id", created.ID, "asset_id", assetID, "borrower", borrower, "actor", p.Username)
	return created, nil
}

// ==========================
// Return
// ==========================

// Return closes checkout checkoutID. A second return of the same checkout
// fails with ErrAlreadyReturned and writes nothing.
func (s *Ledger) Return(ctx context.Context, p models.Principal, checkoutID int) (models.Checkout, error) {
	c, err := s.returnAsset(ctx, p, checkoutID)
	metrics.IncLoanOperation("return", outcome(err))
	return c, err
}

func (s *Ledger) returnAsset(ctx context.Context, p models.Principal, checkoutID int) (models.Checkout, error) {
	if err := s.policy.Require(p, auth.LoanAsset); err != nil {
		return models.Checkout{}, err
	}

	var c models.Checkout
	err := db.WithTx(ctx, s.db, nil, func(tx *sql.Tx) error {
		checkouts := repo.NewCheckoutRepo(tx)
		var err error
		c, err = checkouts.GetForUpdate(ctx, checkoutID)
		if err != nil {
			return err
		}
		if !c.Open() {
			return errors.Wrapf(models.ErrAlreadyReturned, "checkout %d", checkoutID)
		}

		closed, err := checkouts.MarkReturned(ctx, checkoutID, p.Username)
		if err != nil {
			return err
		}
		c.ReturnedAt, c.ReturnedByName = closed.ReturnedAt, closed.ReturnedByName

		if err := repo.NewAssetRepo(tx).SetHolder(ctx, c.AssetID, null.String{}, null.Time{}); err != nil {
			return err
		}
		subject := fmt.Sprintf("%s (%s) from %s", c.AssetTag, c.AssetType, c.BorrowerName)
		return repo.NewAuditRepo(tx).Log(ctx, models.ActionDeviceReturn, p.Username, subject)
	})
	if err != nil {
		return models.Checkout{}, storageErr(err)
	}

	slog.InfoContext(ctx, "asset returned",
		"checkout_id", checkoutID, "asset_id", c.AssetID, "borrower", c.BorrowerName, "actor", p.Username)
	return c, nil
}

// ==========================
// Queries
// ==========================

// ActiveCheckout returns the open checkout of an asset, or nil. It always
// reads committed state.
func (s *Ledger) ActiveCheckout(ctx context.Context, p models.Principal, assetID int) (*models.Checkout, error) {
	if err := s.policy.Require(p, auth.ViewAssets); err != nil {
		return nil, err
	}
	var open *models.Checkout
	err := db.WithTx(ctx, s.db, db.ReadSnapshot, func(tx *sql.Tx) error {
		if _, err := repo.NewAssetRepo(tx).Get(ctx, assetID); err != nil {
			return err
		}
		var err error
		open, err = repo.NewCheckoutRepo(tx).OpenForAsset(ctx, assetID)
		return err
	})
	if err != nil {
		return nil, storageErr(err)
	}
	return open, nil
}

// ActiveCheckoutByTag is ActiveCheckout addressed by asset tag.
func (s *Ledger) ActiveCheckoutByTag(ctx context.Context, p models.Principal, tag string) (*models.Checkout, error) {
	if err := s.policy.Require(p, auth.ViewAssets); err != nil {
		return nil, err
	}
	a, err := repo.NewAssetRepo(s.db).GetByTag(ctx, strings.TrimSpace(tag))
	if err != nil {
		return nil, storageErr(err)
	}
	return s.ActiveCheckout(ctx, p, a.ID)
}

// History lists every checkout of an asset, newest first.
func (s *Ledger) History(ctx context.Context, p models.Principal, assetID int) ([]models.Checkout, error) {
	if err := s.policy.Require(p, auth.ViewAssets); err != nil {
		return nil, err
	}
	var list []models.Checkout
	err := db.WithTx(ctx, s.db, db.ReadSnapshot, func(tx *sql.Tx) error {
		if _, err := repo.NewAssetRepo(tx).Get(ctx, assetID); err != nil {
			return err
		}
		var err error
		list, err = repo.NewCheckoutRepo(tx).ListForAsset(ctx, assetID)
		return err
	})
	if err != nil {
		return nil, storageErr(err)
	}
	return list, nil
}
