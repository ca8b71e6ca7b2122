package repo

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/cockroachdb/errors"
	"github.com/guregu/null/v5"
	"github.com/lib/pq"

	"github.com/crucial707/hci-inventory/internal/models"
)

var checkoutColumnNames = []string{
	"id", "asset_id", "asset_tag", "asset_type", "borrower_name", "checked_out_by",
	"checked_out_by_name", "checked_out_at", "returned_at", "returned_by_name",
}

func TestCheckoutRepo_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO checkouts \(asset_id, borrower_name, checked_out_by, checked_out_by_name\)`).
		WithArgs(1, "Jane", int64(3), "editor").
		WillReturnRows(sqlmock.NewRows([]string{"id", "checked_out_at"}).AddRow(10, now))

	c, err := NewCheckoutRepo(db).Create(context.Background(), models.Checkout{
		AssetID:          1,
		BorrowerName:     "Jane",
		CheckedOutBy:     null.IntFrom(3),
		CheckedOutByName: "editor",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if c.ID != 10 || !c.Open() || c.BorrowerName != "Jane" {
		t.Errorf("unexpected checkout: %+v", c)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestCheckoutRepo_Create_OpenIndexViolation(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO checkouts`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: constraintOpenCheckout})

	_, err = NewCheckoutRepo(db).Create(context.Background(), models.Checkout{AssetID: 1, BorrowerName: "Jane"})
	if !errors.Is(err, models.ErrAlreadyCheckedOut) {
		t.Errorf("expected already checked out, got %v", err)
	}
}

func TestCheckoutRepo_OpenForAsset_None(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`WHERE c.asset_id = \$1 AND c.returned_at IS NULL`).
		WithArgs(1).
		WillReturnError(sql.ErrNoRows)

	c, err := NewCheckoutRepo(db).OpenForAsset(context.Background(), 1)
	if err != nil {
		t.Fatalf("OpenForAsset: %v", err)
	}
	if c != nil {
		t.Errorf("expected nil, got %+v", c)
	}
}

func TestCheckoutRepo_GetForUpdate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`WHERE c.id = \$1 FOR UPDATE OF c`).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows(checkoutColumnNames).
			AddRow(10, 1, "A-100", "Laptop", "Jane", 3, "editor", now, nil, nil))

	c, err := NewCheckoutRepo(db).GetForUpdate(context.Background(), 10)
	if err != nil {
		t.Fatalf("GetForUpdate: %v", err)
	}
	if c.AssetTag != "A-100" || c.AssetType != "Laptop" || !c.Open() || c.CheckedOutBy.Int64 != 3 {
		t.Errorf("unexpected checkout: %+v", c)
	}
}

func TestCheckoutRepo_MarkReturned_AlreadyReturned(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`UPDATE checkouts SET returned_at = NOW\(\), returned_by_name = \$1 WHERE id = \$2 AND returned_at IS NULL`).
		WithArgs("admin", 10).
		WillReturnError(sql.ErrNoRows)

	_, err = NewCheckoutRepo(db).MarkReturned(context.Background(), 10, "admin")
	if !errors.Is(err, models.ErrAlreadyReturned) {
		t.Errorf("expected already returned, got %v", err)
	}
}

func TestCheckoutRepo_ListForAsset(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`ORDER BY c.checked_out_at DESC, c.id DESC`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(checkoutColumnNames).
			AddRow(11, 1, "A-100", "Laptop", "Jane", nil, "editor", now, nil, nil).
			AddRow(10, 1, "A-100", "Laptop", "Bob", nil, "editor", now.Add(-time.Hour), now.Add(-time.Minute), "admin"))

	list, err := NewCheckoutRepo(db).ListForAsset(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListForAsset: %v", err)
	}
	if len(list) != 2 || !list[0].Open() || list[1].Open() || list[1].ReturnedByName.String != "admin" {
		t.Errorf("unexpected history: %+v", list)
	}
}

func TestCheckoutRepo_CountOpen(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM checkouts WHERE returned_at IS NULL`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	n, err := NewCheckoutRepo(db).CountOpen(context.Background())
	if err != nil {
		t.Fatalf("CountOpen: %v", err)
	}
	if n != 4 {
		t.Errorf("expected 4, got %d", n)
	}
}
