package repo

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/guregu/null/v5"

	"github.com/crucial707/hci-inventory/internal/models"
)

func TestAuditRepo_Log(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`INSERT INTO audit_log \(action, actor_name, subject\) VALUES \(\$1, \$2, \$3\)`).
		WithArgs(models.ActionDeviceCheckout, "editor", "A-100 (Laptop) to Jane").
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := NewAuditRepo(db).Log(context.Background(), models.ActionDeviceCheckout, "editor", "A-100 (Laptop) to Jane"); err != nil {
		t.Fatalf("Log: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuditRepo_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`FROM audit_log ORDER BY created_at DESC, id DESC LIMIT \$1 OFFSET \$2`).
		WithArgs(50, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "action", "actor_name", "subject", "created_at"}).
			AddRow(2, models.ActionDeviceReturn, "admin", "A-100 (Laptop) from Jane", now).
			AddRow(1, models.ActionDeviceCheckout, "editor", "A-100 (Laptop) to Jane", now.Add(-time.Minute)))

	entries, err := NewAuditRepo(db).List(context.Background(), 50, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 || entries[0].Action != models.ActionDeviceReturn {
		t.Errorf("unexpected entries: %+v", entries)
	}
}

func TestChangeLogRepo_LogAndList(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`INSERT INTO change_log \(asset_id, principal_id, principal_name, description\)`).
		WithArgs(1, int64(2), "editor", "site_name: 'Main' -> 'North'").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(`FROM change_log WHERE asset_id = \$1 ORDER BY created_at DESC, id DESC`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "asset_id", "principal_id", "principal_name", "description", "created_at"}).
			AddRow(1, 1, nil, "editor", "site_name: 'Main' -> 'North'", time.Now()))

	r := NewChangeLogRepo(db)
	err = r.Log(context.Background(), models.ChangeLogEntry{
		AssetID:       1,
		PrincipalID:   null.IntFrom(2),
		PrincipalName: "editor",
		Description:   "site_name: 'Main' -> 'North'",
	})
	if err != nil {
		t.Fatalf("Log: %v", err)
	}
	entries, err := r.ListForAsset(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListForAsset: %v", err)
	}
	if len(entries) != 1 || entries[0].PrincipalID.Valid {
		t.Errorf("unexpected entries: %+v", entries)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
