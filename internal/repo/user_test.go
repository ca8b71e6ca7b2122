package repo

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/cockroachdb/errors"
	"github.com/lib/pq"

	"github.com/crucial707/hci-inventory/internal/models"
)

var userColumnNames = []string{"id", "username", "password_hash", "role", "created_at"}

func TestUserRepo_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO users \(username, password_hash, role\)`).
		WithArgs("alice", "hash", "Editor").
		WillReturnRows(sqlmock.NewRows(userColumnNames).AddRow(1, "alice", "hash", "Editor", time.Now()))

	user, err := NewUserRepo(db).Create(context.Background(), "alice", "hash", models.RoleEditor)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if user.ID != 1 || user.Username != "alice" || user.Role != models.RoleEditor {
		t.Errorf("unexpected user: %+v", user)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestUserRepo_Create_Duplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: constraintUsername})

	_, err = NewUserRepo(db).Create(context.Background(), "alice", "hash", models.RoleReader)
	if !errors.Is(err, models.ErrDuplicateUsername) {
		t.Errorf("expected duplicate username, got %v", err)
	}
}

func TestUserRepo_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT id, username, password_hash, role, created_at FROM users WHERE id = \$1`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(userColumnNames).AddRow(1, "bob", "hash", "Reader", time.Now()))

	user, err := NewUserRepo(db).GetByID(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if user.ID != 1 || user.Username != "bob" || user.Role != models.RoleReader {
		t.Errorf("unexpected user: %+v", user)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestUserRepo_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT id, username, password_hash, role`).
		WithArgs(999).
		WillReturnError(sql.ErrNoRows)

	_, err = NewUserRepo(db).GetByID(context.Background(), 999)
	if !errors.Is(err, models.ErrPrincipalNotFound) {
		t.Errorf("expected principal not found, got: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestUserRepo_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`UPDATE users SET username = \$1, password_hash = \$2, role = \$3 WHERE id = \$4`).
		WithArgs("carol", "newhash", "Admin", 4).
		WillReturnRows(sqlmock.NewRows(userColumnNames).AddRow(4, "carol", "newhash", "Admin", time.Now()))

	user, err := NewUserRepo(db).Update(context.Background(), models.Principal{ID: 4, Username: "carol", PasswordHash: "newhash", Role: models.RoleAdmin})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if user.Role != models.RoleAdmin {
		t.Errorf("unexpected user: %+v", user)
	}
}

func TestUserRepo_Delete_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`DELETE FROM users WHERE id = \$1`).
		WithArgs(9).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := NewUserRepo(db).Delete(context.Background(), 9); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestUserRepo_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`SELECT .+ FROM users ORDER BY username, id LIMIT \$1 OFFSET \$2`).
		WithArgs(50, 0).
		WillReturnRows(sqlmock.NewRows(userColumnNames).
			AddRow(1, "admin", "h1", "Admin", now).
			AddRow(2, "bob", "h2", "Reader", now))

	users, err := NewUserRepo(db).List(context.Background(), 50, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(users) != 2 || users[1].Username != "bob" {
		t.Errorf("unexpected users: %+v", users)
	}
}
