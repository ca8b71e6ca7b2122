package repo

import (
	"context"
	"database/sql"

	"github.com/cockroachdb/errors"

	"github.com/crucial707/hci-inventory/internal/models"
)

// ==========================
// UserRepo
// ==========================
type UserRepo struct {
	DB Querier
}

// ==========================
// Constructor
// ==========================
func NewUserRepo(db Querier) *UserRepo {
	return &UserRepo{DB: db}
}

const userColumns = `id, username, password_hash, role, created_at`

func scanUser(row rowScanner) (models.Principal, error) {
	var u models.Principal
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return u, models.ErrPrincipalNotFound
	}
	return u, err
}

func userWriteError(err error) error {
	if c, ok := uniqueViolation(err); ok && c == constraintUsername {
		return errors.WithSecondaryError(models.ErrDuplicateUsername, err)
	}
	return err
}

// ==========================
// Create User
// ==========================
func (r *UserRepo) Create(ctx context.Context, username, passwordHash string, role models.Role) (models.Principal, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		`INSERT INTO users (username, password_hash, role) VALUES ($1, $2, $3) RETURNING `+userColumns,
		username, passwordHash, role,
	))
	if err != nil {
		return models.Principal{}, userWriteError(err)
	}
	return u, nil
}

// ==========================
// Get By ID / Username
// ==========================
func (r *UserRepo) GetByID(ctx context.Context, id int) (models.Principal, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// GetByUsername matches the username exactly.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (models.Principal, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username))
}

// ==========================
// Update User
// ==========================

// Update stores username, role and password hash of an existing principal.
func (r *UserRepo) Update(ctx context.Context, u models.Principal) (models.Principal, error) {
	updated, err := scanUser(r.DB.QueryRowContext(ctx,
		`UPDATE users SET username = $1, password_hash = $2, role = $3 WHERE id = $4 RETURNING `+userColumns,
		u.Username, u.PasswordHash, u.Role, u.ID,
	))
	if err != nil {
		return models.Principal{}, userWriteError(err)
	}
	return updated, nil
}

// ==========================
// Delete User
// ==========================
func (r *UserRepo) Delete(ctx context.Context, id int) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectOneRow(res, models.ErrPrincipalNotFound)
}

// ==========================
// List / Count Users
// ==========================
func (r *UserRepo) List(ctx context.Context, limit, offset int) ([]models.Principal, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY username, id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.Principal{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}
