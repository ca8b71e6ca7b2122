package service

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/crucial707/hci-inventory/internal/auth"
	"github.com/crucial707/hci-inventory/internal/db"
	"github.com/crucial707/hci-inventory/internal/models"
	"github.com/crucial707/hci-inventory/internal/repo"
)

const maxPrincipals = 1000

// Principals manages user accounts and verifies credentials.
type Principals struct {
	db     *sql.DB
	policy auth.Policy
	hasher auth.Hasher
}

// PrincipalInput is the field set accepted when adding or editing a user.
// Password may be empty on edit to keep the current one.
type PrincipalInput struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Password string `json:"password" validate:"omitempty,min=6,max=72"`
	Role     string `json:"role" validate:"required"`
}

func (in PrincipalInput) parse(requirePassword bool) (models.Role, error) {
	if err := validateStruct(in); err != nil {
		return "", err
	}
	if requirePassword && in.Password == "" {
		return "", invalidField("password", "required")
	}
	if len(in.Password) > auth.MaxPasswordBytes {
		return "", invalidField("password", "must be at most 72 bytes")
	}
	return models.ParseRole(in.Role)
}

func (in PrincipalInput) trimmed() PrincipalInput {
	in.Username = strings.TrimSpace(in.Username)
	in.Role = strings.TrimSpace(in.Role)
	return in
}

// Create adds a user with a hashed password.
func (s *Principals) Create(ctx context.Context, actor models.Principal, in PrincipalInput) (models.Principal, error) {
	if err := s.policy.Require(actor, auth.ManagePrincipals); err != nil {
		return models.Principal{}, err
	}
	in = in.trimmed()
	role, err := in.parse(true)
	if err != nil {
		return models.Principal{}, err
	}
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return models.Principal{}, err
	}

	u, err := repo.NewUserRepo(s.db).Create(ctx, in.Username, hash, role)
	if err != nil {
		return models.Principal{}, storageErr(err)
	}
	slog.InfoContext(ctx, "user created", "user_id", u.ID, "username", u.Username, "role", u.Role, "actor", actor.Username)
	return u, nil
}

// Update changes username and role, and the password when one is given.
func (s *Principals) Update(ctx context.Context, actor models.Principal, id int, in PrincipalInput) (models.Principal, error) {
	if err := s.policy.Require(actor, auth.ManagePrincipals); err != nil {
		return models.Principal{}, err
	}
	in = in.trimmed()
	role, err := in.parse(false)
	if err != nil {
		return models.Principal{}, err
	}
	var hash string
	if in.Password != "" {
		if hash, err = s.hasher.Hash(in.Password); err != nil {
			return models.Principal{}, err
		}
	}

	var updated models.Principal
	err = db.WithTx(ctx, s.db, nil, func(tx *sql.Tx) error {
		users := repo.NewUserRepo(tx)
		u, err := users.GetByID(ctx, id)
		if err != nil {
			return err
		}
		u.Username, u.Role = in.Username, role
		if hash != "" {
			u.PasswordHash = hash
		}
		updated, err = users.Update(ctx, u)
		return err
	})
	if err != nil {
		return models.Principal{}, storageErr(err)
	}
	slog.InfoContext(ctx, "user updated", "user_id", id, "username", updated.Username, "role", updated.Role, "actor", actor.Username)
	return updated, nil
}

// Delete removes a user. Checkouts and change log entries keep the name
// snapshot. Users cannot delete themselves.
func (s *Principals) Delete(ctx context.Context, actor models.Principal, id int) error {
	if err := s.policy.Require(actor, auth.ManagePrincipals); err != nil {
		return err
	}
	if id == actor.ID {
		return invalidField("id", "cannot delete the current user")
	}
	if err := repo.NewUserRepo(s.db).Delete(ctx, id); err != nil {
		return storageErr(err)
	}
	slog.InfoContext(ctx, "user deleted", "user_id", id, "actor", actor.Username)
	return nil
}

// List returns all users ordered by username.
func (s *Principals) List(ctx context.Context, actor models.Principal) ([]models.Principal, error) {
	if err := s.policy.Require(actor, auth.ManagePrincipals); err != nil {
		return nil, err
	}
	users, err := repo.NewUserRepo(s.db).List(ctx, maxPrincipals, 0)
	if err != nil {
		return nil, storageErr(err)
	}
	return users, nil
}

// Authenticate verifies a username/password pair. Unknown users and wrong
// passwords both yield models.ErrInvalidCredentials.
func (s *Principals) Authenticate(ctx context.Context, username, password string) (models.Principal, error) {
	u, err := repo.NewUserRepo(s.db).GetByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, models.ErrNotFound) {
		return models.Principal{}, models.ErrInvalidCredentials
	}
	if err != nil {
		return models.Principal{}, storageErr(err)
	}
	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		return models.Principal{}, models.ErrInvalidCredentials
	}
	return u, nil
}

// Resolve loads the current state of principal id. Callers must not cache
// the result across requests.
func (s *Principals) Resolve(ctx context.Context, id int) (models.Principal, error) {
	u, err := repo.NewUserRepo(s.db).GetByID(ctx, id)
	return u, storageErr(err)
}
