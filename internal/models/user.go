package models

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// Role is the single role held by a Principal.
type Role string

const (
	RoleAdmin  Role = "Admin"
	RoleEditor Role = "Editor"
	RoleReader Role = "Reader"
)

// ParseRole accepts Admin, Editor or Reader in any case.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin":
		return RoleAdmin, nil
	case "editor":
		return RoleEditor, nil
	case "reader":
		return RoleReader, nil
	}
	return "", errors.Mark(FieldValidationError{"role": "must be Admin, Editor or Reader"}, ErrValidation)
}

// Principal is an authenticated user.
type Principal struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
