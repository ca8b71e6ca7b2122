package auth

import (
	"github.com/cockroachdb/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/crucial707/hci-inventory/internal/models"
)

// Hasher turns passwords into stored digests and verifies them.
type Hasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// BcryptHasher is the production Hasher.
type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", errors.Mark(models.FieldValidationError{"password": "must be at most 72 bytes"}, models.ErrValidation)
	}
	if err != nil {
		return "", errors.Wrap(err, "hash password")
	}
	return string(b), nil
}

// Compare returns models.ErrInvalidCredentials on mismatch.
func (h BcryptHasher) Compare(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return models.ErrInvalidCredentials
	}
	return nil
}
