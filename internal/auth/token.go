package auth

import (
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/golang-jwt/jwt/v5"

	"github.com/crucial707/hci-inventory/internal/models"
)

// ErrInvalidToken is returned for bearer tokens that are malformed, expired
// or signed with another key.
var ErrInvalidToken = errors.New("invalid token")

// Tokens issues and verifies HS256 bearer tokens. A token names the
// principal only; the role is looked up again on every request.
type Tokens struct {
	Secret []byte
	TTL    time.Duration
}

type claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Issue signs a token for p.
func (t Tokens) Issue(p models.Principal) (string, time.Time, error) {
	ttl := t.TTL
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	now := time.Now()
	exp := now.Add(ttl)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Username: p.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(p.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	signed, err := tok.SignedString(t.Secret)
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "sign token")
	}
	return signed, exp, nil
}

// Parse verifies tokenStr and returns the principal id it names.
func (t Tokens) Parse(tokenStr string) (int, error) {
	var c claims
	_, err := jwt.ParseWithClaims(tokenStr, &c, func(*jwt.Token) (any, error) {
		return t.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return 0, errors.WithSecondaryError(ErrInvalidToken, err)
	}
	id, err := strconv.Atoi(c.Subject)
	if err != nil || id <= 0 {
		return 0, ErrInvalidToken
	}
	return id, nil
}
