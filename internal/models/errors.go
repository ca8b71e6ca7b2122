package models

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
)

// Base errors. Every failure returned by the services matches exactly one of them.
var (
	ErrNotFound              = errors.New("not found")
	ErrDuplicateAssetTag     = errors.New("asset tag already exists")
	ErrDuplicateSerialNumber = errors.New("serial number already exists")
	ErrDuplicateUsername     = errors.New("username already exists")
	ErrPermissionDenied      = errors.New("permission denied")
	ErrNotLoanerAsset        = errors.New("asset is not a loaner")
	ErrAlreadyCheckedOut     = errors.New("asset is already checked out")
	ErrAlreadyReturned       = errors.New("checkout already returned")
	ErrValidation            = errors.New("validation failed")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrInternalStorage       = errors.New("internal storage error")
)

var (
	ErrAssetNotFound     = errors.Wrap(ErrNotFound, "asset")
	ErrCheckoutNotFound  = errors.Wrap(ErrNotFound, "checkout")
	ErrPrincipalNotFound = errors.Wrap(ErrNotFound, "user")
)

// FieldValidationError maps a field name to what is wrong with it.
type FieldValidationError map[string]string

func (e FieldValidationError) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e[k]))
	}
	return "invalid fields: " + strings.Join(parts, ", ")
}

// IsDomainError reports whether err is one of the typed business failures
// (as opposed to a storage or programming error).
func IsDomainError(err error) bool {
	return errors.IsAny(err,
		ErrNotFound,
		ErrDuplicateAssetTag,
		ErrDuplicateSerialNumber,
		ErrDuplicateUsername,
		ErrPermissionDenied,
		ErrNotLoanerAsset,
		ErrAlreadyCheckedOut,
		ErrAlreadyReturned,
		ErrValidation,
		ErrInvalidCredentials,
	)
}
