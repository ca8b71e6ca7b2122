package repo

import (
	"context"
	"database/sql"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/cockroachdb/errors"
	"github.com/jackc/pgerrcode"
	"github.com/lib/pq"
)

// Querier is satisfied by both *sql.DB and *sql.Tx, so every repository can
// run inside the caller's transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Constraint names from the migrations, used to classify unique violations.
const (
	constraintAssetTag     = "assets_asset_tag_key"
	constraintSerialNumber = "assets_serial_number_key"
	constraintOpenCheckout = "checkouts_one_open_per_asset"
	constraintUsername     = "users_username_key"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type rowScanner interface {
	Scan(dest ...any) error
}

// uniqueViolation returns the violated constraint when err is a Postgres
// unique_violation.
func uniqueViolation(err error) (string, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pgerrcode.UniqueViolation {
		return pqErr.Constraint, true
	}
	return "", false
}

// likePattern builds a substring ILIKE pattern with wildcards in s escaped.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}
