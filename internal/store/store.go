// Package store provides database access methods for all PhotoShare
// entities. Each store struct wraps a *sql.DB and exposes typed query
// methods. Missing rows are reported as (nil, nil); unique-constraint
// violations surface as ErrDuplicate so handlers can map them to 409.
package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrDuplicate reports an insert that collided with a unique constraint
// (duplicate email, username, or rating pair).
var ErrDuplicate = errors.New("duplicate record")

// isUniqueViolation reports whether err is a PostgreSQL unique-constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// placeholders returns "$start, $start+1, ..." for n parameters, used to
// build IN clauses for explicit batch queries.
func placeholders(start, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("$%d", start+i)
	}
	return strings.Join(parts, ", ")
}
