package visitors

import (
	"strconv"

	"github.com/osuserver/condsql/internal/quoting"
)

// PostgresVisitor evaluates trees for PostgreSQL.
// Identifiers are quoted with double quotes: "table".
type PostgresVisitor struct {
	*baseVisitor
}

var _ Builder = (*PostgresVisitor)(nil)

// NewPostgresVisitor creates a PostgresVisitor ready for use.
func NewPostgresVisitor(opts ...Option) *PostgresVisitor {
	v := &PostgresVisitor{}
	v.baseVisitor = &baseVisitor{
		outer:       v,
		quoteIdent:  quoting.DoubleQuote,
		placeholder: func(i int) string { return "$" + strconv.Itoa(i) },
	}
	v.applyOptions(opts)
	return v
}
