package visitors

import (
	"github.com/osuserver/condsql/internal/quoting"
)

// SQLiteVisitor evaluates trees for SQLite.
// Identifiers are quoted with double quotes: "table" (ANSI SQL).
type SQLiteVisitor struct {
	*baseVisitor
}

var _ Builder = (*SQLiteVisitor)(nil)

// NewSQLiteVisitor creates a SQLiteVisitor ready for use.
func NewSQLiteVisitor(opts ...Option) *SQLiteVisitor {
	v := &SQLiteVisitor{}
	v.baseVisitor = &baseVisitor{
		outer:       v,
		quoteIdent:  quoting.DoubleQuote,
		placeholder: func(_ int) string { return "?" },
	}
	v.applyOptions(opts)
	return v
}
