package visitors

import (
	"github.com/osuserver/condsql/internal/quoting"
)

// MySQLVisitor evaluates trees for MySQL.
// Identifiers are quoted with backticks: `table`.
type MySQLVisitor struct {
	*baseVisitor
}

var _ Builder = (*MySQLVisitor)(nil)

// NewMySQLVisitor creates a MySQLVisitor ready for use.
func NewMySQLVisitor(opts ...Option) *MySQLVisitor {
	v := &MySQLVisitor{}
	v.baseVisitor = &baseVisitor{
		outer:       v,
		quoteIdent:  quoting.Backtick,
		placeholder: func(_ int) string { return "?" },

		backslashEscapes: true,
	}
	v.applyOptions(opts)
	return v
}
