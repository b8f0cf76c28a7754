package visitors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownDialect is returned by ForDialect for an unsupported name.
var ErrUnknownDialect = errors.New("unknown dialect")

// Dialects lists the names accepted by ForDialect.
var Dialects = []string{"mysql", "postgres", "sqlite"}

// ForDialect returns a fresh visitor for the named dialect.
func ForDialect(name string, opts ...Option) (Builder, error) {
	switch strings.ToLower(name) {
	case "mysql":
		return NewMySQLVisitor(opts...), nil
	case "postgres", "postgresql":
		return NewPostgresVisitor(opts...), nil
	case "sqlite", "sqlite3":
		return NewSQLiteVisitor(opts...), nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownDialect, name)
}
