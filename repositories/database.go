// Package repositories implements the server's data access on top of the
// conditional query builder. Every statement is composed as a tree, built
// for the connection's dialect and executed with positional arguments.
package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/osuserver/condsql/internal/quoting"
	"github.com/osuserver/condsql/nodes"
	"github.com/osuserver/condsql/visitors"
)

var (
	// ErrUnknownEngine is returned for an engine with no registered driver.
	ErrUnknownEngine = errors.New("repositories: unknown engine")

	// ErrEmptyQuery is returned when a composed statement rendered to nothing.
	ErrEmptyQuery = errors.New("repositories: empty query")

	// ErrNoSelector is returned when a lookup is given no criteria at all.
	ErrNoSelector = errors.New("repositories: at least one selector is required")

	// ErrNothingToUpdate is returned by updates whose every field is absent.
	ErrNothingToUpdate = errors.New("repositories: nothing to update")
)

var driverName = map[string]string{
	"postgres": "pgx",
	"mysql":    "mysql",
	"sqlite":   "sqlite",
}

// Engines lists the supported engine names.
var Engines = []string{"mysql", "postgres", "sqlite"}

// TraceFunc observes a composed tree and the query it rendered to.
type TraceFunc func(parts []nodes.Node, q nodes.Fragment)

// Option configures a DB.
type Option func(*DB)

// WithTrace registers fn to be called for every statement the repositories
// compose, including the ones that render to nothing.
func WithTrace(fn TraceFunc) Option {
	return func(d *DB) {
		d.trace = fn
	}
}

// DB is a database handle bound to one engine.
type DB struct {
	db     *sql.DB
	engine string
	trace  TraceFunc
}

// Open opens and pings a database for engine.
func Open(engine, dsn string, opts ...Option) (*DB, error) {
	driver, ok := driverName[engine]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, engine)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return OpenDB(engine, db, opts...)
}

// OpenDB wraps an existing handle.
func OpenDB(engine string, db *sql.DB, opts ...Option) (*DB, error) {
	if _, ok := driverName[engine]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, engine)
	}
	d := &DB{db: db, engine: engine}
	for _, o := range opts {
		o(d)
	}
	return d, nil
}

// Engine returns the engine name the handle was opened with.
func (d *DB) Engine() string { return d.engine }

// SQL returns the underlying handle.
func (d *DB) SQL() *sql.DB { return d.db }

// Close closes the underlying handle.
func (d *DB) Close() error { return d.db.Close() }

// Builder returns a fresh visitor for the engine's dialect.
func (d *DB) Builder() visitors.Builder {
	b, err := visitors.ForDialect(d.engine)
	if err != nil {
		// engines are validated in OpenDB
		panic(err)
	}
	return b
}

// quoteColumn quotes a column name the way the engine's dialect quotes
// identifiers.
func (d *DB) quoteColumn(name string) string {
	if d.engine == "mysql" {
		return quoting.Backtick(name)
	}
	return quoting.DoubleQuote(name)
}

// build renders parts for the engine and reports them to the trace hook.
func (d *DB) build(parts ...nodes.Node) (nodes.Fragment, error) {
	q, err := d.compile(parts...)
	if err != nil {
		return nodes.Fragment{}, err
	}
	if d.trace != nil {
		d.trace(parts, q)
	}
	return q, nil
}

// compile renders parts without tracing them.
func (d *DB) compile(parts ...nodes.Node) (nodes.Fragment, error) {
	return d.Builder().Compile(parts...)
}

func (d *DB) positional(q nodes.Fragment) (string, []any, error) {
	if q.Empty() {
		return "", nil, ErrEmptyQuery
	}
	s, args := d.Builder().Positional(q)
	return s, args, nil
}

// Exec executes q.
func (d *DB) Exec(ctx context.Context, q nodes.Fragment) (sql.Result, error) {
	s, args, err := d.positional(q)
	if err != nil {
		return nil, err
	}
	res, err := d.db.ExecContext(ctx, s, args...)
	if err != nil {
		return nil, fmt.Errorf("exec: %w", err)
	}
	return res, nil
}

// Query executes q and returns its rows. The caller closes them.
func (d *DB) Query(ctx context.Context, q nodes.Fragment) (*sql.Rows, error) {
	s, args, err := d.positional(q)
	if err != nil {
		return nil, err
	}
	rows, err := d.db.QueryContext(ctx, s, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return rows, nil
}

// QueryRow executes q expecting at most one row.
func (d *DB) QueryRow(ctx context.Context, q nodes.Fragment) (*sql.Row, error) {
	s, args, err := d.positional(q)
	if err != nil {
		return nil, err
	}
	return d.db.QueryRowContext(ctx, s, args...), nil
}
