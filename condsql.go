// Package condsql composes parameterised SQL from a tree of conditional
// combinators.
//
// Clauses whose driving value is absent (nil) disappear from the output
// instead of rendering with a NULL, and every value reaches the database
// as a bound parameter:
//
//	q := condsql.Build(
//		condsql.Literal("SELECT id, name FROM channels"),
//		condsql.Where(
//			condsql.OptionalParam(readPriv, condsql.NamedEquals("read_priv", "read_priv")),
//			condsql.OptionalParam(autoJoin, condsql.NamedEquals("auto_join", "auto_join")),
//		),
//		condsql.Paginate(page, pageSize),
//	)
//	// q.SQL:    SELECT id, name FROM channels WHERE read_priv = :read_priv LIMIT :limit OFFSET :offset
//	// q.Params: map[limit:10 offset:20 read_priv:1]
//
// This package re-exports commonly used types and functions from subpackages
// for convenience. Advanced users can import subpackages directly:
//   - github.com/osuserver/condsql/nodes (tree nodes and combinators)
//   - github.com/osuserver/condsql/visitors (dialect evaluators)
//   - github.com/osuserver/condsql/repositories (data access)
package condsql

import (
	"github.com/osuserver/condsql/nodes"
	"github.com/osuserver/condsql/visitors"
)

// --- Core Types ---

// Node is the base interface all tree nodes implement.
type Node = nodes.Node

// Query is the result of Build: SQL text with :name placeholders and the
// values bound to them.
type Query = nodes.Fragment

// UsageError reports a tree assembled incorrectly.
type UsageError = nodes.UsageError

// ErrUsage is wrapped by every UsageError.
var ErrUsage = nodes.ErrUsage

// --- Entry Points ---

// Build renders parts for MySQL, joining the present ones with a single
// space. It never reports absence: an entirely absent tree yields an empty
// Query. It panics with *UsageError if the tree is malformed.
func Build(parts ...Node) Query {
	return visitors.NewMySQLVisitor().Build(parts...)
}

// Compile is Build with the usage fault returned as an error.
func Compile(parts ...Node) (Query, error) {
	return visitors.NewMySQLVisitor().Compile(parts...)
}

// BuildFor renders parts for the named dialect (mysql, postgres, sqlite).
func BuildFor(dialect string, parts ...Node) (Query, error) {
	v, err := visitors.ForDialect(dialect)
	if err != nil {
		return Query{}, err
	}
	return v.Compile(parts...)
}

// --- Combinators ---

// Literal introduces constant SQL text.
func Literal(raw string) *nodes.SqlLiteral {
	return nodes.Literal(raw)
}

// Table creates a table reference quoted by the dialect.
func Table(name string) *nodes.Table {
	return nodes.NewTable(name)
}

// NamedEquals renders "column = :key"; key defaults to a position-derived name.
func NamedEquals(column string, key ...string) *nodes.NamedEqualsNode {
	return nodes.NamedEquals(column, key...)
}

// Nullable makes a nil driving value bind SQL NULL instead of omitting the clause.
func Nullable(value any) nodes.NullableValue {
	return nodes.Nullable(value)
}

// OptionalParam renders payload only when value is present.
func OptionalParam(value any, payload Node) *nodes.ConditionalNode {
	return nodes.OptionalParam(value, payload)
}

// Param always binds value to :name.
func Param(name string, value any) *nodes.BindParamNode {
	return nodes.Param(name, value)
}

// Placeholder renders :name for an enclosing OptionalParam to bind.
func Placeholder(name string) *nodes.PlaceholderNode {
	return nodes.Placeholder(name)
}

// Pair creates an (operator, operand) pairing voided by an absent operand.
func Pair(operator *nodes.SqlLiteral, operand Node) *nodes.PairNode {
	return nodes.Pair(operator, operand)
}

// Seq creates a strict sequence voided by any absent item.
func Seq(items ...Node) *nodes.SequenceNode {
	return nodes.Seq(items...)
}

// Defer builds a node at evaluation time.
func Defer(thunk func() Node) *nodes.DeferredNode {
	return nodes.Defer(thunk)
}

// Prebuilt embeds an already-rendered query.
func Prebuilt(sql string, params map[string]any) *nodes.Fragment {
	return nodes.Prebuilt(sql, params)
}

// Where creates a WHERE clause of AND-joined present conditions.
func Where(parts ...Node) *nodes.ListNode {
	return nodes.Where(parts...)
}

// And joins present conditions with AND.
func And(parts ...Node) *nodes.ListNode {
	return nodes.And(parts...)
}

// Or joins present conditions with OR, parenthesised: "(a OR b)". It does
// not emit a leading OR keyword.
func Or(parts ...Node) *nodes.ListNode {
	return nodes.Or(parts...)
}

// Set joins present assignments with commas.
func Set(parts ...Node) *nodes.ListNode {
	return nodes.Set(parts...)
}

// Update renders UPDATE ... SET ... WHERE, or nothing when either the SET
// list or the WHERE clause is absent.
func Update(table *nodes.Table, set, where Node) *nodes.UpdateStatement {
	return nodes.Update(table, set, where)
}

// Limit renders LIMIT :limit when pageSize is present.
func Limit(pageSize any) *nodes.ConditionalNode {
	return nodes.Limit(pageSize)
}

// Paginate renders LIMIT/OFFSET for a 1-based page when both are present.
func Paginate(page, pageSize *int) *nodes.SequenceNode {
	return nodes.Paginate(page, pageSize)
}

// --- Visitor Constructors ---

// NewMySQLVisitor creates a new MySQL visitor.
func NewMySQLVisitor(opts ...visitors.Option) *visitors.MySQLVisitor {
	return visitors.NewMySQLVisitor(opts...)
}

// NewPostgresVisitor creates a new PostgreSQL visitor.
func NewPostgresVisitor(opts ...visitors.Option) *visitors.PostgresVisitor {
	return visitors.NewPostgresVisitor(opts...)
}

// NewSQLiteVisitor creates a new SQLite visitor.
func NewSQLiteVisitor(opts ...visitors.Option) *visitors.SQLiteVisitor {
	return visitors.NewSQLiteVisitor(opts...)
}
