// Package nodes defines the node types a conditional SQL tree is built from.
//
// Nodes are immutable once constructed and carry no evaluation logic of
// their own: a Visitor reduces them to a Fragment. A node that contributes
// nothing (because the value driving it was absent) reports ok == false
// from Accept, which is distinct from rendering empty text.
package nodes

// Node is the interface that all tree nodes implement. The set of
// implementations is closed: every concrete node lives in this package and
// has a matching method on Visitor.
type Node interface {
	Accept(visitor Visitor) (Fragment, bool)
}

// Visitor defines the interface for walking a tree and producing output.
// Concrete visitors (e.g., MySQL, Postgres) implement this interface.
type Visitor interface {
	VisitSqlLiteral(node *SqlLiteral) (Fragment, bool)
	VisitTable(node *Table) (Fragment, bool)
	VisitPlaceholder(node *PlaceholderNode) (Fragment, bool)
	VisitNamedEquals(node *NamedEqualsNode) (Fragment, bool)
	VisitBindParam(node *BindParamNode) (Fragment, bool)
	VisitConditional(node *ConditionalNode) (Fragment, bool)
	VisitPair(node *PairNode) (Fragment, bool)
	VisitSequence(node *SequenceNode) (Fragment, bool)
	VisitList(node *ListNode) (Fragment, bool)
	VisitDeferred(node *DeferredNode) (Fragment, bool)
	VisitFragment(node *Fragment) (Fragment, bool)
	VisitUpdateStatement(node *UpdateStatement) (Fragment, bool)
}

// Fragment is a rendered piece of SQL: text with named placeholders and the
// values bound to them.
//
// Unbound lists placeholders rendered into SQL that no value has been bound
// to yet. A ConditionalNode binds its driving value to the single unbound
// placeholder of its payload; a finished query has none left.
//
// A Fragment is also a Node, so an already-built query can be embedded in
// a larger tree verbatim.
type Fragment struct {
	SQL     string
	Params  map[string]any
	Unbound []string
}

func (n *Fragment) Accept(v Visitor) (Fragment, bool) { return v.VisitFragment(n) }

// Prebuilt wraps already-rendered SQL and its parameters as a Node.
//
// SECURITY: sql is rendered verbatim. Every value must travel in params.
func Prebuilt(sql string, params map[string]any) *Fragment {
	return &Fragment{SQL: sql, Params: params}
}

// Empty reports whether the fragment renders no text.
func (n Fragment) Empty() bool {
	return n.SQL == ""
}

// Node returns the fragment as an embeddable Node.
func (n Fragment) Node() Node {
	return &n
}
