// Package testutil provides shared test helpers for the condsql project.
package testutil

import "github.com/osuserver/condsql/nodes"

// StubVisitor implements nodes.Visitor by naming the method that was called.
// It lets tests check dispatch without evaluating anything.
type StubVisitor struct{}

var _ nodes.Visitor = StubVisitor{}

func stub(name string) (nodes.Fragment, bool) { return nodes.Fragment{SQL: name}, true }

func (sv StubVisitor) VisitSqlLiteral(n *nodes.SqlLiteral) (nodes.Fragment, bool)      { return stub(n.Raw) }
func (sv StubVisitor) VisitTable(n *nodes.Table) (nodes.Fragment, bool)                { return stub(n.Name) }
func (sv StubVisitor) VisitPlaceholder(n *nodes.PlaceholderNode) (nodes.Fragment, bool) {
	return stub("placeholder")
}
func (sv StubVisitor) VisitNamedEquals(n *nodes.NamedEqualsNode) (nodes.Fragment, bool) {
	return stub("named_equals")
}
func (sv StubVisitor) VisitBindParam(n *nodes.BindParamNode) (nodes.Fragment, bool) {
	return stub("bind_param")
}
func (sv StubVisitor) VisitConditional(n *nodes.ConditionalNode) (nodes.Fragment, bool) {
	return stub("conditional")
}
func (sv StubVisitor) VisitPair(n *nodes.PairNode) (nodes.Fragment, bool)         { return stub("pair") }
func (sv StubVisitor) VisitSequence(n *nodes.SequenceNode) (nodes.Fragment, bool) { return stub("sequence") }
func (sv StubVisitor) VisitList(n *nodes.ListNode) (nodes.Fragment, bool)         { return stub("list") }
func (sv StubVisitor) VisitDeferred(n *nodes.DeferredNode) (nodes.Fragment, bool) { return stub("deferred") }
func (sv StubVisitor) VisitFragment(n *nodes.Fragment) (nodes.Fragment, bool)     { return stub("fragment") }
func (sv StubVisitor) VisitUpdateStatement(n *nodes.UpdateStatement) (nodes.Fragment, bool) {
	return stub("update")
}
