package nodes

// UpdateStatement represents UPDATE ... SET ... WHERE. It is absent when
// either Set or Where is absent, so an UPDATE with no assignments or no
// condition is never rendered.
type UpdateStatement struct {
	Table *Table
	Set   Node
	Where Node
}

func (n *UpdateStatement) Accept(v Visitor) (Fragment, bool) { return v.VisitUpdateStatement(n) }
