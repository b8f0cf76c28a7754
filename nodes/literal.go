package nodes

// SqlLiteral represents a fixed SQL fragment rendered verbatim.
//
// SECURITY: The Raw field is rendered directly into SQL output without escaping
// or parameterization. Only pass text that is a constant at the call site.
// Runtime values belong in a BindParamNode or the driving value of a
// ConditionalNode.
type SqlLiteral struct {
	Raw string
}

func (n *SqlLiteral) Accept(v Visitor) (Fragment, bool) { return v.VisitSqlLiteral(n) }

// Literal creates a SqlLiteral. It is the only sanctioned way to introduce
// raw SQL text into a tree.
func Literal(raw string) *SqlLiteral {
	return &SqlLiteral{Raw: raw}
}
