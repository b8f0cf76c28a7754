package nodes

// ConditionalNode renders Payload only when Driving is present. When it
// renders, the revealed driving value is bound to the single unbound
// placeholder of the payload.
type ConditionalNode struct {
	Driving any
	Payload Node
}

func (n *ConditionalNode) Accept(v Visitor) (Fragment, bool) { return v.VisitConditional(n) }

// NullableValue marks a driving value whose nil means "bind SQL NULL"
// rather than "omit the clause".
type NullableValue struct {
	Value any
}
