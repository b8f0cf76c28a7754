package nodes

// PlaceholderNode renders a named placeholder (:name) without binding a
// value. The enclosing ConditionalNode supplies the value.
type PlaceholderNode struct {
	Name string
}

func (n *PlaceholderNode) Accept(v Visitor) (Fragment, bool) { return v.VisitPlaceholder(n) }

// Placeholder creates a PlaceholderNode.
func Placeholder(name string) *PlaceholderNode {
	return &PlaceholderNode{Name: name}
}

// NamedEqualsNode renders "column = :key" and leaves key unbound.
// An empty Key is derived from the node's position in the tree.
type NamedEqualsNode struct {
	Column string
	Key    string
}

func (n *NamedEqualsNode) Accept(v Visitor) (Fragment, bool) { return v.VisitNamedEquals(n) }

// BindParamNode represents an explicit bind parameter placeholder.
// It renders :Name and always binds Value, which may be nil (SQL NULL).
type BindParamNode struct {
	Name  string
	Value any
}

func (n *BindParamNode) Accept(v Visitor) (Fragment, bool) { return v.VisitBindParam(n) }

// NewBindParam creates a BindParamNode.
func NewBindParam(name string, value any) *BindParamNode {
	return &BindParamNode{Name: name, Value: value}
}
