package nodes

// PairNode represents an (operator, operand) pairing such as
// "LIMIT :page_size". An absent operand voids the whole pairing.
type PairNode struct {
	Operator *SqlLiteral
	Operand  Node
}

func (n *PairNode) Accept(v Visitor) (Fragment, bool) { return v.VisitPair(n) }

// SequenceNode is a strict, ordered, space-joined list: if any item is
// absent the whole sequence is absent.
type SequenceNode struct {
	Items []Node
}

func (n *SequenceNode) Accept(v Visitor) (Fragment, bool) { return v.VisitSequence(n) }

// ListNode is a filtering list of independent members. Absent members are
// dropped; when every member is absent the list itself is absent.
//
// Present members are joined with Sep, wrapped in Open/Close, and prefixed
// with Keyword and a space when Keyword is set.
type ListNode struct {
	Keyword string
	Sep     string
	Open    string
	Close   string
	Items   []Node
}

func (n *ListNode) Accept(v Visitor) (Fragment, bool) { return v.VisitList(n) }

// DeferredNode produces its node at evaluation time rather than at
// construction time.
type DeferredNode struct {
	Thunk func() Node
}

func (n *DeferredNode) Accept(v Visitor) (Fragment, bool) { return v.VisitDeferred(n) }
