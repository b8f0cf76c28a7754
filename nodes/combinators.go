package nodes

// NamedEquals creates a NamedEqualsNode rendering "column = :key". When key
// is omitted the placeholder name is derived from the node's position in the
// tree, so two siblings on the same column never collide.
func NamedEquals(column string, key ...string) *NamedEqualsNode {
	n := &NamedEqualsNode{Column: column}
	if len(key) > 0 {
		n.Key = key[0]
	}
	return n
}

// Nullable wraps value so that nil binds SQL NULL instead of omitting the
// clause it drives.
func Nullable(value any) NullableValue {
	return NullableValue{Value: value}
}

// OptionalParam renders payload only when value is present, binding value
// to the placeholder payload references.
func OptionalParam(value any, payload Node) *ConditionalNode {
	return &ConditionalNode{Driving: value, Payload: payload}
}

// Param creates a placeholder that always binds value.
func Param(name string, value any) *BindParamNode {
	return NewBindParam(name, value)
}

// Pair creates an (operator, operand) pairing.
func Pair(operator *SqlLiteral, operand Node) *PairNode {
	return &PairNode{Operator: operator, Operand: operand}
}

// Seq creates a strict sequence.
func Seq(items ...Node) *SequenceNode {
	return &SequenceNode{Items: items}
}

// Defer delays building a node until the tree is evaluated.
func Defer(thunk func() Node) *DeferredNode {
	return &DeferredNode{Thunk: thunk}
}

// Where creates "WHERE a AND b ...", dropping absent conditions.
func Where(parts ...Node) *ListNode {
	return &ListNode{Keyword: "WHERE", Sep: " AND ", Items: parts}
}

// And joins present conditions with AND.
func And(parts ...Node) *ListNode {
	return &ListNode{Sep: " AND ", Items: parts}
}

// Or joins present conditions with OR inside parentheses: "(a OR b)".
// No leading OR keyword is emitted, so an Or group is combined with its
// siblings by the enclosing list's separator (AND inside a Where). To OR a
// group onto a preceding condition, put both in one Or.
func Or(parts ...Node) *ListNode {
	return &ListNode{Sep: " OR ", Open: "(", Close: ")", Items: parts}
}

// Set joins present assignments with commas. It is absent when there is
// nothing to assign.
func Set(parts ...Node) *ListNode {
	return &ListNode{Sep: ", ", Items: parts}
}

// Update creates an UpdateStatement.
func Update(table *Table, set, where Node) *UpdateStatement {
	return &UpdateStatement{Table: table, Set: set, Where: where}
}

// Limit renders "LIMIT :limit" when pageSize is present.
func Limit(pageSize any) *ConditionalNode {
	return OptionalParam(pageSize, Pair(Literal("LIMIT"), Placeholder("limit")))
}

// Paginate renders "LIMIT :limit OFFSET :offset" for a 1-based page. The
// offset is computed at evaluation time; if either value is missing the
// whole clause disappears.
func Paginate(page, pageSize *int) *SequenceNode {
	return Seq(
		Limit(pageSize),
		Defer(func() Node {
			var offset *int
			if page != nil && pageSize != nil {
				o := max(*page-1, 0) * *pageSize
				offset = &o
			}
			return OptionalParam(offset, Pair(Literal("OFFSET"), Placeholder("offset")))
		}),
	)
}
