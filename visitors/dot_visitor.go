package visitors

import (
	"fmt"
	"strings"

	"github.com/osuserver/condsql/nodes"
)

// Color constants for DOT node categories.
const (
	colorTable       = "#6CA6CD" // blue: tables
	colorPlaceholder = "#B0D4E8" // light blue: placeholders, named equals
	colorConditional = "#FFB347" // orange: conditional nodes
	colorLogical     = "#FFEB80" // yellow: lists, sequences, pairs
	colorLiteral     = "#D3D3D3" // grey: literals, fragments
	colorBind        = "#77DD77" // green: bound parameters
	colorDeferred    = "#CDA0E0" // purple: deferred thunks
	colorAssignment  = "#FF6961" // red: UPDATE
	colorAbsent      = "#FFFFFF" // white: nil children
)

// dotNode represents a single node in the DOT graph.
type dotNode struct {
	id    string
	label string
	color string
}

// dotEdge represents a directed edge between two nodes in the DOT graph.
type dotEdge struct {
	from  string
	to    string
	label string
}

// DotVisitor walks a tree and produces Graphviz DOT output. It implements
// nodes.Visitor; the Fragment each Visit method returns carries the DOT
// node ID in its SQL field.
//
// DotVisitor invokes deferred thunks so the graph shows the node they
// produce.
type DotVisitor struct {
	nextID    int
	nodes     []dotNode
	edges     []dotEdge
	parentID  string
	edgeLabel string
}

var _ nodes.Visitor = (*DotVisitor)(nil)

// NewDotVisitor creates a new DotVisitor ready to walk a tree.
func NewDotVisitor() *DotVisitor {
	return &DotVisitor{}
}

// Graph walks parts as the top-level arguments of a Build call and returns
// the DOT text.
func (dv *DotVisitor) Graph(parts ...nodes.Node) string {
	id := dv.addNode("Build", colorLogical)
	for i, p := range parts {
		dv.visitChild(id, fmt.Sprintf("PART[%d]", i), p)
	}
	return dv.ToDot()
}

// addNode creates a new DOT node with the given label and color, returning its ID.
func (dv *DotVisitor) addNode(label, color string) string {
	id := fmt.Sprintf("n%d", dv.nextID)
	dv.nextID++
	dv.nodes = append(dv.nodes, dotNode{id: id, label: label, color: color})
	return id
}

// addEdge records a directed edge from one node to another.
func (dv *DotVisitor) addEdge(from, to, label string) {
	dv.edges = append(dv.edges, dotEdge{from: from, to: to, label: label})
}

// visitChild saves and restores the parent context, sets the edge label,
// and calls child.Accept to recursively visit the child node.
func (dv *DotVisitor) visitChild(parentID, label string, child nodes.Node) string {
	savedParent := dv.parentID
	savedLabel := dv.edgeLabel
	dv.parentID = parentID
	dv.edgeLabel = label
	var result string
	if isNilNode(child) {
		result = dv.leaf("nil", colorAbsent)
	} else {
		f, _ := child.Accept(dv)
		result = f.SQL
	}
	dv.parentID = savedParent
	dv.edgeLabel = savedLabel
	return result
}

// connectToParent adds an edge from the current parentID to nodeID if a parent exists.
func (dv *DotVisitor) connectToParent(nodeID string) {
	if dv.parentID != "" {
		dv.addEdge(dv.parentID, nodeID, dv.edgeLabel)
	}
}

// leaf adds a node connected to the current parent and returns its ID.
func (dv *DotVisitor) leaf(label, color string) string {
	id := dv.addNode(label, color)
	dv.connectToParent(id)
	return id
}

// NodeCount returns the number of nodes accumulated so far.
func (dv *DotVisitor) NodeCount() int {
	return len(dv.nodes)
}

// ToDot generates the complete DOT graph text.
func (dv *DotVisitor) ToDot() string {
	var sb strings.Builder

	sb.WriteString("digraph Tree {\n")
	sb.WriteString("  rankdir=TB;\n")
	sb.WriteString("  node [shape=box, style=filled, fontname=\"Helvetica\"];\n")
	sb.WriteString("  edge [fontname=\"Helvetica\", fontsize=10];\n")

	for _, n := range dv.nodes {
		sb.WriteString(fmt.Sprintf("  %s [label=\"%s\", fillcolor=\"%s\"];\n",
			n.id, escapeLabel(n.label), n.color))
	}

	for _, e := range dv.edges {
		if e.label != "" {
			sb.WriteString(fmt.Sprintf("  %s -> %s [label=\"%s\"];\n", e.from, e.to, e.label))
		} else {
			sb.WriteString(fmt.Sprintf("  %s -> %s;\n", e.from, e.to))
		}
	}

	sb.WriteString("}\n")
	return sb.String()
}

// escapeLabel escapes double quotes in DOT labels.
// Backslash sequences like \n are intentional DOT line breaks and are preserved.
func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "\\\"")
}

// drivingLabel describes a driving value without evaluating the tree.
func drivingLabel(v any) string {
	val, present, err := nodes.Reveal(v)
	switch {
	case err != nil:
		return fmt.Sprintf("invalid %T", v)
	case !present:
		return "absent"
	case val == nil:
		return "NULL"
	}
	return fmt.Sprintf("%v", val)
}

func idFragment(id string) (nodes.Fragment, bool) {
	return nodes.Fragment{SQL: id}, true
}

// --- Visitor interface implementation ---

func (dv *DotVisitor) VisitSqlLiteral(n *nodes.SqlLiteral) (nodes.Fragment, bool) {
	return idFragment(dv.leaf("SqlLiteral\\n"+n.Raw, colorLiteral))
}

func (dv *DotVisitor) VisitTable(n *nodes.Table) (nodes.Fragment, bool) {
	return idFragment(dv.leaf("Table\\n"+n.Name, colorTable))
}

func (dv *DotVisitor) VisitPlaceholder(n *nodes.PlaceholderNode) (nodes.Fragment, bool) {
	return idFragment(dv.leaf("Placeholder\\n:"+n.Name, colorPlaceholder))
}

func (dv *DotVisitor) VisitNamedEquals(n *nodes.NamedEqualsNode) (nodes.Fragment, bool) {
	key := n.Key
	if key == "" {
		key = "(positional)"
	}
	return idFragment(dv.leaf("NamedEquals\\n"+n.Column+" = :"+key, colorPlaceholder))
}

func (dv *DotVisitor) VisitBindParam(n *nodes.BindParamNode) (nodes.Fragment, bool) {
	label := fmt.Sprintf("BindParam\\n:%s = %s", n.Name, drivingLabel(nodes.Nullable(n.Value)))
	return idFragment(dv.leaf(label, colorBind))
}

func (dv *DotVisitor) VisitConditional(n *nodes.ConditionalNode) (nodes.Fragment, bool) {
	label := "Conditional\\n" + drivingLabel(n.Driving)
	if _, ok := n.Driving.(nodes.NullableValue); ok {
		label += " (nullable)"
	}
	id := dv.leaf(label, colorConditional)
	dv.visitChild(id, "PAYLOAD", n.Payload)
	return idFragment(id)
}

func (dv *DotVisitor) VisitPair(n *nodes.PairNode) (nodes.Fragment, bool) {
	id := dv.leaf("Pair", colorLogical)
	if n.Operator != nil {
		dv.visitChild(id, "OPERATOR", n.Operator)
	}
	dv.visitChild(id, "OPERAND", n.Operand)
	return idFragment(id)
}

func (dv *DotVisitor) VisitSequence(n *nodes.SequenceNode) (nodes.Fragment, bool) {
	id := dv.leaf("Sequence\\n(strict)", colorLogical)
	dv.visitChildList(id, "ITEM", n.Items)
	return idFragment(id)
}

func (dv *DotVisitor) VisitList(n *nodes.ListNode) (nodes.Fragment, bool) {
	label := "List\\n"
	if n.Keyword != "" {
		label += n.Keyword + " "
	}
	label += strings.TrimSpace(n.Sep)
	id := dv.leaf(label, colorLogical)
	dv.visitChildList(id, "ITEM", n.Items)
	return idFragment(id)
}

func (dv *DotVisitor) VisitDeferred(n *nodes.DeferredNode) (nodes.Fragment, bool) {
	id := dv.leaf("Deferred", colorDeferred)
	if n.Thunk != nil {
		dv.visitChild(id, "THUNK", n.Thunk())
	}
	return idFragment(id)
}

func (dv *DotVisitor) VisitFragment(n *nodes.Fragment) (nodes.Fragment, bool) {
	label := fmt.Sprintf("Fragment\\n%s\\n(%d params)", n.SQL, len(n.Params))
	return idFragment(dv.leaf(label, colorLiteral))
}

func (dv *DotVisitor) VisitUpdateStatement(n *nodes.UpdateStatement) (nodes.Fragment, bool) {
	id := dv.leaf("UpdateStatement", colorAssignment)
	if n.Table != nil {
		dv.visitChild(id, "TABLE", n.Table)
	}
	dv.visitChild(id, "SET", n.Set)
	dv.visitChild(id, "WHERE", n.Where)
	return idFragment(id)
}

func (dv *DotVisitor) visitChildList(parentID, prefix string, items []nodes.Node) {
	for i, item := range items {
		dv.visitChild(parentID, fmt.Sprintf("%s[%d]", prefix, i), item)
	}
}
