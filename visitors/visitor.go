// Package visitors provides the SQL dialect evaluators that walk a
// conditional tree and render it as parameterised SQL.
package visitors

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/osuserver/condsql/internal/quoting"
	"github.com/osuserver/condsql/nodes"
)

// Builder is implemented by every dialect visitor.
type Builder interface {
	nodes.Visitor

	// Build evaluates parts and joins the present ones with a single space.
	// It panics with *nodes.UsageError on a malformed tree.
	Build(parts ...nodes.Node) nodes.Fragment

	// Compile is Build with the usage fault returned as an error.
	Compile(parts ...nodes.Node) (nodes.Fragment, error)

	// Positional rewrites named placeholders into the driver's syntax.
	Positional(f nodes.Fragment) (string, []any)
}

// Option configures a visitor at construction time.
type Option func(*baseVisitor)

// WithIdentQuote overrides the dialect's identifier quoting.
func WithIdentQuote(quote func(string) string) Option {
	return func(b *baseVisitor) {
		b.quoteIdent = quote
	}
}

// WithPlaceholder overrides the positional placeholder syntax used by
// Positional.
func WithPlaceholder(placeholder func(int) string) Option {
	return func(b *baseVisitor) {
		b.placeholder = placeholder
	}
}

// baseVisitor implements the evaluation logic shared by all dialects.
// Dialect-specific visitors embed *baseVisitor and set the outer field to
// themselves, enabling correct virtual dispatch through the Visitor interface.
//
// A visitor tracks the position of the node being visited, so one instance
// must not be used by several goroutines at once.
type baseVisitor struct {
	// outer is the concrete dialect visitor. All recursive Accept calls
	// go through outer so that dialect overrides are respected.
	outer nodes.Visitor

	// quoteIdent quotes a SQL identifier (table name).
	quoteIdent func(string) string

	// placeholder returns the positional placeholder for a given parameter
	// index. PostgreSQL uses $1, $2; MySQL/SQLite use ?.
	placeholder func(int) string

	// backslashEscapes is set for dialects where a backslash inside a
	// quoted string escapes the next character (MySQL).
	backslashEscapes bool

	// path is the child-index chain from the Build root to the node
	// currently being visited.
	path []int
}

// applyOptions applies functional options to the baseVisitor.
func (b *baseVisitor) applyOptions(opts []Option) {
	for _, o := range opts {
		o(b)
	}
}

func (b *baseVisitor) Build(parts ...nodes.Node) nodes.Fragment {
	b.path = b.path[:0]
	frags := make([]nodes.Fragment, 0, len(parts))
	for i, p := range parts {
		if f, ok := b.visitChild(i, p); ok {
			frags = append(frags, f)
		}
	}
	out := b.join(frags, " ")
	for _, name := range out.Unbound {
		b.fault("placeholder :%s has no bound value", name)
	}
	out.Unbound = nil
	if out.Params == nil {
		out.Params = map[string]any{}
	}
	return out
}

func (b *baseVisitor) Compile(parts ...nodes.Node) (f nodes.Fragment, err error) {
	defer func() {
		if r := recover(); r != nil {
			var ue *nodes.UsageError
			if e, ok := r.(error); ok && errors.As(e, &ue) {
				err = ue
				return
			}
			panic(r)
		}
	}()
	return b.Build(parts...), nil
}

// visitChild evaluates child as the index-th child of the current node.
// A nil child is absent.
func (b *baseVisitor) visitChild(index int, child nodes.Node) (nodes.Fragment, bool) {
	if isNilNode(child) {
		return nodes.Fragment{}, false
	}
	b.path = append(b.path, index)
	f, ok := child.Accept(b.outer)
	b.path = b.path[:len(b.path)-1]
	return f, ok
}

func isNilNode(n nodes.Node) bool {
	if n == nil {
		return true
	}
	rv := reflect.ValueOf(n)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// fault aborts the walk with a usage error located at the current node.
func (b *baseVisitor) fault(format string, args ...any) {
	panic(&nodes.UsageError{Path: b.pathString("."), Msg: fmt.Sprintf(format, args...)})
}

func (b *baseVisitor) faultErr(err error) {
	var ue *nodes.UsageError
	if errors.As(err, &ue) {
		located := *ue
		located.Path = b.pathString(".")
		panic(&located)
	}
	panic(&nodes.UsageError{Path: b.pathString("."), Msg: "invalid value", Err: err})
}

func (b *baseVisitor) pathString(sep string) string {
	parts := make([]string, len(b.path))
	for i, p := range b.path {
		parts[i] = strconv.Itoa(p)
	}
	return strings.Join(parts, sep)
}

// checkName panics unless name can appear after ':' in rendered SQL.
func (b *baseVisitor) checkName(name string) {
	if !quoting.IsIdentifier(name) {
		b.fault("invalid placeholder name %q", name)
	}
}

// join concatenates the non-empty texts of frags with sep and merges their
// parameters. A fragment without text contributes no parameters either.
// Unbound names are deduplicated and dropped once a sibling has bound them.
func (b *baseVisitor) join(frags []nodes.Fragment, sep string) nodes.Fragment {
	var out nodes.Fragment
	texts := make([]string, 0, len(frags))
	for _, f := range frags {
		if f.SQL == "" {
			continue
		}
		texts = append(texts, f.SQL)
		out.Params = b.merge(out.Params, f.Params)
		out.Unbound = append(out.Unbound, f.Unbound...)
	}
	out.SQL = strings.Join(texts, sep)
	out.Unbound = b.pending(out.Unbound, out.Params)
	return out
}

// merge copies src into dst, allocating dst when needed. Two different
// values for one placeholder name are a usage fault.
func (b *baseVisitor) merge(dst, src map[string]any) map[string]any {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for k, v := range src {
		if prev, ok := dst[k]; ok && !reflect.DeepEqual(prev, v) {
			b.fault("placeholder :%s bound to both %v and %v", k, prev, v)
		}
		dst[k] = v
	}
	return dst
}

func (b *baseVisitor) pending(names []string, params map[string]any) []string {
	if len(names) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(names))
	out := names[:0:0]
	for _, n := range names {
		if _, bound := params[n]; bound || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func (b *baseVisitor) VisitSqlLiteral(n *nodes.SqlLiteral) (nodes.Fragment, bool) {
	return nodes.Fragment{SQL: n.Raw}, true
}

func (b *baseVisitor) VisitTable(n *nodes.Table) (nodes.Fragment, bool) {
	if n.Name == "" {
		b.fault("empty table name")
	}
	return nodes.Fragment{SQL: b.quoteIdent(n.Name)}, true
}

func (b *baseVisitor) VisitPlaceholder(n *nodes.PlaceholderNode) (nodes.Fragment, bool) {
	b.checkName(n.Name)
	return nodes.Fragment{SQL: ":" + n.Name, Unbound: []string{n.Name}}, true
}

func (b *baseVisitor) VisitNamedEquals(n *nodes.NamedEqualsNode) (nodes.Fragment, bool) {
	if n.Column == "" {
		b.fault("empty column name")
	}
	key := n.Key
	if key == "" {
		key = quoting.KeyStem(n.Column) + "__" + b.pathString("_")
	}
	b.checkName(key)
	return nodes.Fragment{SQL: n.Column + " = :" + key, Unbound: []string{key}}, true
}

func (b *baseVisitor) VisitBindParam(n *nodes.BindParamNode) (nodes.Fragment, bool) {
	b.checkName(n.Name)
	val, err := nodes.BindableValue(n.Value)
	if err != nil {
		b.faultErr(err)
	}
	return nodes.Fragment{SQL: ":" + n.Name, Params: map[string]any{n.Name: val}}, true
}

func (b *baseVisitor) VisitConditional(n *nodes.ConditionalNode) (nodes.Fragment, bool) {
	val, present, err := nodes.Reveal(n.Driving)
	if err != nil {
		b.faultErr(err)
	}
	f, ok := b.visitChild(0, n.Payload)
	if !ok || !present {
		return nodes.Fragment{}, false
	}
	switch len(f.Unbound) {
	case 0:
		// nothing to bind; the driving value only gates the payload
		return f, true
	case 1:
		name := f.Unbound[0]
		f.Params = b.merge(b.merge(nil, f.Params), map[string]any{name: val})
		f.Unbound = nil
		return f, true
	default:
		b.fault("driving value is ambiguous between placeholders %s", strings.Join(f.Unbound, ", "))
		return nodes.Fragment{}, false
	}
}

func (b *baseVisitor) VisitPair(n *nodes.PairNode) (nodes.Fragment, bool) {
	if n.Operator == nil {
		b.fault("pair without operator")
	}
	op, _ := b.visitChild(0, n.Operator)
	operand, ok := b.visitChild(1, n.Operand)
	if !ok {
		return nodes.Fragment{}, false
	}
	return b.join([]nodes.Fragment{op, operand}, " "), true
}

func (b *baseVisitor) VisitSequence(n *nodes.SequenceNode) (nodes.Fragment, bool) {
	if len(n.Items) == 0 {
		return nodes.Fragment{}, false
	}
	frags := make([]nodes.Fragment, 0, len(n.Items))
	complete := true
	// every item is evaluated so faults surface even after an absent one
	for i, item := range n.Items {
		f, ok := b.visitChild(i, item)
		if !ok {
			complete = false
			continue
		}
		frags = append(frags, f)
	}
	if !complete {
		return nodes.Fragment{}, false
	}
	return b.join(frags, " "), true
}

func (b *baseVisitor) VisitList(n *nodes.ListNode) (nodes.Fragment, bool) {
	frags := make([]nodes.Fragment, 0, len(n.Items))
	for i, item := range n.Items {
		if f, ok := b.visitChild(i, item); ok && !f.Empty() {
			frags = append(frags, f)
		}
	}
	if len(frags) == 0 {
		return nodes.Fragment{}, false
	}
	out := b.join(frags, n.Sep)
	out.SQL = n.Open + out.SQL + n.Close
	if n.Keyword != "" {
		out.SQL = n.Keyword + " " + out.SQL
	}
	return out, true
}

func (b *baseVisitor) VisitDeferred(n *nodes.DeferredNode) (nodes.Fragment, bool) {
	if n.Thunk == nil {
		b.fault("deferred node without thunk")
	}
	return b.visitChild(0, n.Thunk())
}

func (b *baseVisitor) VisitFragment(n *nodes.Fragment) (nodes.Fragment, bool) {
	out := nodes.Fragment{SQL: n.SQL}
	if len(n.Params) > 0 {
		out.Params = make(map[string]any, len(n.Params))
		for k, v := range n.Params {
			b.checkName(k)
			val, err := nodes.BindableValue(v)
			if err != nil {
				b.faultErr(err)
			}
			out.Params[k] = val
		}
	}
	for _, name := range n.Unbound {
		b.checkName(name)
	}
	out.Unbound = b.pending(n.Unbound, out.Params)
	return out, true
}

func (b *baseVisitor) VisitUpdateStatement(n *nodes.UpdateStatement) (nodes.Fragment, bool) {
	if n.Table == nil {
		b.fault("update without table")
	}
	table, _ := b.visitChild(0, n.Table)
	set, ok := b.visitChild(1, n.Set)
	if !ok || set.Empty() {
		return nodes.Fragment{}, false
	}
	where, ok := b.visitChild(2, n.Where)
	if !ok || where.Empty() {
		return nodes.Fragment{}, false
	}
	out := b.join([]nodes.Fragment{set, where}, " ")
	out.SQL = "UPDATE " + table.SQL + " SET " + out.SQL
	return out, true
}
