package nodes

// Table represents a SQL table reference. The name is quoted with the
// dialect's identifier delimiters when rendered.
type Table struct {
	Name string
}

func NewTable(name string) *Table {
	return &Table{Name: name}
}

func (t *Table) Accept(v Visitor) (Fragment, bool) { return v.VisitTable(t) }
