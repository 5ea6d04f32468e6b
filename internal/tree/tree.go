package tree

// Kind is the node type tag of a specification tree node.
type Kind int

const (
	KindFeature Kind = iota
	KindBackground
	KindScenario
	KindScenarioOutline
	KindStep
)

func (k Kind) String() string {
	switch k {
	case KindFeature:
		return "Feature"
	case KindBackground:
		return "Background"
	case KindScenario:
		return "Scenario"
	case KindScenarioOutline:
		return "ScenarioOutline"
	case KindStep:
		return "Step"
	default:
		return "Unknown"
	}
}

// File describes the document a node was loaded from.
type File struct {
	Path string
}

type Node struct {
	Kind       Kind
	Keyword    string // Feature, Scenario Outline, Given, And, ...
	Name       string // display name; the step text for steps
	Tags       []string
	Line       int
	Children   []*Node // scenarios of a feature, steps of a scenario or background
	Background *Node
	Examples   []Table
	Argument   *Table
	DocString  *DocString
	File       File
	Example    *Row // active example row of an outline instance
}

type DocString struct {
	MediaType string
	Content   string
}

// Table is either an Examples table (Header plus body Rows) or a step data
// table (every row in Rows, Header nil).
type Table struct {
	Header []string
	Rows   [][]string
}

// Maps keys every row after the first by the first row's cells.
func (t *Table) Maps() []map[string]string {
	if t == nil || len(t.Rows) == 0 {
		return nil
	}
	header := t.Rows[0]
	out := make([]map[string]string, 0, len(t.Rows)-1)
	for _, row := range t.Rows[1:] {
		m := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(row) {
				m[col] = row[i]
			}
		}
		out = append(out, m)
	}
	return out
}

// Row is one Examples body row: an ordered mapping of column to value.
type Row struct {
	Columns []string
	Values  []string
}

// NewRow pairs header cells with a body row. Missing cells become "".
func NewRow(header, cells []string) *Row {
	r := &Row{Columns: append([]string(nil), header...), Values: make([]string, len(header))}
	copy(r.Values, cells)
	return r
}

func (r *Row) Get(column string) (string, bool) {
	if r == nil {
		return "", false
	}
	for i, c := range r.Columns {
		if c == column {
			return r.Values[i], true
		}
	}
	return "", false
}

// Clone returns a deep copy of the node. The copy shares no mutable state
// with the receiver.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := *n
	c.Tags = cloneStrings(n.Tags)
	if n.Children != nil {
		c.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			c.Children[i] = child.Clone()
		}
	}
	c.Background = n.Background.Clone()
	if n.Examples != nil {
		c.Examples = make([]Table, len(n.Examples))
		for i := range n.Examples {
			c.Examples[i] = *n.Examples[i].Clone()
		}
	}
	c.Argument = n.Argument.Clone()
	if n.DocString != nil {
		ds := *n.DocString
		c.DocString = &ds
	}
	c.Example = n.Example.Clone()
	return &c
}

func (t *Table) Clone() *Table {
	if t == nil {
		return nil
	}
	c := &Table{Header: cloneStrings(t.Header)}
	if t.Rows != nil {
		c.Rows = make([][]string, len(t.Rows))
		for i, row := range t.Rows {
			c.Rows[i] = cloneStrings(row)
		}
	}
	return c
}

func (r *Row) Clone() *Row {
	if r == nil {
		return nil
	}
	return &Row{Columns: cloneStrings(r.Columns), Values: cloneStrings(r.Values)}
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}
