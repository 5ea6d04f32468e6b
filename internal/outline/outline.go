package outline

import (
	"regexp"

	"github.com/chriserin/apolog/internal/tree"
)

var placeholderPattern = regexp.MustCompile(`<([^<>]*)>`)

// Expand turns an outline into one concrete scenario per Examples body row,
// in table order then row order. A node without examples expands to itself.
func Expand(n *tree.Node) []*tree.Node {
	if len(n.Examples) == 0 {
		return []*tree.Node{n}
	}
	var out []*tree.Node
	for _, table := range n.Examples {
		for _, cells := range table.Rows {
			row := tree.NewRow(table.Header, cells)
			inst := n.Clone()
			inst.Examples = nil
			inst.Name = Substitute(n.Name, row)
			inst.Example = row
			out = append(out, inst)
		}
	}
	return out
}

// WithRow returns a copy of n carrying row as its active example. A nil row
// returns n unchanged.
func WithRow(n *tree.Node, row *tree.Row) *tree.Node {
	if n == nil || row == nil {
		return n
	}
	c := n.Clone()
	c.Name = Substitute(n.Name, row)
	c.Example = row.Clone()
	if c.Kind == tree.KindStep {
		if c.Argument != nil {
			for _, cells := range c.Argument.Rows {
				for i := range cells {
					cells[i] = Substitute(cells[i], row)
				}
			}
		}
		if c.DocString != nil {
			c.DocString.Content = Substitute(c.DocString.Content, row)
		}
	}
	return c
}

// Substitute replaces every <column> token in text with the row's value for
// that column. Tokens naming no column are left verbatim.
func Substitute(text string, row *tree.Row) string {
	if row == nil {
		return text
	}
	return placeholderPattern.ReplaceAllStringFunc(text, func(tok string) string {
		if v, ok := row.Get(tok[1 : len(tok)-1]); ok {
			return v
		}
		return tok
	})
}
