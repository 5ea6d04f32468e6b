package outline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriserin/apolog/internal/tree"
)

func people() *tree.Node {
	return &tree.Node{
		Kind: tree.KindScenarioOutline,
		Name: "<name> is <age>",
		Children: []*tree.Node{
			{Kind: tree.KindStep, Name: "a person called <name>"},
		},
		Examples: []tree.Table{{
			Header: []string{"name", "age"},
			Rows:   [][]string{{"Alice", "30"}, {"Bob", "25"}},
		}},
	}
}

func TestExpand_OnePerRow(t *testing.T) {
	out := Expand(people())

	require.Len(t, out, 2)
	assert.Equal(t, "Alice is 30", out[0].Name)
	assert.Equal(t, "Bob is 25", out[1].Name)

	v, ok := out[1].Example.Get("age")
	require.True(t, ok)
	assert.Equal(t, "25", v)
	assert.Nil(t, out[0].Examples)
}

func TestExpand_LeavesTemplateUntouched(t *testing.T) {
	n := people()
	out := Expand(n)
	out[0].Children[0].Name = "changed"

	assert.Equal(t, "<name> is <age>", n.Name)
	assert.Equal(t, "a person called <name>", n.Children[0].Name)
	assert.Len(t, n.Examples, 1)
}

func TestExpand_MultipleExamplesTables(t *testing.T) {
	n := people()
	n.Examples = append(n.Examples, tree.Table{
		Header: []string{"name", "age"},
		Rows:   [][]string{{"Carol", "41"}},
	})

	out := Expand(n)

	require.Len(t, out, 3)
	assert.Equal(t, "Carol is 41", out[2].Name)
}

func TestExpand_WithoutExamples(t *testing.T) {
	n := &tree.Node{Kind: tree.KindScenario, Name: "plain"}
	out := Expand(n)

	require.Len(t, out, 1)
	assert.Same(t, n, out[0])
}

func TestSubstitute_EveryOccurrence(t *testing.T) {
	row := tree.NewRow([]string{"x"}, []string{"1"})
	assert.Equal(t, "1 + 1", Substitute("<x> + <x>", row))
}

func TestSubstitute_UnknownTokenVerbatim(t *testing.T) {
	row := tree.NewRow([]string{"x"}, []string{"1"})
	assert.Equal(t, "<y> and 1", Substitute("<y> and <x>", row))
}

func TestSubstitute_ValueIsNotRescanned(t *testing.T) {
	row := tree.NewRow([]string{"a", "b"}, []string{"<b>", "B"})
	assert.Equal(t, "<b>", Substitute("<a>", row))
}

func TestWithRow_Step(t *testing.T) {
	step := &tree.Node{
		Kind:      tree.KindStep,
		Name:      "I pay <amount>",
		Argument:  &tree.Table{Rows: [][]string{{"<amount>", "EUR"}}},
		DocString: &tree.DocString{Content: "total <amount>"},
	}
	row := tree.NewRow([]string{"amount"}, []string{"5"})

	out := WithRow(step, row)

	assert.Equal(t, "I pay 5", out.Name)
	assert.Equal(t, [][]string{{"5", "EUR"}}, out.Argument.Rows)
	assert.Equal(t, "total 5", out.DocString.Content)
	assert.Equal(t, "I pay <amount>", step.Name)
	assert.Equal(t, "<amount>", step.Argument.Rows[0][0])
}

func TestWithRow_NilRow(t *testing.T) {
	bg := &tree.Node{Kind: tree.KindBackground, Name: "setup <name>"}
	assert.Same(t, bg, WithRow(bg, nil))
}
