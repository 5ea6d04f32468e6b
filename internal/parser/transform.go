package parser

import (
	"strings"

	messages "github.com/cucumber/messages/go/v21"

	"github.com/chriserin/apolog/internal/tree"
)

// Transform converts a parsed Gherkin document into a specification tree.
// A document without a Feature: line becomes an empty feature named after
// the file.
func Transform(doc *messages.GherkinDocument, filename string) *tree.Node {
	if doc == nil || doc.Feature == nil {
		return &tree.Node{Kind: tree.KindFeature, Keyword: "Feature", Name: filenameWithoutExt(filename)}
	}

	f := doc.Feature
	feature := &tree.Node{
		Kind:    tree.KindFeature,
		Keyword: strings.TrimSpace(f.Keyword),
		Name:    f.Name,
		Tags:    tagNames(f.Tags),
		Line:    line(f.Location),
	}

	for _, child := range f.Children {
		switch {
		case child.Background != nil:
			feature.Background = background(child.Background)
		case child.Scenario != nil:
			feature.Children = append(feature.Children, scenario(child.Scenario, feature.Tags, nil))
		case child.Rule != nil:
			feature.Children = append(feature.Children, rule(child.Rule, feature.Tags)...)
		}
	}
	return feature
}

// rule flattens a Rule into its scenarios. The rule's own background steps
// run first in each of them, after the feature background.
func rule(r *messages.Rule, inherited []string) []*tree.Node {
	tags := append(append([]string(nil), inherited...), tagNames(r.Tags)...)
	var (
		lead []*tree.Node
		out  []*tree.Node
	)
	for _, child := range r.Children {
		switch {
		case child.Background != nil:
			lead = background(child.Background).Children
		case child.Scenario != nil:
			out = append(out, scenario(child.Scenario, tags, lead))
		}
	}
	return out
}

func background(b *messages.Background) *tree.Node {
	n := &tree.Node{
		Kind:    tree.KindBackground,
		Keyword: strings.TrimSpace(b.Keyword),
		Name:    b.Name,
		Line:    line(b.Location),
	}
	for _, s := range b.Steps {
		n.Children = append(n.Children, step(s))
	}
	return n
}

func scenario(s *messages.Scenario, inherited []string, lead []*tree.Node) *tree.Node {
	n := &tree.Node{
		Kind:    tree.KindScenario,
		Keyword: strings.TrimSpace(s.Keyword),
		Name:    s.Name,
		Tags:    append(append([]string(nil), inherited...), tagNames(s.Tags)...),
		Line:    line(s.Location),
	}
	for _, l := range lead {
		n.Children = append(n.Children, l.Clone())
	}
	for _, st := range s.Steps {
		n.Children = append(n.Children, step(st))
	}
	for _, ex := range s.Examples {
		if ex.TableHeader == nil {
			continue
		}
		n.Examples = append(n.Examples, tree.Table{
			Header: cells(ex.TableHeader),
			Rows:   rows(ex.TableBody),
		})
	}
	if len(s.Examples) > 0 {
		n.Kind = tree.KindScenarioOutline
	}
	return n
}

func step(s *messages.Step) *tree.Node {
	n := &tree.Node{
		Kind:    tree.KindStep,
		Keyword: strings.TrimSpace(s.Keyword),
		Name:    s.Text,
		Line:    line(s.Location),
	}
	if s.DataTable != nil {
		n.Argument = &tree.Table{Rows: rows(s.DataTable.Rows)}
	}
	if s.DocString != nil {
		n.DocString = &tree.DocString{MediaType: s.DocString.MediaType, Content: s.DocString.Content}
	}
	return n
}

func rows(in []*messages.TableRow) [][]string {
	out := make([][]string, 0, len(in))
	for _, r := range in {
		out = append(out, cells(r))
	}
	return out
}

func cells(r *messages.TableRow) []string {
	out := make([]string, 0, len(r.Cells))
	for _, c := range r.Cells {
		out = append(out, c.Value)
	}
	return out
}

func tagNames(tags []*messages.Tag) []string {
	var out []string
	for _, t := range tags {
		out = append(out, t.Name)
	}
	return out
}

func line(loc *messages.Location) int {
	if loc == nil {
		return 0
	}
	return int(loc.Line)
}
