package matcher

import (
	"errors"
	"fmt"
	"sort"

	"github.com/chriserin/apolog/internal/registry"
	"github.com/chriserin/apolog/internal/tree"
)

var ErrInvalidMatcherName = errors.New("definition name is neither a string nor a regexp")

// NameError reports a definition whose name cannot be matched, together with
// the node that was being matched when it was found.
type NameError struct {
	NodeType string
	NodeName string
	Name     string
}

func (e *NameError) Error() string {
	return fmt.Sprintf("undefined type to identify the %s %q: %s (got %s)", e.NodeType, e.NodeName, ErrInvalidMatcherName, e.Name)
}

func (e *NameError) Unwrap() error {
	return ErrInvalidMatcherName
}

type Result struct {
	Definition *registry.Definition
	Args       []string
}

// Match decides whether def answers n. It returns nil when it does not.
func Match(n *tree.Node, def *registry.Definition) (*Result, error) {
	kind, ok := definitionKind(n.Kind)
	if !ok || kind != def.Kind {
		return nil, nil
	}

	if lit, ok := def.Name.Literal(); ok {
		if lit != n.Name {
			return nil, nil
		}
		return &Result{Definition: def, Args: []string{}}, nil
	}

	if re, ok := def.Name.Pattern(); ok {
		loc := re.FindStringSubmatchIndex(n.Name)
		if loc == nil || loc[0] != 0 || loc[1] != len(n.Name) {
			return nil, nil
		}
		args := make([]string, 0, len(loc)/2-1)
		for i := 2; i < len(loc); i += 2 {
			if loc[i] < 0 {
				args = append(args, "")
				continue
			}
			args = append(args, n.Name[loc[i]:loc[i+1]])
		}
		return &Result{Definition: def, Args: args}, nil
	}

	return nil, &NameError{NodeType: n.Kind.String(), NodeName: n.Name, Name: def.Name.String()}
}

// Best matches n against every definition of one scope level and picks the
// most specific match. Name errors are collected and do not stop the scan.
func Best(n *tree.Node, defs []*registry.Definition) (*Result, []error) {
	var (
		errs    []error
		byArity = map[int]*Result{}
	)
	for _, def := range defs {
		res, err := Match(n, def)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if res == nil {
			continue
		}
		if _, seen := byArity[len(res.Args)]; !seen {
			byArity[len(res.Args)] = res
		}
	}
	if len(byArity) == 0 {
		return nil, errs
	}

	counts := make([]int, 0, len(byArity))
	for c := range byArity {
		counts = append(counts, c)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(counts)))

	// Only the unbroken descending run starting at the maximum competes.
	run := counts[:1]
	for i := 1; i < len(counts) && counts[i] == counts[i-1]-1; i++ {
		run = counts[:i+1]
	}
	return byArity[run[0]], errs
}

func definitionKind(k tree.Kind) (registry.Kind, bool) {
	switch k {
	case tree.KindFeature:
		return registry.Feature, true
	case tree.KindBackground:
		return registry.Background, true
	case tree.KindScenario, tree.KindScenarioOutline:
		return registry.Scenario, true
	case tree.KindStep:
		return registry.Step, true
	default:
		return 0, false
	}
}
