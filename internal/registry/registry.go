package registry

import (
	"fmt"
	"regexp"
)

// Kind is the type of a registered definition.
type Kind int

const (
	Feature Kind = iota
	Background
	Scenario
	Step
)

func (k Kind) String() string {
	switch k {
	case Feature:
		return "Feature"
	case Background:
		return "Background"
	case Scenario:
		return "Scenario"
	case Step:
		return "Step"
	default:
		return "Unknown"
	}
}

// Scoped reports whether definitions of this kind own nested definitions.
func (k Kind) Scoped() bool {
	return k != Step
}

// Name is what a definition is matched by: a literal string or a pattern.
type Name struct {
	literal string
	pattern *regexp.Regexp
	raw     any
}

// NewName classifies v. Anything that is neither a string nor a
// *regexp.Regexp produces an invalid name that fails at match time.
func NewName(v any) Name {
	switch n := v.(type) {
	case string:
		return Name{literal: n, raw: v}
	case *regexp.Regexp:
		if n == nil {
			return Name{raw: v}
		}
		return Name{pattern: n, raw: v}
	default:
		return Name{raw: v}
	}
}

func (n Name) Literal() (string, bool) {
	_, ok := n.raw.(string)
	return n.literal, ok
}

func (n Name) Pattern() (*regexp.Regexp, bool) {
	return n.pattern, n.pattern != nil
}

func (n Name) String() string {
	if n.pattern != nil {
		return n.pattern.String()
	}
	if s, ok := n.Literal(); ok {
		return s
	}
	return fmt.Sprintf("%v", n.raw)
}

type Definition struct {
	ID     int
	Kind   Kind
	Name   Name
	World  any
	Parent *Definition

	// Declare runs the declaration body of a scoped definition.
	Declare func(args []string)
	// Exec is the executable of a step definition.
	Exec any

	children []*Definition
}

func (d *Definition) Children() []*Definition {
	return d.children
}

// ClearChildren drops the nested definitions so a fresh descent can
// register them again.
func (d *Definition) ClearChildren() {
	d.children = nil
}

// Registry holds root definitions and the stack of active scopes.
type Registry struct {
	root         []*Definition
	stack        []*Definition
	counters     [4]int
	defaultWorld any
}

func New(defaultWorld any) *Registry {
	return &Registry{defaultWorld: defaultWorld}
}

// Register adds a definition under parent, or to the root when parent is
// nil. A nil world is inherited from the nearest ancestor, then from the
// registry default.
func (r *Registry) Register(parent *Definition, kind Kind, name any, world any) *Definition {
	r.counters[kind]++
	if world == nil && parent != nil {
		world = parent.World
	}
	if world == nil {
		world = r.defaultWorld
	}
	def := &Definition{
		ID:     r.counters[kind],
		Kind:   kind,
		Name:   NewName(name),
		World:  world,
		Parent: parent,
	}
	if parent != nil {
		parent.children = append(parent.children, def)
	} else {
		r.root = append(r.root, def)
	}
	return def
}

// Current returns the innermost active scope, or nil at the root.
func (r *Registry) Current() *Definition {
	if len(r.stack) == 0 {
		return nil
	}
	return r.stack[len(r.stack)-1]
}

// Enter makes def the active scope. The returned release restores the
// previous scope; callers defer it.
func (r *Registry) Enter(def *Definition) (release func()) {
	depth := len(r.stack)
	r.stack = append(r.stack, def)
	return func() {
		r.stack = r.stack[:depth]
	}
}

// Levels lists the definitions visible from scope, innermost first: the
// scope's children, each ancestor's children, then the root registry.
func (r *Registry) Levels(scope *Definition) [][]*Definition {
	var levels [][]*Definition
	for d := scope; d != nil; d = d.Parent {
		levels = append(levels, d.children)
	}
	return append(levels, r.root)
}

func (r *Registry) Root() []*Definition {
	return r.root
}

// Counters returns the feature, background, scenario and step id counters.
func (r *Registry) Counters() [4]int {
	return r.counters
}

func (r *Registry) Reset() {
	r.root = nil
	r.stack = nil
	r.counters = [4]int{}
}
