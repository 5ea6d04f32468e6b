package apolog

import "github.com/chriserin/apolog/internal/registry"

// Declare is the body of a feature, background or scenario definition. It
// receives the scope to register nested definitions on and the arguments
// captured from the matched name.
type Declare func(sc *Scope, args []string)

// Scope is the definition whose declaration body is running. Definitions
// registered on it are visible to the nodes bound inside it.
type Scope struct {
	session *Session
	def     *registry.Definition
}

// World returns the context bound to this scope.
func (sc *Scope) World() any {
	return sc.def.World
}

func (sc *Scope) Feature(name any, fn Declare, opts ...RegisterOption) {
	sc.session.declare(sc.def, registry.Feature, name, fn, opts)
}

func (sc *Scope) Background(name any, fn Declare, opts ...RegisterOption) {
	sc.session.declare(sc.def, registry.Background, name, fn, opts)
}

func (sc *Scope) Scenario(name any, fn Declare, opts ...RegisterOption) {
	sc.session.declare(sc.def, registry.Scenario, name, fn, opts)
}

func (sc *Scope) Step(name any, fn any, opts ...RegisterOption) {
	sc.session.step(sc.def, name, fn, opts)
}

func (sc *Scope) Given(name any, fn any, opts ...RegisterOption) {
	sc.session.step(sc.def, name, fn, opts)
}

func (sc *Scope) When(name any, fn any, opts ...RegisterOption) {
	sc.session.step(sc.def, name, fn, opts)
}

func (sc *Scope) Then(name any, fn any, opts ...RegisterOption) {
	sc.session.step(sc.def, name, fn, opts)
}
