package resolver

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/chriserin/apolog/host"
	"github.com/chriserin/apolog/internal/ctxlog"
	"github.com/chriserin/apolog/internal/executor"
	"github.com/chriserin/apolog/internal/matcher"
	"github.com/chriserin/apolog/internal/outline"
	"github.com/chriserin/apolog/internal/registry"
	"github.com/chriserin/apolog/internal/tree"
)

// Resolver binds specification nodes to registered definitions and hands
// the result to a host.
type Resolver struct {
	ctx  context.Context
	reg  *registry.Registry
	host host.Host
	log  *slog.Logger
}

func New(ctx context.Context, reg *registry.Registry, h host.Host, log *slog.Logger) *Resolver {
	if ctx == nil {
		ctx = context.Background()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Resolver{ctx: ctx, reg: reg, host: h, log: log}
}

// Resolve binds n, expanding it first when it is an outline. background,
// when non-nil, is replayed as the leading child of every scenario
// instance. It is looked up from the scope n is resolved in, not from the
// scenario's own scope. Errors come back in discovery order.
func (r *Resolver) Resolve(n *tree.Node, background *tree.Node) []RunError {
	return r.resolve(n, background, r.reg.Current())
}

func (r *Resolver) resolve(n *tree.Node, background *tree.Node, scope *registry.Definition) []RunError {
	var errs []RunError
	for _, inst := range outline.Expand(n) {
		res, findErrs := r.find(inst, scope)
		errs = append(errs, findErrs...)
		if res == nil {
			r.log.Warn("definition not found",
				"type", inst.Kind.String(), "name", inst.Name, "file", inst.File.Path)
			errs = append(errs, RunError{
				Kind:     UnmatchedDefinition,
				NodeType: inst.Kind.String(),
				NodeName: inst.Name,
				FilePath: inst.File.Path,
			})
			continue
		}

		r.log.Debug("bound",
			"type", inst.Kind.String(), "name", inst.Name, "definition", res.Definition.ID, "args", res.Args)

		if inst.Kind == tree.KindStep {
			r.bindStep(inst, res)
			continue
		}
		r.host.Group(inst.Name, func() {
			errs = append(errs, r.descend(inst, res, background, scope)...)
		})
	}
	return errs
}

// find searches the scope's children, then each ancestor's, then the root
// registry, and stops at the first level with a match.
func (r *Resolver) find(n *tree.Node, scope *registry.Definition) (*matcher.Result, []RunError) {
	var errs []RunError
	for _, level := range r.reg.Levels(scope) {
		res, nameErrs := matcher.Best(n, level)
		for range nameErrs {
			errs = append(errs, RunError{
				Kind:     InvalidMatcherName,
				NodeType: n.Kind.String(),
				NodeName: n.Name,
				FilePath: n.File.Path,
			})
		}
		if res != nil {
			return res, errs
		}
	}
	return nil, errs
}

func (r *Resolver) descend(inst *tree.Node, res *matcher.Result, background *tree.Node, outer *registry.Definition) []RunError {
	def := res.Definition
	release := r.reg.Enter(def)
	defer release()

	def.ClearChildren()
	if def.Declare != nil {
		def.Declare(res.Args)
	}

	var errs []RunError
	if background != nil {
		errs = append(errs, r.resolve(outline.WithRow(background, inst.Example), nil, outer)...)
	}
	for _, child := range inst.Children {
		if child.Kind == tree.KindStep {
			errs = append(errs, r.Resolve(outline.WithRow(child, inst.Example), nil)...)
			continue
		}
		errs = append(errs, r.Resolve(child, inst.Background)...)
	}
	return errs
}

func (r *Resolver) bindStep(n *tree.Node, res *matcher.Result) {
	step, ok := res.Definition.Exec.(*executor.Step)
	if !ok {
		err := fmt.Errorf("step definition %d has no executable", res.Definition.ID)
		r.host.Case(n.Name, host.Case{Convention: host.Synchronous, Call: func() error { return err }})
		return
	}
	ctx := ctxlog.WithLogger(r.ctx, r.log)
	ctx = ctxlog.WithWorld(ctx, res.Definition.World)
	r.host.Case(n.Name, executor.Wrap(ctx, step, res.Args, n))
}
