// Package apolog binds Gherkin documents to Go step definitions and runs
// them through a test-case host.
//
// Definitions are registered on a Session (or on the package-level default
// session) as features, backgrounds, scenarios and steps. Feature, background
// and scenario definitions carry a declaration body that registers the
// definitions nested inside them; bodies run lazily, when the session binds a
// matching node. Run binds every loaded document, hands one group per
// feature/scenario and one case per step to the host, and returns every node
// it could not bind.
package apolog

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/chriserin/apolog/host"
	"github.com/chriserin/apolog/internal/db"
	"github.com/chriserin/apolog/internal/executor"
	"github.com/chriserin/apolog/internal/matcher"
	"github.com/chriserin/apolog/internal/parser"
	"github.com/chriserin/apolog/internal/registry"
	"github.com/chriserin/apolog/internal/resolver"
	"github.com/chriserin/apolog/internal/tree"
)

type (
	RunError  = resolver.RunError
	ErrorKind = resolver.ErrorKind
	Node      = tree.Node
	File      = tree.File
	Table     = tree.Table
	DocString = tree.DocString
)

const (
	UnmatchedDefinition = resolver.UnmatchedDefinition
	InvalidMatcherName  = resolver.InvalidMatcherName
)

var (
	ErrUnmatchedDefinition = resolver.ErrUnmatchedDefinition
	ErrInvalidMatcherName  = matcher.ErrInvalidMatcherName
)

// Session owns the definition registry and the queue of loaded documents.
// A session is single-use per Run: Run resets it, after which it can be
// populated again.
type Session struct {
	ctx     context.Context
	log     *slog.Logger
	host    host.Host
	world   *World
	history string
	timeout time.Duration
	t       *testing.T

	reg  *registry.Registry
	docs []*tree.Node
}

func NewSession(opts ...Option) *Session {
	s := &Session{
		ctx:   context.Background(),
		log:   slog.Default(),
		world: NewWorld(),
	}
	for _, opt := range opts {
		opt(s)
	}
	switch {
	case s.host != nil:
	case s.t != nil:
		s.host = host.Testing(s.t, s.timeout)
	default:
		s.host = host.NewRecorder()
	}
	s.reg = registry.New(s.world)
	return s
}

// Host returns the host the session hands groups and cases to.
func (s *Session) Host() host.Host {
	return s.host
}

// LoadSpecification enqueues one document for the next Run. source is raw
// Gherkin text (string or []byte) or an already parsed *Node.
func (s *Session) LoadSpecification(source any, file File) error {
	var doc *tree.Node
	switch src := source.(type) {
	case string:
		n, err := parser.Parse(file.Path, []byte(src))
		if err != nil {
			return err
		}
		doc = n
	case []byte:
		n, err := parser.Parse(file.Path, src)
		if err != nil {
			return err
		}
		doc = n
	case *tree.Node:
		if src == nil {
			return fmt.Errorf("loading %s: nil document", file.Path)
		}
		doc = src
		if file.Path != "" {
			doc.File = file
		}
		parser.SetFile(doc, doc.File)
	default:
		return fmt.Errorf("loading %s: unsupported source %T", file.Path, source)
	}
	s.docs = append(s.docs, doc)
	return nil
}

// Run binds every loaded document in load order and returns the nodes that
// could not be bound, in discovery order. The session is reset afterwards,
// even if a declaration body panics.
func (s *Session) Run() []RunError {
	defer s.reset()

	r := resolver.New(s.ctx, s.reg, s.host, s.log)
	var errs []RunError
	for _, doc := range s.docs {
		errs = append(errs, r.Resolve(doc, nil)...)
	}

	s.log.Info("session resolved", "documents", len(s.docs), "errors", len(errs))
	if s.history != "" {
		s.record(errs)
	}
	if f, ok := s.host.(host.Finisher); ok {
		f.Finish()
	}
	return errs
}

func (s *Session) record(errs []RunError) {
	sqlDB, err := db.Open(s.history)
	if err != nil {
		s.log.Warn("opening run history", "path", s.history, "error", err)
		return
	}
	defer sqlDB.Close()

	rows := make([]db.RunError, 0, len(errs))
	for _, e := range errs {
		rows = append(rows, db.RunError{
			Kind:     string(e.Kind),
			NodeType: e.NodeType,
			NodeName: e.NodeName,
			FilePath: e.FilePath,
		})
	}
	runID, err := db.RecordRun(sqlDB, len(s.docs), rows)
	if err != nil {
		s.log.Warn("recording run history", "path", s.history, "error", err)
		return
	}
	s.log.Debug("run recorded", "run_id", runID)
}

func (s *Session) reset() {
	s.reg.Reset()
	s.docs = nil
}

// Pending returns how many documents are queued for the next Run.
func (s *Session) Pending() int {
	return len(s.docs)
}

// Counters returns the feature, background, scenario and step id counters.
func (s *Session) Counters() [4]int {
	return s.reg.Counters()
}

// Definitions returns how many definitions are registered at the root.
func (s *Session) Definitions() int {
	return len(s.reg.Root())
}

func (s *Session) Feature(name any, fn Declare, opts ...RegisterOption) {
	s.declare(s.reg.Current(), registry.Feature, name, fn, opts)
}

func (s *Session) Background(name any, fn Declare, opts ...RegisterOption) {
	s.declare(s.reg.Current(), registry.Background, name, fn, opts)
}

func (s *Session) Scenario(name any, fn Declare, opts ...RegisterOption) {
	s.declare(s.reg.Current(), registry.Scenario, name, fn, opts)
}

// Step registers a step executable. fn may take a leading context.Context,
// then one parameter per captured argument, then the data table or doc
// string, then a completion func(error). It may return nothing, an error or
// an iter.Seq[error].
func (s *Session) Step(name any, fn any, opts ...RegisterOption) {
	s.step(s.reg.Current(), name, fn, opts)
}

func (s *Session) Given(name any, fn any, opts ...RegisterOption) {
	s.step(s.reg.Current(), name, fn, opts)
}

func (s *Session) When(name any, fn any, opts ...RegisterOption) {
	s.step(s.reg.Current(), name, fn, opts)
}

func (s *Session) Then(name any, fn any, opts ...RegisterOption) {
	s.step(s.reg.Current(), name, fn, opts)
}

func (s *Session) declare(parent *registry.Definition, kind registry.Kind, name any, fn Declare, opts []RegisterOption) *registry.Definition {
	ro := registerOptions(opts)
	def := s.reg.Register(parent, kind, name, ro.world)
	if fn != nil {
		def.Declare = func(args []string) {
			fn(&Scope{session: s, def: def}, args)
		}
	}
	return def
}

func (s *Session) step(parent *registry.Definition, name any, fn any, opts []RegisterOption) *registry.Definition {
	compiled, err := executor.Compile(fn)
	if err != nil {
		panic(fmt.Sprintf("apolog: registering step %v: %v", name, err))
	}
	ro := registerOptions(opts)
	def := s.reg.Register(parent, registry.Step, name, ro.world)
	def.Exec = compiled
	return def
}
