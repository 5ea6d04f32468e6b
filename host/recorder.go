package host

import (
	"context"
	"strings"
)

// Entry is one recorded group or case. Groups have Children; cases have a
// Case.
type Entry struct {
	Name     string
	Group    bool
	Case     Case
	Children []*Entry
}

// Result is the outcome of driving one recorded case. Path holds the names
// of its enclosing groups followed by its own.
type Result struct {
	Path []string
	Err  error
}

func (r Result) String() string {
	return strings.Join(r.Path, " / ")
}

// Recorder is a Host that records the group/case tree without running
// anything. Run drives the recorded cases afterwards in declaration order.
type Recorder struct {
	Entries []*Entry

	open []*Entry
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Group(name string, declare func()) {
	e := &Entry{Name: name, Group: true}
	r.add(e)
	r.open = append(r.open, e)
	defer func() { r.open = r.open[:len(r.open)-1] }()
	declare()
}

func (r *Recorder) Case(text string, c Case) {
	r.add(&Entry{Name: text, Case: c})
}

func (r *Recorder) add(e *Entry) {
	if len(r.open) == 0 {
		r.Entries = append(r.Entries, e)
		return
	}
	parent := r.open[len(r.open)-1]
	parent.Children = append(parent.Children, e)
}

// Names lists every recorded entry as a slash-joined path, groups included,
// in declaration order.
func (r *Recorder) Names() []string {
	var out []string
	walk(r.Entries, nil, func(path []string, e *Entry) {
		out = append(out, strings.Join(path, " / "))
	})
	return out
}

// Cases returns the recorded cases in declaration order.
func (r *Recorder) Cases() []*Entry {
	var out []*Entry
	walk(r.Entries, nil, func(_ []string, e *Entry) {
		if !e.Group {
			out = append(out, e)
		}
	})
	return out
}

// Run drives every recorded case. newCtx is called once per case so each
// case may get its own deadline.
func (r *Recorder) Run(newCtx func() (context.Context, context.CancelFunc)) []Result {
	var results []Result
	walk(r.Entries, nil, func(path []string, e *Entry) {
		if e.Group {
			return
		}
		ctx, cancel := newCtx()
		err := Drive(ctx, e.Case)
		cancel()
		results = append(results, Result{Path: path, Err: err})
	})
	return results
}

func walk(entries []*Entry, prefix []string, fn func(path []string, e *Entry)) {
	for _, e := range entries {
		path := append(append([]string(nil), prefix...), e.Name)
		fn(path, e)
		if e.Group {
			walk(e.Children, path, fn)
		}
	}
}
