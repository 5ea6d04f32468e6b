package executor

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"reflect"

	"github.com/chriserin/apolog/host"
	"github.com/chriserin/apolog/internal/tree"
)

var ErrNotAFunc = errors.New("step executable must be a func")

var (
	contextType = reflect.TypeFor[context.Context]()
	errorType   = reflect.TypeFor[error]()
	seqType     = reflect.TypeFor[iter.Seq[error]]()
	doneType    = reflect.TypeFor[host.Done]()
	tablePtr    = reflect.TypeFor[*tree.Table]()
	tableVal    = reflect.TypeFor[tree.Table]()
	rowsType    = reflect.TypeFor[[][]string]()
	mapsType    = reflect.TypeFor[[]map[string]string]()
	docPtr      = reflect.TypeFor[*tree.DocString]()
)

// Signature describes the declared shape of a step executable. It is
// computed once, when the step is registered.
type Signature struct {
	// WantsContext is set when the first parameter is a context.Context.
	// That parameter does not count towards Params.
	WantsContext bool
	Params       []reflect.Type
	// Suspending executables return iter.Seq[error] and are driven as a
	// cooperative sequence.
	Suspending   bool
	ReturnsError bool
	ExpectsTable bool
	ExpectsDone  bool
}

// Step is a compiled step executable.
type Step struct {
	fn  reflect.Value
	Sig Signature
}

// Compile inspects fn and returns its compiled form.
func Compile(fn any) (*Step, error) {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func || v.IsNil() {
		return nil, fmt.Errorf("%w, got %T", ErrNotAFunc, fn)
	}
	t := v.Type()
	if t.IsVariadic() {
		return nil, fmt.Errorf("step executable %s: variadic parameters are not supported", t)
	}

	var sig Signature
	for i := 0; i < t.NumIn(); i++ {
		in := t.In(i)
		if i == 0 && in == contextType {
			sig.WantsContext = true
			continue
		}
		if isTableType(in) {
			sig.ExpectsTable = true
		}
		sig.Params = append(sig.Params, in)
	}
	if n := len(sig.Params); n > 0 && isDoneType(sig.Params[n-1]) {
		sig.ExpectsDone = true
	}

	switch {
	case t.NumOut() == 0:
	case t.NumOut() == 1 && t.Out(0) == errorType:
		sig.ReturnsError = true
	case t.NumOut() == 1 && t.Out(0) == seqType:
		sig.Suspending = true
	default:
		return nil, fmt.Errorf("step executable %s: must return nothing, error or iter.Seq[error]", t)
	}

	return &Step{fn: v, Sig: sig}, nil
}

func isDoneType(t reflect.Type) bool {
	return t.ConvertibleTo(doneType) && t.Kind() == reflect.Func
}

func isTableType(t reflect.Type) bool {
	return t == tablePtr || t == tableVal || t == rowsType || t == mapsType
}
