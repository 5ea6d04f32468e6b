package executor

import (
	"context"
	"fmt"
	"iter"
	"reflect"
	"strconv"

	"github.com/chriserin/apolog/host"
	"github.com/chriserin/apolog/internal/tree"
)

// Wrap binds a matched step to its captured arguments and the node's
// attached data table or doc string, and picks the calling convention.
//
// The table or doc string counts as one more argument. When the argument
// count is below the declared parameter count a completion signal is
// appended and the case is callback-completed; otherwise it is direct.
func Wrap(ctx context.Context, s *Step, args []string, n *tree.Node) host.Case {
	b := &binding{ctx: ctx, step: s, text: n.Name, args: args}
	argc := len(args)
	switch {
	case n.Argument != nil:
		b.attachment = n.Argument
		argc++
	case n.DocString != nil:
		b.attachment = n.DocString
		argc++
	}
	callback := argc < len(s.Sig.Params)

	switch {
	case s.Sig.Suspending && callback:
		return host.Case{Convention: host.SequenceCallback, StepsDone: func(done host.Done) iter.Seq[error] {
			return b.sequence(done)
		}}
	case s.Sig.Suspending:
		return host.Case{Convention: host.Sequence, Steps: func() iter.Seq[error] {
			return b.sequence(nil)
		}}
	case callback:
		return host.Case{Convention: host.SynchronousCallback, CallDone: func(done host.Done) {
			if err := b.call(done); err != nil {
				done(err)
			}
		}}
	default:
		return host.Case{Convention: host.Synchronous, Call: func() error {
			return b.call(nil)
		}}
	}
}

type binding struct {
	ctx        context.Context
	step       *Step
	text       string
	args       []string
	attachment any
}

func (b *binding) call(done host.Done) (err error) {
	in, err := b.inputs(done)
	if err != nil {
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("step %q panicked: %v", b.text, r)
		}
	}()
	out := b.step.fn.Call(in)
	if b.step.Sig.ReturnsError && !out[0].IsNil() {
		return out[0].Interface().(error)
	}
	return nil
}

func (b *binding) sequence(done host.Done) iter.Seq[error] {
	in, err := b.inputs(done)
	if err != nil {
		return failed(err)
	}
	var seq iter.Seq[error]
	if err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("step %q panicked: %v", b.text, r)
			}
		}()
		out := b.step.fn.Call(in)
		seq, _ = out[0].Interface().(iter.Seq[error])
		return nil
	}(); err != nil {
		return failed(err)
	}
	if seq == nil {
		return failed(nil)
	}
	return b.guard(seq)
}

// guard turns a panic inside the executable's own code into a yielded
// error. Panics raised by the consumer's loop body propagate untouched.
// Once the consumer has stopped, further yields are dropped and a late
// panic is swallowed.
func (b *binding) guard(seq iter.Seq[error]) iter.Seq[error] {
	return func(yield func(error) bool) {
		inYield, stopped := false, false
		defer func() {
			if inYield {
				return
			}
			if r := recover(); r != nil && !stopped {
				yield(fmt.Errorf("step %q panicked: %v", b.text, r))
			}
		}()
		seq(func(err error) bool {
			if stopped {
				return false
			}
			inYield = true
			ok := yield(err)
			inYield = false
			stopped = !ok
			return ok
		})
	}
}

func failed(err error) iter.Seq[error] {
	return func(yield func(error) bool) {
		if err != nil {
			yield(err)
		}
	}
}

func (b *binding) inputs(done host.Done) ([]reflect.Value, error) {
	sig := b.step.Sig
	var in []reflect.Value
	if sig.WantsContext {
		in = append(in, reflect.ValueOf(b.ctx))
	}

	params := sig.Params
	need := len(b.args)
	if b.attachment != nil {
		need++
	}
	if done != nil {
		need++
	}
	if need > len(params) {
		return nil, fmt.Errorf("step %q: %d arguments for %d parameters", b.text, need, len(params))
	}
	if need < len(params) {
		return nil, fmt.Errorf("step %q: %d parameters but only %d arguments and a completion signal", b.text, len(params), need)
	}

	i := 0
	for _, a := range b.args {
		v, err := convertArg(a, params[i])
		if err != nil {
			return nil, fmt.Errorf("step %q argument %d: %w", b.text, i+1, err)
		}
		in = append(in, v)
		i++
	}
	if b.attachment != nil {
		v, err := convertAttachment(b.attachment, params[i])
		if err != nil {
			return nil, fmt.Errorf("step %q argument %d: %w", b.text, i+1, err)
		}
		in = append(in, v)
		i++
	}
	if done != nil {
		if isTableType(params[i]) {
			return nil, fmt.Errorf("step %q expects a data table", b.text)
		}
		if !isDoneType(params[i]) {
			return nil, fmt.Errorf("step %q: parameter %d must be a completion func(error), got %s", b.text, i+1, params[i])
		}
		in = append(in, reflect.ValueOf(done).Convert(params[i]))
	}
	return in, nil
}

func convertArg(s string, t reflect.Type) (reflect.Value, error) {
	v := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.String:
		v.SetString(s)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(s, 10, t.Bits())
		if err != nil {
			return v, fmt.Errorf("cannot convert %q to %s: %w", s, t, err)
		}
		v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(s, 10, t.Bits())
		if err != nil {
			return v, fmt.Errorf("cannot convert %q to %s: %w", s, t, err)
		}
		v.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(s, t.Bits())
		if err != nil {
			return v, fmt.Errorf("cannot convert %q to %s: %w", s, t, err)
		}
		v.SetFloat(f)
	case reflect.Bool:
		ok, err := strconv.ParseBool(s)
		if err != nil {
			return v, fmt.Errorf("cannot convert %q to %s: %w", s, t, err)
		}
		v.SetBool(ok)
	case reflect.Slice:
		if t.Elem().Kind() != reflect.Uint8 {
			return v, fmt.Errorf("cannot convert %q to %s", s, t)
		}
		v.SetBytes([]byte(s))
	case reflect.Interface:
		if t.NumMethod() != 0 {
			return v, fmt.Errorf("cannot convert %q to %s", s, t)
		}
		v.Set(reflect.ValueOf(s))
	default:
		return v, fmt.Errorf("cannot convert %q to %s", s, t)
	}
	return v, nil
}

func convertAttachment(a any, t reflect.Type) (reflect.Value, error) {
	switch att := a.(type) {
	case *tree.Table:
		switch t {
		case tablePtr:
			return reflect.ValueOf(att), nil
		case tableVal:
			return reflect.ValueOf(*att), nil
		case rowsType:
			return reflect.ValueOf(att.Rows), nil
		case mapsType:
			return reflect.ValueOf(att.Maps()), nil
		}
		return reflect.Value{}, fmt.Errorf("cannot pass a data table as %s", t)
	case *tree.DocString:
		switch {
		case t == docPtr:
			return reflect.ValueOf(att), nil
		case t.Kind() == reflect.String:
			return reflect.ValueOf(att.Content).Convert(t), nil
		}
		return reflect.Value{}, fmt.Errorf("cannot pass a doc string as %s", t)
	}
	return reflect.Value{}, fmt.Errorf("unsupported step argument %T", a)
}
