package executor

import (
	"context"
	"errors"
	"iter"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriserin/apolog/host"
	"github.com/chriserin/apolog/internal/tree"
)

func compile(t *testing.T, fn any) *Step {
	t.Helper()
	s, err := Compile(fn)
	require.NoError(t, err)
	return s
}

func drive(t *testing.T, c host.Case) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	return host.Drive(ctx, c)
}

func stepNode(text string) *tree.Node {
	return &tree.Node{Kind: tree.KindStep, Name: text}
}

func TestCompile_Signature(t *testing.T) {
	s := compile(t, func(ctx context.Context, a int, rows [][]string, done host.Done) error { return nil })

	assert.True(t, s.Sig.WantsContext)
	assert.Len(t, s.Sig.Params, 3)
	assert.True(t, s.Sig.ExpectsTable)
	assert.True(t, s.Sig.ExpectsDone)
	assert.True(t, s.Sig.ReturnsError)
	assert.False(t, s.Sig.Suspending)
}

func TestCompile_Suspending(t *testing.T) {
	s := compile(t, func() iter.Seq[error] { return nil })
	assert.True(t, s.Sig.Suspending)
}

func TestCompile_Rejects(t *testing.T) {
	_, err := Compile("not a func")
	assert.ErrorIs(t, err, ErrNotAFunc)

	_, err = Compile(func(...string) {})
	assert.Error(t, err)

	_, err = Compile(func() int { return 0 })
	assert.Error(t, err)
}

func TestWrap_DirectWhenArgsCoverParams(t *testing.T) {
	var got []int
	s := compile(t, func(a, b int) { got = append(got, a, b) })

	c := Wrap(context.Background(), s, []string{"2", "3"}, stepNode("I add 2 and 3"))

	assert.Equal(t, host.Synchronous, c.Convention)
	require.NoError(t, drive(t, c))
	assert.Equal(t, []int{2, 3}, got)
}

func TestWrap_CallbackWhenFewerArgsThanParams(t *testing.T) {
	called := false
	s := compile(t, func(done func(error)) {
		called = true
		go done(nil)
	})

	c := Wrap(context.Background(), s, []string{}, stepNode("a slow thing"))

	assert.Equal(t, host.SynchronousCallback, c.Convention)
	require.NoError(t, drive(t, c))
	assert.True(t, called)
}

func TestWrap_CallbackErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	s := compile(t, func(done host.Done) { done(boom) })

	err := drive(t, Wrap(context.Background(), s, nil, stepNode("fails")))
	assert.ErrorIs(t, err, boom)
}

func TestWrap_CallbackNeverCompleted(t *testing.T) {
	s := compile(t, func(done host.Done) {})
	c := Wrap(context.Background(), s, nil, stepNode("hangs"))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := host.Drive(ctx, c)
	assert.ErrorIs(t, err, host.ErrNoCompletion)
}

func TestWrap_DataTableBeforeDone(t *testing.T) {
	var got [][]string
	s := compile(t, func(rows [][]string, done host.Done) {
		got = rows
		done(nil)
	})
	n := stepNode("these users")
	n.Argument = &tree.Table{Rows: [][]string{{"name"}, {"Alice"}}}

	c := Wrap(context.Background(), s, nil, n)

	assert.Equal(t, host.SynchronousCallback, c.Convention)
	require.NoError(t, drive(t, c))
	assert.Equal(t, [][]string{{"name"}, {"Alice"}}, got)
}

func TestWrap_DataTableAsMaps(t *testing.T) {
	var got []map[string]string
	s := compile(t, func(users []map[string]string) { got = users })
	n := stepNode("these users")
	n.Argument = &tree.Table{Rows: [][]string{{"name", "age"}, {"Alice", "30"}}}

	c := Wrap(context.Background(), s, nil, n)

	assert.Equal(t, host.Synchronous, c.Convention)
	require.NoError(t, drive(t, c))
	assert.Equal(t, []map[string]string{{"name": "Alice", "age": "30"}}, got)
}

func TestWrap_DocString(t *testing.T) {
	var got string
	s := compile(t, func(body string) { got = body })
	n := stepNode("a body")
	n.DocString = &tree.DocString{Content: "hello"}

	require.NoError(t, drive(t, Wrap(context.Background(), s, nil, n)))
	assert.Equal(t, "hello", got)
}

func TestWrap_MissingTable(t *testing.T) {
	s := compile(t, func(rows [][]string) {})

	c := Wrap(context.Background(), s, nil, stepNode("these users"))

	assert.Equal(t, host.SynchronousCallback, c.Convention)
	err := drive(t, c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expects a data table")
}

func TestWrap_TooManyArgs(t *testing.T) {
	s := compile(t, func(a int) {})

	err := drive(t, Wrap(context.Background(), s, []string{"1", "2"}, stepNode("x")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 arguments for 1 parameters")
}

func TestWrap_ConversionError(t *testing.T) {
	s := compile(t, func(n int) {})

	err := drive(t, Wrap(context.Background(), s, []string{"many"}, stepNode("x")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `cannot convert "many" to int`)
}

func TestWrap_ArgumentKinds(t *testing.T) {
	var (
		s  string
		u  uint8
		f  float64
		b  bool
		bs []byte
		a  any
	)
	st := compile(t, func(s1 string, u1 uint8, f1 float64, b1 bool, bs1 []byte, a1 any) {
		s, u, f, b, bs, a = s1, u1, f1, b1, bs1, a1
	})

	err := drive(t, Wrap(context.Background(), st, []string{"x", "7", "1.5", "true", "raw", "any"}, stepNode("kinds")))
	require.NoError(t, err)
	assert.Equal(t, "x", s)
	assert.Equal(t, uint8(7), u)
	assert.Equal(t, 1.5, f)
	assert.True(t, b)
	assert.Equal(t, []byte("raw"), bs)
	assert.Equal(t, "any", a)
}

func TestWrap_ContextIsNotCounted(t *testing.T) {
	type key struct{}
	var got any
	s := compile(t, func(ctx context.Context) { got = ctx.Value(key{}) })
	ctx := context.WithValue(context.Background(), key{}, "world")

	c := Wrap(ctx, s, nil, stepNode("x"))

	assert.Equal(t, host.Synchronous, c.Convention)
	require.NoError(t, drive(t, c))
	assert.Equal(t, "world", got)
}

func TestWrap_ReturnedError(t *testing.T) {
	boom := errors.New("boom")
	s := compile(t, func() error { return boom })

	assert.ErrorIs(t, drive(t, Wrap(context.Background(), s, nil, stepNode("x"))), boom)
}

func TestWrap_PanicBecomesError(t *testing.T) {
	s := compile(t, func() { panic("kaput") })

	err := drive(t, Wrap(context.Background(), s, nil, stepNode("x")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kaput")
}

func TestWrap_Sequence(t *testing.T) {
	var trace []string
	s := compile(t, func(name string) iter.Seq[error] {
		return func(yield func(error) bool) {
			trace = append(trace, "start "+name)
			if !yield(nil) {
				return
			}
			trace = append(trace, "resumed")
		}
	})

	c := Wrap(context.Background(), s, []string{"job"}, stepNode("job runs"))

	assert.Equal(t, host.Sequence, c.Convention)
	require.NoError(t, drive(t, c))
	assert.Equal(t, []string{"start job", "resumed"}, trace)
}

func TestWrap_SequenceStopsAtError(t *testing.T) {
	boom := errors.New("boom")
	resumed := false
	s := compile(t, func() iter.Seq[error] {
		return func(yield func(error) bool) {
			if !yield(boom) {
				return
			}
			resumed = true
		}
	})

	err := drive(t, Wrap(context.Background(), s, nil, stepNode("x")))
	assert.ErrorIs(t, err, boom)
	assert.False(t, resumed)
}

func TestWrap_SequenceCallback(t *testing.T) {
	s := compile(t, func(done host.Done) iter.Seq[error] {
		return func(yield func(error) bool) {
			if !yield(nil) {
				return
			}
			done(nil)
		}
	})

	c := Wrap(context.Background(), s, nil, stepNode("x"))

	assert.Equal(t, host.SequenceCallback, c.Convention)
	require.NoError(t, drive(t, c))
}

func TestWrap_SequencePanic(t *testing.T) {
	s := compile(t, func() iter.Seq[error] {
		return func(yield func(error) bool) {
			yield(nil)
			panic("kaput")
		}
	})

	err := drive(t, Wrap(context.Background(), s, nil, stepNode("x")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kaput")
}

func TestWrap_SequenceIgnoringStopThenPanicking(t *testing.T) {
	boom := errors.New("boom")
	s := compile(t, func() iter.Seq[error] {
		return func(yield func(error) bool) {
			yield(boom)
			yield(nil)
			panic("kaput")
		}
	})

	var err error
	assert.NotPanics(t, func() {
		err = drive(t, Wrap(context.Background(), s, nil, stepNode("x")))
	})
	assert.ErrorIs(t, err, boom)
}
