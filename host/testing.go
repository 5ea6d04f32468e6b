package host

import (
	"context"
	"testing"
	"time"
)

const DefaultStepTimeout = 2 * time.Second

// T is a Host backed by Go subtests. Groups and cases are collected while the
// session resolves and replayed as nested t.Run calls on Finish, so every
// declaration body runs before the first step does.
type T struct {
	t       *testing.T
	rec     *Recorder
	timeout time.Duration
}

// Testing returns a Host that runs cases as subtests of t. A timeout of zero
// uses DefaultStepTimeout.
func Testing(t *testing.T, timeout time.Duration) *T {
	if timeout <= 0 {
		timeout = DefaultStepTimeout
	}
	return &T{t: t, rec: NewRecorder(), timeout: timeout}
}

func (h *T) Group(name string, declare func()) {
	h.rec.Group(name, declare)
}

func (h *T) Case(text string, c Case) {
	h.rec.Case(text, c)
}

func (h *T) Finish() {
	h.replay(h.t, h.rec.Entries)
	h.rec = NewRecorder()
}

func (h *T) replay(t *testing.T, entries []*Entry) {
	for _, e := range entries {
		if e.Group {
			t.Run(e.Name, func(t *testing.T) {
				h.replay(t, e.Children)
			})
			continue
		}
		t.Run(e.Name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
			defer cancel()
			if err := Drive(ctx, e.Case); err != nil {
				t.Fatal(err)
			}
		})
	}
}
