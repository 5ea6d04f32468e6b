package apolog

import (
	"context"
	"log/slog"
	"sync"

	"github.com/chriserin/apolog/internal/ctxlog"
)

// World is the default context shared by definitions that bind none of
// their own. Steps may run on callback goroutines, so access is locked.
type World struct {
	mu     sync.Mutex
	values map[string]any
}

func NewWorld() *World {
	return &World{values: map[string]any{}}
}

func (w *World) Set(key string, v any) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.values[key] = v
}

func (w *World) Get(key string) (any, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	v, ok := w.values[key]
	return v, ok
}

// WorldFrom returns the context bound to the running step's definition.
func WorldFrom(ctx context.Context) any {
	return ctxlog.World(ctx)
}

// Logger returns the session logger carried by a step context.
func Logger(ctx context.Context) *slog.Logger {
	return ctxlog.FromContext(ctx)
}
