// Package ctxlog carries the session logger and the bound world of a step
// through context.Context.
package ctxlog

import (
	"context"
	"log/slog"
)

type loggerKey struct{}

type worldKey struct{}

// WithLogger returns a new context with the provided logger embedded.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext extracts the slog.Logger from a context. If no logger is
// found, it returns the default global logger.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

func WithWorld(ctx context.Context, world any) context.Context {
	return context.WithValue(ctx, worldKey{}, world)
}

// World returns the bound world stored in ctx, or nil.
func World(ctx context.Context) any {
	return ctx.Value(worldKey{})
}
