package apolog

import (
	"context"
	"log/slog"
	"testing"

	"github.com/chriserin/apolog/host"
	"github.com/chriserin/apolog/internal/config"
)

type Option func(*Session)

// WithHost sets the test-case host. The default records groups and cases
// without running them.
func WithHost(h host.Host) Option {
	return func(s *Session) { s.host = h }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithWorld replaces the default shared world.
func WithWorld(w *World) Option {
	return func(s *Session) {
		if w != nil {
			s.world = w
		}
	}
}

// WithContext sets the parent of every step context.
func WithContext(ctx context.Context) Option {
	return func(s *Session) {
		if ctx != nil {
			s.ctx = ctx
		}
	}
}

// WithHistory records every Run in the SQLite database at path.
func WithHistory(path string) Option {
	return func(s *Session) { s.history = path }
}

// WithTesting runs bound steps as subtests of t when the session finishes
// resolving. Step timeouts come from WithProjectConfig, else
// host.DefaultStepTimeout.
func WithTesting(t *testing.T) Option {
	return func(s *Session) { s.t = t }
}

// WithProjectConfig applies .apolog/config.yaml from the working directory:
// its history path and its step timeout. History stays off when the file
// disables it. A broken file is logged and ignored.
func WithProjectConfig() Option {
	return func(s *Session) {
		cfg, err := config.Load()
		if err != nil {
			s.log.Warn("loading project config", "error", err)
			return
		}
		s.history = cfg.HistoryPath()
		s.timeout = cfg.StepTimeout
	}
}

type RegisterOption func(*registerConfig)

type registerConfig struct {
	world any
}

// WithBound binds v as the context of the definition and, unless they bind
// their own, of every definition nested inside it.
func WithBound(v any) RegisterOption {
	return func(c *registerConfig) { c.world = v }
}

func registerOptions(opts []RegisterOption) registerConfig {
	var c registerConfig
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
