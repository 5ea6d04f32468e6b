// Package host defines the contract between the binder and the test-case
// framework that executes bound steps.
//
// A Host receives one group per resolved feature, background or scenario
// and one case per resolved step. Groups nest: Group must invoke declare
// before it returns, and every Group or Case call made while declare runs
// belongs to that group.
package host

import (
	"context"
	"errors"
	"fmt"
	"iter"
)

type Host interface {
	Group(name string, declare func())
	Case(text string, c Case)
}

// Finisher is implemented by hosts that defer execution until every
// document of a session has been resolved.
type Finisher interface {
	Finish()
}

// Done signals completion of a callback-completed case. A nil error means
// the case passed.
type Done func(err error)

// Convention is the calling convention a case expects from its driver.
type Convention int

const (
	// Synchronous cases complete when their function returns.
	Synchronous Convention = iota
	// SynchronousCallback cases complete when Done is invoked.
	SynchronousCallback
	// Sequence cases yield at each suspension point and complete when the
	// sequence is exhausted.
	Sequence
	// SequenceCallback cases are driven like Sequence and complete when
	// Done is invoked.
	SequenceCallback
)

func (c Convention) String() string {
	switch c {
	case Synchronous:
		return "sync"
	case SynchronousCallback:
		return "sync-callback"
	case Sequence:
		return "sequence"
	case SequenceCallback:
		return "sequence-callback"
	default:
		return "unknown"
	}
}

// Callback reports whether the case takes a completion signal.
func (c Convention) Callback() bool {
	return c == SynchronousCallback || c == SequenceCallback
}

// Case is a wrapped step. Exactly one function field is set, selected by
// Convention.
type Case struct {
	Convention Convention

	Call      func() error
	CallDone  func(done Done)
	Steps     func() iter.Seq[error]
	StepsDone func(done Done) iter.Seq[error]
}

var ErrNoCompletion = errors.New("case did not signal completion")

// Drive runs c to completion under its convention. Callback cases wait for
// Done until ctx is cancelled.
func Drive(ctx context.Context, c Case) error {
	switch c.Convention {
	case Synchronous:
		return c.Call()
	case Sequence:
		return drain(ctx, c.Steps())
	case SynchronousCallback:
		done, wait := completion(ctx)
		c.CallDone(done)
		return wait()
	case SequenceCallback:
		done, wait := completion(ctx)
		if err := drain(ctx, c.StepsDone(done)); err != nil {
			return err
		}
		return wait()
	default:
		return fmt.Errorf("unknown calling convention %d", c.Convention)
	}
}

func drain(ctx context.Context, seq iter.Seq[error]) error {
	for err := range seq {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return nil
}

func completion(ctx context.Context) (Done, func() error) {
	ch := make(chan error, 1)
	done := func(err error) {
		select {
		case ch <- err:
		default:
		}
	}
	wait := func() error {
		select {
		case err := <-ch:
			return err
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", ErrNoCompletion, ctx.Err())
		}
	}
	return done, wait
}
