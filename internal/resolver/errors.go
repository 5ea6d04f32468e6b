package resolver

import (
	"errors"
	"fmt"

	"github.com/chriserin/apolog/internal/matcher"
)

// ErrorKind classifies a RunError.
type ErrorKind string

const (
	UnmatchedDefinition ErrorKind = "UnmatchedDefinition"
	InvalidMatcherName  ErrorKind = "InvalidMatcherName"
)

var ErrUnmatchedDefinition = errors.New("no definition matches")

// RunError reports a node that could not be bound. It is never fatal: the
// resolver records it and moves on to the next sibling.
type RunError struct {
	Kind     ErrorKind
	NodeType string
	NodeName string
	FilePath string
}

func (e RunError) Error() string {
	switch e.Kind {
	case InvalidMatcherName:
		return fmt.Sprintf("%s %q at %s: %s", e.NodeType, e.NodeName, e.FilePath, matcher.ErrInvalidMatcherName)
	default:
		return fmt.Sprintf("%s not found %q at %s", e.NodeType, e.NodeName, e.FilePath)
	}
}

func (e RunError) Unwrap() error {
	if e.Kind == InvalidMatcherName {
		return matcher.ErrInvalidMatcherName
	}
	return ErrUnmatchedDefinition
}
