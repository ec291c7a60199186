package schemadiff

import (
	"errors"
	"fmt"
)

// Side names one of the two documents being compared.
type Side string

const (
	Left  Side = "left"
	Right Side = "right"
)

var (
	// ErrUnresolvedRef reports a $ref that does not name a definition of its document.
	ErrUnresolvedRef = errors.New("unresolved reference")
	// ErrRefCycle reports a $ref chain that resolves back to itself without reaching a schema.
	ErrRefCycle = errors.New("reference cycle")
)

// RefError indicates a $ref resolution problem on one side of the diff.
type RefError struct {
	Side Side
	Path string
	Ref  string
	Err  error
}

func (e *RefError) Error() string {
	if e == nil {
		return "ref error"
	}
	return fmt.Sprintf("%s schema at %s: $ref %q: %v", e.Side, pathOrRoot(e.Path), e.Ref, e.Err)
}

func (e *RefError) Unwrap() error { return e.Err }

func pathOrRoot(path string) string {
	if path == "" {
		return "<root>"
	}
	return path
}
