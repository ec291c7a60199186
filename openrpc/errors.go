package openrpc

import (
	"fmt"
	"strings"
)

// LoadError reports a document that could not be read.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e == nil {
		return "load error"
	}
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// ParseError reports a document that could not be decoded or extracted.
// Location is a line/column, a field path, or empty when unknown.
type ParseError struct {
	Path     string
	Location string
	Err      error
}

func (e *ParseError) Error() string {
	if e == nil {
		return "parse error"
	}
	var b strings.Builder
	b.WriteString("parse")
	if e.Path != "" {
		b.WriteString(" ")
		b.WriteString(e.Path)
	}
	if e.Location != "" {
		b.WriteString(" at ")
		b.WriteString(e.Location)
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError is a deterministic, multi-problem validation error.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Problems) == 0 {
		return "invalid document"
	}
	return "invalid document: " + strings.Join(e.Problems, "; ")
}
