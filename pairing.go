package rpcdiff

import (
	"fmt"

	"github.com/openbindings/rpcdiff/schema"
)

// Signature is a method's ordered parameters and optional result.
type Signature struct {
	Name   string
	Params []*ContentDescriptor
	Result *ContentDescriptor
}

// Document is the comparable view of an API description: its methods keyed by
// name and the definitions their schemas refer to. All $refs in a Document
// are expected in the schema.DefinitionsPrefix namespace.
type Document struct {
	Definitions schema.Definitions
	Methods     map[string]*Signature
}

// MethodChange lists the parameter positions and the result that differ
// between two versions of a method. Params only holds non-empty diffs.
type MethodChange struct {
	Params map[int]DescriptorDiff `json:"parameter,omitempty"`
	Result *DescriptorDiff        `json:"result,omitempty"`
}

// ResultPosition is the MethodError position used for the result descriptor.
const ResultPosition = -1

// MethodError reports a diff failure inside one method.
type MethodError struct {
	Method   string
	Position int // parameter index, or ResultPosition
	Err      error
}

func (e *MethodError) Error() string {
	if e == nil {
		return "method error"
	}
	if e.Position == ResultPosition {
		return fmt.Sprintf("method %q result: %v", e.Method, e.Err)
	}
	return fmt.Sprintf("method %q param %d: %v", e.Method, e.Position, e.Err)
}

func (e *MethodError) Unwrap() error { return e.Err }

// PairSignatures compares two versions of a method. Parameters are paired by
// position; the shorter list is padded with Absent. It returns nil when every
// pair compares equal.
func PairSignatures(left, right *Signature, leftDefs, rightDefs schema.Definitions) (*MethodChange, error) {
	n := max(len(left.Params), len(right.Params))
	var mc MethodChange
	for i := 0; i < n; i++ {
		d, err := DiffDescriptors(paramAt(left, i), paramAt(right, i), leftDefs, rightDefs)
		if err != nil {
			return nil, &MethodError{Method: left.Name, Position: i, Err: err}
		}
		if d.IsEmpty() {
			continue
		}
		if mc.Params == nil {
			mc.Params = map[int]DescriptorDiff{}
		}
		mc.Params[i] = d
	}

	d, err := DiffDescriptors(left.Result, right.Result, leftDefs, rightDefs)
	if err != nil {
		return nil, &MethodError{Method: left.Name, Position: ResultPosition, Err: err}
	}
	if !d.IsEmpty() {
		mc.Result = &d
	}

	if mc.Params == nil && mc.Result == nil {
		return nil, nil
	}
	return &mc, nil
}

func paramAt(s *Signature, i int) *ContentDescriptor {
	if i < len(s.Params) {
		return s.Params[i]
	}
	return absent
}
