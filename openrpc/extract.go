package openrpc

import (
	"errors"
	"fmt"

	"github.com/openbindings/rpcdiff"
	"github.com/openbindings/rpcdiff/schema"
)

// ErrUnresolvedDescriptor reports a content descriptor $ref that names no component.
var ErrUnresolvedDescriptor = errors.New("unresolved content descriptor reference")

// Extract builds the comparable view of d: every method's signature plus the
// schema definitions from components. Schemas are deep-copied before their
// references are normalized, so d itself is not modified.
//
// Failures are returned as *ParseError with Location set and Path empty.
func (d *Document) Extract() (*rpcdiff.Document, error) {
	out := &rpcdiff.Document{Methods: make(map[string]*rpcdiff.Signature, len(d.Methods))}
	if d.Components != nil {
		out.Definitions = d.Components.Schemas.Clone()
		out.Definitions.Normalize()
	}

	for idx, m := range d.Methods {
		at := fmt.Sprintf("methods[%d]", idx)
		if _, dup := out.Methods[m.Name]; dup {
			return nil, &ParseError{Location: at + ".name", Err: fmt.Errorf("duplicate method %q", m.Name)}
		}
		sig := &rpcdiff.Signature{Name: m.Name, Params: make([]*rpcdiff.ContentDescriptor, len(m.Params))}
		for i, p := range m.Params {
			cd, err := d.descriptor(p, fmt.Sprintf("%s.params[%d]", at, i))
			if err != nil {
				return nil, err
			}
			sig.Params[i] = cd
		}
		if m.Result != nil {
			cd, err := d.descriptor(*m.Result, at+".result")
			if err != nil {
				return nil, err
			}
			sig.Result = cd
		}
		out.Methods[m.Name] = sig
	}
	return out, nil
}

func (d *Document) descriptor(c ContentDescriptorOrRef, at string) (*rpcdiff.ContentDescriptor, error) {
	cd := c.Resolve(d.Components)
	if cd == nil {
		if c.IsRef() {
			return nil, &ParseError{Location: at, Err: fmt.Errorf("%w %q", ErrUnresolvedDescriptor, c.Ref)}
		}
		return nil, &ParseError{Location: at, Err: errors.New("missing content descriptor")}
	}
	s := cd.Schema.Clone()
	schema.NormalizeRefs(s)
	return &rpcdiff.ContentDescriptor{Name: cd.Name, Required: cd.Required, Schema: s}, nil
}
