package rpcdiff

import (
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/openbindings/rpcdiff/schemadiff"
)

// ChangeKind classifies one structural change. The set of kinds is closed.
type ChangeKind string

const (
	KindTypeAdded               ChangeKind = "type-added"
	KindTypeRemoved             ChangeKind = "type-removed"
	KindConstAdded              ChangeKind = "const-added"
	KindConstRemoved            ChangeKind = "const-removed"
	KindPropertyAdded           ChangeKind = "property-added"
	KindPropertyRemoved         ChangeKind = "property-removed"
	KindNumericRangeAdded       ChangeKind = "numeric-range-added"
	KindNumericRangeRemoved     ChangeKind = "numeric-range-removed"
	KindNumericRangeChanged     ChangeKind = "numeric-range-changed"
	KindTupleBecameArray        ChangeKind = "tuple-became-array"
	KindArrayBecameTuple        ChangeKind = "array-became-tuple"
	KindTupleLengthChanged      ChangeKind = "tuple-length-changed"
	KindRequiredPropertyAdded   ChangeKind = "required-property-added"
	KindRequiredPropertyRemoved ChangeKind = "required-property-removed"
)

// Kinds lists every ChangeKind.
var Kinds = []ChangeKind{
	KindTypeAdded, KindTypeRemoved,
	KindConstAdded, KindConstRemoved,
	KindPropertyAdded, KindPropertyRemoved,
	KindNumericRangeAdded, KindNumericRangeRemoved, KindNumericRangeChanged,
	KindTupleBecameArray, KindArrayBecameTuple, KindTupleLengthChanged,
	KindRequiredPropertyAdded, KindRequiredPropertyRemoved,
}

// Change is one classified structural change at Path. At most one of Type,
// Value and Property is set, depending on Kind; range and tuple-shape kinds
// carry no subject.
//
// On the wire the subject is a single "of" field holding the type name, the
// literal value or the property name.
type Change struct {
	Path     string
	Kind     ChangeKind
	Type     string
	Value    json.RawMessage
	Property string
}

type changeWire struct {
	Path string          `json:"path,omitempty"`
	Kind ChangeKind      `json:"kind"`
	Of   json.RawMessage `json:"of,omitempty"`
}

// MarshalJSON writes {"path", "kind", "of"}. Path is omitted at the root and
// "of" holds the subject: a type or property name as a string, or the const
// literal as written.
func (c Change) MarshalJSON() ([]byte, error) {
	w := changeWire{Path: c.Path, Kind: c.Kind}
	var err error
	switch {
	case c.Type != "":
		w.Of, err = json.Marshal(c.Type)
	case c.Value != nil:
		if !json.Valid(c.Value) {
			return nil, fmt.Errorf("change %s: invalid literal %q", c.Kind, c.Value)
		}
		w.Of = c.Value
	case c.Property != "":
		w.Of, err = json.Marshal(c.Property)
	}
	if err != nil {
		return nil, fmt.Errorf("change %s: %w", c.Kind, err)
	}
	return json.Marshal(w)
}

// Subject returns the subject of c as text, or "" when the kind has none.
func (c Change) Subject() string {
	switch {
	case c.Type != "":
		return c.Type
	case c.Value != nil:
		return string(c.Value)
	default:
		return c.Property
	}
}

// Classify maps a raw structural operation onto its ChangeKind and subject.
func Classify(raw schemadiff.Change) Change {
	c := classifier{change: Change{Path: raw.Path}}
	raw.Op.Accept(&c)
	return c.change
}

func classifyAll(raw []schemadiff.Change) []Change {
	if len(raw) == 0 {
		return nil
	}
	out := make([]Change, len(raw))
	for i, r := range raw {
		out[i] = Classify(r)
	}
	return out
}

// classifier implements schemadiff.Visitor; a new operation kind fails to compile here.
type classifier struct {
	change Change
}

var _ schemadiff.Visitor = (*classifier)(nil)

func (c *classifier) VisitTypeAdded(o schemadiff.TypeAdded) {
	c.change.Kind, c.change.Type = KindTypeAdded, o.Type
}

func (c *classifier) VisitTypeRemoved(o schemadiff.TypeRemoved) {
	c.change.Kind, c.change.Type = KindTypeRemoved, o.Type
}

func (c *classifier) VisitConstAdded(o schemadiff.ConstAdded) {
	c.change.Kind, c.change.Value = KindConstAdded, o.Value
}

func (c *classifier) VisitConstRemoved(o schemadiff.ConstRemoved) {
	c.change.Kind, c.change.Value = KindConstRemoved, o.Value
}

func (c *classifier) VisitPropertyAdded(o schemadiff.PropertyAdded) {
	c.change.Kind, c.change.Property = KindPropertyAdded, o.Name
}

func (c *classifier) VisitPropertyRemoved(o schemadiff.PropertyRemoved) {
	c.change.Kind, c.change.Property = KindPropertyRemoved, o.Name
}

func (c *classifier) VisitRangeAdded(schemadiff.RangeAdded) {
	c.change.Kind = KindNumericRangeAdded
}

func (c *classifier) VisitRangeRemoved(schemadiff.RangeRemoved) {
	c.change.Kind = KindNumericRangeRemoved
}

func (c *classifier) VisitRangeChanged(schemadiff.RangeChanged) {
	c.change.Kind = KindNumericRangeChanged
}

func (c *classifier) VisitTupleToArray(schemadiff.TupleToArray) {
	c.change.Kind = KindTupleBecameArray
}

func (c *classifier) VisitArrayToTuple(schemadiff.ArrayToTuple) {
	c.change.Kind = KindArrayBecameTuple
}

func (c *classifier) VisitTupleChanged(schemadiff.TupleChanged) {
	c.change.Kind = KindTupleLengthChanged
}

func (c *classifier) VisitRequiredAdded(o schemadiff.RequiredAdded) {
	c.change.Kind, c.change.Property = KindRequiredPropertyAdded, o.Property
}

func (c *classifier) VisitRequiredRemoved(o schemadiff.RequiredRemoved) {
	c.change.Kind, c.change.Property = KindRequiredPropertyRemoved, o.Property
}
