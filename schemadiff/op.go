package schemadiff

import (
	json "github.com/goccy/go-json"

	"github.com/openbindings/rpcdiff/schema"
)

// Change is one raw structural difference at Path.
type Change struct {
	Path string
	Op   Op
}

// Op is a raw structural diff operation. The set of operations is closed.
type Op interface {
	// Accept calls the Visitor method matching the operation.
	Accept(v Visitor)
}

// Visitor receives one call per operation kind. Adding an operation adds a method
// here, so every Visitor implementation must handle it before it compiles again.
type Visitor interface {
	VisitTypeAdded(TypeAdded)
	VisitTypeRemoved(TypeRemoved)
	VisitConstAdded(ConstAdded)
	VisitConstRemoved(ConstRemoved)
	VisitPropertyAdded(PropertyAdded)
	VisitPropertyRemoved(PropertyRemoved)
	VisitRangeAdded(RangeAdded)
	VisitRangeRemoved(RangeRemoved)
	VisitRangeChanged(RangeChanged)
	VisitTupleToArray(TupleToArray)
	VisitArrayToTuple(ArrayToTuple)
	VisitTupleChanged(TupleChanged)
	VisitRequiredAdded(RequiredAdded)
	VisitRequiredRemoved(RequiredRemoved)
}

// TypeAdded: the right side accepts an instance type the left side rejects.
type TypeAdded struct{ Type string }

// TypeRemoved: the left side accepts an instance type the right side rejects.
type TypeRemoved struct{ Type string }

// ConstAdded: the right side allows a literal (const or enum member) the left side did not list.
// Value is the canonical JSON encoding.
type ConstAdded struct{ Value json.RawMessage }

// ConstRemoved: the left side listed a literal the right side does not.
type ConstRemoved struct{ Value json.RawMessage }

// PropertyAdded: a property schema only the right side declares.
// LeftAdditionalProperties reports whether the left side accepted undeclared properties.
type PropertyAdded struct {
	Name                     string
	LeftAdditionalProperties bool
}

// PropertyRemoved: a property schema only the left side declares.
type PropertyRemoved struct {
	Name                     string
	LeftAdditionalProperties bool
}

// Range is one bound keyword with its value as written in the document.
type Range struct {
	Bound schema.Bound
	Value json.Number
}

// RangeAdded: a bound keyword only the right side declares.
type RangeAdded struct{ Range Range }

// RangeRemoved: a bound keyword only the left side declares.
type RangeRemoved struct{ Range Range }

// RangeChanged: both sides declare the bound with numerically different values.
type RangeChanged struct {
	Bound    schema.Bound
	Old, New json.Number
}

// TupleToArray: positional items on the left became a single item schema on the right.
type TupleToArray struct{ OldLength int }

// ArrayToTuple: a single item schema on the left became positional items on the right.
type ArrayToTuple struct{ NewLength int }

// TupleChanged: both sides are tuples of different lengths.
type TupleChanged struct{ OldLength, NewLength int }

// RequiredAdded: a property name only the right side lists in "required".
type RequiredAdded struct{ Property string }

// RequiredRemoved: a property name only the left side lists in "required".
type RequiredRemoved struct{ Property string }

func (o TypeAdded) Accept(v Visitor)       { v.VisitTypeAdded(o) }
func (o TypeRemoved) Accept(v Visitor)     { v.VisitTypeRemoved(o) }
func (o ConstAdded) Accept(v Visitor)      { v.VisitConstAdded(o) }
func (o ConstRemoved) Accept(v Visitor)    { v.VisitConstRemoved(o) }
func (o PropertyAdded) Accept(v Visitor)   { v.VisitPropertyAdded(o) }
func (o PropertyRemoved) Accept(v Visitor) { v.VisitPropertyRemoved(o) }
func (o RangeAdded) Accept(v Visitor)      { v.VisitRangeAdded(o) }
func (o RangeRemoved) Accept(v Visitor)    { v.VisitRangeRemoved(o) }
func (o RangeChanged) Accept(v Visitor)    { v.VisitRangeChanged(o) }
func (o TupleToArray) Accept(v Visitor)    { v.VisitTupleToArray(o) }
func (o ArrayToTuple) Accept(v Visitor)    { v.VisitArrayToTuple(o) }
func (o TupleChanged) Accept(v Visitor)    { v.VisitTupleChanged(o) }
func (o RequiredAdded) Accept(v Visitor)   { v.VisitRequiredAdded(o) }
func (o RequiredRemoved) Accept(v Visitor) { v.VisitRequiredRemoved(o) }
