package rpcdiff

import (
	"github.com/openbindings/rpcdiff/schema"
	"github.com/openbindings/rpcdiff/schemadiff"
)

// ContentDescriptor is one parameter or result: a name, a requiredness flag and a schema.
type ContentDescriptor struct {
	Name     string
	Required bool
	Schema   *schema.Schema
}

// absent stands in for a parameter or result one side does not declare.
var absent = &ContentDescriptor{Schema: schema.Never()}

// Absent returns the shared placeholder used to pad a missing parameter or
// result: no name, not required, and a schema that matches nothing. Callers
// must not modify it.
func Absent() *ContentDescriptor { return absent }

// IsAbsent reports whether d is nil or the Absent placeholder.
func (d *ContentDescriptor) IsAbsent() bool {
	return d == nil || d == absent
}

// RequiredChange records how requiredness moved from left to right.
type RequiredChange string

const (
	// RequiredLost means the left descriptor was required and the right one is not.
	RequiredLost RequiredChange = "lost"
	// RequiredGained means the right descriptor is required and the left one was not.
	RequiredGained RequiredChange = "gained"
)

// DescriptorDiff is the difference between two content descriptors.
type DescriptorDiff struct {
	Changes  []Change       `json:"changes,omitempty"`
	Required RequiredChange `json:"required,omitempty"`
}

// IsEmpty reports whether the descriptors compared equal.
func (d DescriptorDiff) IsEmpty() bool {
	return len(d.Changes) == 0 && d.Required == ""
}

// DiffDescriptors compares left against right, resolving each side's $refs
// against its own definitions. Nil descriptors are treated as Absent.
func DiffDescriptors(left, right *ContentDescriptor, leftDefs, rightDefs schema.Definitions) (DescriptorDiff, error) {
	if left == nil {
		left = absent
	}
	if right == nil {
		right = absent
	}
	raw, err := schemadiff.Diff(
		schemadiff.Root{Schema: left.Schema, Definitions: leftDefs},
		schemadiff.Root{Schema: right.Schema, Definitions: rightDefs},
	)
	if err != nil {
		return DescriptorDiff{}, err
	}
	d := DescriptorDiff{Changes: classifyAll(raw)}
	switch {
	case left.Required && !right.Required:
		d.Required = RequiredLost
	case !left.Required && right.Required:
		d.Required = RequiredGained
	}
	return d, nil
}
