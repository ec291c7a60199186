package schema

import (
	"sort"

	json "github.com/goccy/go-json"
)

// Instance type names accepted by the "type" keyword.
const (
	TypeArray   = "array"
	TypeBoolean = "boolean"
	TypeInteger = "integer"
	TypeNull    = "null"
	TypeNumber  = "number"
	TypeObject  = "object"
	TypeString  = "string"
)

// AllTypes lists every instance type in sorted order.
var AllTypes = []string{TypeArray, TypeBoolean, TypeInteger, TypeNull, TypeNumber, TypeObject, TypeString}

// Bound names a numeric keyword that constrains a range of values, lengths or counts.
type Bound string

const (
	BoundMinimum          Bound = "minimum"
	BoundMaximum          Bound = "maximum"
	BoundExclusiveMinimum Bound = "exclusiveMinimum"
	BoundExclusiveMaximum Bound = "exclusiveMaximum"
	BoundMinLength        Bound = "minLength"
	BoundMaxLength        Bound = "maxLength"
	BoundMinItems         Bound = "minItems"
	BoundMaxItems         Bound = "maxItems"
	BoundMinProperties    Bound = "minProperties"
	BoundMaxProperties    Bound = "maxProperties"
)

// Bounds lists the modelled bound keywords in the order they are compared.
var Bounds = []Bound{
	BoundMinimum, BoundMaximum, BoundExclusiveMinimum, BoundExclusiveMaximum,
	BoundMinLength, BoundMaxLength,
	BoundMinItems, BoundMaxItems,
	BoundMinProperties, BoundMaxProperties,
}

// IsLower reports whether b is a lower bound.
func (b Bound) IsLower() bool {
	switch b {
	case BoundMinimum, BoundExclusiveMinimum, BoundMinLength, BoundMinItems, BoundMinProperties:
		return true
	}
	return false
}

// Schema is a single JSON Schema node.
//
// When Bool is non-nil the node is a boolean schema and every other field is ignored.
type Schema struct {
	Bool *bool

	Ref string

	AllOf []*Schema
	AnyOf []*Schema
	OneOf []*Schema
	Not   *Schema
	If    *Schema
	Then  *Schema
	Else  *Schema

	Items           *Items
	AdditionalItems *Schema
	Contains        *Schema

	Properties           map[string]*Schema
	PatternProperties    map[string]*Schema
	AdditionalProperties *Schema
	PropertyNames        *Schema

	Type     TypeSet
	Enum     []json.RawMessage
	Const    json.RawMessage // nil when absent; "null" for a null constant
	Required []string
	Bounds   map[Bound]json.Number

	// Keywords preserves annotations and keywords without a typed slot.
	Keywords map[string]json.RawMessage
}

// Items holds the "items" keyword, which is either one schema applied to every
// element or a tuple of positional schemas.
type Items struct {
	Schema *Schema
	Tuple  []*Schema
}

// IsTuple reports whether items is the positional (array) form.
func (i *Items) IsTuple() bool {
	return i != nil && i.Tuple != nil
}

// TypeSet is the value of the "type" keyword. A nil TypeSet means the keyword is absent.
type TypeSet []string

// Contains reports whether t is listed.
func (ts TypeSet) Contains(t string) bool {
	for _, x := range ts {
		if x == t {
			return true
		}
	}
	return false
}

var (
	trueValue  = true
	falseValue = false
)

// Always returns a new schema that matches every instance.
func Always() *Schema {
	return &Schema{Bool: &trueValue}
}

// Never returns a new schema that matches no instance.
func Never() *Schema {
	return &Schema{Bool: &falseValue}
}

// IsNever reports whether s is the boolean schema false.
func (s *Schema) IsNever() bool {
	return s != nil && s.Bool != nil && !*s.Bool
}

// IsAlways reports whether s is nil, the boolean schema true, or an object schema without keywords.
func (s *Schema) IsAlways() bool {
	if s == nil {
		return true
	}
	if s.Bool != nil {
		return *s.Bool
	}
	return s.Ref == "" && len(s.AllOf) == 0 && len(s.AnyOf) == 0 && len(s.OneOf) == 0 &&
		s.Not == nil && s.If == nil && s.Then == nil && s.Else == nil &&
		s.Items == nil && s.AdditionalItems == nil && s.Contains == nil &&
		len(s.Properties) == 0 && len(s.PatternProperties) == 0 &&
		s.AdditionalProperties == nil && s.PropertyNames == nil &&
		s.Type == nil && s.Enum == nil && s.Const == nil && len(s.Required) == 0 && len(s.Bounds) == 0
}

// Bound returns the value of bound keyword b.
func (s *Schema) Bound(b Bound) (json.Number, bool) {
	if s == nil || s.Bounds == nil {
		return "", false
	}
	v, ok := s.Bounds[b]
	return v, ok
}

// Children calls fn once for every non-nil direct sub-schema of s, in a stable order.
func (s *Schema) Children(fn func(*Schema)) {
	if s == nil || s.Bool != nil {
		return
	}
	each := func(list []*Schema) {
		for _, c := range list {
			if c != nil {
				fn(c)
			}
		}
	}
	one := func(c *Schema) {
		if c != nil {
			fn(c)
		}
	}
	each(s.AllOf)
	each(s.AnyOf)
	each(s.OneOf)
	one(s.Not)
	one(s.If)
	one(s.Then)
	one(s.Else)
	if s.Items != nil {
		one(s.Items.Schema)
		each(s.Items.Tuple)
	}
	one(s.AdditionalItems)
	one(s.Contains)
	for _, k := range sortedKeys(s.Properties) {
		one(s.Properties[k])
	}
	for _, k := range sortedKeys(s.PatternProperties) {
		one(s.PatternProperties[k])
	}
	one(s.AdditionalProperties)
	one(s.PropertyNames)
}

// Clone returns a deep copy of s.
func (s *Schema) Clone() *Schema {
	if s == nil {
		return nil
	}
	out := *s
	if s.Bool != nil {
		b := *s.Bool
		out.Bool = &b
	}
	out.AllOf = cloneList(s.AllOf)
	out.AnyOf = cloneList(s.AnyOf)
	out.OneOf = cloneList(s.OneOf)
	out.Not = s.Not.Clone()
	out.If = s.If.Clone()
	out.Then = s.Then.Clone()
	out.Else = s.Else.Clone()
	if s.Items != nil {
		out.Items = &Items{Schema: s.Items.Schema.Clone(), Tuple: cloneList(s.Items.Tuple)}
	}
	out.AdditionalItems = s.AdditionalItems.Clone()
	out.Contains = s.Contains.Clone()
	out.Properties = cloneMap(s.Properties)
	out.PatternProperties = cloneMap(s.PatternProperties)
	out.AdditionalProperties = s.AdditionalProperties.Clone()
	out.PropertyNames = s.PropertyNames.Clone()
	if s.Type != nil {
		out.Type = append(TypeSet{}, s.Type...)
	}
	if s.Enum != nil {
		out.Enum = append([]json.RawMessage{}, s.Enum...)
	}
	if s.Required != nil {
		out.Required = append([]string{}, s.Required...)
	}
	if s.Bounds != nil {
		out.Bounds = make(map[Bound]json.Number, len(s.Bounds))
		for k, v := range s.Bounds {
			out.Bounds[k] = v
		}
	}
	if s.Keywords != nil {
		out.Keywords = make(map[string]json.RawMessage, len(s.Keywords))
		for k, v := range s.Keywords {
			out.Keywords[k] = v
		}
	}
	return &out
}

func cloneList(in []*Schema) []*Schema {
	if in == nil {
		return nil
	}
	out := make([]*Schema, len(in))
	for i, s := range in {
		out[i] = s.Clone()
	}
	return out
}

func cloneMap(in map[string]*Schema) map[string]*Schema {
	if in == nil {
		return nil
	}
	out := make(map[string]*Schema, len(in))
	for k, v := range in {
		out[k] = v.Clone()
	}
	return out
}

func sortedKeys(m map[string]*Schema) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
