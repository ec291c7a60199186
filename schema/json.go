package schema

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
)

// UnmarshalJSON decodes a boolean or object schema. Unmodelled keywords are kept in Keywords.
func (s *Schema) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch string(b) {
	case "true", "false":
		v := string(b) == "true"
		*s = Schema{Bool: &v}
		return nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	var out Schema
	for k, v := range raw {
		if err := out.setKeyword(k, v); err != nil {
			return fmt.Errorf("schema keyword %q: %w", k, err)
		}
	}
	*s = out
	return nil
}

func (s *Schema) setKeyword(k string, v json.RawMessage) error {
	switch k {
	case "$ref":
		return json.Unmarshal(v, &s.Ref)
	case "allOf":
		return json.Unmarshal(v, &s.AllOf)
	case "anyOf":
		return json.Unmarshal(v, &s.AnyOf)
	case "oneOf":
		return json.Unmarshal(v, &s.OneOf)
	case "not":
		return unmarshalChild(v, &s.Not)
	case "if":
		return unmarshalChild(v, &s.If)
	case "then":
		return unmarshalChild(v, &s.Then)
	case "else":
		return unmarshalChild(v, &s.Else)
	case "items":
		var it Items
		if err := json.Unmarshal(v, &it); err != nil {
			return err
		}
		s.Items = &it
		return nil
	case "additionalItems":
		return unmarshalChild(v, &s.AdditionalItems)
	case "contains":
		return unmarshalChild(v, &s.Contains)
	case "properties":
		return json.Unmarshal(v, &s.Properties)
	case "patternProperties":
		return json.Unmarshal(v, &s.PatternProperties)
	case "additionalProperties":
		return unmarshalChild(v, &s.AdditionalProperties)
	case "propertyNames":
		return unmarshalChild(v, &s.PropertyNames)
	case "type":
		// "type": null is kept verbatim and does not constrain anything.
		if string(bytes.TrimSpace(v)) == "null" {
			s.keep(k, v)
			return nil
		}
		return json.Unmarshal(v, &s.Type)
	case "enum":
		if err := json.Unmarshal(v, &s.Enum); err != nil {
			return err
		}
		if s.Enum == nil {
			return errors.New("must be array")
		}
		return nil
	case "const":
		s.Const = append(json.RawMessage{}, bytes.TrimSpace(v)...)
		return nil
	case "required":
		return json.Unmarshal(v, &s.Required)
	}

	if isBound(k) {
		n, ok := parseNumber(v)
		if !ok {
			// draft-04 spells exclusiveMinimum/exclusiveMaximum as booleans.
			var flag bool
			if strings.HasPrefix(k, "exclusive") && json.Unmarshal(v, &flag) == nil {
				s.keep(k, v)
				return nil
			}
			return errors.New("must be a number")
		}
		if s.Bounds == nil {
			s.Bounds = map[Bound]json.Number{}
		}
		s.Bounds[Bound(k)] = n
		return nil
	}

	s.keep(k, v)
	return nil
}

func (s *Schema) keep(k string, v json.RawMessage) {
	if s.Keywords == nil {
		s.Keywords = map[string]json.RawMessage{}
	}
	s.Keywords[k] = append(json.RawMessage{}, v...)
}

func unmarshalChild(v json.RawMessage, dst **Schema) error {
	var c Schema
	if err := json.Unmarshal(v, &c); err != nil {
		return err
	}
	*dst = &c
	return nil
}

func isBound(k string) bool {
	for _, b := range Bounds {
		if string(b) == k {
			return true
		}
	}
	return false
}

// MarshalJSON encodes s. Typed slots win over colliding entries in Keywords.
func (s Schema) MarshalJSON() ([]byte, error) {
	if s.Bool != nil {
		return json.Marshal(*s.Bool)
	}

	out := make(map[string]any, len(s.Keywords)+8)
	for k, v := range s.Keywords {
		out[k] = v
	}
	if s.Ref != "" {
		out["$ref"] = s.Ref
	}
	putList(out, "allOf", s.AllOf)
	putList(out, "anyOf", s.AnyOf)
	putList(out, "oneOf", s.OneOf)
	putChild(out, "not", s.Not)
	putChild(out, "if", s.If)
	putChild(out, "then", s.Then)
	putChild(out, "else", s.Else)
	if s.Items != nil {
		out["items"] = s.Items
	}
	putChild(out, "additionalItems", s.AdditionalItems)
	putChild(out, "contains", s.Contains)
	if s.Properties != nil {
		out["properties"] = s.Properties
	}
	if s.PatternProperties != nil {
		out["patternProperties"] = s.PatternProperties
	}
	putChild(out, "additionalProperties", s.AdditionalProperties)
	putChild(out, "propertyNames", s.PropertyNames)
	if s.Type != nil {
		out["type"] = s.Type
	}
	if s.Enum != nil {
		out["enum"] = s.Enum
	}
	if s.Const != nil {
		out["const"] = s.Const
	}
	if s.Required != nil {
		out["required"] = s.Required
	}
	for k, v := range s.Bounds {
		out[string(k)] = v
	}
	return json.Marshal(out)
}

func putList(out map[string]any, k string, list []*Schema) {
	if list != nil {
		out[k] = list
	}
}

func putChild(out map[string]any, k string, c *Schema) {
	if c != nil {
		out[k] = c
	}
}

// UnmarshalJSON accepts either a single schema or an array of schemas.
func (i *Items) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '[' {
		var tuple []*Schema
		if err := json.Unmarshal(b, &tuple); err != nil {
			return err
		}
		if tuple == nil {
			tuple = []*Schema{}
		}
		*i = Items{Tuple: tuple}
		return nil
	}
	var one Schema
	if err := json.Unmarshal(b, &one); err != nil {
		return err
	}
	*i = Items{Schema: &one}
	return nil
}

func (i Items) MarshalJSON() ([]byte, error) {
	if i.Tuple != nil {
		return json.Marshal(i.Tuple)
	}
	if i.Schema == nil {
		return []byte("true"), nil
	}
	return json.Marshal(i.Schema)
}

// UnmarshalJSON accepts a type name or an array of type names.
func (ts *TypeSet) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if string(b) == "null" {
		*ts = nil
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var one string
		if err := json.Unmarshal(b, &one); err != nil {
			return err
		}
		if strings.TrimSpace(one) == "" {
			return errors.New("must not be empty")
		}
		*ts = TypeSet{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return errors.New("must be string or array of strings")
	}
	for _, t := range many {
		if strings.TrimSpace(t) == "" {
			return errors.New("must be array of non-empty strings")
		}
	}
	if many == nil {
		many = []string{}
	}
	*ts = TypeSet(many)
	return nil
}

func (ts TypeSet) MarshalJSON() ([]byte, error) {
	if len(ts) == 1 {
		return json.Marshal(ts[0])
	}
	return json.Marshal([]string(ts))
}
