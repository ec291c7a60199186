package schemadiff

import (
	"bytes"
	"sort"
	"strconv"

	json "github.com/goccy/go-json"

	"github.com/openbindings/rpcdiff/canonicaljson"
	"github.com/openbindings/rpcdiff/schema"
)

// effectiveTypes returns the instance types s can accept. An absent "type" is
// narrowed by const/enum when present and otherwise means every type.
func effectiveTypes(s *schema.Schema) map[string]bool {
	out := map[string]bool{}
	switch {
	case s.IsNever():
	case s.Type != nil:
		for _, t := range s.Type {
			out[t] = true
		}
	case s.Const != nil:
		out[literalType(s.Const)] = true
	case s.Enum != nil:
		for _, v := range s.Enum {
			out[literalType(v)] = true
		}
	default:
		for _, t := range schema.AllTypes {
			out[t] = true
		}
	}
	return out
}

// literalType names the instance type of a JSON literal; integral numbers are "integer".
func literalType(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return schema.TypeNull
	}
	switch raw[0] {
	case 'n':
		return schema.TypeNull
	case 't', 'f':
		return schema.TypeBoolean
	case '"':
		return schema.TypeString
	case '[':
		return schema.TypeArray
	case '{':
		return schema.TypeObject
	}
	f, err := strconv.ParseFloat(string(raw), 64)
	if err == nil && f == float64(int64(f)) {
		return schema.TypeInteger
	}
	return schema.TypeNumber
}

// literals returns the literal values s restricts instances to, keyed by their
// canonical form. ok is false when s lists no literals.
func literals(s *schema.Schema) (map[string]json.RawMessage, bool) {
	var list []json.RawMessage
	switch {
	case s.Const != nil:
		list = []json.RawMessage{s.Const}
	case s.Enum != nil:
		list = s.Enum
	default:
		return nil, false
	}
	out := make(map[string]json.RawMessage, len(list))
	for _, v := range list {
		k := literalKey(v)
		out[k] = json.RawMessage(k)
	}
	return out, true
}

// literalKey is the canonical text of v, or its trimmed bytes if v is not valid JSON.
func literalKey(v json.RawMessage) string {
	c, err := canonicaljson.String(v)
	if err != nil {
		return string(bytes.TrimSpace(v))
	}
	return c
}

func sortedLiteralKeys(m map[string]json.RawMessage) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
