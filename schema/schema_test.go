package schema

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustSchema(t *testing.T, src string) *Schema {
	t.Helper()
	var s Schema
	require.NoError(t, json.Unmarshal([]byte(src), &s), "schema %s", src)
	return &s
}

func TestUnmarshal_BooleanSchemas(t *testing.T) {
	s := mustSchema(t, `true`)
	assert.True(t, s.IsAlways())
	assert.False(t, s.IsNever())

	s = mustSchema(t, ` false `)
	assert.True(t, s.IsNever())
	assert.False(t, s.IsAlways())
}

func TestUnmarshal_TypedSlots(t *testing.T) {
	s := mustSchema(t, `{
		"type": ["object", "null"],
		"title": "Thing",
		"required": ["a"],
		"minimum": 1,
		"exclusiveMaximum": 10.5,
		"const": null,
		"properties": {"a": {"$ref": "#/components/schemas/A"}},
		"patternProperties": {"^x-": true},
		"additionalProperties": false,
		"items": [{"type": "string"}, {"type": "integer"}],
		"anyOf": [{"type": "object"}, false]
	}`)

	assert.Equal(t, TypeSet{TypeObject, TypeNull}, s.Type)
	assert.Equal(t, "null", string(s.Const))

	v, ok := s.Bound(BoundMinimum)
	require.True(t, ok)
	assert.Equal(t, json.Number("1"), v)
	v, ok = s.Bound(BoundExclusiveMaximum)
	require.True(t, ok)
	assert.Equal(t, json.Number("10.5"), v)

	assert.Equal(t, "#/components/schemas/A", s.Properties["a"].Ref)
	assert.True(t, s.AdditionalProperties.IsNever())
	require.True(t, s.Items.IsTuple())
	assert.Len(t, s.Items.Tuple, 2)
	require.Len(t, s.AnyOf, 2)
	assert.True(t, s.AnyOf[1].IsNever())
	assert.Contains(t, s.Keywords, "title")
}

func TestUnmarshal_Draft4ExclusiveFlagIsPreserved(t *testing.T) {
	s := mustSchema(t, `{"minimum": 0, "exclusiveMinimum": true}`)
	_, ok := s.Bound(BoundExclusiveMinimum)
	assert.False(t, ok, "boolean exclusiveMinimum must not become a bound")
	assert.Equal(t, "true", string(s.Keywords["exclusiveMinimum"]))
}

func TestUnmarshal_BoundsKeepTheirText(t *testing.T) {
	s := mustSchema(t, `{"maximum": 9007199254740993, "minLength": 2e0}`)
	assert.Equal(t, json.Number("9007199254740993"), s.Bounds[BoundMaximum])
	assert.Equal(t, json.Number("2e0"), s.Bounds[BoundMinLength])

	out, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"maximum": 9007199254740993, "minLength": 2}`, string(out))
}

func TestUnmarshal_RejectsMalformedBounds(t *testing.T) {
	for _, src := range []string{`{"minimum": "1"}`, `{"maxLength": null}`, `{"maximum": [1]}`, `{"minItems": true}`} {
		var s Schema
		assert.Error(t, json.Unmarshal([]byte(src), &s), src)
	}
}

func TestUnmarshal_NullTypeIsAbsent(t *testing.T) {
	s := mustSchema(t, `{"type": null}`)
	assert.Nil(t, s.Type)
	assert.True(t, s.IsAlways())
	assert.Equal(t, "null", string(s.Keywords["type"]))

	ts := TypeSet{TypeString}
	require.NoError(t, ts.UnmarshalJSON([]byte(" null ")))
	assert.Nil(t, ts)
}

func TestUnmarshal_RejectsMalformedType(t *testing.T) {
	var s Schema
	assert.Error(t, json.Unmarshal([]byte(`{"type": 3}`), &s), "numeric type")
	assert.Error(t, json.Unmarshal([]byte(`{"type": ""}`), &s), "empty type")
}

func TestMarshal_RoundTripKeepsKeywords(t *testing.T) {
	in := `{"type":"string","description":"d","x-extra":{"a":1},"minLength":2,"enum":["a","b"]}`
	out, err := json.Marshal(mustSchema(t, in))
	require.NoError(t, err)
	assert.JSONEq(t, in, string(out))
}

func TestMarshal_TypedSlotWinsOverKeywords(t *testing.T) {
	s := &Schema{
		Ref:      "#/definitions/A",
		Keywords: map[string]json.RawMessage{"$ref": json.RawMessage(`"#/definitions/B"`)},
	}
	out, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, `{"$ref":"#/definitions/A"}`, string(out))
}

func TestClone_IsDeep(t *testing.T) {
	s := mustSchema(t, `{"properties":{"a":{"$ref":"#/$defs/A"}},"items":{"type":"string"},"maximum":3}`)
	c := s.Clone()
	c.Properties["a"].Ref = "changed"
	c.Items.Schema.Type[0] = "number"
	c.Bounds[BoundMaximum] = "4"
	assert.Equal(t, "#/$defs/A", s.Properties["a"].Ref, "clone shares property schemas")
	assert.Equal(t, TypeString, s.Items.Schema.Type[0], "clone shares type sets")
	assert.Equal(t, json.Number("3"), s.Bounds[BoundMaximum], "clone shares bounds")
}

func TestChildren_VisitsEverySlotOnce(t *testing.T) {
	s := mustSchema(t, `{
		"allOf": [{}], "anyOf": [{}], "oneOf": [{}],
		"not": {}, "if": {}, "then": {}, "else": {},
		"items": [{}, {}], "additionalItems": {}, "contains": {},
		"properties": {"a": {}, "b": {}}, "patternProperties": {"^p": {}},
		"additionalProperties": {}, "propertyNames": {}
	}`)
	n := 0
	s.Children(func(*Schema) { n++ })
	assert.Equal(t, 16, n)
}

func TestChildren_SingleItems(t *testing.T) {
	s := mustSchema(t, `{"items": {"type": "string"}}`)
	var seen []*Schema
	s.Children(func(c *Schema) { seen = append(seen, c) })
	require.Len(t, seen, 1)
	assert.Same(t, s.Items.Schema, seen[0])
}

func TestCompareNumbers(t *testing.T) {
	cases := []struct {
		a, b json.Number
		want int
	}{
		{"1", "1.0", 0},
		{"10", "1e1", 0},
		{"-0", "0", 0},
		{"9007199254740993", "9007199254740992", 1},
		{"0.1", "0.10000000000000001", -1},
		{"-5", "3", -1},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, CompareNumbers(c.a, c.b), "CompareNumbers(%s, %s)", c.a, c.b)
	}
}
