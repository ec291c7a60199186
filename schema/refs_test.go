package schema

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectRefs(s *Schema) []string {
	var refs []string
	var walk func(*Schema)
	walk = func(n *Schema) {
		if n.Ref != "" {
			refs = append(refs, n.Ref)
		}
		n.Children(walk)
	}
	walk(s)
	return refs
}

func TestCanonicalRef(t *testing.T) {
	cases := map[string]string{
		"#/components/schemas/Foo":            "#/definitions/Foo",
		"#/$defs/Foo":                         "#/definitions/Foo",
		"#/definitions/Foo":                   "#/definitions/Foo",
		"other.json#/Foo":                     "other.json#/Foo",
		"#/components/contentDescriptors/Foo": "#/components/contentDescriptors/Foo",
	}
	for in, want := range cases {
		assert.Equal(t, want, CanonicalRef(in), "CanonicalRef(%q)", in)
	}
}

func TestNormalizeRefs_ReachesEverySlot(t *testing.T) {
	s := mustSchema(t, `{
		"$ref": "#/components/schemas/Root",
		"allOf": [{"$ref": "#/components/schemas/A"}],
		"anyOf": [{"$ref": "#/components/schemas/B"}],
		"oneOf": [{"$ref": "#/components/schemas/C"}],
		"not": {"$ref": "#/components/schemas/D"},
		"if": {"$ref": "#/components/schemas/E"},
		"then": {"$ref": "#/components/schemas/F"},
		"else": {"$ref": "#/components/schemas/G"},
		"items": [{"$ref": "#/components/schemas/H"}],
		"additionalItems": {"$ref": "#/components/schemas/I"},
		"contains": {"$ref": "#/components/schemas/J"},
		"properties": {"p": {"items": {"$ref": "#/components/schemas/K"}}},
		"patternProperties": {"^q": {"$ref": "#/components/schemas/L"}},
		"additionalProperties": {"$ref": "#/components/schemas/M"},
		"propertyNames": {"$ref": "#/components/schemas/N"}
	}`)
	NormalizeRefs(s)

	refs := collectRefs(s)
	require.Len(t, refs, 15)
	for _, r := range refs {
		_, ok := DefinitionName(r)
		assert.True(t, ok, "ref %q was not normalized", r)
	}
}

func TestNormalizeRefs_LeavesForeignRefs(t *testing.T) {
	s := mustSchema(t, `{"properties": {"a": {"$ref": "https://example.com/s.json#/A"}}}`)
	NormalizeRefs(s)
	assert.Equal(t, "https://example.com/s.json#/A", s.Properties["a"].Ref)
}

func TestNormalizeRefs_Idempotent(t *testing.T) {
	s := mustSchema(t, `{"items": {"$ref": "#/components/schemas/A"}, "not": {"$ref": "#/$defs/B"}}`)
	NormalizeRefs(s)
	once, err := json.Marshal(s)
	require.NoError(t, err)
	NormalizeRefs(s)
	twice, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, string(once), string(twice), "second normalization changed the tree")
}

func TestNormalizeRefs_NilAndBoolean(t *testing.T) {
	NormalizeRefs(nil)
	s := Never()
	NormalizeRefs(s)
	assert.True(t, s.IsNever(), "boolean schema changed")
}

func TestDefinitions_Resolve(t *testing.T) {
	defs := Definitions{
		"A":   mustSchema(t, `{"type": "string"}`),
		"a/b": mustSchema(t, `{"type": "integer"}`),
	}
	s, ok := defs.Resolve("#/definitions/A")
	require.True(t, ok)
	assert.Equal(t, TypeSet{TypeString}, s.Type)

	s, ok = defs.Resolve("#/definitions/a~1b")
	require.True(t, ok, "escaped name")
	assert.Equal(t, TypeSet{TypeInteger}, s.Type)

	for _, ref := range []string{"#/definitions/Missing", "#/components/schemas/A", "#/definitions/A/properties/x", "#/definitions/"} {
		_, ok := defs.Resolve(ref)
		assert.False(t, ok, "expected %q not to resolve", ref)
	}
}

func TestDefinitions_NormalizeAndClone(t *testing.T) {
	defs := Definitions{"A": mustSchema(t, `{"items": {"$ref": "#/components/schemas/B"}}`)}
	c := defs.Clone()
	c.Normalize()
	assert.Equal(t, "#/definitions/B", c["A"].Items.Schema.Ref)
	assert.Equal(t, "#/components/schemas/B", defs["A"].Items.Schema.Ref, "source definitions mutated")
}
