package report

import (
	"bytes"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/openbindings/rpcdiff"
)

func sampleSummary() *rpcdiff.Summary {
	return &rpcdiff.Summary{
		Equivalent: []string{"foo"},
		Different: map[string]*rpcdiff.MethodChange{
			"qux": {
				Params: map[int]rpcdiff.DescriptorDiff{
					0: {Changes: []rpcdiff.Change{
						{Path: "/a", Kind: rpcdiff.KindConstRemoved, Value: json.RawMessage(`1`)},
						{Path: "/a", Kind: rpcdiff.KindConstAdded, Value: json.RawMessage(`2`)},
					}},
				},
				Result: &rpcdiff.DescriptorDiff{Required: rpcdiff.RequiredLost},
			},
			"bar": {
				Params: map[int]rpcdiff.DescriptorDiff{
					1: {
						Changes:  []rpcdiff.Change{{Kind: rpcdiff.KindTypeAdded, Type: "integer"}},
						Required: rpcdiff.RequiredGained,
					},
				},
			},
		},
		Left:  []string{"baz"},
		Right: []string{"zed"},
	}
}

func render(t *testing.T, f Format, s *rpcdiff.Summary) string {
	t.Helper()
	r, err := New(f)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, s))
	return buf.String()
}

func TestText(t *testing.T) {
	want := `bar
  param 1
    type-added integer
    requiredness gained
qux
  param 0
    /a: const-removed 1
    /a: const-added 2
  result
    requiredness lost

the following methods are only present on the left:
  baz

the following methods are only present on the right:
  zed
`
	assert.Equal(t, want, render(t, FormatText, sampleSummary()))
}

func TestText_OnlyExclusiveMethods(t *testing.T) {
	got := render(t, FormatText, &rpcdiff.Summary{Right: []string{"a", "b"}})
	assert.Equal(t, "the following methods are only present on the right:\n  a\n  b\n", got)
}

func TestText_NoDifferences(t *testing.T) {
	got := render(t, FormatText, &rpcdiff.Summary{Equivalent: []string{"a", "b"}})
	assert.Equal(t, "no differences (2 equivalent methods)\n", got)
}

func TestJSON(t *testing.T) {
	want := `{
  "equivalent": ["foo"],
  "different": {
    "bar": {"parameter": {"1": {"changes": [{"kind": "type-added", "of": "integer"}], "required": "gained"}}},
    "qux": {
      "parameter": {"0": {"changes": [
        {"path": "/a", "kind": "const-removed", "of": 1},
        {"path": "/a", "kind": "const-added", "of": 2}
      ]}},
      "result": {"required": "lost"}
    }
  },
  "left": ["baz"],
  "right": ["zed"]
}`
	got := render(t, FormatJSON, sampleSummary())
	assert.JSONEq(t, want, got)
	assert.True(t, strings.HasSuffix(got, "}\n"))
	assert.Contains(t, got, "\n  \"equivalent\"")
}

func TestJSON_OmitsEmptySections(t *testing.T) {
	assert.JSONEq(t, `{"left": ["a"]}`, render(t, FormatJSON, &rpcdiff.Summary{Left: []string{"a"}}))
	assert.JSONEq(t, `{}`, render(t, FormatJSON, &rpcdiff.Summary{}))
}

func TestYAML(t *testing.T) {
	got := render(t, FormatYAML, sampleSummary())
	assert.NotContains(t, got, "{")
	assert.NotContains(t, got, "[")

	var m map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(got), &m))
	assert.Equal(t, []any{"foo"}, m["equivalent"])
	assert.Equal(t, []any{"baz"}, m["left"])
	assert.Equal(t, []any{"zed"}, m["right"])

	different := m["different"].(map[string]any)
	bar := different["bar"].(map[string]any)["parameter"].(map[string]any)["1"].(map[string]any)
	assert.Equal(t, "gained", bar["required"])

	qux := different["qux"].(map[string]any)
	changes := qux["parameter"].(map[string]any)["0"].(map[string]any)["changes"].([]any)
	require.Len(t, changes, 2)
	first := changes[0].(map[string]any)
	assert.Equal(t, "/a", first["path"])
	assert.Equal(t, 1, first["of"])
}

func TestYAML_KeepsStringsThatLookLikeOtherTypes(t *testing.T) {
	got := render(t, FormatYAML, &rpcdiff.Summary{Left: []string{"true", "1", "null"}})
	var m map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(got), &m))
	assert.Equal(t, []any{"true", "1", "null"}, m["left"])
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"text": FormatText, "JSON": FormatJSON, " yaml ": FormatYAML, "yml": FormatYAML} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFormat("xml")
	assert.EqualError(t, err, `unknown report format "xml" (want text, json or yaml)`)
}

func TestNew_Unknown(t *testing.T) {
	_, err := New(Format("xml"))
	assert.Error(t, err)
	for _, f := range Formats {
		_, err := New(f)
		assert.NoError(t, err, f)
	}
}
