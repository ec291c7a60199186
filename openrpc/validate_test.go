package openrpc

import (
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbindings/rpcdiff/schema"
)

func validDocument() Document {
	return Document{
		OpenRPC: "1.2.6",
		Info:    Info{Title: "t", Version: "1.0.0"},
		Methods: []Method{{
			Name:   "m",
			Params: []ContentDescriptorOrRef{{Descriptor: &ContentDescriptor{Name: "a", Schema: schema.Always()}}},
		}},
	}
}

func problems(t *testing.T, err error) []string {
	t.Helper()
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	return ve.Problems
}

// assertProblem fails unless one of the problems contains substr.
func assertProblem(t *testing.T, list []string, substr string) {
	t.Helper()
	for _, p := range list {
		if strings.Contains(p, substr) {
			return
		}
	}
	assert.Failf(t, "missing problem", "expected %q in %q", substr, list)
}

func TestDocumentValidate_Valid(t *testing.T) {
	d := validDocument()
	assert.NoError(t, d.Validate(WithRequireSupportedVersion(), WithRejectUnknownTypedFields()))
}

func TestDocumentValidate_RequiresTopLevelFields(t *testing.T) {
	got := problems(t, Document{}.Validate())
	for _, want := range []string{"openrpc: required", "info.title: required", "info.version: required", "methods: required"} {
		assertProblem(t, got, want)
	}
}

func TestDocumentValidate_VersionShape(t *testing.T) {
	d := validDocument()
	d.OpenRPC = "1.2"
	assertProblem(t, problems(t, d.Validate()), "MAJOR.MINOR.PATCH")

	d.OpenRPC = "2.0.0"
	assert.NoError(t, d.Validate(), "unsupported versions are allowed by default")
	assertProblem(t, problems(t, d.Validate(WithRequireSupportedVersion())), "unsupported version")
}

func TestDocumentValidate_MethodProblems(t *testing.T) {
	d := validDocument()
	d.Methods = append(d.Methods,
		Method{Name: "m"},
		Method{Name: ""},
		Method{
			Name:           "n",
			ParamStructure: "by-magic",
			Params: []ContentDescriptorOrRef{
				{Descriptor: &ContentDescriptor{Name: "x", Schema: schema.Always()}},
				{Descriptor: &ContentDescriptor{Name: "x"}},
				{Ref: "#/components/contentDescriptors/Missing"},
				{},
			},
			Result: &ContentDescriptorOrRef{Descriptor: &ContentDescriptor{Schema: schema.Always()}},
		},
	)
	got := problems(t, d.Validate())
	for _, want := range []string{
		`methods[1].name: "m" already declared by methods[0]`,
		"methods[2].name: required",
		"methods[3].paramStructure",
		`methods[3].params[1].name: duplicate parameter "x"`,
		"methods[3].params[1].schema: required",
		`methods[3].params[2].$ref: cannot resolve`,
		"methods[3].params[3]: must be a content descriptor or $ref",
		"methods[3].result.name: required",
	} {
		assertProblem(t, got, want)
	}
}

func TestDocumentValidate_UnknownFields_StrictMode(t *testing.T) {
	d := validDocument()
	d.Unknown = map[string]json.RawMessage{"unknownField": json.RawMessage(`1`)}
	d.Methods[0].Unknown = map[string]json.RawMessage{"zeta": json.RawMessage(`1`), "alpha": json.RawMessage(`2`)}
	d.Methods[0].Extensions = map[string]json.RawMessage{"x-ok": json.RawMessage(`true`)}

	assert.NoError(t, d.Validate(), "unknown fields are allowed by default")
	got := problems(t, d.Validate(WithRejectUnknownTypedFields()))
	assertProblem(t, got, "unknown fields: unknownField")
	assertProblem(t, got, "methods[0]: unknown fields: alpha, zeta")
	for _, p := range got {
		assert.NotContains(t, p, "x-ok", "extensions must not be reported")
	}
}

func TestValidationError_Message(t *testing.T) {
	var nilErr *ValidationError
	assert.Equal(t, "invalid document", nilErr.Error())
	assert.EqualError(t, &ValidationError{Problems: []string{"a", "b"}}, "invalid document: a; b")
}
