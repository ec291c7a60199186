package openrpc

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbindings/rpcdiff/schema"
)

func TestReadFile_JSONAndYAML(t *testing.T) {
	v1 := mustReadFile(t, "testdata/petstore-v1.json")
	v2 := mustReadFile(t, "testdata/petstore-v2.yaml")

	assert.Equal(t, "1.2.6", v1.OpenRPC)
	assert.Equal(t, "1.3.2", v2.OpenRPC)
	assert.Len(t, v1.Methods, 4)
	assert.Len(t, v2.Methods, 4)
	assert.Equal(t, `"pets-team"`, string(v1.Info.Extensions["x-owner"]))

	notify := v2.Methods[2].Params[2].Descriptor
	require.NotNil(t, notify)
	assert.Equal(t, "notify", notify.Name)
	require.NotNil(t, v2.Components)
	assert.NotNil(t, v2.Components.Schemas["Pet"])
}

func TestReadFile_ForcedFormat(t *testing.T) {
	// JSON is valid YAML, so forcing YAML still reads the document.
	doc := mustReadFile(t, "testdata/petstore-v1.json", WithFormat(FormatYAML))
	assert.Equal(t, "Petstore", doc.Info.Title)
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile("testdata/does-not-exist.json")
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "testdata/does-not-exist.json", le.Path)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestReadFile_SyntaxError(t *testing.T) {
	_, err := ReadFile("testdata/broken.json")
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "testdata/broken.json", pe.Path)
	assert.Regexp(t, `^line \d+`, pe.Location)
	assert.Contains(t, err.Error(), "testdata/broken.json")
}

func TestReadFile_Validation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"openrpc": "1.2.6", "info": {"title": "t"}, "methods": []}`), 0o600))

	_, err := ReadFile(path)
	require.NoError(t, err, "validation is opt-in")

	_, err = ReadFile(path, WithValidation())
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Problems, "info.version: required")
	assert.True(t, strings.HasPrefix(err.Error(), path+": "), "expected path prefix, got %q", err.Error())
}

func TestParse_YAMLErrors(t *testing.T) {
	var pe *ParseError

	_, err := Parse([]byte("openrpc: 1.2.6\ninfo: [unclosed\n"), FormatYAML)
	require.ErrorAs(t, err, &pe)
	assert.Regexp(t, `^line \d+`, pe.Location)

	_, err = Parse([]byte("openrpc: 1.2.6\n? [a, b]\n: value\n"), FormatYAML)
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "line 2, column 3", pe.Location)

	_, err = Parse(nil, FormatYAML)
	assert.ErrorAs(t, err, &pe, "empty input")
}

func TestParse_RejectsNonObject(t *testing.T) {
	_, err := Parse([]byte(`[1, 2]`), FormatAuto)
	var pe *ParseError
	assert.ErrorAs(t, err, &pe)
}

func TestParse_UnknownFormat(t *testing.T) {
	_, err := Parse([]byte(`{}`), Format("toml"))
	assert.ErrorContains(t, err, `unknown format "toml"`)
}

func TestParse_YAMLAnchorsAndScalars(t *testing.T) {
	src := `
openrpc: 1.2.6
info: {title: t, version: "1"}
methods:
  - name: m
    params:
      - &p
        name: a
        schema: {type: integer, minimum: 0x10, const: null}
      - *p
`
	doc, err := Parse([]byte(src), FormatYAML)
	require.NoError(t, err)

	params := doc.Methods[0].Params
	require.Len(t, params, 2)
	assert.Equal(t, "a", params[1].Descriptor.Name, "alias should expand")

	s := params[0].Descriptor.Schema
	v, ok := s.Bound(schema.BoundMinimum)
	require.True(t, ok)
	assert.Zero(t, schema.CompareNumbers(v, json.Number("16")), "minimum %s", v)
	assert.Equal(t, "null", string(s.Const))
}

func TestDetectFormat(t *testing.T) {
	cases := []struct {
		path string
		data string
		want Format
	}{
		{"a.json", "openrpc: x", FormatJSON},
		{"a.YML", "{}", FormatYAML},
		{"a.yaml", "{}", FormatYAML},
		{"", "  {\"openrpc\": 1}", FormatJSON},
		{"doc", "openrpc: 1.2.6", FormatYAML},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, detectFormat(c.path, []byte(c.data)), "detectFormat(%q, %q)", c.path, c.data)
	}
}

func TestLineColumn(t *testing.T) {
	data := []byte("ab\ncd\nef")
	assert.Equal(t, "line 2, column 2", lineColumn(data, 4))
	assert.Equal(t, "line 1, column 1", lineColumn(data, 0))
	assert.Equal(t, "line 3, column 3", lineColumn(data, 100))
}

func TestLoader_Load(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	l := NewLoader(WithLogger(logger))

	doc, err := l.Load(context.Background(), "testdata/petstore-v1.json")
	require.NoError(t, err)
	assert.Len(t, doc.Methods, 4)
	assert.Contains(t, logs.String(), "openrpc document parsed")
}

func TestLoader_DanglingDescriptorRef(t *testing.T) {
	_, err := NewLoader().Load(context.Background(), "testdata/dangling-ref.json")
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "testdata/dangling-ref.json", pe.Path)
	assert.Equal(t, "methods[0].params[0]", pe.Location)
	assert.ErrorIs(t, err, ErrUnresolvedDescriptor)
}

func TestLoader_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewLoader().Load(ctx, "testdata/petstore-v1.json")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseError_Message(t *testing.T) {
	err := &ParseError{Path: "a.json", Location: "line 1, column 2", Err: errors.New("bad")}
	assert.EqualError(t, err, "parse a.json at line 1, column 2: bad")

	err = &ParseError{Err: errors.New("bad")}
	assert.EqualError(t, err, "parse: bad")
	assert.Same(t, err.Err, errors.Unwrap(err))
}
