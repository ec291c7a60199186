package openrpc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/openbindings/rpcdiff"
)

// Format selects the document encoding.
type Format string

const (
	// FormatAuto picks JSON or YAML from the file extension, then from the content.
	FormatAuto Format = ""
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

type loadOptions struct {
	format   Format
	validate bool
	vopts    []ValidateOption
	logger   *slog.Logger
}

// LoadOption configures ReadFile and Loader.
type LoadOption func(*loadOptions)

// WithFormat forces the document encoding instead of detecting it.
func WithFormat(f Format) LoadOption {
	return func(o *loadOptions) { o.format = f }
}

// WithValidation runs Document.Validate with opts after parsing.
func WithValidation(opts ...ValidateOption) LoadOption {
	return func(o *loadOptions) {
		o.validate = true
		o.vopts = append(o.vopts, opts...)
	}
}

// WithLogger sets the logger used for debug output. Nil means slog.Default().
func WithLogger(l *slog.Logger) LoadOption {
	return func(o *loadOptions) { o.logger = l }
}

func buildLoadOptions(opts []LoadOption) loadOptions {
	var o loadOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}

// ReadFile reads and parses the OpenRPC document at path.
// Read failures are *LoadError; decode and validation failures are *ParseError
// and *ValidationError.
func ReadFile(path string, opts ...LoadOption) (*Document, error) {
	o := buildLoadOptions(opts)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	format := o.format
	if format == FormatAuto {
		format = detectFormat(path, data)
	}
	doc, err := Parse(data, format)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	if o.validate {
		if err := doc.Validate(o.vopts...); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return doc, nil
}

// Parse decodes data as an OpenRPC document in the given format.
// FormatAuto sniffs the content.
func Parse(data []byte, format Format) (*Document, error) {
	if format == FormatAuto {
		format = detectFormat("", data)
	}
	switch format {
	case FormatJSON:
		return parseJSON(data)
	case FormatYAML:
		converted, err := yamlToJSON(data)
		if err != nil {
			return nil, err
		}
		doc, err := parseJSON(converted)
		if err != nil {
			var pe *ParseError
			if errors.As(err, &pe) && strings.HasPrefix(pe.Location, "line ") {
				// Offsets into the converted JSON mean nothing to the reader.
				pe.Location = ""
			}
			return nil, err
		}
		return doc, nil
	default:
		return nil, &ParseError{Err: fmt.Errorf("unknown format %q", format)}
	}
}

func detectFormat(path string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return FormatJSON
	}
	return FormatYAML
}

func parseJSON(data []byte) (*Document, error) {
	// A generic pass first: syntax errors carry offsets into data itself.
	var top any
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, &ParseError{Location: jsonLocation(data, err), Err: err}
	}
	if _, ok := top.(map[string]any); !ok {
		return nil, &ParseError{Err: errors.New("document must be a JSON object")}
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Location: jsonLocation(nil, err), Err: err}
	}
	return &doc, nil
}

// jsonLocation describes where err occurred. Offsets are only translated to
// line and column when data is the buffer they index.
func jsonLocation(data []byte, err error) string {
	var syn *json.SyntaxError
	if errors.As(err, &syn) && data != nil {
		return lineColumn(data, syn.Offset)
	}
	var typ *json.UnmarshalTypeError
	if errors.As(err, &typ) {
		switch {
		case typ.Field != "":
			return typ.Field
		case data != nil:
			return lineColumn(data, typ.Offset)
		}
	}
	return ""
}

func lineColumn(data []byte, offset int64) string {
	if offset < 0 {
		offset = 0
	}
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	prefix := data[:offset]
	line := bytes.Count(prefix, []byte("\n")) + 1
	col := int(offset) - bytes.LastIndexByte(prefix, '\n')
	return fmt.Sprintf("line %d, column %d", line, col)
}

var yamlLine = regexp.MustCompile(`line (\d+)`)

// yamlToJSON re-encodes a YAML document as JSON. Mapping keys must be scalars.
func yamlToJSON(data []byte) ([]byte, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		loc := ""
		if m := yamlLine.FindStringSubmatch(err.Error()); m != nil {
			loc = "line " + m[1]
		}
		return nil, &ParseError{Location: loc, Err: err}
	}
	if root.Kind == 0 {
		return nil, &ParseError{Err: errors.New("empty document")}
	}
	v, err := yamlValue(&root)
	if err != nil {
		return nil, err
	}
	out, err := json.Marshal(v)
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	return out, nil
}

func yamlValue(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return yamlValue(n.Content[0])
	case yaml.AliasNode:
		return yamlValue(n.Alias)
	case yaml.SequenceNode:
		out := make([]any, len(n.Content))
		for i, c := range n.Content {
			v, err := yamlValue(c)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case yaml.MappingNode:
		out := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, vn := n.Content[i], n.Content[i+1]
			if k.Kind != yaml.ScalarNode {
				return nil, &ParseError{
					Location: fmt.Sprintf("line %d, column %d", k.Line, k.Column),
					Err:      errors.New("mapping key must be a scalar"),
				}
			}
			v, err := yamlValue(vn)
			if err != nil {
				return nil, err
			}
			out[k.Value] = v
		}
		return out, nil
	default:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, &ParseError{Location: fmt.Sprintf("line %d, column %d", n.Line, n.Column), Err: err}
		}
		return v, nil
	}
}

// Loader reads OpenRPC files into comparable documents. It implements rpcdiff.Loader.
type Loader struct {
	opts []LoadOption
}

var _ rpcdiff.Loader = (*Loader)(nil)

// NewLoader returns a Loader applying opts to every file it reads.
func NewLoader(opts ...LoadOption) *Loader {
	return &Loader{opts: opts}
}

// Load reads, parses and extracts the document at path.
func (l *Loader) Load(ctx context.Context, path string) (*rpcdiff.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	o := buildLoadOptions(l.opts)
	start := time.Now()
	doc, err := ReadFile(path, l.opts...)
	if err != nil {
		return nil, err
	}
	out, err := doc.Extract()
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	o.logger.Debug("openrpc document parsed", "path", path, "openrpc", doc.OpenRPC,
		"title", doc.Info.Title, "methods", len(out.Methods), "definitions", len(out.Definitions),
		"elapsed", time.Since(start))
	return out, nil
}
