package openrpc

import (
	"strings"

	json "github.com/goccy/go-json"

	"github.com/openbindings/rpcdiff/schema"
)

// ContentDescriptorPrefix is the namespace content descriptor references point into.
const ContentDescriptorPrefix = "#/components/contentDescriptors/"

var (
	knownDocumentSet = knownSet(
		"openrpc", "info", "servers", "methods", "components", "externalDocs",
	)
	knownInfoSet = knownSet(
		"title", "description", "termsOfService", "version", "contact", "license",
	)
	knownMethodSet = knownSet(
		"name", "tags", "summary", "description", "externalDocs", "params", "result",
		"deprecated", "servers", "errors", "links", "paramStructure", "examples",
	)
	knownContentDescriptorSet = knownSet(
		"name", "summary", "description", "required", "schema", "deprecated",
	)
	knownComponentsSet = knownSet(
		"contentDescriptors", "schemas", "examples", "links", "errors",
		"examplePairingObjects", "tags",
	)
)

// ParamStructure values for Method.ParamStructure.
const (
	ParamStructureByName     = "by-name"
	ParamStructureByPosition = "by-position"
	ParamStructureEither     = "either"
)

// Document is an OpenRPC document.
type Document struct {
	OpenRPC      string          `json:"openrpc"`
	Info         Info            `json:"info"`
	Servers      json.RawMessage `json:"servers,omitempty"`
	Methods      []Method        `json:"methods"`
	Components   *Components     `json:"components,omitempty"`
	ExternalDocs json.RawMessage `json:"externalDocs,omitempty"`

	LosslessFields
}

type documentWire struct {
	OpenRPC      string          `json:"openrpc"`
	Info         Info            `json:"info"`
	Servers      json.RawMessage `json:"servers,omitempty"`
	Methods      []Method        `json:"methods"`
	Components   *Components     `json:"components,omitempty"`
	ExternalDocs json.RawMessage `json:"externalDocs,omitempty"`
}

func (d *Document) UnmarshalJSON(b []byte) error {
	var w documentWire
	raw, err := unmarshalLossless(b, &w)
	if err != nil {
		return err
	}
	*d = documentFrom(w)
	d.Extensions, d.Unknown = splitLossless(raw, knownDocumentSet)
	return nil
}

func (d Document) MarshalJSON() ([]byte, error) {
	w := documentWire{
		OpenRPC:      d.OpenRPC,
		Info:         d.Info,
		Servers:      d.Servers,
		Methods:      d.Methods,
		Components:   d.Components,
		ExternalDocs: d.ExternalDocs,
	}
	return marshalLossless(d.Unknown, d.Extensions, w)
}

func documentFrom(w documentWire) Document {
	return Document{
		OpenRPC:      w.OpenRPC,
		Info:         w.Info,
		Servers:      w.Servers,
		Methods:      w.Methods,
		Components:   w.Components,
		ExternalDocs: w.ExternalDocs,
	}
}

// Info is the document's metadata object.
type Info struct {
	Title          string          `json:"title"`
	Description    string          `json:"description,omitempty"`
	TermsOfService string          `json:"termsOfService,omitempty"`
	Version        string          `json:"version"`
	Contact        json.RawMessage `json:"contact,omitempty"`
	License        json.RawMessage `json:"license,omitempty"`

	LosslessFields
}

type infoWire struct {
	Title          string          `json:"title"`
	Description    string          `json:"description,omitempty"`
	TermsOfService string          `json:"termsOfService,omitempty"`
	Version        string          `json:"version"`
	Contact        json.RawMessage `json:"contact,omitempty"`
	License        json.RawMessage `json:"license,omitempty"`
}

func (i *Info) UnmarshalJSON(b []byte) error {
	var w infoWire
	raw, err := unmarshalLossless(b, &w)
	if err != nil {
		return err
	}
	*i = Info{
		Title:          w.Title,
		Description:    w.Description,
		TermsOfService: w.TermsOfService,
		Version:        w.Version,
		Contact:        w.Contact,
		License:        w.License,
	}
	i.Extensions, i.Unknown = splitLossless(raw, knownInfoSet)
	return nil
}

func (i Info) MarshalJSON() ([]byte, error) {
	w := infoWire{
		Title:          i.Title,
		Description:    i.Description,
		TermsOfService: i.TermsOfService,
		Version:        i.Version,
		Contact:        i.Contact,
		License:        i.License,
	}
	return marshalLossless(i.Unknown, i.Extensions, w)
}

// Method describes one callable method. Params and Result may be inline
// content descriptors or references into Components.ContentDescriptors.
type Method struct {
	Name           string                   `json:"name"`
	Tags           json.RawMessage          `json:"tags,omitempty"`
	Summary        string                   `json:"summary,omitempty"`
	Description    string                   `json:"description,omitempty"`
	ExternalDocs   json.RawMessage          `json:"externalDocs,omitempty"`
	Params         []ContentDescriptorOrRef `json:"params"`
	Result         *ContentDescriptorOrRef  `json:"result,omitempty"`
	Deprecated     bool                     `json:"deprecated,omitempty"`
	Servers        json.RawMessage          `json:"servers,omitempty"`
	Errors         json.RawMessage          `json:"errors,omitempty"`
	Links          json.RawMessage          `json:"links,omitempty"`
	ParamStructure string                   `json:"paramStructure,omitempty"`
	Examples       json.RawMessage          `json:"examples,omitempty"`

	LosslessFields
}

type methodWire struct {
	Name           string                   `json:"name"`
	Tags           json.RawMessage          `json:"tags,omitempty"`
	Summary        string                   `json:"summary,omitempty"`
	Description    string                   `json:"description,omitempty"`
	ExternalDocs   json.RawMessage          `json:"externalDocs,omitempty"`
	Params         []ContentDescriptorOrRef `json:"params"`
	Result         *ContentDescriptorOrRef  `json:"result,omitempty"`
	Deprecated     bool                     `json:"deprecated,omitempty"`
	Servers        json.RawMessage          `json:"servers,omitempty"`
	Errors         json.RawMessage          `json:"errors,omitempty"`
	Links          json.RawMessage          `json:"links,omitempty"`
	ParamStructure string                   `json:"paramStructure,omitempty"`
	Examples       json.RawMessage          `json:"examples,omitempty"`
}

func (m *Method) UnmarshalJSON(b []byte) error {
	var w methodWire
	raw, err := unmarshalLossless(b, &w)
	if err != nil {
		return err
	}
	*m = Method{
		Name:           w.Name,
		Tags:           w.Tags,
		Summary:        w.Summary,
		Description:    w.Description,
		ExternalDocs:   w.ExternalDocs,
		Params:         w.Params,
		Result:         w.Result,
		Deprecated:     w.Deprecated,
		Servers:        w.Servers,
		Errors:         w.Errors,
		Links:          w.Links,
		ParamStructure: w.ParamStructure,
		Examples:       w.Examples,
	}
	m.Extensions, m.Unknown = splitLossless(raw, knownMethodSet)
	return nil
}

func (m Method) MarshalJSON() ([]byte, error) {
	params := m.Params
	if params == nil {
		params = []ContentDescriptorOrRef{}
	}
	w := methodWire{
		Name:           m.Name,
		Tags:           m.Tags,
		Summary:        m.Summary,
		Description:    m.Description,
		ExternalDocs:   m.ExternalDocs,
		Params:         params,
		Result:         m.Result,
		Deprecated:     m.Deprecated,
		Servers:        m.Servers,
		Errors:         m.Errors,
		Links:          m.Links,
		ParamStructure: m.ParamStructure,
		Examples:       m.Examples,
	}
	return marshalLossless(m.Unknown, m.Extensions, w)
}

// ContentDescriptor is a named, optionally required schema.
type ContentDescriptor struct {
	Name        string         `json:"name"`
	Summary     string         `json:"summary,omitempty"`
	Description string         `json:"description,omitempty"`
	Required    bool           `json:"required,omitempty"`
	Schema      *schema.Schema `json:"schema"`
	Deprecated  bool           `json:"deprecated,omitempty"`

	LosslessFields
}

type contentDescriptorWire struct {
	Name        string         `json:"name"`
	Summary     string         `json:"summary,omitempty"`
	Description string         `json:"description,omitempty"`
	Required    bool           `json:"required,omitempty"`
	Schema      *schema.Schema `json:"schema"`
	Deprecated  bool           `json:"deprecated,omitempty"`
}

func (c *ContentDescriptor) UnmarshalJSON(b []byte) error {
	var w contentDescriptorWire
	raw, err := unmarshalLossless(b, &w)
	if err != nil {
		return err
	}
	*c = ContentDescriptor{
		Name:        w.Name,
		Summary:     w.Summary,
		Description: w.Description,
		Required:    w.Required,
		Schema:      w.Schema,
		Deprecated:  w.Deprecated,
	}
	c.Extensions, c.Unknown = splitLossless(raw, knownContentDescriptorSet)
	return nil
}

func (c ContentDescriptor) MarshalJSON() ([]byte, error) {
	w := contentDescriptorWire{
		Name:        c.Name,
		Summary:     c.Summary,
		Description: c.Description,
		Required:    c.Required,
		Schema:      c.Schema,
		Deprecated:  c.Deprecated,
	}
	return marshalLossless(c.Unknown, c.Extensions, w)
}

// ContentDescriptorOrRef is either an inline ContentDescriptor or a $ref to
// one in Components.ContentDescriptors. If both are set, Ref wins when marshaling.
type ContentDescriptorOrRef struct {
	Ref        string
	Descriptor *ContentDescriptor

	// RefExtensions preserves x-* fields next to $ref.
	RefExtensions map[string]json.RawMessage
}

// IsRef reports whether this is a reference.
func (c ContentDescriptorOrRef) IsRef() bool {
	return c.Ref != ""
}

// Resolve returns the descriptor, following Ref into components when needed.
// It returns nil if the reference cannot be resolved.
func (c ContentDescriptorOrRef) Resolve(components *Components) *ContentDescriptor {
	if !c.IsRef() {
		return c.Descriptor
	}
	if !strings.HasPrefix(c.Ref, ContentDescriptorPrefix) || components == nil {
		return nil
	}
	name := strings.TrimPrefix(c.Ref, ContentDescriptorPrefix)
	if name == "" {
		return nil
	}
	if cd, ok := components.ContentDescriptors[name]; ok {
		return &cd
	}
	return nil
}

func (c *ContentDescriptorOrRef) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if refRaw, ok := raw["$ref"]; ok {
		var ref string
		if err := json.Unmarshal(refRaw, &ref); err != nil {
			return err
		}
		out := ContentDescriptorOrRef{Ref: ref}
		for k, v := range raw {
			if strings.HasPrefix(k, "x-") {
				if out.RefExtensions == nil {
					out.RefExtensions = map[string]json.RawMessage{}
				}
				out.RefExtensions[k] = v
			}
		}
		*c = out
		return nil
	}

	var cd ContentDescriptor
	if err := json.Unmarshal(b, &cd); err != nil {
		return err
	}
	*c = ContentDescriptorOrRef{Descriptor: &cd}
	return nil
}

func (c ContentDescriptorOrRef) MarshalJSON() ([]byte, error) {
	if c.Ref != "" {
		out := map[string]json.RawMessage{}
		for k, v := range c.RefExtensions {
			out[k] = v
		}
		refBytes, err := json.Marshal(c.Ref)
		if err != nil {
			return nil, err
		}
		out["$ref"] = refBytes
		return json.Marshal(out)
	}
	if c.Descriptor != nil {
		return json.Marshal(c.Descriptor)
	}
	return []byte("null"), nil
}

// Components holds reusable objects. Only schemas and content descriptors
// take part in comparison; the rest are preserved as raw JSON.
type Components struct {
	ContentDescriptors    map[string]ContentDescriptor `json:"contentDescriptors,omitempty"`
	Schemas               schema.Definitions           `json:"schemas,omitempty"`
	Examples              json.RawMessage              `json:"examples,omitempty"`
	Links                 json.RawMessage              `json:"links,omitempty"`
	Errors                json.RawMessage              `json:"errors,omitempty"`
	ExamplePairingObjects json.RawMessage              `json:"examplePairingObjects,omitempty"`
	Tags                  json.RawMessage              `json:"tags,omitempty"`

	LosslessFields
}

type componentsWire struct {
	ContentDescriptors    map[string]ContentDescriptor `json:"contentDescriptors,omitempty"`
	Schemas               schema.Definitions           `json:"schemas,omitempty"`
	Examples              json.RawMessage              `json:"examples,omitempty"`
	Links                 json.RawMessage              `json:"links,omitempty"`
	Errors                json.RawMessage              `json:"errors,omitempty"`
	ExamplePairingObjects json.RawMessage              `json:"examplePairingObjects,omitempty"`
	Tags                  json.RawMessage              `json:"tags,omitempty"`
}

func (c *Components) UnmarshalJSON(b []byte) error {
	var w componentsWire
	raw, err := unmarshalLossless(b, &w)
	if err != nil {
		return err
	}
	*c = Components{
		ContentDescriptors:    w.ContentDescriptors,
		Schemas:               w.Schemas,
		Examples:              w.Examples,
		Links:                 w.Links,
		Errors:                w.Errors,
		ExamplePairingObjects: w.ExamplePairingObjects,
		Tags:                  w.Tags,
	}
	c.Extensions, c.Unknown = splitLossless(raw, knownComponentsSet)
	return nil
}

func (c Components) MarshalJSON() ([]byte, error) {
	w := componentsWire{
		ContentDescriptors:    c.ContentDescriptors,
		Schemas:               c.Schemas,
		Examples:              c.Examples,
		Links:                 c.Links,
		Errors:                c.Errors,
		ExamplePairingObjects: c.ExamplePairingObjects,
		Tags:                  c.Tags,
	}
	return marshalLossless(c.Unknown, c.Extensions, w)
}
