package schema

import (
	"strings"
)

// DefinitionsPrefix is the canonical namespace every local reference is rewritten into.
const DefinitionsPrefix = "#/definitions/"

// documentPrefixes are the document-scoped namespaces that NormalizeRefs understands.
var documentPrefixes = []string{
	"#/components/schemas/",
	"#/$defs/",
}

// CanonicalRef maps a document-scoped reference into the canonical namespace.
// References with any other shape are returned unchanged.
func CanonicalRef(ref string) string {
	for _, p := range documentPrefixes {
		if strings.HasPrefix(ref, p) {
			return DefinitionsPrefix + strings.TrimPrefix(ref, p)
		}
	}
	return ref
}

// NormalizeRefs rewrites, in place, every reference in s that points into the
// document's own components so it points into DefinitionsPrefix instead.
// Every sub-schema is visited exactly once. Normalizing twice is a no-op.
func NormalizeRefs(s *Schema) {
	if s == nil {
		return
	}
	if s.Ref != "" {
		s.Ref = CanonicalRef(s.Ref)
	}
	s.Children(NormalizeRefs)
}

// Definitions maps a definition name to its schema. Each document owns its own Definitions.
type Definitions map[string]*Schema

// Normalize applies NormalizeRefs to every definition.
func (d Definitions) Normalize() {
	for _, s := range d {
		NormalizeRefs(s)
	}
}

// Clone returns a deep copy of d.
func (d Definitions) Clone() Definitions {
	if d == nil {
		return nil
	}
	out := make(Definitions, len(d))
	for k, v := range d {
		out[k] = v.Clone()
	}
	return out
}

// DefinitionName returns the definition a canonical reference points to.
// It reports false for references outside DefinitionsPrefix and for pointers
// that reach below a definition (e.g. "#/definitions/A/properties/b").
func DefinitionName(ref string) (string, bool) {
	if !strings.HasPrefix(ref, DefinitionsPrefix) {
		return "", false
	}
	name := strings.TrimPrefix(ref, DefinitionsPrefix)
	if name == "" || strings.Contains(name, "/") {
		return "", false
	}
	name = strings.ReplaceAll(name, "~1", "/")
	name = strings.ReplaceAll(name, "~0", "~")
	return name, true
}

// Resolve looks up the definition a canonical reference points to.
func (d Definitions) Resolve(ref string) (*Schema, bool) {
	name, ok := DefinitionName(ref)
	if !ok {
		return nil, false
	}
	s, ok := d[name]
	if !ok || s == nil {
		return nil, false
	}
	return s, true
}
