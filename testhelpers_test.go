package rpcdiff

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"github.com/openbindings/rpcdiff/schema"
)

func mustSchema(t *testing.T, src string) *schema.Schema {
	t.Helper()
	var s schema.Schema
	require.NoError(t, json.Unmarshal([]byte(src), &s), "schema %s", src)
	return &s
}

func param(t *testing.T, name string, required bool, src string) *ContentDescriptor {
	t.Helper()
	return &ContentDescriptor{Name: name, Required: required, Schema: mustSchema(t, src)}
}

func method(name string, result *ContentDescriptor, params ...*ContentDescriptor) *Signature {
	return &Signature{Name: name, Params: params, Result: result}
}

func document(defs schema.Definitions, methods ...*Signature) *Document {
	d := &Document{Definitions: defs, Methods: map[string]*Signature{}}
	for _, m := range methods {
		d.Methods[m.Name] = m
	}
	return d
}

// swapRequired flips lost and gained.
func swapRequired(r RequiredChange) RequiredChange {
	switch r {
	case RequiredLost:
		return RequiredGained
	case RequiredGained:
		return RequiredLost
	}
	return r
}
