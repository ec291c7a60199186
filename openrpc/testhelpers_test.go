package openrpc

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustUnmarshalJSON[T any](t *testing.T, b []byte, v *T) {
	t.Helper()
	require.NoError(t, json.Unmarshal(b, v))
}

func mustMarshalJSON(t *testing.T, v any) []byte {
	t.Helper()
	out, err := json.Marshal(v)
	require.NoError(t, err)
	return out
}

func mustRoundTripToMap[T any](t *testing.T, in []byte, v *T) map[string]any {
	t.Helper()
	mustUnmarshalJSON(t, in, v)
	var m map[string]any
	require.NoError(t, json.Unmarshal(mustMarshalJSON(t, v), &m))
	return m
}

func assertPreservedExtensionAndUnknown(t *testing.T, outMap map[string]any) {
	t.Helper()
	assert.Equal(t, "extensionFieldValue", outMap["x-extensionField"])
	assert.Equal(t, map[string]any{"value": "unknownFieldValue"}, outMap["unknownField"])
}

func mustReadFile(t *testing.T, path string, opts ...LoadOption) *Document {
	t.Helper()
	doc, err := ReadFile(path, opts...)
	require.NoError(t, err, "read %s", path)
	return doc
}
