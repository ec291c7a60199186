package openrpc

import (
	"strings"

	json "github.com/goccy/go-json"
)

// LosslessFields is embedded in every typed OpenRPC struct to preserve JSON
// fields the package does not model. Extensions holds keys starting with
// "x-"; Unknown holds every other unrecognised key. Typed fields win over
// colliding entries when marshaling.
//
// Each lossless type has a parallel wire struct; adding a field means
// updating both.
type LosslessFields struct {
	Extensions map[string]json.RawMessage `json:"-"`
	Unknown    map[string]json.RawMessage `json:"-"`
}

// splitLossless separates the keys of raw that are not in known into
// extensions ("x-" prefix) and unknown.
func splitLossless(raw map[string]json.RawMessage, known map[string]struct{}) (extensions, unknown map[string]json.RawMessage) {
	for k, v := range raw {
		if _, ok := known[k]; ok {
			continue
		}
		if strings.HasPrefix(k, "x-") {
			if extensions == nil {
				extensions = map[string]json.RawMessage{}
			}
			extensions[k] = v
			continue
		}
		if unknown == nil {
			unknown = map[string]json.RawMessage{}
		}
		unknown[k] = v
	}
	return extensions, unknown
}

func knownSet(keys ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		out[k] = struct{}{}
	}
	return out
}

// unmarshalLossless decodes b into the wire value and returns the raw key map
// for splitLossless.
func unmarshalLossless(b []byte, wire any) (map[string]json.RawMessage, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(b, wire); err != nil {
		return nil, err
	}
	return raw, nil
}

// marshalLossless merges unknown and extensions with the typed view; known fields win.
func marshalLossless(unknown, extensions map[string]json.RawMessage, typed any) ([]byte, error) {
	out := map[string]json.RawMessage{}
	for k, v := range unknown {
		out[k] = v
	}
	for k, v := range extensions {
		out[k] = v
	}

	knownBytes, err := json.Marshal(typed)
	if err != nil {
		return nil, err
	}
	var known map[string]json.RawMessage
	if err := json.Unmarshal(knownBytes, &known); err != nil {
		return nil, err
	}
	for k, v := range known {
		out[k] = v
	}
	return json.Marshal(out)
}
