// Package schema models the JSON Schema trees carried by RPC content descriptors.
//
// A Schema is either a boolean schema (true matches everything, false matches
// nothing) or an object schema with explicit slots for every keyword that can
// hold nested schemas. Keywords the package does not model are preserved in
// Schema.Keywords so documents survive a decode/encode round trip.
//
// # References
//
// Each source document scopes its own definitions (OpenRPC keeps them under
// "#/components/schemas/"). NormalizeRefs rewrites those pointers into the
// canonical "#/definitions/" namespace so that two trees loaded from different
// documents can each be resolved against their own Definitions the same way.
// References to other documents are left untouched; they are never resolved.
package schema
