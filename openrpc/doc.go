// Package openrpc reads OpenRPC documents and extracts the method signatures
// rpcdiff compares.
//
// Documents are accepted as JSON or YAML. YAML is converted to JSON before
// decoding, so both encodings produce identical values. Every typed object
// preserves fields it does not model: keys starting with "x-" land in
// LosslessFields.Extensions and all others in LosslessFields.Unknown, and
// both are written back by MarshalJSON.
//
// Extract turns a Document into an rpcdiff.Document. It resolves content
// descriptor references ("#/components/contentDescriptors/...") and rewrites
// schema references into the "#/definitions/" namespace so that both sides of
// a comparison resolve against their own components.
//
// Validate is opt-in (see WithValidation) and checks document shape only.
package openrpc
