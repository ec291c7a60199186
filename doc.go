// Package rpcdiff reports whether two versions of an OpenRPC API are compatible.
//
// Methods are matched by name. For every method present on both sides the
// parameters are compared by position and the results are compared directly.
// Each comparison yields a structural schema diff and a requiredness diff.
// Methods whose descriptors all compare equal are equivalent; the rest carry
// a MethodChange describing what moved.
//
// # Quick Start
//
//	loader := openrpc.NewLoader()
//	sum, err := rpcdiff.CompareFiles(ctx, loader, "v1.json", "v2.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := report.Text(os.Stdout, sum); err != nil {
//	    log.Fatal(err)
//	}
//
// WithMethods restricts a comparison to method names matching glob patterns:
//
//	sum, err := rpcdiff.CompareFiles(ctx, loader, "v1.json", "v2.json",
//	    rpcdiff.WithMethods("pet_*"))
//
// # Padding
//
// When one side declares more parameters than the other, the shorter list is
// padded with the absent descriptor (see Absent): a not-required descriptor
// whose schema matches nothing. Extra parameters therefore surface as type
// additions or removals instead of being ignored. A missing result is padded
// the same way.
//
// # Errors
//
// Comparison never panics on malformed schemas. An unresolved or cyclic $ref
// surfaces as a *schemadiff.RefError wrapped in a *MethodError naming the
// method and parameter position. Failures to load a document are wrapped in a
// *SideError naming the side and path.
//
// # Concurrency
//
// Documents are read-only during Compare, so methods may be diffed in parallel
// (see WithConcurrency). The Summary does not depend on the degree of
// parallelism.
//
// # Subpackages
//
//   - schema: JSON Schema tree, definitions and $ref normalization
//   - schemadiff: structural diff between two schema trees
//   - canonicaljson: RFC 8785 (JCS) deterministic JSON serialization
//   - openrpc: OpenRPC document loading, validation and method extraction
//   - report: JSON, YAML and text renderers for a Summary
package rpcdiff
