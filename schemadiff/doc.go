// Package schemadiff computes the structural difference between two JSON Schema trees.
//
// Each side is a Root: a schema plus the Definitions its "#/definitions/..."
// references resolve against. Diff walks both trees in lockstep, resolving
// references on the way, and returns an ordered list of raw operations keyed
// by a JSON-pointer-like path.
//
// This package is intentionally:
// - pure (no IO; both roots are fully materialized by the caller)
// - deterministic (maps are visited in sorted order)
// - total over well-formed input (malformed references surface as *RefError)
//
// Raw operations keep their full payload (old and new bounds, tuple lengths).
// Consumers that want a closed taxonomy implement Visitor, which makes a new
// operation kind a compile error for every consumer rather than a silent drop.
package schemadiff
