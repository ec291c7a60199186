package schemadiff

import (
	"sort"

	json "github.com/goccy/go-json"

	"github.com/openbindings/rpcdiff/schema"
)

// flatten merges the allOf branches of s into a single schema. A combination
// no instance can satisfy collapses to the never-matching schema.
func (w *walker) flatten(side Side, path string, s *schema.Schema) (*schema.Schema, error) {
	return w.flattenSeen(side, path, s, map[*schema.Schema]bool{})
}

func (w *walker) flattenSeen(side Side, path string, s *schema.Schema, seen map[*schema.Schema]bool) (*schema.Schema, error) {
	if s.Bool != nil || len(s.AllOf) == 0 {
		return s, nil
	}
	seen[s] = true
	defer delete(seen, s)

	acc := *s
	acc.AllOf = nil
	for _, branch := range s.AllOf {
		b, err := w.resolve(side, path, branch)
		if err != nil {
			return nil, err
		}
		if seen[b] {
			return nil, &RefError{Side: side, Path: path, Ref: branch.Ref, Err: ErrRefCycle}
		}
		if b, err = w.flattenSeen(side, path, b, seen); err != nil {
			return nil, err
		}
		if !mergeBranch(&acc, b) {
			return neverSchema, nil
		}
	}
	return &acc, nil
}

// mergeBranch conjoins branch into acc. It never mutates maps or slices acc
// shares with its source; every touched collection is rebuilt.
//
// Keywords handled:
//   - type:                 intersection (integer is a subtype of number)
//   - const/enum:           intersection of the literal sets
//   - properties:           union; overlapping keys become allOf pairs
//   - required:             union
//   - bounds:               most restrictive wins (min up, max down)
//   - anyOf/oneOf:          cross product of alternatives
//   - if/then/else:         a second conditional is rewritten as an anyOf pair
//   - remaining sub-schemas: allOf pairs
//
// It reports false when the conjunction is unsatisfiable.
func mergeBranch(acc, branch *schema.Schema) bool {
	if branch.Bool != nil {
		return *branch.Bool
	}

	if branch.Type != nil {
		if acc.Type != nil {
			inter := intersectTypes(acc.Type, branch.Type)
			if len(inter) == 0 {
				return false
			}
			acc.Type = inter
		} else {
			acc.Type = append(schema.TypeSet{}, branch.Type...)
		}
	}

	if !mergeLiterals(acc, branch) {
		return false
	}

	acc.Properties = mergeSchemaMaps(acc.Properties, branch.Properties)
	acc.PatternProperties = mergeSchemaMaps(acc.PatternProperties, branch.PatternProperties)
	acc.AdditionalProperties = conjoin(acc.AdditionalProperties, branch.AdditionalProperties)
	acc.PropertyNames = conjoin(acc.PropertyNames, branch.PropertyNames)
	acc.AdditionalItems = conjoin(acc.AdditionalItems, branch.AdditionalItems)
	acc.Contains = conjoin(acc.Contains, branch.Contains)
	acc.Items = mergeItems(acc.Items, branch.Items)

	if len(branch.Required) > 0 {
		set := stringSet(acc.Required)
		for _, p := range branch.Required {
			set[p] = true
		}
		acc.Required = sortedSet(set)
	}

	if len(branch.Bounds) > 0 {
		bounds := make(map[schema.Bound]json.Number, len(acc.Bounds)+len(branch.Bounds))
		for k, v := range acc.Bounds {
			bounds[k] = v
		}
		for k, v := range branch.Bounds {
			cur, ok := bounds[k]
			switch {
			case !ok:
				bounds[k] = v
			case k.IsLower() && schema.CompareNumbers(v, cur) > 0:
				bounds[k] = v
			case !k.IsLower() && schema.CompareNumbers(v, cur) < 0:
				bounds[k] = v
			}
		}
		acc.Bounds = bounds
	}

	switch {
	case branch.Not == nil:
	case acc.Not == nil:
		acc.Not = branch.Not
	default:
		acc.Not = &schema.Schema{AnyOf: []*schema.Schema{acc.Not, branch.Not}}
	}

	acc.AnyOf = cross(acc.AnyOf, branch.AnyOf)
	acc.OneOf = cross(acc.OneOf, branch.OneOf)

	switch {
	case branch.If == nil:
	case acc.If == nil:
		acc.If, acc.Then, acc.Else = branch.If, branch.Then, branch.Else
	default:
		acc.AnyOf = cross(acc.AnyOf, []*schema.Schema{
			{AllOf: []*schema.Schema{branch.If, orAlways(branch.Then)}},
			{AllOf: []*schema.Schema{{Not: branch.If}, orAlways(branch.Else)}},
		})
	}

	if len(branch.Keywords) > 0 {
		kw := make(map[string]json.RawMessage, len(acc.Keywords)+len(branch.Keywords))
		for k, v := range branch.Keywords {
			kw[k] = v
		}
		for k, v := range acc.Keywords {
			kw[k] = v
		}
		acc.Keywords = kw
	}
	return true
}

func mergeLiterals(acc, branch *schema.Schema) bool {
	bl, ok := literals(branch)
	if !ok {
		return true
	}
	al, ok := literals(acc)
	if !ok {
		acc.Const, acc.Enum = branch.Const, branch.Enum
		return true
	}
	var keep []string
	for k := range al {
		if _, ok := bl[k]; ok {
			keep = append(keep, k)
		}
	}
	sort.Strings(keep)
	switch len(keep) {
	case 0:
		return false
	case 1:
		acc.Const, acc.Enum = json.RawMessage(keep[0]), nil
	default:
		acc.Const = nil
		acc.Enum = make([]json.RawMessage, len(keep))
		for i, k := range keep {
			acc.Enum[i] = json.RawMessage(k)
		}
	}
	return true
}

func mergeSchemaMaps(a, b map[string]*schema.Schema) map[string]*schema.Schema {
	if len(b) == 0 {
		return a
	}
	out := make(map[string]*schema.Schema, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = conjoin(out[k], v)
	}
	return out
}

func mergeItems(a, b *schema.Items) *schema.Items {
	switch {
	case b == nil:
		return a
	case a == nil:
		return b
	case !a.IsTuple() && !b.IsTuple():
		return &schema.Items{Schema: conjoin(a.Schema, b.Schema)}
	case a.IsTuple() && b.IsTuple():
		n := max(len(a.Tuple), len(b.Tuple))
		out := make([]*schema.Schema, n)
		for i := range out {
			var x, y *schema.Schema
			if i < len(a.Tuple) {
				x = a.Tuple[i]
			}
			if i < len(b.Tuple) {
				y = b.Tuple[i]
			}
			out[i] = conjoin(x, y)
		}
		return &schema.Items{Tuple: out}
	}
	tuple, one := a, b
	if !a.IsTuple() {
		tuple, one = b, a
	}
	out := make([]*schema.Schema, len(tuple.Tuple))
	for i, t := range tuple.Tuple {
		out[i] = conjoin(t, one.Schema)
	}
	return &schema.Items{Tuple: out}
}

// conjoin returns a schema matching instances both a and b match. nil means absent.
func conjoin(a, b *schema.Schema) *schema.Schema {
	switch {
	case a == nil:
		return b
	case b == nil || a == b:
		return a
	}
	return &schema.Schema{AllOf: []*schema.Schema{a, b}}
}

func cross(a, b []*schema.Schema) []*schema.Schema {
	if len(a) == 0 {
		return b
	}
	if len(b) == 0 {
		return a
	}
	out := make([]*schema.Schema, 0, len(a)*len(b))
	for _, x := range a {
		for _, y := range b {
			out = append(out, &schema.Schema{AllOf: []*schema.Schema{x, y}})
		}
	}
	return out
}

func orAlways(s *schema.Schema) *schema.Schema {
	if s == nil {
		return alwaysSchema
	}
	return s
}

// intersectTypes computes the intersection of two type sets, where a side that
// lists "number" also accepts every "integer".
func intersectTypes(a, b schema.TypeSet) schema.TypeSet {
	aNum, bNum := a.Contains(schema.TypeNumber), b.Contains(schema.TypeNumber)
	aInt, bInt := aNum || a.Contains(schema.TypeInteger), bNum || b.Contains(schema.TypeInteger)

	out := schema.TypeSet{}
	for _, t := range schema.AllTypes {
		switch t {
		case schema.TypeNumber:
			if aNum && bNum {
				out = append(out, t)
			}
		case schema.TypeInteger:
			if aInt && bInt && !(aNum && bNum) {
				out = append(out, t)
			}
		default:
			if a.Contains(t) && b.Contains(t) {
				out = append(out, t)
			}
		}
	}
	return out
}
