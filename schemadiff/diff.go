package schemadiff

import (
	"sort"
	"strconv"
	"strings"

	"github.com/openbindings/rpcdiff/schema"
)

// Root is a schema together with the definitions its references resolve against.
// A nil Schema is treated as the always-matching schema.
type Root struct {
	Schema      *schema.Schema
	Definitions schema.Definitions
}

// Diff returns the ordered structural changes that turn left into right.
// An empty result means the trees are structurally identical once references are resolved.
//
// A reference that re-enters a (left, right) pair already being compared
// contributes nothing further: every difference below it is reported at the
// first expansion.
func Diff(left, right Root) ([]Change, error) {
	w := &walker{
		defs:   map[Side]schema.Definitions{Left: left.Definitions, Right: right.Definitions},
		active: map[visit]bool{},
	}
	if err := w.diff("", left.Schema, right.Schema); err != nil {
		return nil, err
	}
	return w.changes, nil
}

var (
	alwaysSchema = &schema.Schema{}
	neverSchema  = schema.Never()
)

type visit struct {
	left, right *schema.Schema
}

type walker struct {
	defs    map[Side]schema.Definitions
	active  map[visit]bool
	changes []Change
}

func (w *walker) emit(path string, op Op) {
	w.changes = append(w.changes, Change{Path: path, Op: op})
}

func (w *walker) diff(path string, l, r *schema.Schema) error {
	l, err := w.resolve(Left, path, l)
	if err != nil {
		return err
	}
	r, err = w.resolve(Right, path, r)
	if err != nil {
		return err
	}

	key := visit{left: l, right: r}
	if w.active[key] {
		return nil
	}
	w.active[key] = true
	defer delete(w.active, key)

	if l, err = w.flatten(Left, path, l); err != nil {
		return err
	}
	if r, err = w.flatten(Right, path, r); err != nil {
		return err
	}
	l, r = objectView(l), objectView(r)

	if isSplit(l) || isSplit(r) {
		return w.diffVariants(path, l, r)
	}
	if l.IsNever() || r.IsNever() {
		w.diffTypes(path, l, r)
		return nil
	}

	w.diffTypes(path, l, r)
	w.diffLiterals(path, l, r)
	if err := w.diffProperties(path, l, r); err != nil {
		return err
	}
	w.diffRequired(path, l, r)
	w.diffRanges(path, l, r)
	if err := w.diffArrays(path, l, r); err != nil {
		return err
	}
	if err := w.diffObjectSlots(path, l, r); err != nil {
		return err
	}
	return w.diffConditionals(path, l, r)
}

// resolve follows $ref until it reaches a schema without one. Sibling keywords of
// a $ref are ignored, as in draft-07.
func (w *walker) resolve(side Side, path string, s *schema.Schema) (*schema.Schema, error) {
	if s == nil {
		return alwaysSchema, nil
	}
	var seen map[string]bool
	for s.Bool == nil && s.Ref != "" {
		if seen[s.Ref] {
			return nil, &RefError{Side: side, Path: path, Ref: s.Ref, Err: ErrRefCycle}
		}
		if seen == nil {
			seen = map[string]bool{}
		}
		seen[s.Ref] = true
		target, ok := w.defs[side].Resolve(s.Ref)
		if !ok {
			return nil, &RefError{Side: side, Path: path, Ref: s.Ref, Err: ErrUnresolvedRef}
		}
		s = target
	}
	return s, nil
}

// objectView maps the boolean schema true onto an empty object schema.
func objectView(s *schema.Schema) *schema.Schema {
	if s.Bool != nil && *s.Bool {
		return alwaysSchema
	}
	return s
}

func isSplit(s *schema.Schema) bool {
	return s.Bool == nil && (len(s.AnyOf) > 0 || len(s.OneOf) > 0)
}

// variants returns the alternatives of a split schema. Keywords beside the
// combinator apply to every alternative, so they are folded into each one.
func variants(s *schema.Schema) (string, []*schema.Schema) {
	var key string
	var list []*schema.Schema
	base := *s
	switch {
	case len(s.AnyOf) > 0:
		key, list = "anyOf", s.AnyOf
		base.AnyOf = nil
	case len(s.OneOf) > 0:
		key, list = "oneOf", s.OneOf
		base.OneOf = nil
	default:
		return "", []*schema.Schema{s}
	}
	if base.IsAlways() {
		return key, list
	}
	out := make([]*schema.Schema, len(list))
	for i, v := range list {
		b := base
		out[i] = &schema.Schema{AllOf: []*schema.Schema{&b, v}}
	}
	return key, out
}

func (w *walker) diffVariants(path string, l, r *schema.Schema) error {
	lkey, lv := variants(l)
	rkey, rv := variants(r)
	key := lkey
	if key == "" {
		key = rkey
	}

	pairs := make([]int, len(lv))
	taken := make([]bool, len(rv))
	for i := range pairs {
		pairs[i] = -1
	}
	// Identical alternatives pair up first, whatever their position.
	for i, a := range lv {
		for j, b := range rv {
			if taken[j] {
				continue
			}
			same, err := w.equivalent(path, a, b)
			if err != nil {
				return err
			}
			if same {
				pairs[i], taken[j] = j, true
				break
			}
		}
	}
	// The rest pair up in order.
	next := 0
	for i := range lv {
		if pairs[i] >= 0 {
			continue
		}
		for next < len(rv) && taken[next] {
			next++
		}
		if next < len(rv) {
			pairs[i], taken[next] = next, true
		}
	}

	for i, a := range lv {
		b := neverSchema
		if pairs[i] >= 0 {
			b = rv[pairs[i]]
		}
		if err := w.diff(variantPath(path, key, i), a, b); err != nil {
			return err
		}
	}
	for j, b := range rv {
		if taken[j] {
			continue
		}
		if err := w.diff(variantPath(path, key, j), neverSchema, b); err != nil {
			return err
		}
	}
	return nil
}

// equivalent runs a diff of a and b and discards its output.
func (w *walker) equivalent(path string, a, b *schema.Schema) (bool, error) {
	n := len(w.changes)
	err := w.diff(path, a, b)
	same := len(w.changes) == n
	w.changes = w.changes[:n]
	return same, err
}

func (w *walker) diffTypes(path string, l, r *schema.Schema) {
	lt, rt := effectiveTypes(l), effectiveTypes(r)
	names := make(map[string]bool, len(lt)+len(rt))
	for t := range lt {
		names[t] = true
	}
	for t := range rt {
		names[t] = true
	}
	// Unknown type names are compared like the standard ones.
	for _, t := range sortedSet(names) {
		inL, inR := lt[t], rt[t]
		switch {
		case inL && !inR:
			if t == schema.TypeInteger && rt[schema.TypeNumber] {
				continue
			}
			w.emit(path, TypeRemoved{Type: t})
		case inR && !inL:
			if t == schema.TypeInteger && lt[schema.TypeNumber] {
				continue
			}
			w.emit(path, TypeAdded{Type: t})
		}
	}
}

func (w *walker) diffLiterals(path string, l, r *schema.Schema) {
	ll, lok := literals(l)
	rl, rok := literals(r)
	if !lok && !rok {
		return
	}
	for _, k := range sortedLiteralKeys(ll) {
		if _, ok := rl[k]; !ok {
			w.emit(path, ConstRemoved{Value: ll[k]})
		}
	}
	for _, k := range sortedLiteralKeys(rl) {
		if _, ok := ll[k]; !ok {
			w.emit(path, ConstAdded{Value: rl[k]})
		}
	}
}

func (w *walker) diffProperties(path string, l, r *schema.Schema) error {
	if len(l.Properties) == 0 && len(r.Properties) == 0 {
		return nil
	}
	leftOpen := !l.AdditionalProperties.IsNever()
	for _, name := range unionKeys(l.Properties, r.Properties) {
		lp, inL := l.Properties[name]
		rp, inR := r.Properties[name]
		switch {
		case inL && inR:
			if err := w.diff(path+"/"+escapeToken(name), lp, rp); err != nil {
				return err
			}
		case inL:
			w.emit(path, PropertyRemoved{Name: name, LeftAdditionalProperties: leftOpen})
		default:
			w.emit(path, PropertyAdded{Name: name, LeftAdditionalProperties: leftOpen})
		}
	}
	return nil
}

func (w *walker) diffRequired(path string, l, r *schema.Schema) {
	ls, rs := stringSet(l.Required), stringSet(r.Required)
	for _, p := range sortedSet(ls) {
		if !rs[p] {
			w.emit(path, RequiredRemoved{Property: p})
		}
	}
	for _, p := range sortedSet(rs) {
		if !ls[p] {
			w.emit(path, RequiredAdded{Property: p})
		}
	}
}

func (w *walker) diffRanges(path string, l, r *schema.Schema) {
	for _, b := range schema.Bounds {
		lv, inL := l.Bound(b)
		rv, inR := r.Bound(b)
		switch {
		case inL && inR:
			if schema.CompareNumbers(lv, rv) != 0 {
				w.emit(path, RangeChanged{Bound: b, Old: lv, New: rv})
			}
		case inL:
			w.emit(path, RangeRemoved{Range: Range{Bound: b, Value: lv}})
		case inR:
			w.emit(path, RangeAdded{Range: Range{Bound: b, Value: rv}})
		}
	}
}

func (w *walker) diffArrays(path string, l, r *schema.Schema) error {
	li, ri := l.Items, r.Items
	switch {
	case li == nil && ri == nil:
	case li.IsTuple() && ri.IsTuple():
		if len(li.Tuple) != len(ri.Tuple) {
			w.emit(path, TupleChanged{OldLength: len(li.Tuple), NewLength: len(ri.Tuple)})
		}
		n := max(len(li.Tuple), len(ri.Tuple))
		for i := 0; i < n; i++ {
			a := tupleAt(li, i, l.AdditionalItems)
			b := tupleAt(ri, i, r.AdditionalItems)
			if err := w.diff(path+"/"+strconv.Itoa(i), a, b); err != nil {
				return err
			}
		}
	case li.IsTuple():
		w.emit(path, TupleToArray{OldLength: len(li.Tuple)})
		for i, a := range li.Tuple {
			if err := w.diff(path+"/"+strconv.Itoa(i), a, single(ri)); err != nil {
				return err
			}
		}
	case ri.IsTuple():
		w.emit(path, ArrayToTuple{NewLength: len(ri.Tuple)})
		for i, b := range ri.Tuple {
			if err := w.diff(path+"/"+strconv.Itoa(i), single(li), b); err != nil {
				return err
			}
		}
	default:
		if err := w.diff(path+"/*", single(li), single(ri)); err != nil {
			return err
		}
	}

	if err := w.diffSlot(path, "additionalItems", l.AdditionalItems, r.AdditionalItems, alwaysSchema); err != nil {
		return err
	}
	return w.diffSlot(path, "contains", l.Contains, r.Contains, alwaysSchema)
}

func (w *walker) diffObjectSlots(path string, l, r *schema.Schema) error {
	if err := w.diffSlot(path, "additionalProperties", l.AdditionalProperties, r.AdditionalProperties, alwaysSchema); err != nil {
		return err
	}
	for _, p := range unionKeys(l.PatternProperties, r.PatternProperties) {
		if err := w.diffSlot(path, "pattern:"+escapeToken(p), l.PatternProperties[p], r.PatternProperties[p], alwaysSchema); err != nil {
			return err
		}
	}
	return w.diffSlot(path, "propertyNames", l.PropertyNames, r.PropertyNames, alwaysSchema)
}

func (w *walker) diffConditionals(path string, l, r *schema.Schema) error {
	// An absent "not" behaves like "not": false.
	if err := w.diffSlot(path, "not", l.Not, r.Not, neverSchema); err != nil {
		return err
	}
	if err := w.diffSlot(path, "if", l.If, r.If, alwaysSchema); err != nil {
		return err
	}
	if err := w.diffSlot(path, "then", l.Then, r.Then, alwaysSchema); err != nil {
		return err
	}
	return w.diffSlot(path, "else", l.Else, r.Else, alwaysSchema)
}

// diffSlot compares a keyword slot present on at least one side; the missing side takes absent.
func (w *walker) diffSlot(path, name string, l, r, absent *schema.Schema) error {
	if l == nil && r == nil {
		return nil
	}
	if l == nil {
		l = absent
	}
	if r == nil {
		r = absent
	}
	return w.diff(path+"/<"+name+">", l, r)
}

func single(items *schema.Items) *schema.Schema {
	if items == nil || items.Schema == nil {
		return alwaysSchema
	}
	return items.Schema
}

func tupleAt(items *schema.Items, i int, additional *schema.Schema) *schema.Schema {
	if i < len(items.Tuple) {
		return items.Tuple[i]
	}
	if additional != nil {
		return additional
	}
	return alwaysSchema
}

func variantPath(path, key string, i int) string {
	return path + "/<" + key + ":" + strconv.Itoa(i) + ">"
}

// escapeToken escapes a property name as a JSON Pointer reference token.
func escapeToken(s string) string {
	s = strings.ReplaceAll(s, "~", "~0")
	return strings.ReplaceAll(s, "/", "~1")
}

func unionKeys(a, b map[string]*schema.Schema) []string {
	set := make(map[string]bool, len(a)+len(b))
	for k := range a {
		set[k] = true
	}
	for k := range b {
		set[k] = true
	}
	return sortedSet(set)
}

func stringSet(list []string) map[string]bool {
	set := make(map[string]bool, len(list))
	for _, s := range list {
		set[s] = true
	}
	return set
}

func sortedSet(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
