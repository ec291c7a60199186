package rpcdiff

import "sort"

// Venn splits two name sets into names only on the left, names on both sides
// and names only on the right. Each list is sorted.
type Venn struct {
	Left   []string
	Common []string
	Right  []string
}

// Partition computes the Venn split of the keys of left and right.
func Partition[L, R any](left map[string]L, right map[string]R) Venn {
	var v Venn
	for name := range left {
		if _, ok := right[name]; ok {
			v.Common = append(v.Common, name)
		} else {
			v.Left = append(v.Left, name)
		}
	}
	for name := range right {
		if _, ok := left[name]; !ok {
			v.Right = append(v.Right, name)
		}
	}
	sort.Strings(v.Left)
	sort.Strings(v.Common)
	sort.Strings(v.Right)
	return v
}
