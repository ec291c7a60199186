package rpcdiff

// Summary is the result of comparing two documents.
type Summary struct {
	// Equivalent lists common methods whose descriptors all compare equal.
	Equivalent []string `json:"equivalent,omitempty"`
	// Different maps each incompatible common method to its changes.
	Different map[string]*MethodChange `json:"different,omitempty"`
	// Left lists methods only the left document declares.
	Left []string `json:"left,omitempty"`
	// Right lists methods only the right document declares.
	Right []string `json:"right,omitempty"`
}

// Assemble builds a Summary from a partition and the verdict for each common
// name. A nil verdict means the method is equivalent.
func Assemble(v Venn, verdicts map[string]*MethodChange) *Summary {
	s := &Summary{Left: v.Left, Right: v.Right}
	for _, name := range v.Common {
		mc := verdicts[name]
		if mc == nil {
			s.Equivalent = append(s.Equivalent, name)
			continue
		}
		if s.Different == nil {
			s.Different = map[string]*MethodChange{}
		}
		s.Different[name] = mc
	}
	return s
}

// Compatible reports whether no method differs and neither side has exclusive methods.
func (s *Summary) Compatible() bool {
	return len(s.Different) == 0 && len(s.Left) == 0 && len(s.Right) == 0
}
