package graph

// PathSet is a set of page paths that remembers insertion order.
// Ordered iteration keeps every derived structure, and therefore every
// printed document, stable between runs.
type PathSet struct {
	index map[string]struct{}
	order []string
}

// NewPathSet returns a set holding the given paths.
func NewPathSet(paths ...string) *PathSet {
	s := &PathSet{index: make(map[string]struct{}, len(paths))}
	for _, p := range paths {
		s.Add(p)
	}
	return s
}

// Add inserts p and reports whether it was not already present.
func (s *PathSet) Add(p string) bool {
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	if _, ok := s.index[p]; ok {
		return false
	}
	s.index[p] = struct{}{}
	s.order = append(s.order, p)
	return true
}

// AddAll inserts every path of other.
func (s *PathSet) AddAll(other *PathSet) {
	if other == nil {
		return
	}
	for _, p := range other.order {
		s.Add(p)
	}
}

// Contains reports whether p is in the set.
func (s *PathSet) Contains(p string) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[p]
	return ok
}

// Len returns the number of paths in the set.
func (s *PathSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Slice returns the paths in insertion order. The caller may modify it.
func (s *PathSet) Slice() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Without returns the paths in insertion order, skipping p.
func (s *PathSet) Without(p string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.order))
	for _, q := range s.order {
		if q != p {
			out = append(out, q)
		}
	}
	return out
}
