package graph

// ReachabilitySet holds the derived neighbourhood of one page.
type ReachabilitySet struct {
	// DirectPrevious are the pages whose next paths contain this page.
	DirectPrevious *PathSet

	// Siblings is the union of the next paths of every direct previous page.
	// It contains the page itself whenever the page has a predecessor.
	Siblings *PathSet

	// AllPossiblePrevious is the transitive closure of DirectPrevious.
	AllPossiblePrevious *PathSet

	// AllPossiblePreviousDirectNext is the union of the next paths of every
	// page in AllPossiblePrevious.
	AllPossiblePreviousDirectNext *PathSet

	// AllPossibleAfter is the transitive closure of the next paths.
	AllPossibleAfter *PathSet

	// AllPossibleNextOfSiblings is the union of AllPossibleAfter over every
	// sibling.
	AllPossibleNextOfSiblings *PathSet
}

// Reachability maps page paths to their reachability sets.
type Reachability map[string]*ReachabilitySet

// ComputeReachability computes the reachability set of every page in g.
func ComputeReachability(g *Graph) Reachability {
	previous := make(map[string]*PathSet, g.Len())
	for _, p := range g.Order {
		previous[p] = NewPathSet()
	}

	// Step 1: direct previous.
	for _, q := range g.Order {
		for _, p := range g.Next(q) {
			previous[p].Add(q)
		}
	}

	sets := make(Reachability, g.Len())
	for _, p := range g.Order {
		sets[p] = &ReachabilitySet{DirectPrevious: previous[p]}
	}

	prevEdges := func(p string) []string { return previous[p].order }

	for _, p := range g.Order {
		rs := sets[p]

		// Step 2: siblings.
		rs.Siblings = unionOfNext(g, rs.DirectPrevious)

		// Steps 3 and 4: ancestor and descendant closures.
		rs.AllPossiblePrevious = closure(p, prevEdges, NewPathSet())
		rs.AllPossibleAfter = closure(p, g.Next, NewPathSet())

		// Step 5, first half.
		rs.AllPossiblePreviousDirectNext = unionOfNext(g, rs.AllPossiblePrevious)
	}

	// Step 5, second half. Needs every AllPossibleAfter to be complete.
	for _, p := range g.Order {
		rs := sets[p]
		rs.AllPossibleNextOfSiblings = NewPathSet()
		for _, s := range rs.Siblings.order {
			rs.AllPossibleNextOfSiblings.AddAll(sets[s].AllPossibleAfter)
		}
	}

	return sets
}

// closure adds to acc every page reachable from p through edges, excluding
// p itself unless p lies on a cycle. A page already in acc is never expanded
// again, so the walk terminates on cyclic graphs.
func closure(p string, edges func(string) []string, acc *PathSet) *PathSet {
	stack := append([]string(nil), edges(p)...)
	for len(stack) > 0 {
		q := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !acc.Add(q) {
			continue
		}
		for _, r := range edges(q) {
			if !acc.Contains(r) {
				stack = append(stack, r)
			}
		}
	}
	return acc
}

// unionOfNext returns the union of the next paths of every page in pages.
func unionOfNext(g *Graph, pages *PathSet) *PathSet {
	out := NewPathSet()
	for _, q := range pages.order {
		for _, n := range g.Next(q) {
			out.Add(n)
		}
	}
	return out
}

// OtherSiblings returns the siblings of p, excluding p itself.
func (r Reachability) OtherSiblings(p string) []string {
	rs, ok := r[p]
	if !ok {
		return nil
	}
	return rs.Siblings.Without(p)
}
