package hierarchy

import (
	"fmt"

	"github.com/nao1215/formprint/internal/graph"
)

// Index maps page paths to their nesting depth. The start page has depth 1.
type Index map[string]int

// Level assigns a nesting depth to every page reachable from start.
//
// Each page's depth is the minimum over every walk from the start page. A
// page first reached through a long branch and later through a short one
// takes the shallower value.
//
// The walk re-expands a page only when its depth was newly set or lowered.
// Depths only ever decrease and are bounded below by 1, so the walk
// terminates on cyclic forms and yields the same minimum as re-expanding on
// every visit.
func Level(g *graph.Graph, sets graph.Reachability, start string) (Index, error) {
	if _, ok := g.Node(start); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStart, start)
	}

	type visit struct {
		path  string
		depth int
	}

	idx := make(Index, g.Len())
	stack := []visit{{path: start, depth: 1}}

	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if cur, seen := idx[v.path]; seen && cur <= v.depth {
			continue
		}
		idx[v.path] = v.depth

		next := g.Next(v.path)
		for i := len(next) - 1; i >= 0; i-- {
			stack = append(stack, visit{
				path:  next[i],
				depth: nextDepth(g, sets, start, v.path, v.depth, next[i]),
			})
		}
	}

	return idx, nil
}

// nextDepth returns the candidate depth of next when reached from current at
// depth d. The first matching rule wins.
func nextDepth(g *graph.Graph, sets graph.Reachability, start, current string, d int, next string) int {
	rs := sets[current]

	switch {
	// Branching always descends, and so does leaving the start page.
	case len(g.Next(current)) > 1 || current == start:
		return d + 1

	// The single successor is also reachable straight from a sibling branch.
	case rs.Siblings.Contains(next):
		return up(d)

	// It rejoins a branch point further back.
	case rs.AllPossiblePreviousDirectNext.Contains(next):
		return up(d)

	// Simple linear continuation.
	case rs.Siblings.Len() <= 1 || sets[next].DirectPrevious.Len() == 1:
		return d

	// Common reconvergence point of the whole branch family.
	case reachedFromEveryOtherSibling(sets, current, next):
		return up(d)
	}

	// Reachable from some but not all siblings: stay at the same depth.
	return d
}

// reachedFromEveryOtherSibling reports whether next is a descendant of every
// sibling of current other than current itself.
func reachedFromEveryOtherSibling(sets graph.Reachability, current, next string) bool {
	others := sets.OtherSiblings(current)
	if len(others) == 0 {
		return false
	}
	for _, s := range others {
		if !sets[s].AllPossibleAfter.Contains(next) {
			return false
		}
	}
	return true
}

// up returns the depth one level shallower than d, never above the start page.
func up(d int) int {
	if d <= 1 {
		return 1
	}
	return d - 1
}
