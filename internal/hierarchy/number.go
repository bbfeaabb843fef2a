package hierarchy

import (
	"fmt"
	"strconv"

	"github.com/nao1215/formprint/internal/graph"
	"github.com/nao1215/formprint/internal/model"
)

// DefaultMaxDepth bounds the numbering traversal. Real forms nest a few
// levels deep; anything near this limit is a broken definition.
const DefaultMaxDepth = 10000

// Numberer assigns dotted heading numbers to the pages of one form.
// A Numberer is immutable once built; each call to Number uses fresh state.
type Numberer struct {
	graph       *graph.Graph
	sets        graph.Reachability
	index       Index
	titles      map[string]string
	summaryPath string
	maxDepth    int
}

// NumbererOption configures a Numberer.
type NumbererOption func(*Numberer)

// WithSummaryPath sets the synthetic summary page excluded from numbering.
func WithSummaryPath(path string) NumbererOption {
	return func(n *Numberer) {
		n.summaryPath = path
	}
}

// WithMaxDepth bounds the traversal depth. Values below 1 are ignored.
func WithMaxDepth(depth int) NumbererOption {
	return func(n *Numberer) {
		if depth > 0 {
			n.maxDepth = depth
		}
	}
}

// WithTitles supplies page titles recorded with each heading.
// Leading designer numbering is stripped.
func WithTitles(pages []model.Page) NumbererOption {
	return func(n *Numberer) {
		for _, p := range pages {
			n.titles[p.Path] = model.StripLeadingNumber(p.Title)
		}
	}
}

// NewNumberer creates a Numberer for a graph, its reachability sets and the
// depths computed by Level.
func NewNumberer(g *graph.Graph, sets graph.Reachability, idx Index, opts ...NumbererOption) *Numberer {
	n := &Numberer{
		graph:       g,
		sets:        sets,
		index:       idx,
		titles:      make(map[string]string),
		summaryPath: model.DefaultSummaryPath,
		maxDepth:    DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Result is the outcome of numbering a form.
type Result struct {
	// Headers maps every numbered page to its heading.
	Headers model.HeaderIndex

	// Forced lists reachable pages whose rejoin deferral never resolved
	// during the walk and were numbered from their first numbered predecessor.
	Forced []string

	// Unreachable lists pages that cannot be reached from the start page.
	// They are numbered as top-level headings after everything else.
	Unreachable []string
}

// visit is one pending numbering call.
type visit struct {
	parent       string
	path         string
	parentNumber string
	parentLevel  int
	siblingIndex int
	force        bool
}

// numbering holds the state of a single Number call.
type numbering struct {
	*Numberer
	start     string
	prefix    string
	prefixLen int
	pending   map[string]bool
	headers   model.HeaderIndex

	// lastUsed maps a heading to the highest final component assigned
	// directly below it.
	lastUsed map[string]int
}

// Number assigns heading numbers to every page except the summary page,
// beginning at start under the given prefix ("1" numbers the start page 1.1).
//
// A page is numbered exactly once. When a page sits shallower than the page
// that leads to it and one of its siblings or direct predecessors is still
// unnumbered, it is skipped for now; the last branch to reach it numbers it.
func (n *Numberer) Number(start, prefix string) (*Result, error) {
	if _, ok := n.graph.Node(start); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStart, start)
	}
	if !ValidHeading(prefix) {
		return nil, fmt.Errorf("%w: prefix %q", ErrInvalidHeading, prefix)
	}

	st := &numbering{
		Numberer:  n,
		start:     start,
		prefix:    prefix,
		prefixLen: HeadingDepth(prefix),
		pending:   make(map[string]bool, n.graph.Len()),
		headers:   make(model.HeaderIndex, n.graph.Len()),
		lastUsed:  make(map[string]int),
	}
	for _, p := range n.graph.Order {
		if p != n.summaryPath {
			st.pending[p] = true
		}
	}

	if err := st.visit(visit{path: start, parentNumber: prefix}, 0); err != nil {
		return nil, err
	}

	result := &Result{Headers: st.headers}

	forced, err := st.forceDeferred()
	if err != nil {
		return nil, err
	}
	result.Forced = forced

	unreachable, err := st.appendUnreachable()
	if err != nil {
		return nil, err
	}
	result.Unreachable = unreachable

	return result, nil
}

// visit numbers v.path and then its successors, depth first.
func (st *numbering) visit(v visit, depth int) error {
	if depth > st.maxDepth {
		return fmt.Errorf("%w (%d) at page %q", ErrRecursionLimit, st.maxDepth, v.path)
	}
	if !st.pending[v.path] {
		return nil
	}

	level, reachable := st.index[v.path]
	if !reachable {
		level = v.parentLevel
	}
	diff := level - v.parentLevel

	if diff < 0 && !v.force && st.waitingOnOthers(v.path) {
		return nil
	}

	base := v.parentNumber
	switch {
	case diff == 0 || (v.parent != "" && v.parent == st.start):
		// Flat, or a direct successor of the start page.
	case diff < 0:
		base = st.drop(base, -diff)
	default:
		base = base + "." + strconv.Itoa(v.siblingIndex)
	}

	number, err := IncrementLowest(base)
	if err != nil {
		return err
	}
	number = st.claim(number)

	st.headers[v.path] = model.PrintEntry{
		Path:          v.path,
		HeadingNumber: number,
		IsFormHeading: v.path == st.start,
		Title:         st.titles[v.path],
	}
	delete(st.pending, v.path)

	for i, next := range st.graph.Next(v.path) {
		err := st.visit(visit{
			parent:       v.path,
			path:         next,
			parentNumber: number,
			parentLevel:  level,
			siblingIndex: i,
		}, depth+1)
		if err != nil {
			return err
		}
	}
	return nil
}

// waitingOnOthers reports whether any sibling or direct predecessor of path,
// other than path itself, is still unnumbered.
func (st *numbering) waitingOnOthers(path string) bool {
	rs, ok := st.sets[path]
	if !ok {
		return false
	}
	for _, s := range rs.Siblings.Without(path) {
		if st.pending[s] {
			return true
		}
	}
	for _, p := range rs.DirectPrevious.Without(path) {
		if st.pending[p] {
			return true
		}
	}
	return false
}

// drop removes up to levels trailing components from heading, never
// removing the prefix or the component directly below it.
func (st *numbering) drop(heading string, levels int) string {
	for i := 0; i < levels && HeadingDepth(heading) > st.prefixLen+1; i++ {
		heading = DropLowest(heading)
	}
	return heading
}

// forceDeferred numbers reachable pages left pending by the walk. Each is
// numbered from its first numbered direct predecessor, ignoring deferral,
// and the walk continues normally from there.
func (st *numbering) forceDeferred() ([]string, error) {
	var forced []string
	for progress := true; progress; {
		progress = false
		for _, p := range st.graph.Order {
			if !st.pending[p] {
				continue
			}
			if _, reachable := st.index[p]; !reachable {
				continue
			}
			parent, ok := st.numberedPredecessor(p)
			if !ok {
				continue
			}

			err := st.visit(visit{
				parent:       parent,
				path:         p,
				parentNumber: st.headers[parent].HeadingNumber,
				parentLevel:  st.index[parent],
				siblingIndex: indexOf(st.graph.Next(parent), p),
				force:        true,
			}, 0)
			if err != nil {
				return nil, err
			}
			forced = append(forced, p)
			progress = true
		}
	}
	return forced, nil
}

// numberedPredecessor returns the first direct predecessor of p that has a
// heading and a depth.
func (st *numbering) numberedPredecessor(p string) (string, bool) {
	rs, ok := st.sets[p]
	if !ok {
		return "", false
	}
	for _, q := range rs.DirectPrevious.Slice() {
		if _, numbered := st.headers[q]; !numbered {
			continue
		}
		if _, reachable := st.index[q]; reachable {
			return q, true
		}
	}
	return "", false
}

// appendUnreachable numbers the pages still pending after the walk, which
// are those that cannot be reached from the start page, as top-level
// headings after the last top-level heading, in input order.
func (st *numbering) appendUnreachable() ([]string, error) {
	var unreachable []string
	for _, p := range st.graph.Order {
		if !st.pending[p] {
			continue
		}

		level, reachable := st.index[p]
		if !reachable {
			level = topLevel
		}
		err := st.visit(visit{
			path:         p,
			parentNumber: st.lastTopLevel(),
			parentLevel:  level,
			force:        true,
		}, 0)
		if err != nil {
			return nil, err
		}
		unreachable = append(unreachable, p)
	}
	return unreachable, nil
}

// topLevel is the depth of the start page's direct successors, which share
// the start page's heading level.
const topLevel = 2

// lastTopLevel returns the highest heading directly below the prefix, or
// "<prefix>.0" when nothing has been numbered yet.
func (st *numbering) lastTopLevel() string {
	return st.prefix + "." + strconv.Itoa(st.lastUsed[st.prefix])
}

// claim reserves heading, moving it past any number already assigned below
// the same parent heading. Branches that continue at a sibling's level can
// otherwise compute the same number twice.
func (st *numbering) claim(heading string) string {
	parent := DropLowest(heading)
	parts, err := ParseHeading(heading)
	if err != nil {
		return heading
	}

	last := parts[len(parts)-1]
	if used, ok := st.lastUsed[parent]; ok && last <= used {
		last = used + 1
	}
	st.lastUsed[parent] = last

	if parent == "" {
		return strconv.Itoa(last)
	}
	return parent + "." + strconv.Itoa(last)
}

func indexOf(paths []string, p string) int {
	for i, q := range paths {
		if q == p {
			return i
		}
	}
	return 0
}
