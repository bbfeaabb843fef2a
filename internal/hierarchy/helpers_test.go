package hierarchy

import (
	"testing"

	"github.com/nao1215/formprint/internal/graph"
	"github.com/nao1215/formprint/internal/model"
)

// fixture is a form prepared up to the numbering stage.
type fixture struct {
	pages []model.Page
	graph *graph.Graph
	sets  graph.Reachability
	index Index
}

// newFixture builds pages from "path, next..." specs, then the graph,
// reachability sets and depths, failing the test on any error.
func newFixture(t *testing.T, start string, edges ...[]string) *fixture {
	t.Helper()

	pages := make([]model.Page, 0, len(edges))
	for _, e := range edges {
		page := model.Page{Path: e[0], Title: "Title of " + e[0]}
		for _, next := range e[1:] {
			page.Next = append(page.Next, model.Next{Path: next})
		}
		pages = append(pages, page)
	}

	g, err := graph.Build(pages, start)
	if err != nil {
		t.Fatalf("failed to build graph: %v", err)
	}
	sets := graph.ComputeReachability(g)
	idx, err := Level(g, sets, start)
	if err != nil {
		t.Fatalf("failed to level graph: %v", err)
	}

	return &fixture{pages: pages, graph: g, sets: sets, index: idx}
}

// number runs the numberer with default options and prefix "1".
func (f *fixture) number(t *testing.T, opts ...NumbererOption) *Result {
	t.Helper()

	opts = append([]NumbererOption{WithTitles(f.pages)}, opts...)
	res, err := NewNumberer(f.graph, f.sets, f.index, opts...).Number(f.graph.Start, "1")
	if err != nil {
		t.Fatalf("failed to number form: %v", err)
	}
	return res
}

// assertHeadings checks that exactly the expected paths were numbered with
// the expected heading numbers.
func assertHeadings(t *testing.T, got model.HeaderIndex, want map[string]string) {
	t.Helper()

	if len(got) != len(want) {
		t.Errorf("expected %d headings, got %d: %v", len(want), len(got), got)
	}
	for path, number := range want {
		entry, ok := got[path]
		if !ok {
			t.Errorf("page %s was not numbered", path)
			continue
		}
		if entry.HeadingNumber != number {
			t.Errorf("page %s: got heading %q, want %q", path, entry.HeadingNumber, number)
		}
	}
}

// Common page graphs used across tests.
var (
	// linearForm is start -> b -> c -> summary.
	linearForm = [][]string{
		{"/start", "/b"},
		{"/b", "/c"},
		{"/c", "/summary"},
		{"/summary"},
	}

	// rejoinForm is start -> a, a -> {b, c}, b -> d, c -> d, d -> summary.
	rejoinForm = [][]string{
		{"/start", "/a"},
		{"/a", "/b", "/c"},
		{"/b", "/d"},
		{"/c", "/d"},
		{"/d", "/summary"},
		{"/summary"},
	}

	// partialRejoinForm has a three-way branch where only two branches
	// rejoin before the common end point y.
	partialRejoinForm = [][]string{
		{"/start", "/a"},
		{"/a", "/b", "/c", "/d"},
		{"/b", "/x"},
		{"/c", "/x"},
		{"/d", "/y"},
		{"/x", "/y"},
		{"/y", "/summary"},
		{"/summary"},
	}

	// cyclicForm is a -> b -> a.
	cyclicForm = [][]string{
		{"/a", "/b"},
		{"/b", "/a"},
	}
)
