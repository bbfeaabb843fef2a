package graph

import (
	"fmt"

	"github.com/nao1215/formprint/internal/model"
)

// Node is one page in the page graph.
type Node struct {
	// Path is the page path.
	Path string

	// NextPaths are the destination paths of the page's next edges, in edge
	// order and without duplicates.
	NextPaths []string
}

// Graph is the adjacency model of a form's pages.
type Graph struct {
	// Start is the path of the start page.
	Start string

	// Nodes maps page paths to nodes.
	Nodes map[string]*Node

	// Order lists page paths in input order.
	Order []string
}

// Build creates the page graph for pages, starting at start.
//
// Every next edge must point at a page in the list; the first dangling edge
// found, a duplicate page path, or a start path that matches no page is
// reported as a *MalformedGraphError. Cycles are accepted.
func Build(pages []model.Page, start string) (*Graph, error) {
	if len(pages) == 0 {
		return nil, &MalformedGraphError{Msg: "no pages", Err: ErrEmptyForm}
	}

	g := &Graph{
		Start: start,
		Nodes: make(map[string]*Node, len(pages)),
		Order: make([]string, 0, len(pages)),
	}

	for _, page := range pages {
		if _, dup := g.Nodes[page.Path]; dup {
			return nil, &MalformedGraphError{Path: page.Path, Msg: "duplicate page path"}
		}

		next := NewPathSet()
		for _, edge := range page.Next {
			next.Add(edge.Path)
		}

		g.Nodes[page.Path] = &Node{Path: page.Path, NextPaths: next.Slice()}
		g.Order = append(g.Order, page.Path)
	}

	if _, ok := g.Nodes[start]; !ok {
		return nil, &MalformedGraphError{Msg: fmt.Sprintf("start page %q not found", start)}
	}

	for _, path := range g.Order {
		for _, next := range g.Nodes[path].NextPaths {
			if _, ok := g.Nodes[next]; !ok {
				return nil, &MalformedGraphError{
					Path: path,
					Msg:  fmt.Sprintf("next edge references unknown page %q", next),
				}
			}
		}
	}

	return g, nil
}

// Node returns the node for path.
func (g *Graph) Node(path string) (*Node, bool) {
	n, ok := g.Nodes[path]
	return n, ok
}

// Next returns the next paths of path, or nil for an unknown path.
func (g *Graph) Next(path string) []string {
	if n, ok := g.Nodes[path]; ok {
		return n.NextPaths
	}
	return nil
}

// Len returns the number of pages in the graph.
func (g *Graph) Len() int {
	return len(g.Order)
}

// Reachable returns every page reachable from the start page, including the
// start page itself, in depth-first discovery order.
func (g *Graph) Reachable() *PathSet {
	seen := NewPathSet()
	stack := []string{g.Start}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !seen.Add(p) {
			continue
		}
		next := g.Next(p)
		for i := len(next) - 1; i >= 0; i-- {
			if !seen.Contains(next[i]) {
				stack = append(stack, next[i])
			}
		}
	}
	return seen
}
