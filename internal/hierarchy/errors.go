package hierarchy

import "errors"

var (
	// ErrRecursionLimit is returned when numbering a form nests deeper than
	// the configured limit. This only happens for pathological forms and is
	// treated as fatal.
	ErrRecursionLimit = errors.New("heading numbering exceeded maximum traversal depth")

	// ErrInvalidHeading is returned when a heading number is not a sequence of
	// dot-separated non-negative integers.
	ErrInvalidHeading = errors.New("invalid heading number")

	// ErrUnknownStart is returned when the start page is not in the graph.
	ErrUnknownStart = errors.New("start page not in graph")
)
