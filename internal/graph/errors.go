package graph

import (
	"errors"
	"fmt"
)

// Graph construction errors.
var (
	// ErrMalformedGraph is the sentinel for every structural problem in a form
	// definition: missing start page, dangling next edges, duplicate paths.
	// These are bugs in the form definition and are never retried.
	ErrMalformedGraph = errors.New("malformed page graph")

	// ErrEmptyForm is returned when a form has no pages at all.
	ErrEmptyForm = errors.New("form has no pages")
)

// MalformedGraphError describes a structural problem in a form definition.
// It unwraps to ErrMalformedGraph, and to Err when one is set.
type MalformedGraphError struct {
	// Path is the page the problem was found on, if any.
	Path string

	// Msg is a human-readable description.
	Msg string

	// Err is an optional more specific cause.
	Err error
}

func (e *MalformedGraphError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: page %q: %s", ErrMalformedGraph, e.Path, e.Msg)
	}
	return fmt.Sprintf("%s: %s", ErrMalformedGraph, e.Msg)
}

// Unwrap returns the sentinel and the optional cause.
func (e *MalformedGraphError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrMalformedGraph, e.Err}
	}
	return []error{ErrMalformedGraph}
}
